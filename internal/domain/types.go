package domain

import "path/filepath"

// NetConfig holds the files used to train one evaluation net.
type NetConfig struct {
	NetName    string
	DataPath   string
	LabelPath  string
	StructPath string
	OutputPath string
	BinaryPath string
}

// NewNetConfig derives the file names of net name from the naming convention
// <name>Data.dat, <name>Labels.dat, <name>Struct.txt, <name>Weights.txt.
func NewNetConfig(folder, netName string) NetConfig {
	var prefix = filepath.Join(folder, netName)
	return NetConfig{
		NetName:    netName,
		DataPath:   prefix + "Data.dat",
		LabelPath:  prefix + "Labels.dat",
		StructPath: prefix + "Struct.txt",
		OutputPath: prefix + "Weights.txt",
		BinaryPath: prefix + "Weights.bin",
	}
}
