package records

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/ChizhovVadim/nettrainer/internal/domain"
)

func WriteFeatures(w io.Writer, m FeatureMatrix) error {
	var buf = make([]byte, len(m.Data))
	for i, v := range m.Data {
		buf[i] = byte(v)
	}
	_, err := w.Write(buf)
	return err
}

func WriteLabels(w io.Writer, labels LabelVector) error {
	var bw = bufio.NewWriter(w)
	buf := make([]byte, labelSize)
	for _, label := range labels {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(label))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func SaveFeatures(path string, m FeatureMatrix) error {
	return saveFile(path, func(w io.Writer) error {
		return WriteFeatures(w, m)
	})
}

func SaveLabels(path string, labels LabelVector) error {
	return saveFile(path, func(w io.Writer) error {
		return WriteLabels(w, labels)
	})
}

func saveFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return domain.FileError(path, err)
	}
	defer f.Close()

	err = write(f)
	if err != nil {
		return domain.FileError(path, err)
	}
	if err = f.Close(); err != nil {
		return domain.FileError(path, err)
	}
	return nil
}
