package weights

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ChizhovVadim/nettrainer/internal/domain"
)

// WriteText writes every layer as a "========Layer i========" section
// followed by all of its arrays, nothing elided.
func WriteText(w io.Writer, layers []Layer) error {
	var bw = bufio.NewWriter(w)
	for layerIndex := range layers {
		fmt.Fprintf(bw, "\n\n========Layer %d========\n", layerIndex)
		for i := range layers[layerIndex].Arrays {
			bw.WriteString(FormatArray(&layers[layerIndex].Arrays[i]))
		}
	}
	return bw.Flush()
}

// SaveText creates or overwrites path with the text dump.
func SaveText(path string, layers []Layer) error {
	f, err := os.Create(path)
	if err != nil {
		return domain.FileError(path, err)
	}
	defer f.Close()

	if err = WriteText(f, layers); err != nil {
		return domain.FileError(path, err)
	}
	if err = f.Close(); err != nil {
		return domain.FileError(path, err)
	}
	return nil
}

func Export(path string, model Exporter) error {
	return SaveText(path, model.Layers())
}
