package records

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/ChizhovVadim/nettrainer/internal/domain"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const labelSize = 4

// Load reads the feature matrix and the labels of one net.
// Both files are read concurrently; the row counts must match.
func Load(cfg domain.NetConfig, cols int) (FeatureMatrix, LabelVector, error) {
	var features FeatureMatrix
	var labels LabelVector

	var g errgroup.Group
	g.Go(func() error {
		var err error
		features, err = LoadFeatures(cfg.DataPath, cols)
		return err
	})
	g.Go(func() error {
		var err error
		labels, err = LoadLabels(cfg.LabelPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return FeatureMatrix{}, nil, err
	}

	if features.Rows != len(labels) {
		return FeatureMatrix{}, nil, domain.Malformed(cfg.NetName,
			"%v rows in %v but %v labels in %v",
			features.Rows, cfg.DataPath, len(labels), cfg.LabelPath)
	}
	return features, labels, nil
}

func LoadFeatures(path string, cols int) (FeatureMatrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FeatureMatrix{}, domain.FileError(path, err)
	}
	m, err := DecodeFeatures(data, cols)
	if err != nil {
		return FeatureMatrix{}, errors.WithMessage(err, path)
	}
	return m, nil
}

func LoadLabels(path string) (LabelVector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.FileError(path, err)
	}
	labels, err := DecodeLabels(data)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return labels, nil
}

func ReadFeatures(r io.Reader, cols int) (FeatureMatrix, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return FeatureMatrix{}, domain.FileError("feature matrix", err)
	}
	return DecodeFeatures(buf.Bytes(), cols)
}

func ReadLabels(r io.Reader) (LabelVector, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, domain.FileError("label vector", err)
	}
	return DecodeLabels(buf.Bytes())
}

// DecodeFeatures reshapes raw int8 bytes into rows of cols elements.
func DecodeFeatures(data []byte, cols int) (FeatureMatrix, error) {
	if cols <= 0 {
		return FeatureMatrix{}, domain.Malformed("feature matrix", "row width %v", cols)
	}
	if len(data)%cols != 0 {
		return FeatureMatrix{}, domain.Malformed("feature matrix",
			"%v bytes is not a multiple of row width %v", len(data), cols)
	}
	var m = NewFeatureMatrix(len(data)/cols, cols)
	for i, b := range data {
		m.Data[i] = int8(b)
	}
	return m, nil
}

// DecodeLabels reads little-endian float32 values.
func DecodeLabels(data []byte) (LabelVector, error) {
	if len(data)%labelSize != 0 {
		return nil, domain.Malformed("label vector",
			"%v bytes is not a multiple of %v", len(data), labelSize)
	}
	var labels = make(LabelVector, len(data)/labelSize)
	for i := range labels {
		labels[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*labelSize:]))
	}
	return labels, nil
}
