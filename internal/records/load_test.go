package records

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ChizhovVadim/nettrainer/internal/domain"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFeaturesShape(t *testing.T) {
	var data = make([]byte, 100)
	for i := range data {
		data[i] = byte(i - 50)
	}

	m, err := DecodeFeatures(data, 4)
	require.NoError(t, err)
	assert.Equal(t, 25, m.Rows)
	assert.Equal(t, 4, m.Cols)
	assert.Equal(t, []int8{-50, -49, -48, -47}, m.Row(0))
	assert.Equal(t, []int8{46, 47, 48, 49}, m.Row(24))

	_, err = DecodeFeatures(data, 7)
	assert.True(t, errors.Is(err, domain.ErrMalformedRecordFile), "%v", err)

	_, err = DecodeFeatures(data, 0)
	assert.True(t, errors.Is(err, domain.ErrMalformedRecordFile), "%v", err)
}

func TestDecodeFeaturesAllWidths(t *testing.T) {
	for rows := 0; rows <= 6; rows++ {
		for cols := 1; cols <= 9; cols++ {
			m, err := DecodeFeatures(make([]byte, rows*cols), cols)
			require.NoError(t, err)
			assert.Equal(t, rows, m.Rows)
			assert.Equal(t, cols, m.Cols)
			assert.Len(t, m.Data, rows*cols)
		}
	}
}

func TestDecodeLabels(t *testing.T) {
	var labels = make(LabelVector, 50)
	for i := range labels {
		labels[i] = float32(i) / 49
	}
	var buf bytes.Buffer
	require.NoError(t, WriteLabels(&buf, labels))
	require.Equal(t, 200, buf.Len())

	decoded, err := ReadLabels(&buf)
	require.NoError(t, err)
	assert.Equal(t, labels, decoded)

	_, err = DecodeLabels(make([]byte, 201))
	assert.True(t, errors.Is(err, domain.ErrMalformedRecordFile), "%v", err)
}

func TestFloat32Rows(t *testing.T) {
	m, err := ReadFeatures(bytes.NewReader([]byte{1, 0, 0xff, 2, 3, 4}), 3)
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 3, 4}, m.Float32Rows(1, 2))
	assert.Equal(t, []float32{1, 0, -1, 2, 3, 4}, m.Float32Rows(0, 2))
}

func TestLoadPairs(t *testing.T) {
	var dir = t.TempDir()
	var cfg = domain.NewNetConfig(dir, "CheckersMid")

	var m = NewFeatureMatrix(50, 4)
	for i := range m.Data {
		m.Data[i] = int8(i % 3)
	}
	var labels = make(LabelVector, 50)
	for i := range labels {
		labels[i] = 0.5
	}
	require.NoError(t, SaveFeatures(cfg.DataPath, m))
	require.NoError(t, SaveLabels(cfg.LabelPath, labels))

	features, loaded, err := Load(cfg, 4)
	require.NoError(t, err)
	assert.Equal(t, m, features)
	assert.Equal(t, labels, loaded)
}

func TestLoadRowMismatch(t *testing.T) {
	var dir = t.TempDir()
	var cfg = domain.NewNetConfig(dir, "CheckersEnd")

	require.NoError(t, SaveFeatures(cfg.DataPath, NewFeatureMatrix(49, 4)))
	require.NoError(t, SaveLabels(cfg.LabelPath, make(LabelVector, 50)))

	_, _, err := Load(cfg, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedRecordFile), "%v", err)
}

func TestLoadMissingFile(t *testing.T) {
	var dir = t.TempDir()
	var cfg = domain.NewNetConfig(dir, "Missing")
	require.NoError(t, os.WriteFile(cfg.LabelPath, nil, 0o644))

	_, _, err := Load(cfg, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFileNotFound), "%v", err)
	assert.False(t, errors.Is(err, domain.ErrMalformedRecordFile))

	_, err = LoadLabels(filepath.Join(dir, "none", "Labels.dat"))
	assert.True(t, errors.Is(err, domain.ErrFileNotFound), "%v", err)
}

func TestLoadFeaturesBadWidthNamesFile(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "Data.dat")
	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0o644))

	m, err := LoadFeatures(path, 4)
	require.NoError(t, err)
	assert.Equal(t, 25, m.Rows)

	_, err = LoadFeatures(path, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.True(t, errors.Is(err, domain.ErrMalformedRecordFile))
}
