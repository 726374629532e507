package netshape

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ChizhovVadim/nettrainer/internal/domain"
	"github.com/pkg/errors"
)

// Shape describes a dense network: input width and the output width of every layer.
// Hidden layers use ReLU, the last layer uses sigmoid.
type Shape struct {
	Inputs int
	Layers []int
}

// Default is the checkers net: 32 king squares and 28 checker squares per side plus side to move.
func Default() Shape {
	return Shape{
		Inputs: 32 + 28 + 32 + 28 + 1,
		Layers: []int{192, 32, 32, 1},
	}
}

func (s Shape) Outputs() int {
	return s.Layers[len(s.Layers)-1]
}

func (s Shape) String() string {
	return fmt.Sprintf("%v->%v", s.Inputs, s.Layers)
}

func (s Shape) Validate() error {
	if s.Inputs <= 0 {
		return errors.Errorf("bad input count %v", s.Inputs)
	}
	if len(s.Layers) == 0 {
		return errors.New("no layers")
	}
	for i, size := range s.Layers {
		if size <= 0 {
			return errors.Errorf("bad size %v of layer %v", size, i)
		}
	}
	return nil
}

// Load reads a structure file. A missing file means the default shape.
func Load(path string) (Shape, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Shape{}, domain.FileError(path, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return Shape{}, errors.WithMessage(err, path)
	}
	return s, nil
}

// Parse reads whitespace separated numbers: inputs, layer count, then one width per layer.
func Parse(r io.Reader) (Shape, error) {
	var values []int
	var scanner = bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		var v, err = parseInt(scanner.Text())
		if err != nil {
			return Shape{}, domain.Malformed("net structure", "%v", err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return Shape{}, domain.FileError("net structure", err)
	}

	if len(values) < 2 {
		return Shape{}, domain.Malformed("net structure", "expected at least 2 numbers, got %v", len(values))
	}
	var layerCount = values[1]
	if layerCount != len(values)-2 {
		return Shape{}, domain.Malformed("net structure",
			"layer count %v but %v layer sizes", layerCount, len(values)-2)
	}
	var s = Shape{
		Inputs: values[0],
		Layers: values[2:],
	}
	if err := s.Validate(); err != nil {
		return Shape{}, domain.Malformed("net structure", "%v", err)
	}
	return s, nil
}

// numbers may be written as floats, e.g. 192.0
func parseInt(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, errors.Errorf("%v is not an integer", s)
	}
	return int(f), nil
}

func Write(w io.Writer, s Shape) error {
	var bw = bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", s.Inputs)
	fmt.Fprintf(bw, "%d\n", len(s.Layers))
	for _, size := range s.Layers {
		fmt.Fprintf(bw, "%d\n", size)
	}
	return bw.Flush()
}

func Save(path string, s Shape) error {
	f, err := os.Create(path)
	if err != nil {
		return domain.FileError(path, err)
	}
	defer f.Close()

	if err = Write(f, s); err != nil {
		return domain.FileError(path, err)
	}
	if err = f.Close(); err != nil {
		return domain.FileError(path, err)
	}
	return nil
}
