package weights

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ChizhovVadim/nettrainer/internal/domain"
	"github.com/pkg/errors"
)

type textParser struct {
	layers   []Layer
	depth    int
	maxDepth int
	rows     [][]float64
	line     int
}

// ParseText reads a dump written by WriteText back into layers.
// Array boundaries and matrix rows are recovered from the brackets.
func ParseText(r io.Reader) ([]Layer, error) {
	var p = &textParser{}
	var scanner = bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.FileError("weight dump", err)
	}
	if p.depth != 0 {
		return nil, p.malformed("unterminated array")
	}
	return p.layers, nil
}

func LoadText(path string) ([]Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.FileError(path, err)
	}
	defer f.Close()

	layers, err := ParseText(f)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return layers, nil
}

func (p *textParser) malformed(format string, args ...interface{}) error {
	return domain.Malformed("weight dump", "line %v: "+format, append([]interface{}{p.line}, args...)...)
}

func (p *textParser) parseLine(line string) error {
	if strings.Contains(line, "Layer") {
		if p.depth != 0 {
			return p.malformed("layer header inside array")
		}
		p.layers = append(p.layers, Layer{})
		return nil
	}
	for i := 0; i < len(line); {
		var c = line[i]
		switch {
		case c == '[':
			if len(p.layers) == 0 {
				return p.malformed("array before first layer header")
			}
			p.depth++
			if p.depth > 2 {
				return p.malformed("arrays of more than 2 dimensions are not supported")
			}
			if p.depth > p.maxDepth {
				p.maxDepth = p.depth
			}
			p.rows = append(p.rows, nil)
			i++
		case c == ']':
			if p.depth == 0 {
				return p.malformed("unbalanced ']'")
			}
			p.depth--
			if p.depth == 0 {
				if err := p.finishArray(); err != nil {
					return err
				}
			}
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		default:
			var j = i
			for j < len(line) && !strings.ContainsRune(" \t\r[]", rune(line[j])) {
				j++
			}
			if p.depth == 0 {
				return p.malformed("number %q outside of an array", line[i:j])
			}
			v, err := parseFloat(line[i:j])
			if err != nil {
				return p.malformed("%v", err)
			}
			var last = len(p.rows) - 1
			p.rows[last] = append(p.rows[last], v)
			i = j
		}
	}
	return nil
}

func (p *textParser) finishArray() error {
	var layer = &p.layers[len(p.layers)-1]
	var name = "weight"
	if len(layer.Arrays) != 0 {
		name = "bias"
	}

	if p.maxDepth == 1 {
		var row []float64
		if len(p.rows) != 0 {
			row = p.rows[0]
		}
		layer.Arrays = append(layer.Arrays, NewVector(name, row))
	} else {
		// the first entry was opened by the outer bracket
		var rows = p.rows[1:]
		if len(rows) == 0 || len(rows[0]) == 0 {
			return p.malformed("empty matrix")
		}
		var cols = len(rows[0])
		var data = make([]float64, 0, len(rows)*cols)
		for _, row := range rows {
			if len(row) != cols {
				return p.malformed("ragged matrix: %v and %v columns", cols, len(row))
			}
			data = append(data, row...)
		}
		layer.Arrays = append(layer.Arrays, NewMatrix(name, len(rows), cols, data))
	}

	p.rows = nil
	p.maxDepth = 0
	return nil
}

func parseFloat(s string) (float64, error) {
	switch s {
	case "nan":
		return math.NaN(), nil
	case "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(s, 64)
}
