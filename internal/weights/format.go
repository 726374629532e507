package weights

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

const (
	precision = 8
	lineWidth = 75
)

// FormatFloat prints v in fixed notation with at most 8 decimals,
// trailing zeros trimmed: 1 -> "1.", 0.25 -> "0.25".
func FormatFloat[T constraints.Float](v T) string {
	var f = float64(v)
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	var s = strconv.FormatFloat(f, 'f', precision, 64)
	s = strings.TrimRight(s, "0")
	if s == "-0." {
		s = "0."
	}
	return s
}

type lineWriter struct {
	sb      *strings.Builder
	lineLen int
}

func (lw *lineWriter) writeString(s string) {
	lw.sb.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		lw.lineLen = len(s) - i - 1
	} else {
		lw.lineLen += len(s)
	}
}

// writeRow writes "[a b c]" wrapping to the next line, indented, when a line would exceed lineWidth.
// closing is the number of brackets that may follow the row on the same line.
func (lw *lineWriter) writeRow(items []string, width, indent, closing int) {
	lw.writeString("[")
	for i, item := range items {
		var token = strings.Repeat(" ", width-len(item)) + item
		if i > 0 {
			var tail = 0
			if i == len(items)-1 {
				tail = 1 + closing
			}
			if lw.lineLen+1+len(token)+tail > lineWidth {
				lw.writeString("\n" + strings.Repeat(" ", indent))
			} else {
				lw.writeString(" ")
			}
		}
		lw.writeString(token)
	}
	lw.writeString("]")
}

// FormatArray renders a parameter array completely, matrices as nested rows.
func FormatArray(a *Array) string {
	var rows, cols = a.Dims()
	var items = make([][]string, rows)
	var width = 0
	for i := 0; i < rows; i++ {
		items[i] = make([]string, cols)
		for j, v := range a.Row(i) {
			var s = FormatFloat(v)
			items[i][j] = s
			if len(s) > width {
				width = len(s)
			}
		}
	}

	var sb strings.Builder
	var lw = &lineWriter{sb: &sb}
	if a.Vector {
		var row []string
		if rows != 0 {
			row = items[0]
		}
		lw.writeRow(row, width, 1, 0)
		return sb.String()
	}

	lw.writeString("[")
	for i := range items {
		if i > 0 {
			lw.writeString("\n ")
		}
		var closing = 0
		if i == len(items)-1 {
			closing = 1
		}
		lw.writeRow(items[i], width, 2, closing)
	}
	lw.writeString("]")
	return sb.String()
}
