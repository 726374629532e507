package weights

import (
	"gonum.org/v1/gonum/mat"
)

// Array is one parameter array of a layer. A vector is stored as a single row.
type Array struct {
	Name   string
	Values *mat.Dense
	Vector bool
}

// Layer holds the parameter arrays of a layer in library order, e.g. kernel then bias.
type Layer struct {
	Arrays []Array
}

// Exporter is implemented by trained models.
type Exporter interface {
	Layers() []Layer
}

func NewMatrix(name string, rows, cols int, data []float64) Array {
	return Array{
		Name:   name,
		Values: mat.NewDense(rows, cols, data),
	}
}

func NewVector(name string, data []float64) Array {
	var a = Array{
		Name:   name,
		Vector: true,
	}
	if len(data) != 0 {
		a.Values = mat.NewDense(1, len(data), data)
	}
	return a
}

func (a *Array) Dims() (rows, cols int) {
	if a.Values == nil {
		return 0, 0
	}
	return a.Values.Dims()
}

func (a *Array) Len() int {
	var r, c = a.Dims()
	return r * c
}

// Flatten returns the elements in row-major order.
func (a *Array) Flatten() []float64 {
	var r, c = a.Dims()
	var res = make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		res = append(res, a.Values.RawRowView(i)...)
	}
	return res
}

// Row returns row i of a matrix or the whole vector.
func (a *Array) Row(i int) []float64 {
	return a.Values.RawRowView(i)
}

func (l *Layer) Len() int {
	var n int
	for i := range l.Arrays {
		n += l.Arrays[i].Len()
	}
	return n
}
