package records

// FeatureMatrix is a row-major matrix of int8 position features,
// one row per training position.
type FeatureMatrix struct {
	Rows int
	Cols int
	Data []int8
}

// LabelVector holds one target in [0, 1] per position.
type LabelVector []float32

func NewFeatureMatrix(rows, cols int) FeatureMatrix {
	return FeatureMatrix{
		Rows: rows,
		Cols: cols,
		Data: make([]int8, rows*cols),
	}
}

func (m *FeatureMatrix) Row(i int) []int8 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// Float32Rows converts rows [from, to) into a dense float32 slice.
func (m *FeatureMatrix) Float32Rows(from, to int) []float32 {
	var src = m.Data[from*m.Cols : to*m.Cols]
	var res = make([]float32, len(src))
	for i, v := range src {
		res[i] = float32(v)
	}
	return res
}
