package train

import (
	"fmt"
	"io"
	"strings"

	"github.com/ChizhovVadim/nettrainer/internal/records"
	"github.com/ChizhovVadim/nettrainer/internal/weights"
)

// PrintPredictions writes up to n lines "<k> prediction = [<p>]  target = <t>", k counted from 1.
func PrintPredictions(w io.Writer, predictions [][]float32, labels records.LabelVector, n int) error {
	n = min(n, len(predictions), len(labels))
	for i := 0; i < n; i++ {
		var items = make([]string, len(predictions[i]))
		for j, p := range predictions[i] {
			items[j] = weights.FormatFloat(p)
		}
		_, err := fmt.Fprintf(w, "%v prediction = [%v]  target = %v\n",
			i+1, strings.Join(items, " "), weights.FormatFloat(labels[i]))
		if err != nil {
			return err
		}
	}
	return nil
}
