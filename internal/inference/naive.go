package inference

import (
	"context"
	"errors"
)

// NaiveModel is a persistence baseline: every horizon step repeats the last
// observed row. It stands in for the trained artifact offline.
type NaiveModel struct {
	Horizon int
}

func (m *NaiveModel) Name() string { return "naive" }

func (m *NaiveModel) Predict(_ context.Context, input [][][]float64) ([]float64, error) {
	if len(input) == 0 || len(input[0]) == 0 {
		return nil, errors.New("naive: empty input")
	}
	steps := input[0]
	last := steps[len(steps)-1]
	out := make([]float64, 0, m.Horizon*len(last))
	for i := 0; i < m.Horizon; i++ {
		out = append(out, last...)
	}
	return out, nil
}
