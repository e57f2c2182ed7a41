package inference

import (
	"context"
	"fmt"
	"math"

	"smarttrader/internal/calculator"
	"smarttrader/internal/model"
)

const DefaultNFuture = 5

// Engine runs one scaled window through the model and checks the output
// contract.
type Engine struct {
	Model   Model
	NFuture int
}

func NewEngine(m Model, nFuture int) *Engine {
	if nFuture <= 0 {
		nFuture = DefaultNFuture
	}
	return &Engine{Model: m, NFuture: nFuture}
}

// Infer presents the window as a single batch item and reshapes the result
// to [NFuture][4] in Open, High, Low, Close order.
func (e *Engine) Infer(ctx context.Context, sw *calculator.ScaledWindow) (*model.RawForecast, error) {
	if sw == nil || len(sw.Rows) == 0 {
		return nil, fmt.Errorf("%w: empty input window", model.ErrModelInference)
	}
	steps := make([][]float64, len(sw.Rows))
	for i, r := range sw.Rows {
		row := r
		steps[i] = row[:]
	}
	out, err := e.Model.Predict(ctx, [][][]float64{steps})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrModelInference, e.Model.Name(), err)
	}

	want := e.NFuture * model.NumColumns
	if len(out) != want {
		return nil, fmt.Errorf("%w: %s returned %d values, expected [%d, %d]",
			model.ErrModelInference, e.Model.Name(), len(out), e.NFuture, model.NumColumns)
	}
	raw := &model.RawForecast{Rows: make([][model.NumColumns]float64, e.NFuture)}
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s returned non-finite value at %d", model.ErrModelInference, e.Model.Name(), i)
		}
		raw.Rows[i/model.NumColumns][i%model.NumColumns] = v
	}
	return raw, nil
}
