package inference

import (
	"context"
	"sync"
)

// Model is a loaded, fixed-weight regression artifact. input is shaped
// [batch][timesteps][features]; the output may be returned flattened.
type Model interface {
	Predict(ctx context.Context, input [][][]float64) ([]float64, error)
	Name() string
}

// SerializedModel guards a Model that is not safe for concurrent inference.
type SerializedModel struct {
	mu    sync.Mutex
	Inner Model
}

func NewSerializedModel(m Model) *SerializedModel {
	return &SerializedModel{Inner: m}
}

func (s *SerializedModel) Name() string { return s.Inner.Name() }

func (s *SerializedModel) Predict(ctx context.Context, input [][][]float64) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Inner.Predict(ctx, input)
}
