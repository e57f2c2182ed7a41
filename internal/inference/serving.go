package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ServingModel calls a TensorFlow Serving REST endpoint hosting the
// pre-trained artifact.
type ServingModel struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// NewServingModel creates a client for {baseURL}/v1/models/{name}:predict.
func NewServingModel(baseURL, name string, timeout time.Duration) *ServingModel {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ServingModel{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		ModelName: name,
		Client:    &http.Client{Timeout: timeout},
	}
}

func (m *ServingModel) Name() string { return "serving:" + m.ModelName }

type predictRequest struct {
	Instances [][][]float64 `json:"instances"`
}

type predictResponse struct {
	Predictions interface{} `json:"predictions"`
	Error       string      `json:"error"`
}

func (m *ServingModel) Predict(ctx context.Context, input [][][]float64) ([]float64, error) {
	body, err := json.Marshal(predictRequest{Instances: input})
	if err != nil {
		return nil, fmt.Errorf("marshal instances: %w", err)
	}
	endpoint := fmt.Sprintf("%s/v1/models/%s:predict", m.BaseURL, m.ModelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serving request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("serving read body: %w", err)
	}
	var pr predictResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, fmt.Errorf("serving decode (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || pr.Error != "" {
		return nil, fmt.Errorf("serving: status %d: %s", resp.StatusCode, pr.Error)
	}
	out, err := flatten(pr.Predictions, nil)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// flatten walks arbitrarily nested JSON arrays of numbers.
func flatten(v interface{}, out []float64) ([]float64, error) {
	switch n := v.(type) {
	case float64:
		return append(out, n), nil
	case []interface{}:
		for _, item := range n {
			var err error
			if out, err = flatten(item, out); err != nil {
				return nil, err
			}
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("serving: missing predictions")
	default:
		return nil, fmt.Errorf("serving: unexpected prediction element %T", v)
	}
}
