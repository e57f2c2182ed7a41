package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"smarttrader/internal/model"
)

// RESTSource implements Source against a plain JSON bars API.
type RESTSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTSource creates a new source with optional proxy support.
func NewRESTSource(baseURL, apiKey, proxyURL string) *RESTSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (s *RESTSource) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars API.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Date      string  `json:"date"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
}

// History fetches daily bars in [start, end). Rows carry either a YYYY-MM-DD
// date or a unix timestamp.
func (s *RESTSource) History(ctx context.Context, ticker string, start, end time.Time) ([]model.Bar, error) {
	q := url.Values{}
	q.Set("symbol", ticker)
	q.Set("start", start.Format(model.DateLayout))
	q.Set("end", end.Format(model.DateLayout))
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", s.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &model.DataSourceError{Source: s.Name(), Message: err.Error(), Err: err}
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &model.DataSourceError{Source: s.Name(), Message: "fetch bars: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &model.DataSourceError{
			Source:     s.Name(),
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("fetch bars: body: %s", truncate(body, 200)),
		}
	}
	var rows []restBar
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, &model.DataSourceError{Source: s.Name(), StatusCode: resp.StatusCode, Message: "decode bars: " + err.Error(), Err: err}
	}

	bars := make([]model.Bar, 0, len(rows))
	for _, r := range rows {
		d, err := r.day()
		if err != nil {
			return nil, &model.DataSourceError{Source: s.Name(), Message: "malformed bar: " + err.Error(), Err: err}
		}
		if d.Before(start) || !d.Before(end) {
			continue
		}
		bars = append(bars, model.Bar{Date: d, Open: r.Open, High: r.High, Low: r.Low, Close: r.Close})
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func (r restBar) day() (time.Time, error) {
	if r.Date != "" {
		return time.Parse(model.DateLayout, r.Date)
	}
	if r.Timestamp == 0 {
		return time.Time{}, fmt.Errorf("bar has neither date nor timestamp")
	}
	t := time.Unix(r.Timestamp, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
