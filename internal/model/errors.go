package model

import (
	"errors"
	"fmt"
)

// Pipeline failure classes. Callers match them with errors.Is.
var (
	ErrDateParse           = errors.New("invalid date")
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrModelInference      = errors.New("model inference failed")
	ErrDataSource          = errors.New("data source error")
)

// DataSourceError describes a failed call to the market data provider.
type DataSourceError struct {
	Source     string
	StatusCode int
	Message    string
	Err        error
}

func (e *DataSourceError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Source, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", e.Source, msg)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

func (e *DataSourceError) Is(target error) bool { return target == ErrDataSource }
