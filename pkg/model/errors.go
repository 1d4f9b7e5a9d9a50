package model

import (
	"fmt"
)

// RetrievalError reports that a dataset could not be fetched: the resource
// is unreachable or the transport answered with a non-success status.
type RetrievalError struct {
	Name   string
	Status int // 0 when no status was received
	Err    error
}

func (e *RetrievalError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("retrieve %s: status %d", e.Name, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("retrieve %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("retrieve %s: failed", e.Name)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// ParseError reports malformed tabular structure. The line parser is total
// over any text, so this is only produced by sources that decode before
// parsing (for example a SQLite table that cannot be read).
type ParseError struct {
	Name string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Name, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EmptyDatasetError reports zero usable rows after validation.
type EmptyDatasetError struct {
	Name string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("dataset %s has no usable rows", e.Name)
}

// NoCategoryDataError reports a category with no records.
type NoCategoryDataError struct {
	Category string
}

func (e *NoCategoryDataError) Error() string {
	return fmt.Sprintf("no data for category %q", e.Category)
}
