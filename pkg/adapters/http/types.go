package http

import (
	"time"

	"github.com/arvholm/espalier/pkg/definition"
	"github.com/arvholm/espalier/pkg/dfa"
)

// RegisterResponse is the payload for a successful registration.
type RegisterResponse struct {
	Name      string        `json:"name"`
	Revision  string        `json:"revision"`
	UpdatedAt time.Time     `json:"updated_at"`
	Warnings  []dfa.Warning `json:"warnings,omitempty"`
}

// ListResponse enumerates the registered machine names.
type ListResponse struct {
	Machines []string `json:"machines"`
}

// MachineResponse is a stored definition plus the properties derived from
// its compiled machine.
type MachineResponse struct {
	definition.Stored
	Sinks []string `json:"sinks"`
}

// QueryRequest is the body for read and test calls.
type QueryRequest struct {
	Input string `json:"input"`
}

// ReadResponse reports the state a read ended in.
type ReadResponse struct {
	Input string `json:"input"`
	State string `json:"state"`
}

// TestResponse reports a membership verdict.
type TestResponse struct {
	Input    string `json:"input"`
	Accepted bool   `json:"accepted"`
}

// ErrorResponse carries a failure plus any diagnostics gathered before it.
// Symbol and Position are set when an input character was rejected.
type ErrorResponse struct {
	Error    string        `json:"error"`
	Warnings []dfa.Warning `json:"warnings,omitempty"`
	Symbol   string        `json:"symbol,omitempty"`
	Position *int          `json:"position,omitempty"`
}
