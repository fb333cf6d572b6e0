package dfa

import "fmt"

// WarningKind classifies a non-fatal construction diagnostic.
type WarningKind string

const (
	// WarnDuplicateState marks a repeated label in the declared state set.
	WarnDuplicateState WarningKind = "duplicate-state"
	// WarnDuplicateSymbol marks a repeated symbol in the declared alphabet.
	WarnDuplicateSymbol WarningKind = "duplicate-symbol"
	// WarnDuplicateAccept marks a repeated label in the accepting set.
	WarnDuplicateAccept WarningKind = "duplicate-accepting"
)

// Warning is a non-fatal diagnostic emitted during construction. Duplicates
// in the declared sets are dropped, first occurrence wins, and each drop is
// reported as a Warning; they never fail construction.
type Warning struct {
	Kind  WarningKind `json:"kind"`
	Value string      `json:"value"`
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnDuplicateState:
		return fmt.Sprintf("duplicate state %q ignored", w.Value)
	case WarnDuplicateSymbol:
		return fmt.Sprintf("duplicate symbol %q ignored", w.Value)
	case WarnDuplicateAccept:
		return fmt.Sprintf("duplicate accepting state %q ignored", w.Value)
	default:
		return fmt.Sprintf("%s: %q", w.Kind, w.Value)
	}
}

// Option configures machine construction.
type Option func(*builder)

// WithWarningHandler registers fn to receive construction diagnostics.
// fn may be called before construction fails; it must not assume the
// machine was built successfully.
func WithWarningHandler(fn func(Warning)) Option {
	return func(b *builder) { b.warn = fn }
}
