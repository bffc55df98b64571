package sigbatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

var (
	// ErrNotFound is returned when an identifier is absent from an Index.
	ErrNotFound = errors.New("identifier not found")
	// ErrDuplicateID is returned when an Index is built from non-unique identifiers.
	ErrDuplicateID = errors.New("duplicate identifier")
	// ErrTooShort is returned when a signal is shorter than the segment length and padding is disabled.
	ErrTooShort = errors.New("signal shorter than segment length")
	// ErrAssembly is returned when worker outputs violate the shape contract expected by Assemble.
	ErrAssembly = errors.New("invalid assembly")
	// ErrInvalidSize is returned for a non-positive rebalance target size.
	ErrInvalidSize = errors.New("batch size must be a positive int")
)

// TaskError ties one failed per-record task to its record identifier.
type TaskError struct {
	ID  ID
	Err error
}

func (e TaskError) Error() string {
	return fmt.Sprintf("record %s: %v", e.ID, e.Err)
}

func (e TaskError) Unwrap() error { return e.Err }

// DispatchError aggregates every per-record failure of one dispatch. Sibling
// tasks are never cancelled, so it carries all failing records, not just the
// first one.
type DispatchError struct {
	Tasks []TaskError
}

func (e *DispatchError) Error() string {
	msgs := lo.Map(e.Tasks, func(t TaskError, _ int) string { return t.Error() })
	return fmt.Sprintf("%d record(s) failed: %s", len(e.Tasks), strings.Join(msgs, "; "))
}

// Unwrap exposes the underlying per-record errors to errors.Is/As.
func (e *DispatchError) Unwrap() []error {
	return lo.Map(e.Tasks, func(t TaskError, _ int) error { return t })
}
