package kmergo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kmergo/blobstore"
	"github.com/hupe1980/kmergo/internal/shard"
	"github.com/hupe1980/kmergo/table"
)

var (
	// ErrNotFound is returned when a table or histogram does not exist
	// in the store.
	ErrNotFound = errors.New("not found")

	// ErrOutOfMemory is returned when loading a table would exceed the
	// configured memory limit.
	ErrOutOfMemory = errors.New("memory limit exceeded")
)

// ErrCorruptTable indicates a table whose records violate the strict
// ascending order invariant or whose parts are malformed.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrCorruptTable struct {
	Root  string
	cause error
}

func (e *ErrCorruptTable) Error() string {
	return fmt.Sprintf("corrupt table %q: %v", e.Root, e.cause)
}

func (e *ErrCorruptTable) Unwrap() error { return e.cause }

func translateError(root string, err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	if errors.Is(err, blobstore.ErrNotFound) || errors.Is(err, shard.ErrNoParts) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	if errors.Is(err, table.ErrMemoryBudget) {
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}

	// Structural damage normalization.
	var oo *table.ErrOutOfOrder
	if errors.As(err, &oo) || errors.Is(err, shard.ErrBadHeader) {
		return &ErrCorruptTable{Root: root, cause: err}
	}

	return err
}
