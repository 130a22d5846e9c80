package compare

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput indicates the request named fewer than two or
	// more than three distinct drugs.
	ErrInvalidInput = errors.New("compare: need between 2 and 3 distinct drugs")

	// ErrPartialFailure indicates too few drugs resolved for a
	// comparison to be meaningful.
	ErrPartialFailure = errors.New("compare: too few drugs resolved")
)

// Failure pairs a requested drug with the error that removed it from
// the comparison.
type Failure struct {
	DrugName string
	Err      error
}

// PartialFailureError reports which drugs failed to resolve when fewer
// than two survived. It matches ErrPartialFailure with errors.Is.
type PartialFailureError struct {
	// Failures lists the failed drugs in input order.
	Failures []Failure
}

// Error implements the error interface.
func (e *PartialFailureError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s: %v", f.DrugName, f.Err)
	}
	return fmt.Sprintf("compare: too few drugs resolved (%s)", strings.Join(parts, "; "))
}

// Is allows errors.Is(err, ErrPartialFailure) to return true.
func (e *PartialFailureError) Is(target error) bool {
	return target == ErrPartialFailure
}
