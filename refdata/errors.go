package refdata

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDrug is returned when a name is not in the reference set.
var ErrUnknownDrug = errors.New("refdata: unknown drug")

// UnknownDrugError reports a failed lookup together with close matches
// from the reference set. It matches ErrUnknownDrug under errors.Is.
type UnknownDrugError struct {
	// Name is the input that failed validation.
	Name string

	// Suggestions holds reference names the input may have meant.
	Suggestions []string
}

func (e *UnknownDrugError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("refdata: unknown drug %q (did you mean: %s?)", e.Name, strings.Join(e.Suggestions, ", "))
	}
	return fmt.Sprintf("refdata: unknown drug %q", e.Name)
}

// Is reports whether target is ErrUnknownDrug.
func (e *UnknownDrugError) Is(target error) bool {
	return target == ErrUnknownDrug
}
