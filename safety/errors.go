package safety

import "errors"

// ErrSynthesis is returned when the raw input cannot produce a profile.
// Generation failures never surface it; they degrade to the template.
var ErrSynthesis = errors.New("safety: invalid raw data")
