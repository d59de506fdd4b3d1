package roster

import "errors"

// ErrViewUnavailable means no navigable scheduler view was found at run
// start. This is the only collaborator failure treated as fatal.
var ErrViewUnavailable = errors.New("no navigable roster view detected")

// ErrEmptyResult means the run completed but produced zero staff records.
// No export files are written for an empty result.
var ErrEmptyResult = errors.New("no staff records extracted")

// InputError reports a bad date range before any navigation happens.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return e.Reason }

// IsInputError reports whether err is (or wraps) an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
