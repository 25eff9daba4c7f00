package assembler

import (
	"errors"
	"fmt"

	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
)

// ErrNoFragments is returned when the fragment list is empty.
var ErrNoFragments = errors.New("no fragments configured")

// MissingFragmentError reports a fragment that does not exist or cannot be read.
type MissingFragmentError struct {
	Path string
	Err  error
}

func (e *MissingFragmentError) Error() string {
	return fmt.Sprintf("fragment %s: %v", e.Path, e.Err)
}

func (e *MissingFragmentError) Unwrap() error { return e.Err }

// MissingIncludeTargetError reports a directive whose file does not exist or cannot be read.
type MissingIncludeTargetError struct {
	Fragment string
	Line     int
	Path     string
	Err      error
}

func (e *MissingIncludeTargetError) Error() string {
	return fmt.Sprintf("%s:%d: include target %s: %v", e.Fragment, e.Line, e.Path, e.Err)
}

func (e *MissingIncludeTargetError) Unwrap() error { return e.Err }

// MalformedDirectiveError reports a directive sentinel without a well-formed path.
type MalformedDirectiveError struct {
	Fragment string
	Line     int
	Column   int
	Token    string
	Err      error
}

func (e *MalformedDirectiveError) Error() string {
	return fmt.Sprintf("%s:%d:%d: malformed directive %q", e.Fragment, e.Line, e.Column, e.Token)
}

func (e *MalformedDirectiveError) Unwrap() error { return e.Err }

// classify wraps the typed errors into classified errors for the CLI adapter.
// errors.As still reaches the typed error through the classified wrapper.
func classify(err error) error {
	var (
		missingFragment *MissingFragmentError
		missingInclude  *MissingIncludeTargetError
		malformed       *MalformedDirectiveError
	)
	switch {
	case errors.As(err, &missingFragment):
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "fragment not readable").
			Fatal().
			WithContext("path", missingFragment.Path).
			Build()
	case errors.As(err, &missingInclude):
		return ferrors.WrapError(err, ferrors.CategoryDirective, "include target not readable").
			Fatal().
			WithContext("path", missingInclude.Path).
			WithContext("fragment", missingInclude.Fragment).
			WithContext("line", missingInclude.Line).
			Build()
	case errors.As(err, &malformed):
		return ferrors.WrapError(err, ferrors.CategoryDirective, "malformed directive").
			Fatal().
			WithContext("fragment", malformed.Fragment).
			WithContext("line", malformed.Line).
			WithContext("token", malformed.Token).
			Build()
	case errors.Is(err, ErrNoFragments):
		return ferrors.WrapError(err, ferrors.CategoryValidation, "nothing to assemble").Fatal().Build()
	default:
		return err
	}
}
