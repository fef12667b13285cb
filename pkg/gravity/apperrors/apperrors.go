// Package apperrors holds the sentinel errors shared across the gravity
// module's packages, registered once per codespace and wrapped with
// call-site context wherever they're returned.
package apperrors

import (
	"errors"
	"strings"

	sdkerrors "cosmossdk.io/errors"
)

// codespace groups every sentinel this module registers.
const codespace = "gravity"

var (
	// ErrInvalidArgument is wrapped whenever a constructor or setter is
	// given an out-of-range value: negative looseness below 1,
	// non-positive min width, zero capacity, negative growth/shrink
	// limit, negative threshold, non-positive box width.
	ErrInvalidArgument = sdkerrors.Register(codespace, 1, "invalid argument")

	// ErrAsyncTask is wrapped when one or more worker pool tasks fail;
	// the wrapped message concatenates every underlying failure.
	ErrAsyncTask = sdkerrors.Register(codespace, 2, "aggregated async error")
)

// Aggregate joins the non-nil errs into a single error wrapping
// ErrAsyncTask. It returns nil if errs contains no non-nil error.
func Aggregate(errs []error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}

	if len(nonNil) == 0 {
		return nil
	}

	messages := make([]string, len(nonNil))
	for i, err := range nonNil {
		messages[i] = err.Error()
	}

	return sdkerrors.Wrap(ErrAsyncTask, strings.Join(messages, "; "))
}

// Is reports whether err (or any error it wraps) matches target, delegating
// to the standard library's errors.Is so callers do not need to know
// whether a given sentinel came from cosmossdk.io/errors or errors.Join.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
