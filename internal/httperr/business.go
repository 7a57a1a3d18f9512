package httperr

import (
	"errors"
	"fmt"
)

// Kind classifies a business error for the HTTP boundary.
type Kind int

const (
	KindState Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUpstream
)

type BusinessError struct {
	Kind Kind
	Code string
	Err  error
}

func (e BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

func ErrBusiness(code string) error {
	return BusinessError{Kind: KindState, Code: code}
}

// Validation rejects malformed input before any store access.
func Validation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

// Conflict reports a lost booking race; callers pick another time.
func Conflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func NotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

// Upstream wraps a transient gateway or store failure that outlived its
// retries.
func Upstream(code string, err error) error {
	return BusinessError{Kind: KindUpstream, Code: code, Err: err}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

func IsConflict(err error) bool   { return IsKind(err, KindConflict) }
func IsNotFound(err error) bool   { return IsKind(err, KindNotFound) }
func IsValidation(err error) bool { return IsKind(err, KindValidation) }
