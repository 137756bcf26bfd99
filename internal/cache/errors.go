package cache

import (
	"errors"
	"fmt"
)

// Kind separates caller mistakes from failures the flows swallow.
type Kind int

const (
	// KindOperational covers store, network, timeout and archive failures.
	KindOperational Kind = iota
	// KindValidation is returned for malformed input and is never suppressed.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	default:
		return "operational"
	}
}

var (
	ErrNotFound    = errors.New("cache item not found")
	ErrListTimeout = errors.New("list objects got no result in time")
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err. Errors that carry no kind are operational.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOperational
}

func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}

func validationErrorf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Err: fmt.Errorf(format, args...)}
}

func operational(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindOperational, Op: op, Err: err}
}
