package pubchem

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/turtacn/sds-wizard/pkg/errors"
)

// FetchKind classifies why a PubChem lookup produced no usable value.
type FetchKind string

const (
	KindNotFound  FetchKind = "not_found"
	KindTransport FetchKind = "transport"
	KindStatus    FetchKind = "status"
	KindDecode    FetchKind = "decode"
	KindShape     FetchKind = "shape"
	KindTimeout   FetchKind = "timeout"
)

var kindCodes = map[FetchKind]apperrors.ErrorCode{
	KindNotFound:  apperrors.ErrCodePubChemNotFound,
	KindTransport: apperrors.ErrCodePubChemTransport,
	KindStatus:    apperrors.ErrCodePubChemStatus,
	KindDecode:    apperrors.ErrCodePubChemDecode,
	KindShape:     apperrors.ErrCodePubChemShape,
	KindTimeout:   apperrors.ErrCodePubChemTimeout,
}

// FetchError describes a failed lookup.  It never escapes the resolver as a
// returned error; callers inspect it through Result.
type FetchError struct {
	Kind   FetchKind
	Op     string
	Target string
	Status int
	Cause  error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("pubchem %s %s: %s", e.Op, e.Target, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Cause }

// Code maps the kind to its application error code.
func (e *FetchError) Code() apperrors.ErrorCode {
	if c, ok := kindCodes[e.Kind]; ok {
		return c
	}
	return apperrors.ErrCodeExternalService
}

// AppError converts e for callers that surface it, such as the autopopulate
// endpoint.
func (e *FetchError) AppError() *apperrors.AppError {
	return apperrors.Wrap(e, e.Code(), apperrors.DefaultMessageForCode(e.Code()))
}

// withOp returns a copy of e attributed to op.  Errors from shared lookups
// are never mutated in place.
func (e *FetchError) withOp(op string) *FetchError {
	c := *e
	c.Op = op
	return &c
}

func newFetchError(kind FetchKind, op, target string, cause error) *FetchError {
	return &FetchError{Kind: kind, Op: op, Target: target, Cause: cause}
}

// classifyTransport maps a transport-level failure to Timeout or Transport.
func classifyTransport(op, target string, err error) *FetchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return newFetchError(KindTimeout, op, target, err)
	}
	return newFetchError(KindTransport, op, target, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Result
// ─────────────────────────────────────────────────────────────────────────────

// Result carries a lookup value together with an optional *FetchError.  The
// value is always usable: on failure it is the documented fallback for the
// operation.
type Result[T any] struct {
	value T
	err   *FetchError
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] { return Result[T]{value: v} }

// Failed wraps fallback with err.
func Failed[T any](fallback T, err *FetchError) Result[T] {
	return Result[T]{value: fallback, err: err}
}

// Value returns the looked-up value or the fallback.
func (r Result[T]) Value() T { return r.value }

// OK reports whether the lookup succeeded.
func (r Result[T]) OK() bool { return r.err == nil }

// FetchErr returns the failure, or nil.
func (r Result[T]) FetchErr() *FetchError { return r.err }

// Err returns the failure as an error, or a nil interface.
func (r Result[T]) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

//Personal.AI order the ending
