package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrNotAllowed  = errors.New("host not allowed")
	ErrUpstream    = errors.New("upstream error")
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrRender      = errors.New("render failed")
)

// opError tags an error with the handler operation that produced it.
type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	switch {
	case e.kind == nil:
		return e.op + ": " + e.err.Error()
	case e.err == nil:
		return e.op + ": " + e.kind.Error()
	default:
		return e.op + ": " + e.kind.Error() + ": " + e.err.Error()
	}
}

func (e *opError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.kind != nil {
		out = append(out, e.kind)
	}
	if e.err != nil {
		out = append(out, e.err)
	}
	return out
}

// Wrap prefixes err with op. It returns nil for a nil err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// WrapKind tags err with op and a sentinel kind; errors.Is matches both.
func WrapKind(op string, kind, err error) error {
	return &opError{op: op, kind: kind, err: err}
}

// NewKind returns an error of the given kind for op.
func NewKind(op string, kind error) error {
	return &opError{op: op, kind: kind}
}
