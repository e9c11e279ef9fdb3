package responses

import "bikerental/tracker/internal/apperr"

// Result is the envelope returned by every bike store operation.
// Exactly one of Data or Error is meaningful, as reported by Success.
type Result[T any] struct {
	Success bool          `json:"success"`
	Data    T             `json:"data"`
	Error   *apperr.Error `json:"error"`
}

// Ok wraps a payload in a successful envelope.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail wraps a fault in a failed envelope. A nil fault panics.
func Fail[T any](err *apperr.Error) Result[T] {
	if err == nil {
		panic("responses: Fail called with nil error")
	}
	return Result[T]{Error: err}
}

// Err returns the fault, or nil for a successful result.
func (r Result[T]) Err() error {
	if r.Success || r.Error == nil {
		return nil
	}
	return r.Error
}

// Unwrap returns the payload and the fault as a conventional pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.Data, r.Err()
}
