package batch

import (
	"bytes"
	"fmt"
	"runtime"
)

// panicError wraps an error recovered from a panic in a function passed to [Map].
type panicError struct {
	Recovered error
	Stack     []byte
}

func (p panicError) Error() string {
	return fmt.Sprintf("recovered from batch: %v\n%s", p.Recovered, p.Stack)
}

func (p panicError) Unwrap() error { return p.Recovered }

// panicValue wraps a non error value recovered from a panic in a function passed to [Map].
type panicValue struct {
	Recovered any
	Stack     []byte
}

func (p panicValue) String() string {
	return fmt.Sprintf("recovered from batch: %v\n%s", p.Recovered, p.Stack)
}

// addStack wraps v with the stack trace of the panicking goroutine.
func addStack(v any) any {
	stack := make([]byte, 2<<10)
	n := runtime.Stack(stack, false)
	for n == len(stack) {
		stack = make([]byte, len(stack)*2)
		n = runtime.Stack(stack, false)
	}
	stack = stack[:n]

	// The first line, "goroutine N [status]:", no longer holds by the time the panic is re-raised.
	if bytes.HasPrefix(stack, []byte("goroutine ")) {
		if line := bytes.IndexByte(stack, '\n'); line >= 0 {
			stack = stack[line+1:]
		}
	}

	if err, ok := v.(error); ok {
		return panicError{Recovered: err, Stack: stack}
	}
	return panicValue{Recovered: v, Stack: stack}
}
