// Package assert holds the contract checks used by the simulation core.
// A failed check is a bug in the caller, never a runtime condition, so it
// panics instead of returning an error.
package assert

import "fmt"

// ContractError is the panic value raised by a failed assertion.
type ContractError struct {
	Msg string
}

func (e *ContractError) Error() string {
	return "contract violation: " + e.Msg
}

// True panics with a *ContractError when ok is false.
func True(ok bool, format string, args ...any) {
	if !ok {
		panic(&ContractError{Msg: fmt.Sprintf(format, args...)})
	}
}

// Fail panics unconditionally.
func Fail(format string, args ...any) {
	panic(&ContractError{Msg: fmt.Sprintf(format, args...)})
}
