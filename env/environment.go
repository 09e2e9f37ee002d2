/*
File    : relox/env/environment.go

Package env implements the interpreter's variable environment: a stack of
scope frames, each a mapping from variable name to a mutable slot holding
a value.Value. Using an explicit stack rather than a parent-linked chain
means push/pop of a Block's frame is a single, auditable operation
rather than constructing a fresh linked node per call.
*/
package env

import (
	"fmt"

	"github.com/relox-lang/relox/value"
)

// Environment is a stack of scope frames. At least one frame (the global
// frame) always exists; Block evaluation pushes and pops frames in
// strict balance, including on error.
type Environment struct {
	frames []map[string]value.Value
}

// New creates an Environment with a single global frame.
func New() *Environment {
	return &Environment{frames: []map[string]value.Value{make(map[string]value.Value)}}
}

// Depth reports the number of live scope frames, innermost first. Tests
// use this to assert the no-leaked-frames invariant.
func (e *Environment) Depth() int { return len(e.frames) }

// PushScope opens a new, empty innermost frame.
func (e *Environment) PushScope() {
	e.frames = append(e.frames, make(map[string]value.Value))
}

// PopScope discards the innermost frame and its bindings. It is a
// programmer error to call PopScope when only the global frame remains;
// callers (Block evaluation) must pair every PushScope with exactly one
// PopScope on every exit path.
func (e *Environment) PopScope() {
	if len(e.frames) <= 1 {
		panic("env: PopScope called with no scope to pop")
	}
	e.frames = e.frames[:len(e.frames)-1]
}

// Define inserts or replaces name in the innermost frame.
func (e *Environment) Define(name string, v value.Value) {
	e.frames[len(e.frames)-1][name] = v
}

// Lookup walks frames innermost to outermost, returning the first
// matching slot's value, or an error if name is undefined anywhere.
func (e *Environment) Lookup(name string) (value.Value, error) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if v, ok := e.frames[i][name]; ok {
			return v, nil
		}
	}
	return value.Value{}, fmt.Errorf("Undefined variable '%s'.", name)
}

// Assign walks frames innermost to outermost, writing v into the first
// slot whose name matches. It fails if name is undefined in any frame.
func (e *Environment) Assign(name string, v value.Value) error {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if _, ok := e.frames[i][name]; ok {
			e.frames[i][name] = v
			return nil
		}
	}
	return fmt.Errorf("Undefined variable '%s'.", name)
}
