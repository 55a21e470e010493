// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

// Package vartype provides a small generic wrapper for values that may not
// have been reported by the weather provider.
package vartype

import "fmt"

type (
	// VarFloat64 is a type alias for Variable[float64].
	VarFloat64 = Variable[float64]

	// VarInt is a type alias for Variable[int].
	VarInt = Variable[int]
)

// Variable holds a value together with the information whether it has been
// set at all. Daily temperature and humidity are optional in a forecast
// series, so a plain float64 zero value would be ambiguous.
type Variable[T any] struct {
	value T
	isset bool
}

// NewVariable returns a Variable initialized with the given value.
func NewVariable[T any](value T) Variable[T] {
	return Variable[T]{
		isset: true,
		value: value,
	}
}

// Reset clears the value and marks the Variable as unset.
func (v *Variable[T]) Reset() {
	var newVal T
	v.value = newVal
	v.isset = false
}

// Value returns the current value stored in the Variable.
func (v *Variable[T]) Value() T {
	return v.value
}

// Set assigns the provided value and marks the Variable as set.
func (v *Variable[T]) Set(val T) {
	v.value = val
	v.isset = true
}

// IsSet returns true if the Variable has been initialized with a value.
func (v *Variable[T]) IsSet() bool {
	return v.isset
}

// String returns a string representation of the Variable. An unset Variable
// renders as "n/a".
func (v Variable[T]) String() string {
	if !v.isset {
		return "n/a"
	}
	return fmt.Sprint(v.value)
}
