/*
 * Ordmap - Ordered Key-Value Map Engines
 *
 * Copyright Ordmap Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ordmap

import "fmt"

// Error is implemented by every error produced by this package.
type Error interface {
	// returns true if the error is fatal
	IsFatal() bool
	// and anything else that is needed to be an error
	error
}

// InvalidOrderError is returned when a B+ tree is constructed with an order
// below the minimum of 3.
type InvalidOrderError struct {
	order int
}

// NewInvalidOrderError constructs an InvalidOrderError
func NewInvalidOrderError(order int) *InvalidOrderError {
	return &InvalidOrderError{order: order}
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("b+ tree order %d is invalid, order must be at least 3", e.order)
}

// IsFatal returns true if the error is fatal
func (e *InvalidOrderError) IsFatal() bool {
	return false
}

// NilComparatorError is returned when a tree is constructed with a nil
// comparator.
type NilComparatorError struct{}

// NewNilComparatorError constructs a NilComparatorError
func NewNilComparatorError() *NilComparatorError {
	return &NilComparatorError{}
}

func (e *NilComparatorError) Error() string {
	return "comparator must not be nil"
}

// IsFatal returns true if the error is fatal
func (e *NilComparatorError) IsFatal() bool {
	return false
}

// FatalError is a fatal error indicating a violated internal invariant.
// It signals an implementation bug, not a condition callers can recover
// from: mutation paths panic with a *FatalError and verify functions
// return one describing the first violated invariant.
type FatalError struct {
	err error
}

// NewFatalError constructs a FatalError
func NewFatalError(err error) *FatalError {
	return &FatalError{err: err}
}

// NewFatalErrorf constructs a FatalError with a formatted message
func NewFatalErrorf(msg string, args ...any) *FatalError {
	return &FatalError{err: fmt.Errorf(msg, args...)}
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.err.Error())
}

// IsFatal returns true if the error is fatal
func (e *FatalError) IsFatal() bool {
	return true
}

// Unwrap returns the wrapped err
func (e *FatalError) Unwrap() error {
	return e.err
}

// UnreachableError is a fatal error raised when a code path that cannot be
// reached by construction is executed.
type UnreachableError struct{}

// NewUnreachableError constructs an UnreachableError
func NewUnreachableError() *UnreachableError {
	return &UnreachableError{}
}

func (e *UnreachableError) Error() string {
	return "reached unreachable code"
}

// IsFatal returns true if the error is fatal
func (e *UnreachableError) IsFatal() bool {
	return true
}
