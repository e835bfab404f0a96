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

// Package ordmap provides two ordered key-value map engines built for
// comparing algorithmic trade-offs: a Red-Black tree (RedBlackTree) and a
// B+ tree (BPlusTree). Both implement the OrderedMap contract.
//
// Neither engine is safe for concurrent mutation, nor for mutation while an
// iterator over it is in use; callers must provide their own
// synchronization. Splitting an iterator partitions traversal state only, so
// any write to the source tree invalidates every outstanding iterator.
package ordmap

// CompareFunc is a total-order comparator over keys. It returns a negative
// number when a sorts before b, zero when they are equal, and a positive
// number when a sorts after b.
type CompareFunc[K any] func(a, b K) int

// Entry is a key-value pair yielded by iteration helpers.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// OrderedMap is the contract shared by both tree engines. Keys are unique
// and kept in comparator order; values are opaque payloads.
type OrderedMap[K, V any] interface {
	// Size returns the number of stored values.
	Size() int

	// IsEmpty returns true if the map holds no values.
	IsEmpty() bool

	// Get returns the value stored for key, and false if key is absent.
	Get(key K) (V, bool)

	// Put stores value under key, overwriting any existing value.
	// It returns the previous value and true if key was already present.
	Put(key K, value V) (V, bool)

	// PutIfAbsent stores value under key only if key is absent.
	// It returns the existing value and true if key was already present.
	PutIfAbsent(key K, value V) (V, bool)

	// Remove deletes key and returns its value, or false if key is absent.
	// Removing an absent key leaves the map unchanged.
	Remove(key K) (V, bool)

	// ContainsKey returns true if key is present.
	ContainsKey(key K) bool

	// ContainsValue returns true if any stored value compares == to value.
	// The dynamic type of value must be comparable.
	ContainsValue(value V) bool

	// Clear removes all values.
	Clear()

	// Iterator returns an iterator over all entries in ascending key order.
	Iterator() Iterator[K, V]

	// RangeIterator returns an iterator over entries with
	// *from <= key <= *to in ascending key order. Both bounds are
	// inclusive; a nil bound is unbounded on that side.
	RangeIterator(from, to *K) Iterator[K, V]

	// Iterate calls fn for each entry in ascending key order until fn
	// returns false.
	Iterate(fn func(key K, value V) bool)
}

// Iterator is a lazy, forward-only, single-pass sequence of entries in
// ascending key order.
type Iterator[K, V any] interface {
	// Next returns the next entry, or false when the sequence is
	// exhausted.
	Next() (K, V, bool)

	// EstimatedSize returns an estimate of the number of entries not yet
	// produced. The estimate is exact for unbounded iteration.
	EstimatedSize() int

	// Split divides the remaining entries into two independent forward
	// sequences: the returned iterator produces a prefix of the remaining
	// entries, and the receiver retains the rest. The two partitions'
	// estimated sizes sum to the receiver's estimate before the split.
	// Split returns nil when the remaining work is too small to divide.
	Split() Iterator[K, V]
}

// minSplitSize is the smallest remaining estimate an iterator divides.
const minSplitSize = 64

// Empty iterator

type emptyIterator[K, V any] struct{}

var _ Iterator[int, any] = emptyIterator[int, any]{}

func (emptyIterator[K, V]) Next() (K, V, bool) {
	var k K
	var v V
	return k, v, false
}

func (emptyIterator[K, V]) EstimatedSize() int {
	return 0
}

func (emptyIterator[K, V]) Split() Iterator[K, V] {
	return nil
}

// iterate drains it, calling fn for each entry until fn returns false.
func iterate[K, V any](it Iterator[K, V], fn func(key K, value V) bool) {
	for {
		k, v, ok := it.Next()
		if !ok {
			return
		}
		if !fn(k, v) {
			return
		}
	}
}

// valueEqual compares two values of the same type parameter with ==.
// It panics if the dynamic type of a is not comparable.
func valueEqual[V any](a, b V) bool {
	return any(a) == any(b)
}
