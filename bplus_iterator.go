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

import "slices"

// BPlusIterator walks the sorted leaf chain forward, one position at a
// time.
type BPlusIterator[K, V any] struct {
	tree  *BPlusTree[K, V]
	leaf  *bplusLeaf[K, V]
	index int

	// endLeaf, when set, is the exclusive boundary of a split prefix:
	// iteration stops on reaching it.
	endLeaf *bplusLeaf[K, V]

	hasStop bool
	stopKey K

	remaining int
}

var _ Iterator[int, any] = &BPlusIterator[int, any]{}

// Iterator returns an iterator over all entries in ascending key order.
func (t *BPlusTree[K, V]) Iterator() Iterator[K, V] {
	return t.RangeIterator(nil, nil)
}

// RangeIterator returns an iterator over entries with *from <= key <= *to
// in ascending key order. Both bounds are inclusive; a nil bound is
// unbounded on that side.
func (t *BPlusTree[K, V]) RangeIterator(from, to *K) Iterator[K, V] {
	if t.root == nil {
		return emptyIterator[K, V]{}
	}
	if from != nil && to != nil && t.compare(*from, *to) > 0 {
		return emptyIterator[K, V]{}
	}

	leaf := t.firstLeaf
	index := 0
	if from != nil {
		// Descend to the leaf that would hold the lower bound; the
		// bound itself does not have to be present.
		leaf = t.root.findLeaf(t, *from)
		index, _ = slices.BinarySearchFunc(leaf.keys, *from, t.compare)
		if index >= len(leaf.keys) {
			leaf = leaf.next
			index = 0
			if leaf == nil {
				return emptyIterator[K, V]{}
			}
		}
	}

	it := &BPlusIterator[K, V]{
		tree:      t,
		leaf:      leaf,
		index:     index,
		remaining: t.size,
	}
	if to != nil {
		it.hasStop = true
		it.stopKey = *to
	}
	return it
}

// Iterate calls fn for each entry in ascending key order until fn returns
// false.
func (t *BPlusTree[K, V]) Iterate(fn func(key K, value V) bool) {
	iterate(t.Iterator(), fn)
}

// Next returns the next entry, or false when the iterator is exhausted.
func (i *BPlusIterator[K, V]) Next() (K, V, bool) {
	var zeroK K
	var zeroV V

	if i.leaf == nil || i.leaf == i.endLeaf {
		return zeroK, zeroV, false
	}

	key := i.leaf.keys[i.index]
	if i.hasStop && i.tree.compare(key, i.stopKey) > 0 {
		i.leaf = nil
		i.remaining = 0
		return zeroK, zeroV, false
	}
	value := i.leaf.values[i.index]

	i.index++
	if i.index >= len(i.leaf.keys) {
		i.leaf = i.leaf.next
		i.index = 0
	}
	if i.remaining > 0 {
		i.remaining--
	}
	return key, value, true
}

// EstimatedSize returns an estimate of the entries not yet produced. The
// estimate is exact for unbounded iteration.
func (i *BPlusIterator[K, V]) EstimatedSize() int {
	return i.remaining
}

// Split divides the remaining entries in two by leaf-chain position. The
// returned iterator produces everything up to a boundary leaf, counting the
// handed-off elements exactly, so the two partitions' estimates sum to the
// receiver's estimate before the split.
func (i *BPlusIterator[K, V]) Split() Iterator[K, V] {
	if i.remaining < minSplitSize || i.leaf == nil || i.leaf == i.endLeaf {
		return nil
	}

	counted := len(i.leaf.keys) - i.index
	boundary := i.leaf.next
	for boundary != nil && boundary != i.endLeaf && counted < i.remaining/2 {
		counted += len(boundary.keys)
		boundary = boundary.next
	}
	if boundary == nil || boundary == i.endLeaf {
		// Everything remaining fits in the prefix; nothing would be
		// left for the receiver.
		return nil
	}

	prefix := &BPlusIterator[K, V]{
		tree:      i.tree,
		leaf:      i.leaf,
		index:     i.index,
		endLeaf:   boundary,
		hasStop:   i.hasStop,
		stopKey:   i.stopKey,
		remaining: counted,
	}

	i.leaf = boundary
	i.index = 0
	i.remaining -= counted
	return prefix
}
