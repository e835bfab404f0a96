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

// RedBlackIterator walks a red-black tree in order using an explicit stack
// of unvisited ancestors. The stack holds, bottom to top, the left spine of
// the smallest unvisited subtree; popping a node pushes the left spine of
// its right child.
type RedBlackIterator[K, V any] struct {
	tree  *RedBlackTree[K, V]
	stack []*redBlackNode[K, V]

	// endNode, when set, is the last node this iterator produces; its
	// right subtree belongs to the iterator this one was split from.
	endNode *redBlackNode[K, V]

	hasStop bool
	stopKey K

	remaining int
}

var _ Iterator[int, any] = &RedBlackIterator[int, any]{}

// Iterator returns an iterator over all entries in ascending key order.
func (t *RedBlackTree[K, V]) Iterator() Iterator[K, V] {
	return t.RangeIterator(nil, nil)
}

// RangeIterator returns an iterator over entries with *from <= key <= *to
// in ascending key order. Both bounds are inclusive; a nil bound is
// unbounded on that side.
func (t *RedBlackTree[K, V]) RangeIterator(from, to *K) Iterator[K, V] {
	if t.root == nil {
		return emptyIterator[K, V]{}
	}
	if from != nil && to != nil && t.compare(*from, *to) > 0 {
		return emptyIterator[K, V]{}
	}

	it := &RedBlackIterator[K, V]{tree: t, remaining: t.size}
	if to != nil {
		it.hasStop = true
		it.stopKey = *to
	}

	// Initial descent. A node below the lower bound is skipped together
	// with its left subtree, but its right subtree may still hold
	// in-range keys, so the descent continues to the right.
	node := t.root
	for node != nil {
		if from == nil || t.compare(node.key, *from) >= 0 {
			it.stack = append(it.stack, node)
			node = node.left
		} else {
			node = node.right
		}
	}
	return it
}

// Iterate calls fn for each entry in ascending key order until fn returns
// false.
func (t *RedBlackTree[K, V]) Iterate(fn func(key K, value V) bool) {
	iterate(t.Iterator(), fn)
}

// Next returns the next entry, or false when the iterator is exhausted.
func (i *RedBlackIterator[K, V]) Next() (K, V, bool) {
	var zeroK K
	var zeroV V

	n := len(i.stack)
	if n == 0 {
		return zeroK, zeroV, false
	}

	node := i.stack[n-1]
	if i.hasStop && i.tree.compare(node.key, i.stopKey) > 0 {
		// Everything still stacked is past the upper bound.
		i.stack = nil
		i.remaining = 0
		return zeroK, zeroV, false
	}

	i.stack[n-1] = nil
	i.stack = i.stack[:n-1]
	if i.remaining > 0 {
		i.remaining--
	}

	if node == i.endNode {
		i.stack = nil
		i.remaining = 0
		return node.key, node.value, true
	}

	i.pushLeftSpine(node.right)
	return node.key, node.value, true
}

// EstimatedSize returns an estimate of the entries not yet produced. The
// estimate is exact for unbounded, unsplit iteration.
func (i *RedBlackIterator[K, V]) EstimatedSize() int {
	return i.remaining
}

// Split divides the remaining entries in two. The returned iterator
// produces a prefix ending at a pivot node, the deepest stacked ancestor
// still owned by this iterator; the receiver keeps the pivot's right
// subtree and everything ordered after it. The two partitions' estimates
// sum to the receiver's estimate before the split.
func (i *RedBlackIterator[K, V]) Split() Iterator[K, V] {
	if i.remaining < minSplitSize {
		return nil
	}

	// The bottom of the stack is normally the pivot. An iterator that is
	// itself a split prefix keeps its end marker at the bottom; the
	// marker's right subtree is not ours to hand out, so the pivot sits
	// one entry above it.
	pivotIndex := 0
	if i.endNode != nil && len(i.stack) > 0 && i.stack[0] == i.endNode {
		pivotIndex = 1
	}
	if len(i.stack) < pivotIndex+2 {
		return nil
	}
	pivot := i.stack[pivotIndex]

	prefixStack := make([]*redBlackNode[K, V], len(i.stack)-pivotIndex)
	copy(prefixStack, i.stack[pivotIndex:])

	prefixSize := i.remaining / 2
	prefix := &RedBlackIterator[K, V]{
		tree:      i.tree,
		stack:     prefixStack,
		endNode:   pivot,
		hasStop:   i.hasStop,
		stopKey:   i.stopKey,
		remaining: prefixSize,
	}

	// Keep only what is ordered after the pivot: the retained end marker
	// (if any) below the left spine of the pivot's right child.
	retained := make([]*redBlackNode[K, V], pivotIndex, pivotIndex+8)
	copy(retained, i.stack[:pivotIndex])
	i.stack = retained
	i.pushLeftSpine(pivot.right)
	i.remaining -= prefixSize

	return prefix
}

func (i *RedBlackIterator[K, V]) pushLeftSpine(node *redBlackNode[K, V]) {
	for node != nil {
		i.stack = append(i.stack, node)
		node = node.left
	}
}
