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

import (
	"cmp"
	"fmt"
	"slices"
)

// BPlusTree is an ordered map backed by a multi-way tree of the given
// order. Internal nodes hold only separator keys; values live exclusively
// in leaves, which form a sorted doubly-linked chain. All leaves sit at the
// same depth, and every node except the root holds between
// ceil(order/2)-1 and order-1 keys.
type BPlusTree[K, V any] struct {
	compare CompareFunc[K]
	order   int
	minKeys int

	root      bplusNode[K, V]
	firstLeaf *bplusLeaf[K, V]

	size      int
	leafCount int
	height    int
}

var _ OrderedMap[int, any] = &BPlusTree[int, any]{}

// NewBPlusTree creates an empty B+ tree of the given order (the maximum
// number of children per internal node), ordered by the natural order of
// its keys. It returns an error if order < 3.
func NewBPlusTree[K cmp.Ordered, V any](order int) (*BPlusTree[K, V], error) {
	return NewBPlusTreeFunc[K, V](order, cmp.Compare[K])
}

// NewBPlusTreeFunc creates an empty B+ tree of the given order, ordered by
// compare. It returns an error if order < 3 or compare is nil.
func NewBPlusTreeFunc[K, V any](order int, compare CompareFunc[K]) (*BPlusTree[K, V], error) {
	if order < 3 {
		return nil, NewInvalidOrderError(order)
	}
	if compare == nil {
		return nil, NewNilComparatorError()
	}
	return &BPlusTree[K, V]{
		compare: compare,
		order:   order,
		minKeys: (order+1)/2 - 1, // ceil(order/2) - 1
	}, nil
}

// Size returns the number of values in the tree.
func (t *BPlusTree[K, V]) Size() int {
	return t.size
}

// IsEmpty returns true if the tree holds no values.
func (t *BPlusTree[K, V]) IsEmpty() bool {
	return t.size == 0
}

// Order returns the maximum number of children per internal node.
func (t *BPlusTree[K, V]) Order() int {
	return t.order
}

// Comparator returns the comparator ordering this tree.
func (t *BPlusTree[K, V]) Comparator() CompareFunc[K] {
	return t.compare
}

// LeafCount returns the number of leaf nodes.
func (t *BPlusTree[K, V]) LeafCount() int {
	return t.leafCount
}

// Height returns the depth of the tree; an empty tree has height 0.
func (t *BPlusTree[K, V]) Height() int {
	return t.height
}

func (t *BPlusTree[K, V]) String() string {
	return fmt.Sprintf("B+ tree (Leafs: %d, Values: %d, Height: %d)", t.leafCount, t.size, t.height)
}

// Get returns the value stored for key, and false if key is absent.
func (t *BPlusTree[K, V]) Get(key K) (V, bool) {
	if t.root == nil {
		var zero V
		return zero, false
	}
	return t.root.search(t, key)
}

// ContainsKey returns true if key is present.
func (t *BPlusTree[K, V]) ContainsKey(key K) bool {
	_, found := t.Get(key)
	return found
}

// ContainsValue returns true if any stored value compares == to value.
// The dynamic type of value must be comparable.
func (t *BPlusTree[K, V]) ContainsValue(value V) bool {
	found := false
	t.Iterate(func(_ K, v V) bool {
		if valueEqual(v, value) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Put stores value under key, overwriting any existing value. It returns
// the previous value and true if key was already present.
func (t *BPlusTree[K, V]) Put(key K, value V) (V, bool) {
	return t.put(key, value, true)
}

// PutIfAbsent stores value under key only if key is absent. It returns the
// existing value and true if key was already present.
func (t *BPlusTree[K, V]) PutIfAbsent(key K, value V) (V, bool) {
	return t.put(key, value, false)
}

func (t *BPlusTree[K, V]) put(key K, value V, replace bool) (V, bool) {
	var zero V

	if t.root == nil {
		leaf := &bplusLeaf[K, V]{
			keys:   []K{key},
			values: []V{value},
		}
		t.root = leaf
		t.firstLeaf = leaf
		t.size = 1
		t.leafCount = 1
		t.height = 1
		return zero, false
	}

	if !replace {
		if existing, found := t.root.search(t, key); found {
			return existing, true
		}
	}

	res := t.root.insert(t, key, value)

	switch res.state {
	case splitReplaced:
		return res.replaced, true
	case splitInserted:
		t.size++
	case splitAbsorbed:
		// A leaf split somewhere below and was absorbed.
		t.size++
		t.leafCount++
	case splitUp:
		t.splitRoot(res)
		t.size++
		t.leafCount++
		t.height++
	default:
		panic(NewUnreachableError())
	}
	return zero, false
}

// splitRoot installs a new internal root over the two halves of a split
// that propagated all the way up, growing the tree by one level.
func (t *BPlusTree[K, V]) splitRoot(res splitResult[K, V]) {
	newRoot := &bplusInternal[K, V]{
		keys:     []K{res.key},
		children: []bplusNode[K, V]{res.left, res.right},
	}
	res.left.setParent(newRoot)
	res.right.setParent(newRoot)
	t.root = newRoot
}

// Remove deletes key and returns its value, or false if key is absent.
// Removing an absent key leaves the tree unchanged.
func (t *BPlusTree[K, V]) Remove(key K) (V, bool) {
	var zero V

	if t.root == nil {
		return zero, false
	}

	if t.size == 1 {
		if _, found := t.root.search(t, key); !found {
			return zero, false
		}
		removed := t.firstLeaf.values[0]
		t.Clear()
		return removed, true
	}

	res := t.root.delete(t, key, -1)
	if res.state == deleteNotFound {
		return zero, false
	}
	if res.state == deleteMerged {
		t.leafCount--
	}
	t.size--

	// A keyless internal root hands its sole child up, shrinking the
	// tree by one level.
	if internal, ok := t.root.(*bplusInternal[K, V]); ok && len(internal.keys) == 0 {
		t.root = internal.children[0]
		t.root.setParent(nil)
		t.height--
	}

	return res.value, true
}

// Clear removes all values.
func (t *BPlusTree[K, V]) Clear() {
	t.root = nil
	t.firstLeaf = nil
	t.size = 0
	t.leafCount = 0
	t.height = 0
}

// Node variants. The tree dispatches over exactly two implementations,
// bplusLeaf and bplusInternal.

type bplusNode[K, V any] interface {
	keyCount() int
	setParent(p *bplusInternal[K, V])
	search(t *BPlusTree[K, V], key K) (V, bool)
	findLeaf(t *BPlusTree[K, V], key K) *bplusLeaf[K, V]
	insert(t *BPlusTree[K, V], key K, value V) splitResult[K, V]
	delete(t *BPlusTree[K, V], key K, parentIndex int) deleteResult[K, V]
	firstLeafKey() K
}

type splitState uint8

const (
	// splitInserted: inserted without structural change.
	splitInserted splitState = iota
	// splitReplaced: an existing value was replaced in place.
	splitReplaced
	// splitAbsorbed: a node below split and the split was absorbed.
	splitAbsorbed
	// splitUp: this node split; key and right must go to the parent.
	splitUp
)

type splitResult[K, V any] struct {
	state    splitState
	replaced V
	key      K
	left     bplusNode[K, V]
	right    bplusNode[K, V]
}

type deleteState uint8

const (
	// deleteNotFound: the key is not in the tree, nothing changed.
	deleteNotFound deleteState = iota
	// deleteDone: deleted, any underflow is reported alongside.
	deleteDone
	// deleteMerged: deleted, and a leaf merge happened at or below this
	// level.
	deleteMerged
)

type deleteResult[K, V any] struct {
	state deleteState
	value V

	// replaceKey is set when the removed key was the first key of a
	// non-leftmost subtree; an ancestor separator may equal it and is
	// rewritten on the way up.
	replaceKey *K

	underflow bool
}

// Leaf node

type bplusLeaf[K, V any] struct {
	parent *bplusInternal[K, V]
	keys   []K
	values []V
	next   *bplusLeaf[K, V]
	prev   *bplusLeaf[K, V]
}

var _ bplusNode[int, any] = &bplusLeaf[int, any]{}

func (l *bplusLeaf[K, V]) keyCount() int {
	return len(l.keys)
}

func (l *bplusLeaf[K, V]) setParent(p *bplusInternal[K, V]) {
	l.parent = p
}

func (l *bplusLeaf[K, V]) firstLeafKey() K {
	return l.keys[0]
}

func (l *bplusLeaf[K, V]) search(t *BPlusTree[K, V], key K) (V, bool) {
	if i, found := slices.BinarySearchFunc(l.keys, key, t.compare); found {
		return l.values[i], true
	}
	var zero V
	return zero, false
}

func (l *bplusLeaf[K, V]) findLeaf(*BPlusTree[K, V], K) *bplusLeaf[K, V] {
	return l
}

func (l *bplusLeaf[K, V]) insert(t *BPlusTree[K, V], key K, value V) splitResult[K, V] {
	i, found := slices.BinarySearchFunc(l.keys, key, t.compare)
	if found {
		old := l.values[i]
		l.values[i] = value
		return splitResult[K, V]{state: splitReplaced, replaced: old}
	}

	l.keys = slices.Insert(l.keys, i, key)
	l.values = slices.Insert(l.values, i, value)
	if len(l.keys) < t.order {
		return splitResult[K, V]{state: splitInserted}
	}

	// The leaf overflowed. Split at the midpoint, splice the new right
	// leaf into the chain, and promote its first key as the separator;
	// leaf splits copy the separator upward rather than moving it.
	mid := len(l.keys) / 2

	right := &bplusLeaf[K, V]{parent: l.parent}
	right.keys = append(right.keys, l.keys[mid:]...)
	right.values = append(right.values, l.values[mid:]...)

	right.next = l.next
	right.prev = l
	if l.next != nil {
		l.next.prev = right
	}
	l.next = right

	l.keys = l.keys[:mid]
	l.values = l.values[:mid]

	return splitResult[K, V]{
		state: splitUp,
		key:   right.keys[0],
		left:  l,
		right: right,
	}
}

func (l *bplusLeaf[K, V]) delete(t *BPlusTree[K, V], key K, parentIndex int) deleteResult[K, V] {
	i, found := slices.BinarySearchFunc(l.keys, key, t.compare)
	if !found {
		return deleteResult[K, V]{state: deleteNotFound}
	}

	removed := l.values[i]
	l.keys = slices.Delete(l.keys, i, i+1)
	l.values = slices.Delete(l.values, i, i+1)

	res := deleteResult[K, V]{state: deleteDone, value: removed}
	res.underflow = l.parent != nil && len(l.keys) < t.minKeys

	if i == 0 && l.parent != nil && parentIndex > 0 && len(l.keys) > 0 {
		k := l.keys[0]
		res.replaceKey = &k
	}
	return res
}

// Internal node

type bplusInternal[K, V any] struct {
	parent   *bplusInternal[K, V]
	keys     []K
	children []bplusNode[K, V]
}

var _ bplusNode[int, any] = &bplusInternal[int, any]{}

func (n *bplusInternal[K, V]) keyCount() int {
	return len(n.keys)
}

func (n *bplusInternal[K, V]) setParent(p *bplusInternal[K, V]) {
	n.parent = p
}

func (n *bplusInternal[K, V]) firstLeafKey() K {
	return n.children[0].firstLeafKey()
}

// childIndex returns the index of the child subtree responsible for key.
// An exact separator match routes to the child right of the separator.
func (n *bplusInternal[K, V]) childIndex(t *BPlusTree[K, V], key K) int {
	i, found := slices.BinarySearchFunc(n.keys, key, t.compare)
	if found {
		return i + 1
	}
	return i
}

func (n *bplusInternal[K, V]) search(t *BPlusTree[K, V], key K) (V, bool) {
	return n.children[n.childIndex(t, key)].search(t, key)
}

func (n *bplusInternal[K, V]) findLeaf(t *BPlusTree[K, V], key K) *bplusLeaf[K, V] {
	return n.children[n.childIndex(t, key)].findLeaf(t, key)
}

func (n *bplusInternal[K, V]) insert(t *BPlusTree[K, V], key K, value V) splitResult[K, V] {
	ci := n.childIndex(t, key)
	res := n.children[ci].insert(t, key, value)
	if res.state != splitUp {
		return res
	}

	// Absorb the child split: the separator goes where the child sits,
	// the new right half one slot after it.
	n.keys = slices.Insert(n.keys, ci, res.key)
	n.children = slices.Insert(n.children, ci+1, res.right)
	res.right.setParent(n)

	if len(n.keys) < t.order {
		return splitResult[K, V]{state: splitAbsorbed}
	}

	// This node overflowed too. Unlike a leaf split, the middle key
	// moves up and is not kept in either half.
	mid := len(n.keys) / 2

	right := &bplusInternal[K, V]{parent: n.parent}
	right.keys = append(right.keys, n.keys[mid+1:]...)
	right.children = append(right.children, n.children[mid+1:]...)
	for _, child := range right.children {
		child.setParent(right)
	}

	upKey := n.keys[mid]
	n.keys = n.keys[:mid]
	n.children = n.children[:mid+1]

	return splitResult[K, V]{
		state: splitUp,
		key:   upKey,
		left:  n,
		right: right,
	}
}

func (n *bplusInternal[K, V]) delete(t *BPlusTree[K, V], key K, parentIndex int) deleteResult[K, V] {
	ci := n.childIndex(t, key)
	res := n.children[ci].delete(t, key, ci)
	if res.state == deleteNotFound {
		return res
	}

	// The removed key was the first of a non-leftmost subtree; it may
	// equal the separator left of that subtree.
	if res.replaceKey != nil && ci > 0 && ci-1 < len(n.keys) {
		n.keys[ci-1] = *res.replaceKey
	}
	res.replaceKey = nil

	if !res.underflow {
		return res
	}
	res.underflow = false

	var leftSibling, rightSibling bplusNode[K, V]
	if ci > 0 {
		leftSibling = n.children[ci-1]
	}
	if ci < len(n.children)-1 {
		rightSibling = n.children[ci+1]
	}

	// Borrow from a sibling with spare capacity, preferring the left;
	// borrowing resolves the underflow without changing node count.
	if leftSibling != nil && leftSibling.keyCount() > t.minKeys {
		n.borrowFromLeft(ci)
		return res
	}
	if rightSibling != nil && rightSibling.keyCount() > t.minKeys {
		n.borrowFromRight(ci)
		return res
	}

	// Neither sibling can lend: merge with whichever exists.
	switch {
	case leftSibling != nil:
		n.mergeChildren(ci - 1)
	case rightSibling != nil:
		n.mergeChildren(ci)
	default:
		panic(NewUnreachableError())
	}

	res.underflow = n.parent != nil && len(n.keys) < t.minKeys
	if ci == 0 && n.parent != nil && parentIndex > 0 {
		k := n.children[0].firstLeafKey()
		res.replaceKey = &k
	}
	res.state = deleteMerged
	return res
}

// borrowFromLeft moves one key (and for internal children, one subtree)
// from the left sibling across the separator into children[ci].
func (n *bplusInternal[K, V]) borrowFromLeft(ci int) {
	switch child := n.children[ci].(type) {
	case *bplusInternal[K, V]:
		left := n.children[ci-1].(*bplusInternal[K, V])

		// The separator rotates down into the child; the left
		// sibling's last key rotates up into the separator slot.
		child.keys = slices.Insert(child.keys, 0, n.keys[ci-1])
		n.keys[ci-1] = left.keys[len(left.keys)-1]
		left.keys = left.keys[:len(left.keys)-1]

		moved := left.children[len(left.children)-1]
		left.children = left.children[:len(left.children)-1]
		moved.setParent(child)
		child.children = slices.Insert(child.children, 0, moved)

	case *bplusLeaf[K, V]:
		left := n.children[ci-1].(*bplusLeaf[K, V])

		borrowedKey := left.keys[len(left.keys)-1]
		borrowedValue := left.values[len(left.values)-1]
		left.keys = left.keys[:len(left.keys)-1]
		left.values = left.values[:len(left.values)-1]

		child.keys = slices.Insert(child.keys, 0, borrowedKey)
		child.values = slices.Insert(child.values, 0, borrowedValue)

		// The borrowed key is the child's new first key and becomes
		// the separator.
		n.keys[ci-1] = borrowedKey

	default:
		panic(NewUnreachableError())
	}
}

// borrowFromRight moves one key (and for internal children, one subtree)
// from the right sibling across the separator into children[ci].
func (n *bplusInternal[K, V]) borrowFromRight(ci int) {
	switch child := n.children[ci].(type) {
	case *bplusInternal[K, V]:
		right := n.children[ci+1].(*bplusInternal[K, V])

		child.keys = append(child.keys, n.keys[ci])
		n.keys[ci] = right.keys[0]
		right.keys = slices.Delete(right.keys, 0, 1)

		moved := right.children[0]
		right.children = slices.Delete(right.children, 0, 1)
		moved.setParent(child)
		child.children = append(child.children, moved)

	case *bplusLeaf[K, V]:
		right := n.children[ci+1].(*bplusLeaf[K, V])

		borrowedKey := right.keys[0]
		borrowedValue := right.values[0]
		right.keys = slices.Delete(right.keys, 0, 1)
		right.values = slices.Delete(right.values, 0, 1)

		child.keys = append(child.keys, borrowedKey)
		child.values = append(child.values, borrowedValue)

		// The right sibling's new first key becomes the separator.
		n.keys[ci] = right.keys[0]

	default:
		panic(NewUnreachableError())
	}
}

// mergeChildren absorbs children[sepIndex+1] into children[sepIndex] and
// drops the separator between them. Merging leaves splices the chain;
// merging internal nodes pulls the separator down between the halves.
func (n *bplusInternal[K, V]) mergeChildren(sepIndex int) {
	switch left := n.children[sepIndex].(type) {
	case *bplusInternal[K, V]:
		right := n.children[sepIndex+1].(*bplusInternal[K, V])

		left.keys = append(left.keys, n.keys[sepIndex])
		left.keys = append(left.keys, right.keys...)
		for _, child := range right.children {
			child.setParent(left)
		}
		left.children = append(left.children, right.children...)

	case *bplusLeaf[K, V]:
		right := n.children[sepIndex+1].(*bplusLeaf[K, V])

		left.keys = append(left.keys, right.keys...)
		left.values = append(left.values, right.values...)

		left.next = right.next
		if right.next != nil {
			right.next.prev = left
		}

	default:
		panic(NewUnreachableError())
	}

	n.keys = slices.Delete(n.keys, sepIndex, sepIndex+1)
	n.children = slices.Delete(n.children, sepIndex+1, sepIndex+2)
}
