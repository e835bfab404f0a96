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
)

type nodeColor bool

const (
	red   nodeColor = true
	black nodeColor = false
)

type redBlackNode[K, V any] struct {
	key    K
	value  V
	parent *redBlackNode[K, V]
	left   *redBlackNode[K, V]
	right  *redBlackNode[K, V]
	color  nodeColor

	// sentinel marks the transient black placeholder spliced in during
	// delete fixup to stand for an absent child. It never stores a key
	// or value and is detached once the fixup loop ends.
	sentinel bool
}

// RedBlackTree is an ordered map backed by a self-balancing binary tree.
//
// The tree maintains the red-black invariants:
//  1. every node is either red or black,
//  2. the root is black,
//  3. every absent child counts as black,
//  4. a red node has two black children,
//  5. every path from a node to an absent child passes the same number of
//     black nodes.
type RedBlackTree[K, V any] struct {
	compare CompareFunc[K]
	root    *redBlackNode[K, V]
	size    int
}

var _ OrderedMap[int, any] = &RedBlackTree[int, any]{}

// NewRedBlackTree creates an empty red-black tree ordered by the natural
// order of its keys.
func NewRedBlackTree[K cmp.Ordered, V any]() *RedBlackTree[K, V] {
	return &RedBlackTree[K, V]{compare: cmp.Compare[K]}
}

// NewRedBlackTreeFunc creates an empty red-black tree ordered by compare.
func NewRedBlackTreeFunc[K, V any](compare CompareFunc[K]) (*RedBlackTree[K, V], error) {
	if compare == nil {
		return nil, NewNilComparatorError()
	}
	return &RedBlackTree[K, V]{compare: compare}, nil
}

// Size returns the number of values in the tree.
func (t *RedBlackTree[K, V]) Size() int {
	return t.size
}

// IsEmpty returns true if the tree holds no values.
func (t *RedBlackTree[K, V]) IsEmpty() bool {
	return t.size == 0
}

// Comparator returns the comparator ordering this tree.
func (t *RedBlackTree[K, V]) Comparator() CompareFunc[K] {
	return t.compare
}

func (t *RedBlackTree[K, V]) String() string {
	return fmt.Sprintf("RedBlack tree (Values: %d)", t.size)
}

// Get returns the value stored for key, and false if key is absent.
func (t *RedBlackTree[K, V]) Get(key K) (V, bool) {
	node := t.root
	for node != nil {
		switch c := t.compare(key, node.key); {
		case c < 0:
			node = node.left
		case c > 0:
			node = node.right
		default:
			return node.value, true
		}
	}
	var zero V
	return zero, false
}

// ContainsKey returns true if key is present.
func (t *RedBlackTree[K, V]) ContainsKey(key K) bool {
	_, found := t.Get(key)
	return found
}

// ContainsValue returns true if any stored value compares == to value.
// The dynamic type of value must be comparable.
func (t *RedBlackTree[K, V]) ContainsValue(value V) bool {
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
func (t *RedBlackTree[K, V]) Put(key K, value V) (V, bool) {
	return t.put(key, value, true)
}

// PutIfAbsent stores value under key only if key is absent. It returns the
// existing value and true if key was already present; an existing key is a
// no-op.
func (t *RedBlackTree[K, V]) PutIfAbsent(key K, value V) (V, bool) {
	return t.put(key, value, false)
}

func (t *RedBlackTree[K, V]) put(key K, value V, replace bool) (V, bool) {
	var zero V

	if t.root == nil {
		t.root = &redBlackNode[K, V]{key: key, value: value, color: black}
		t.size = 1
		return zero, false
	}

	// Find the node to insert under. An equal key short-circuits without
	// restructuring the tree.
	var target *redBlackNode[K, V]
	for node := t.root; node != nil; {
		c := t.compare(key, node.key)
		if c == 0 {
			old := node.value
			if replace {
				node.value = value
			}
			return old, true
		}
		target = node
		if c < 0 {
			node = node.left
		} else {
			node = node.right
		}
	}

	node := &redBlackNode[K, V]{key: key, value: value, color: red, parent: target}
	if t.compare(key, target.key) < 0 {
		target.left = node
	} else {
		target.right = node
	}

	t.insertFixup(node)

	t.size++
	return zero, false
}

// insertFixup restores the red-black invariants after attaching a red node.
func (t *RedBlackTree[K, V]) insertFixup(node *redBlackNode[K, V]) {
	// Nothing to do when the parent is black; a red parent violates
	// invariant 4 because inserted nodes are always red.
	for node.parent != nil && node.parent.color == red {
		parent := node.parent
		grandparent := parent.parent

		inLeftSubtree := grandparent.left == parent
		uncle := grandparent.right
		if !inLeftSubtree {
			uncle = grandparent.left
		}

		if uncle != nil && uncle.color == red {
			// Red uncle: recolor the grandparent red and its
			// children black, then continue the fixup from the
			// grandparent.
			grandparent.color = red
			if grandparent.left != nil {
				grandparent.left.color = black
			}
			if grandparent.right != nil {
				grandparent.right.color = black
			}
			node = grandparent
			continue
		}

		// Black or absent uncle. An inner child forms a triangle with
		// its parent and grandparent; rotate at the parent first so
		// the node becomes an outer child.
		if inLeftSubtree && node == parent.right {
			t.rotateLeft(parent)
			parent = node
		} else if !inLeftSubtree && node == parent.left {
			t.rotateRight(parent)
			parent = node
		}

		// Node, parent and grandparent now form a straight line with
		// two reds on top of a black. Rotating at the grandparent and
		// recoloring fixes the tree.
		if inLeftSubtree {
			t.rotateRight(grandparent)
		} else {
			t.rotateLeft(grandparent)
		}
		parent.color = black
		grandparent.color = red
		break
	}

	// The root is always black.
	t.root.color = black
}

// Remove deletes key and returns its value, or false if key is absent.
func (t *RedBlackTree[K, V]) Remove(key K) (V, bool) {
	var zero V

	node := t.root
	for node != nil {
		c := t.compare(key, node.key)
		if c == 0 {
			break
		}
		if c < 0 {
			node = node.left
		} else {
			node = node.right
		}
	}
	if node == nil {
		return zero, false
	}

	removed := node.value

	// A node with two children swaps contents with its in-order
	// successor, which has at most one child, and is spliced out in its
	// place.
	if node.left != nil && node.right != nil {
		successor := node.right
		for successor.left != nil {
			successor = successor.left
		}
		node.key = successor.key
		node.value = successor.value
		node = successor
	}

	removedColor := node.color
	var movedUp *redBlackNode[K, V]

	switch {
	case node.left != nil:
		movedUp = node.left
		t.replaceChild(node.parent, node, node.left)
	case node.right != nil:
		movedUp = node.right
		t.replaceChild(node.parent, node, node.right)
	default:
		// Splicing out a childless black node needs a transient
		// sentinel to carry its color through the fixup loop.
		if removedColor == black {
			movedUp = &redBlackNode[K, V]{color: black, sentinel: true}
		}
		t.replaceChild(node.parent, node, movedUp)
	}

	if removedColor == black {
		// Removing a black node breaks the black-height invariant.
		t.deleteFixup(movedUp)

		if movedUp != nil && movedUp.sentinel {
			t.replaceChild(movedUp.parent, movedUp, nil)
		}
	}

	t.size--
	return removed, true
}

// deleteFixup restores the red-black invariants after a black node was
// spliced out, starting from the node that took its place.
func (t *RedBlackTree[K, V]) deleteFixup(node *redBlackNode[K, V]) {
	// A red node absorbs the missing black by turning black after the
	// loop; only a black node carries the deficit upward.
	for node != t.root && node.color == black {
		parent := node.parent
		sibling := parent.right
		if node == parent.right {
			sibling = parent.left
		}

		// Red sibling: recolor and rotate toward the node's side so
		// the sibling becomes black.
		if sibling.color == red {
			sibling.color = black
			parent.color = red

			if node == parent.left {
				t.rotateLeft(parent)
				sibling = parent.right
			} else {
				t.rotateRight(parent)
				sibling = parent.left
			}
		}

		siblingLeftBlack := sibling.left == nil || sibling.left.color == black
		siblingRightBlack := sibling.right == nil || sibling.right.color == black

		if siblingLeftBlack && siblingRightBlack {
			sibling.color = red

			if parent.color == red {
				// Black sibling with two black children and a
				// red parent: recoloring the parent settles
				// the black height.
				parent.color = black
				break
			}
			// Black parent: the whole subtree lost a black node,
			// continue the fixup one level up.
			node = parent
			continue
		}

		nodeIsLeftChild := node == parent.left

		// The sibling has a red child. If it sits on the inner side,
		// rotate at the sibling to move it to the outer side first.
		if nodeIsLeftChild && siblingRightBlack {
			sibling.left.color = black
			sibling.color = red
			t.rotateRight(sibling)
			sibling = parent.right
		} else if !nodeIsLeftChild && siblingLeftBlack {
			sibling.right.color = black
			sibling.color = red
			t.rotateLeft(sibling)
			sibling = parent.left
		}

		// Black sibling with a red outer child: rotate at the parent
		// toward the node's side and recolor.
		sibling.color = parent.color
		parent.color = black
		if nodeIsLeftChild {
			sibling.right.color = black
			t.rotateLeft(parent)
		} else {
			sibling.left.color = black
			t.rotateRight(parent)
		}
		break
	}

	node.color = black
}

// replaceChild swaps oldChild for newChild under parent. A nil parent
// replaces the root; a nil newChild detaches oldChild.
func (t *RedBlackTree[K, V]) replaceChild(parent, oldChild, newChild *redBlackNode[K, V]) {
	switch {
	case parent == nil:
		t.root = newChild
	case parent.left == oldChild:
		parent.left = newChild
	case parent.right == oldChild:
		parent.right = newChild
	default:
		panic(NewFatalErrorf("node is not a child of its claimed parent"))
	}

	if newChild != nil {
		newChild.parent = parent
	}
}

func (t *RedBlackTree[K, V]) rotateLeft(x *redBlackNode[K, V]) {
	y := x.right
	x.right = y.left

	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent

	switch {
	case x.parent == nil:
		t.root = y
	case x == x.parent.left:
		x.parent.left = y
	default:
		x.parent.right = y
	}

	y.left = x
	x.parent = y
}

func (t *RedBlackTree[K, V]) rotateRight(x *redBlackNode[K, V]) {
	y := x.left
	x.left = y.right

	if y.right != nil {
		y.right.parent = x
	}
	y.parent = x.parent

	switch {
	case x.parent == nil:
		t.root = y
	case x == x.parent.right:
		x.parent.right = y
	default:
		x.parent.left = y
	}

	y.right = x
	x.parent = y
}

// Clear removes all values.
func (t *RedBlackTree[K, V]) Clear() {
	t.root = nil
	t.size = 0
}
