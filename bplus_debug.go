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
	"fmt"
	"strings"
)

// VerifyBPlusTree checks every structural invariant of the tree: all
// leaves at depth Height(), key-count bounds on every non-root node, child
// count = key count + 1 on internal nodes, separator bounds on every
// subtree, parent back-references, a doubly-linked leaf chain yielding
// every key exactly once in ascending order, and LeafCount()/Size()
// consistency. It returns a *FatalError describing the first violation
// found.
func VerifyBPlusTree[K, V any](t *BPlusTree[K, V]) error {
	if t.root == nil {
		switch {
		case t.size != 0:
			return NewFatalErrorf("empty tree has size %d, want 0", t.size)
		case t.leafCount != 0:
			return NewFatalErrorf("empty tree has leaf count %d, want 0", t.leafCount)
		case t.height != 0:
			return NewFatalErrorf("empty tree has height %d, want 0", t.height)
		case t.firstLeaf != nil:
			return NewFatalErrorf("empty tree has a first leaf")
		}
		return nil
	}

	v := &bplusVerifier[K, V]{tree: t}
	if err := v.verifyNode(t.root, nil, 1, nil, nil); err != nil {
		return err
	}
	return v.verifyChain()
}

type bplusVerifier[K, V any] struct {
	tree *BPlusTree[K, V]

	// leaves collected left to right during the descent, used to check
	// the chain matches the tree shape.
	leaves []*bplusLeaf[K, V]
}

func (v *bplusVerifier[K, V]) verifyNode(
	node bplusNode[K, V],
	parent *bplusInternal[K, V],
	depth int,
	min *K,
	max *K,
) error {
	t := v.tree

	count := node.keyCount()
	if parent == nil {
		if count < 1 {
			return NewFatalErrorf("root holds no keys")
		}
	} else if count < t.minKeys || count > t.order-1 {
		return NewFatalErrorf(
			"node at depth %d holds %d keys, want %d to %d",
			depth, count, t.minKeys, t.order-1,
		)
	}

	switch n := node.(type) {
	case *bplusInternal[K, V]:
		if n.parent != parent {
			return NewFatalErrorf("internal node at depth %d has a stale parent reference", depth)
		}
		if err := v.verifyKeys(n.keys, min, max); err != nil {
			return err
		}
		if len(n.children) != len(n.keys)+1 {
			return NewFatalErrorf(
				"internal node at depth %d has %d children for %d keys",
				depth, len(n.children), len(n.keys),
			)
		}
		for i, child := range n.children {
			childMin, childMax := min, max
			if i > 0 {
				childMin = &n.keys[i-1]
			}
			if i < len(n.keys) {
				childMax = &n.keys[i]
			}
			if err := v.verifyNode(child, n, depth+1, childMin, childMax); err != nil {
				return err
			}
		}
		return nil

	case *bplusLeaf[K, V]:
		if n.parent != parent {
			return NewFatalErrorf("leaf at depth %d has a stale parent reference", depth)
		}
		if err := v.verifyKeys(n.keys, min, max); err != nil {
			return err
		}
		if len(n.values) != len(n.keys) {
			return NewFatalErrorf(
				"leaf holds %d values for %d keys", len(n.values), len(n.keys),
			)
		}
		if depth != t.height {
			return NewFatalErrorf("leaf at depth %d, want uniform depth %d", depth, t.height)
		}
		v.leaves = append(v.leaves, n)
		return nil

	default:
		panic(NewUnreachableError())
	}
}

// verifyKeys checks keys are strictly ascending and within the separator
// bounds min (inclusive) and max (exclusive).
func (v *bplusVerifier[K, V]) verifyKeys(keys []K, min *K, max *K) error {
	compare := v.tree.compare
	for i, key := range keys {
		if i > 0 && compare(keys[i-1], key) >= 0 {
			return NewFatalErrorf("keys %v and %v are out of order", keys[i-1], key)
		}
		if min != nil && compare(key, *min) < 0 {
			return NewFatalErrorf("key %v is below its subtree separator %v", key, *min)
		}
		if max != nil && compare(key, *max) >= 0 {
			return NewFatalErrorf("key %v is not below its subtree separator %v", key, *max)
		}
	}
	return nil
}

// verifyChain checks the leaf chain against the leaves found by descent.
func (v *bplusVerifier[K, V]) verifyChain() error {
	t := v.tree

	if len(v.leaves) != t.leafCount {
		return NewFatalErrorf("tree has %d leaves, leaf count is %d", len(v.leaves), t.leafCount)
	}
	if t.firstLeaf != v.leaves[0] {
		return NewFatalErrorf("first leaf is not the leftmost leaf")
	}

	total := 0
	for i, leaf := range v.leaves {
		total += len(leaf.keys)

		var wantPrev, wantNext *bplusLeaf[K, V]
		if i > 0 {
			wantPrev = v.leaves[i-1]
		}
		if i < len(v.leaves)-1 {
			wantNext = v.leaves[i+1]
		}
		if leaf.prev != wantPrev {
			return NewFatalErrorf("leaf %d has a broken prev link", i)
		}
		if leaf.next != wantNext {
			return NewFatalErrorf("leaf %d has a broken next link", i)
		}
		if i > 0 {
			prev := v.leaves[i-1]
			if t.compare(prev.keys[len(prev.keys)-1], leaf.keys[0]) >= 0 {
				return NewFatalErrorf("leaf chain is out of order at leaf %d", i)
			}
		}
	}
	if total != t.size {
		return NewFatalErrorf("leaf chain holds %d keys, size is %d", total, t.size)
	}
	return nil
}

// DumpBPlusTree returns one line per tree level, top down, with each
// node's keys rendered between pipes the way a breadth-first walk sees
// them.
func DumpBPlusTree[K, V any](t *BPlusTree[K, V]) []string {
	if t.root == nil {
		return nil
	}

	var dumps []string

	level := []bplusNode[K, V]{t.root}
	for len(level) > 0 {
		var sb strings.Builder
		var next []bplusNode[K, V]

		for i, node := range level {
			if i > 0 {
				sb.WriteString(" ")
			}
			switch n := node.(type) {
			case *bplusInternal[K, V]:
				fmt.Fprintf(&sb, "|%v|", n.keys)
				next = append(next, n.children...)
			case *bplusLeaf[K, V]:
				fmt.Fprintf(&sb, "|%v|", n.keys)
			}
		}

		dumps = append(dumps, sb.String())
		level = next
	}
	return dumps
}

// PrintBPlusTree prints the tree level by level to stdout.
func PrintBPlusTree[K, V any](t *BPlusTree[K, V]) {
	fmt.Println(strings.Join(DumpBPlusTree(t), "\n"))
}

// ValuesString returns the in-order values joined by " --> ".
func (t *BPlusTree[K, V]) ValuesString() string {
	var parts []string
	t.Iterate(func(_ K, v V) bool {
		parts = append(parts, fmt.Sprintf("%v", v))
		return true
	})
	return strings.Join(parts, " --> ")
}
