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

// VerifyRedBlackTree checks every structural invariant of the tree: the
// root is black, red nodes have black children, all paths to an absent
// child pass the same number of black nodes, keys are strictly ascending in
// order, parent back-references are consistent, and the node count matches
// Size(). It returns a *FatalError describing the first violation found.
func VerifyRedBlackTree[K, V any](t *RedBlackTree[K, V]) error {
	if t.root == nil {
		if t.size != 0 {
			return NewFatalErrorf("empty tree has size %d, want 0", t.size)
		}
		return nil
	}

	if t.root.parent != nil {
		return NewFatalErrorf("root has a parent")
	}
	if t.root.color != black {
		return NewFatalErrorf("root is red")
	}

	count, _, err := verifyRedBlackNode(t.compare, t.root, nil, nil)
	if err != nil {
		return err
	}
	if count != t.size {
		return NewFatalErrorf("tree has %d nodes, size is %d", count, t.size)
	}
	return nil
}

// verifyRedBlackNode returns the node count and black-height of the subtree
// rooted at node, with keys bounded exclusively by min and max.
func verifyRedBlackNode[K, V any](
	compare CompareFunc[K],
	node *redBlackNode[K, V],
	min *K,
	max *K,
) (int, int, error) {
	if node == nil {
		// An absent child counts as one black node.
		return 0, 1, nil
	}

	if node.sentinel {
		return 0, 0, NewFatalErrorf("transient delete sentinel left attached")
	}
	if min != nil && compare(node.key, *min) <= 0 {
		return 0, 0, NewFatalErrorf("key %v is out of order", node.key)
	}
	if max != nil && compare(node.key, *max) >= 0 {
		return 0, 0, NewFatalErrorf("key %v is out of order", node.key)
	}
	if node.color == red {
		if node.left != nil && node.left.color == red {
			return 0, 0, NewFatalErrorf("red node %v has a red left child", node.key)
		}
		if node.right != nil && node.right.color == red {
			return 0, 0, NewFatalErrorf("red node %v has a red right child", node.key)
		}
	}
	if node.left != nil && node.left.parent != node {
		return 0, 0, NewFatalErrorf("left child of %v has a stale parent reference", node.key)
	}
	if node.right != nil && node.right.parent != node {
		return 0, 0, NewFatalErrorf("right child of %v has a stale parent reference", node.key)
	}

	leftCount, leftBlack, err := verifyRedBlackNode(compare, node.left, min, &node.key)
	if err != nil {
		return 0, 0, err
	}
	rightCount, rightBlack, err := verifyRedBlackNode(compare, node.right, &node.key, max)
	if err != nil {
		return 0, 0, err
	}
	if leftBlack != rightBlack {
		return 0, 0, NewFatalErrorf(
			"black-height mismatch at %v: left %d, right %d",
			node.key, leftBlack, rightBlack,
		)
	}

	blackHeight := leftBlack
	if node.color == black {
		blackHeight++
	}
	return leftCount + rightCount + 1, blackHeight, nil
}

// DumpRedBlackTree returns one line per tree level, top down, with each
// node rendered as "key(R)" or "key(B)".
func DumpRedBlackTree[K, V any](t *RedBlackTree[K, V]) []string {
	if t.root == nil {
		return nil
	}

	var dumps []string

	level := []*redBlackNode[K, V]{t.root}
	for len(level) > 0 {
		var sb strings.Builder
		var next []*redBlackNode[K, V]

		for i, node := range level {
			if i > 0 {
				sb.WriteString(" ")
			}
			c := "B"
			if node.color == red {
				c = "R"
			}
			fmt.Fprintf(&sb, "%v(%s)", node.key, c)

			if node.left != nil {
				next = append(next, node.left)
			}
			if node.right != nil {
				next = append(next, node.right)
			}
		}

		dumps = append(dumps, sb.String())
		level = next
	}
	return dumps
}

// PrintRedBlackTree prints the tree level by level to stdout.
func PrintRedBlackTree[K, V any](t *RedBlackTree[K, V]) {
	fmt.Println(strings.Join(DumpRedBlackTree(t), "\n"))
}

// ValuesString returns the in-order values joined by " --> ".
func (t *RedBlackTree[K, V]) ValuesString() string {
	var parts []string
	t.Iterate(func(_ K, v V) bool {
		parts = append(parts, fmt.Sprintf("%v", v))
		return true
	})
	return strings.Join(parts, " --> ")
}
