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
	"testing"

	"github.com/stretchr/testify/require"
)

// deleteTreeKeys and deleteTreeValues build a full three-level tree of
// order 3 that exercises leaf and internal splits on the way up and
// borrows and merges on the way down.
var (
	deleteTreeKeys   = []int{5, 15, 25, 35, 45, 20, 55, 30, 40}
	deleteTreeValues = []string{"a", "b", "d", "f", "h", "c", "i", "e", "g"}
)

func newDeleteTree(t *testing.T) *BPlusTree[int, string] {
	t.Helper()

	tree, err := NewBPlusTree[int, string](3)
	require.NoError(t, err)

	for i, k := range deleteTreeKeys {
		tree.Put(k, deleteTreeValues[i])
		verifyBPlus(t, tree)
	}
	return tree
}

func TestBPlusTreeInvalidOrder(t *testing.T) {
	for _, order := range []int{-1, 0, 1, 2} {
		tree, err := NewBPlusTree[int, string](order)
		require.Nil(t, tree)

		var invalidOrderError *InvalidOrderError
		require.ErrorAs(t, err, &invalidOrderError)
		require.False(t, invalidOrderError.IsFatal())
		require.Contains(t, err.Error(), fmt.Sprintf("%d", order))
	}
}

func TestBPlusTreeNilComparator(t *testing.T) {
	tree, err := NewBPlusTreeFunc[int, string](3, nil)
	require.Nil(t, tree)

	var nilComparatorError *NilComparatorError
	require.ErrorAs(t, err, &nilComparatorError)
}

func TestBPlusTreeEmpty(t *testing.T) {
	tree, err := NewBPlusTree[int, string](3)
	require.NoError(t, err)

	require.Equal(t, 0, tree.Size())
	require.True(t, tree.IsEmpty())
	require.Equal(t, 0, tree.LeafCount())
	require.Equal(t, 0, tree.Height())
	require.False(t, tree.ContainsKey(1))
	require.False(t, tree.ContainsValue("a"))

	_, ok := tree.Get(1)
	require.False(t, ok)

	_, ok = tree.Remove(1)
	require.False(t, ok)

	verifyBPlus(t, tree)
}

func TestBPlusTreePut(t *testing.T) {
	tree, err := NewBPlusTree[int, string](3)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		old, ok := tree.Put(i, fmt.Sprintf("%d", i))
		require.False(t, ok)
		require.Equal(t, "", old)
		verifyBPlus(t, tree)
	}

	require.Equal(t, 5, tree.Size())
	require.Equal(t, 4, tree.LeafCount())
	require.Equal(t, 3, tree.Height())

	for i := 1; i <= 5; i++ {
		v, ok := tree.Get(i)
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("%d", i), v)
	}

	_, ok := tree.Get(6)
	require.False(t, ok)

	_, ok = tree.Get(-1)
	require.False(t, ok)
}

func TestBPlusTreePutReplace(t *testing.T) {
	tree, err := NewBPlusTree[int, string](3)
	require.NoError(t, err)

	tree.Put(1, "a")
	tree.Put(2, "b")

	old, ok := tree.Put(1, "A")
	require.True(t, ok)
	require.Equal(t, "a", old)
	require.Equal(t, 2, tree.Size())

	v, ok := tree.Get(1)
	require.True(t, ok)
	require.Equal(t, "A", v)

	verifyBPlus(t, tree)
}

func TestBPlusTreePutIfAbsent(t *testing.T) {
	tree, err := NewBPlusTree[int, string](3)
	require.NoError(t, err)

	old, ok := tree.PutIfAbsent(1, "a")
	require.False(t, ok)
	require.Equal(t, "", old)

	old, ok = tree.PutIfAbsent(1, "A")
	require.True(t, ok)
	require.Equal(t, "a", old)
	require.Equal(t, 1, tree.Size())

	v, ok := tree.Get(1)
	require.True(t, ok)
	require.Equal(t, "a", v)

	verifyBPlus(t, tree)
}

func TestBPlusTreeRemove(t *testing.T) {

	t.Run("two removals", func(t *testing.T) {
		tree := newDeleteTree(t)
		require.Equal(t, "abcdefghi", joinedValues[int, string](tree))

		v, ok := tree.Remove(40)
		require.True(t, ok)
		require.Equal(t, "g", v)
		verifyBPlus(t, tree)

		v, ok = tree.Remove(5)
		require.True(t, ok)
		require.Equal(t, "a", v)
		verifyBPlus(t, tree)

		require.Equal(t, "bcdefhi", joinedValues[int, string](tree))
		require.Equal(t, 5, tree.LeafCount())
		require.Equal(t, 3, tree.Height())
		require.Equal(t, 7, tree.Size())
	})

	t.Run("ascending drain", func(t *testing.T) {
		tree := newDeleteTree(t)

		want := "abcdefghi"
		for i, k := range []int{5, 15, 20, 25, 30, 35, 40, 45, 55} {
			v, ok := tree.Remove(k)
			require.True(t, ok)
			require.Equal(t, string(want[i]), v)
			require.Equal(t, want[i+1:], joinedValues[int, string](tree))
			verifyBPlus(t, tree)
		}

		require.True(t, tree.IsEmpty())
		require.Equal(t, 0, tree.LeafCount())
		require.Equal(t, 0, tree.Height())
	})

	t.Run("single element", func(t *testing.T) {
		tree, err := NewBPlusTree[int, string](3)
		require.NoError(t, err)

		tree.Put(1, "a")

		v, ok := tree.Remove(1)
		require.True(t, ok)
		require.Equal(t, "a", v)
		require.Equal(t, 0, tree.Size())
		require.True(t, tree.IsEmpty())
		verifyBPlus(t, tree)
	})

	t.Run("absent key", func(t *testing.T) {
		tree := newDeleteTree(t)

		_, ok := tree.Remove(1000)
		require.False(t, ok)
		require.Equal(t, len(deleteTreeKeys), tree.Size())
		verifyBPlus(t, tree)
	})
}

func TestBPlusTreeCustomComparator(t *testing.T) {
	tree, err := NewBPlusTreeFunc[int, string](3, func(a, b int) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		default:
			return 0
		}
	})
	require.NoError(t, err)

	keys := []int{1, 5, 2, 4, 3}
	values := []string{"a", "b", "c", "d", "e"}
	for i, k := range keys {
		tree.Put(k, values[i])
		verifyBPlus(t, tree)
	}

	require.Equal(t, "edcba", joinedValues[int, string](tree))
}

func TestBPlusTreeContainsValue(t *testing.T) {
	tree, err := NewBPlusTree[int, string](3)
	require.NoError(t, err)

	tree.Put(1, "a")
	tree.Put(2, "b")

	require.True(t, tree.ContainsValue("a"))
	require.True(t, tree.ContainsValue("b"))
	require.False(t, tree.ContainsValue("c"))
}

func TestBPlusTreeClear(t *testing.T) {
	tree, err := NewBPlusTree[int, string](4)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		tree.Put(i, fmt.Sprintf("%d", i))
	}

	tree.Clear()

	require.Equal(t, 0, tree.Size())
	require.Equal(t, 0, tree.LeafCount())
	require.Equal(t, 0, tree.Height())
	require.True(t, tree.IsEmpty())
	require.False(t, tree.ContainsKey(50))
	verifyBPlus(t, tree)

	// reusable after clearing
	tree.Put(1, "a")
	require.Equal(t, 1, tree.Size())
	require.Equal(t, 1, tree.LeafCount())
	require.Equal(t, 1, tree.Height())
	verifyBPlus(t, tree)
}

func TestBPlusTreeRandomOperations(t *testing.T) {

	const (
		opCount  = 2048
		keySpace = 512
	)

	for _, order := range []int{3, 4, 8, 128} {

		name := fmt.Sprintf("order %d", order)

		t.Run(name, func(t *testing.T) {
			r := newRand(t)

			tree, err := NewBPlusTree[int, string](order)
			require.NoError(t, err)

			oracle := make(map[int]string)

			for i := 0; i < opCount; i++ {
				k := r.Intn(keySpace)

				switch r.Intn(4) {
				case 0, 1:
					v := randStr(r, 8)
					old, ok := tree.Put(k, v)
					wantOld, wantOK := oracle[k]
					require.Equal(t, wantOK, ok)
					require.Equal(t, wantOld, old)
					oracle[k] = v

				case 2:
					old, ok := tree.Remove(k)
					wantOld, wantOK := oracle[k]
					require.Equal(t, wantOK, ok)
					require.Equal(t, wantOld, old)
					delete(oracle, k)

				case 3:
					v := randStr(r, 8)
					old, ok := tree.PutIfAbsent(k, v)
					wantOld, wantOK := oracle[k]
					require.Equal(t, wantOK, ok)
					require.Equal(t, wantOld, old)
					if !wantOK {
						oracle[k] = v
					}
				}

				verifyBPlus(t, tree)
			}

			verifyAgainstOracle(t, tree, oracle)
		})
	}
}

func TestBPlusTreeDrainToEmpty(t *testing.T) {

	const count = 1024

	for _, order := range []int{3, 4, 16} {

		name := fmt.Sprintf("order %d", order)

		t.Run(name, func(t *testing.T) {
			r := newRand(t)

			tree, err := NewBPlusTree[int, string](order)
			require.NoError(t, err)

			for _, k := range r.Perm(count) {
				tree.Put(k, fmt.Sprintf("%d", k))
			}
			verifyBPlus(t, tree)

			for i, k := range r.Perm(count) {
				v, ok := tree.Remove(k)
				require.True(t, ok)
				require.Equal(t, fmt.Sprintf("%d", k), v)
				require.Equal(t, count-i-1, tree.Size())
				verifyBPlus(t, tree)
			}

			require.True(t, tree.IsEmpty())
			require.Equal(t, 0, tree.LeafCount())
			require.Equal(t, 0, tree.Height())
		})
	}
}

func TestBPlusTreeString(t *testing.T) {
	tree, err := NewBPlusTree[int, string](3)
	require.NoError(t, err)

	tree.Put(1, "a")
	tree.Put(2, "b")
	tree.Put(3, "c")

	require.Equal(t, "B+ tree (Leafs: 2, Values: 3, Height: 2)", tree.String())
	require.Equal(t, "a --> b --> c", tree.ValuesString())
}
