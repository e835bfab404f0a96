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

func newRedBlackTreeOfSize(tb testing.TB, count int) *RedBlackTree[int, string] {
	r := newRand(tb)

	tree := NewRedBlackTree[int, string]()
	for _, k := range r.Perm(count) {
		tree.Put(k, fmt.Sprintf("%d", k))
	}
	return tree
}

func requireEntriesAscending(t *testing.T, entries []Entry[int, string], first, last int) {
	t.Helper()

	require.Len(t, entries, last-first+1)
	for i, e := range entries {
		require.Equal(t, first+i, e.Key)
		require.Equal(t, fmt.Sprintf("%d", first+i), e.Value)
	}
}

func TestRedBlackIteratorEmpty(t *testing.T) {
	tree := NewRedBlackTree[int, string]()

	it := tree.Iterator()
	require.Equal(t, 0, it.EstimatedSize())
	require.Nil(t, it.Split())

	_, _, ok := it.Next()
	require.False(t, ok)
}

func TestRedBlackIteratorFull(t *testing.T) {

	const count = 1000

	tree := newRedBlackTreeOfSize(t, count)

	it := tree.Iterator()
	require.Equal(t, count, it.EstimatedSize())

	entries := drainIterator(it)
	requireEntriesAscending(t, entries, 0, count-1)
	require.Equal(t, 0, it.EstimatedSize())

	_, _, ok := it.Next()
	require.False(t, ok)
}

func TestRedBlackIteratorRange(t *testing.T) {

	const count = 100

	tree := newRedBlackTreeOfSize(t, count)

	intp := func(i int) *int { return &i }

	t.Run("both bounds inclusive", func(t *testing.T) {
		entries := drainIterator(tree.RangeIterator(intp(10), intp(20)))
		requireEntriesAscending(t, entries, 10, 20)
	})

	t.Run("lower bound only", func(t *testing.T) {
		entries := drainIterator(tree.RangeIterator(intp(90), nil))
		requireEntriesAscending(t, entries, 90, count-1)
	})

	t.Run("upper bound only", func(t *testing.T) {
		entries := drainIterator(tree.RangeIterator(nil, intp(9)))
		requireEntriesAscending(t, entries, 0, 9)
	})

	t.Run("no bounds", func(t *testing.T) {
		entries := drainIterator(tree.RangeIterator(nil, nil))
		requireEntriesAscending(t, entries, 0, count-1)
	})

	t.Run("single key range", func(t *testing.T) {
		entries := drainIterator(tree.RangeIterator(intp(42), intp(42)))
		requireEntriesAscending(t, entries, 42, 42)
	})

	t.Run("inverted bounds", func(t *testing.T) {
		entries := drainIterator(tree.RangeIterator(intp(20), intp(10)))
		require.Empty(t, entries)
	})

	t.Run("bounds past both ends", func(t *testing.T) {
		entries := drainIterator(tree.RangeIterator(intp(-100), intp(count+100)))
		requireEntriesAscending(t, entries, 0, count-1)
	})

	t.Run("range above largest key", func(t *testing.T) {
		entries := drainIterator(tree.RangeIterator(intp(count), intp(count+10)))
		require.Empty(t, entries)
	})
}

func TestRedBlackIteratorRangeAbsentBounds(t *testing.T) {
	tree := NewRedBlackTree[int, string]()
	for _, k := range []int{10, 20, 30, 40, 50} {
		tree.Put(k, fmt.Sprintf("%d", k))
	}

	from, to := 15, 45
	entries := drainIterator(tree.RangeIterator(&from, &to))

	require.Len(t, entries, 3)
	require.Equal(t, 20, entries[0].Key)
	require.Equal(t, 30, entries[1].Key)
	require.Equal(t, 40, entries[2].Key)
}

func TestRedBlackIterateEarlyStop(t *testing.T) {
	tree := newRedBlackTreeOfSize(t, 100)

	var visited []int
	tree.Iterate(func(k int, _ string) bool {
		visited = append(visited, k)
		return k < 9
	})

	require.Len(t, visited, 10)
	require.Equal(t, 9, visited[len(visited)-1])
}

func TestRedBlackIteratorSplit(t *testing.T) {

	const count = 1000

	t.Run("reassembly", func(t *testing.T) {
		tree := newRedBlackTreeOfSize(t, count)

		entries, pieces := drainSplitting[int, string](tree.Iterator())
		require.Greater(t, pieces, 1)
		requireEntriesAscending(t, entries, 0, count-1)
	})

	t.Run("estimates sum to original", func(t *testing.T) {
		tree := newRedBlackTreeOfSize(t, count)

		it := tree.Iterator()
		before := it.EstimatedSize()

		prefix := it.Split()
		require.NotNil(t, prefix)
		require.Equal(t, before, prefix.EstimatedSize()+it.EstimatedSize())
		require.Greater(t, prefix.EstimatedSize(), 0)
		require.Greater(t, it.EstimatedSize(), 0)
	})

	t.Run("prefix precedes receiver", func(t *testing.T) {
		tree := newRedBlackTreeOfSize(t, count)

		it := tree.Iterator()
		prefix := it.Split()
		require.NotNil(t, prefix)

		prefixEntries := drainIterator(prefix)
		receiverEntries := drainIterator(it)

		require.Equal(t, count, len(prefixEntries)+len(receiverEntries))
		require.Less(
			t,
			prefixEntries[len(prefixEntries)-1].Key,
			receiverEntries[0].Key,
		)
	})

	t.Run("small iterator does not split", func(t *testing.T) {
		tree := newRedBlackTreeOfSize(t, minSplitSize-1)
		require.Nil(t, tree.Iterator().Split())
	})

	t.Run("bounded iterator splits", func(t *testing.T) {
		tree := newRedBlackTreeOfSize(t, count)

		from, to := 100, 899
		it := tree.RangeIterator(&from, &to)

		entries, _ := drainSplitting[int, string](it)
		requireEntriesAscending(t, entries, from, to)
	})
}
