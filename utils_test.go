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
	"flag"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	runes = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_")
)

var seed = flag.Int64("seed", 0, "seed for pseudo-random source")

func newRand(tb testing.TB) *rand.Rand {
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	// Benchmarks always log, so only log for tests which
	// will only log with -v flag or on error.
	if t, ok := tb.(*testing.T); ok {
		t.Logf("seed: %d\n", *seed)
	}

	return rand.New(rand.NewSource(*seed))
}

// randStr returns random string of given length.
func randStr(r *rand.Rand, length int) string {
	b := make([]rune, length)
	for i := 0; i < length; i++ {
		b[i] = runes[r.Intn(len(runes))]
	}
	return string(b)
}

func verifyRedBlack[K, V any](t *testing.T, tree *RedBlackTree[K, V]) {
	t.Helper()
	require.NoError(t, VerifyRedBlackTree(tree))
}

func verifyBPlus[K, V any](t *testing.T, tree *BPlusTree[K, V]) {
	t.Helper()
	require.NoError(t, VerifyBPlusTree(tree))
}

// verifyAgainstOracle checks the map has exactly the contents of oracle,
// both by point lookups and by full ascending iteration.
func verifyAgainstOracle(t *testing.T, m OrderedMap[int, string], oracle map[int]string) {
	t.Helper()

	require.Equal(t, len(oracle), m.Size())
	require.Equal(t, len(oracle) == 0, m.IsEmpty())

	sortedKeys := make([]int, 0, len(oracle))
	for k := range oracle {
		require.True(t, m.ContainsKey(k))

		v, ok := m.Get(k)
		require.True(t, ok)
		require.Equal(t, oracle[k], v)

		sortedKeys = append(sortedKeys, k)
	}
	slices.Sort(sortedKeys)

	i := 0
	m.Iterate(func(k int, v string) bool {
		require.Less(t, i, len(sortedKeys))
		require.Equal(t, sortedKeys[i], k)
		require.Equal(t, oracle[k], v)
		i++
		return true
	})
	require.Equal(t, len(sortedKeys), i)
}

// drainIterator collects every remaining entry of it in order.
func drainIterator[K, V any](it Iterator[K, V]) []Entry[K, V] {
	var entries []Entry[K, V]
	for {
		k, v, ok := it.Next()
		if !ok {
			return entries
		}
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
	}
}

// drainSplitting recursively splits it as far as it will go, then drains
// each piece, returning the concatenation in original order along with
// the number of pieces produced.
func drainSplitting[K, V any](it Iterator[K, V]) ([]Entry[K, V], int) {
	prefix := it.Split()
	if prefix == nil {
		return drainIterator(it), 1
	}

	left, leftPieces := drainSplitting(prefix)
	right, rightPieces := drainSplitting(it)
	return append(left, right...), leftPieces + rightPieces
}
