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

// Package benchmark measures the ordered map engines against each other
// and against a B-tree baseline, over reproducible workloads.
package benchmark

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/circlehash"
	"github.com/zeebo/blake3"
)

// Workload is a deterministic key sequence for one benchmark size. The
// same seed and size always produce the same keys, so runs on different
// machines are comparable.
type Workload struct {
	seed uint64
	size int

	randomKeys []uint64
}

func NewWorkload(seed uint64, size int) *Workload {
	w := &Workload{
		seed: seed,
		size: size,
	}

	// Scrambling the index gives a fixed pseudo-random permutation
	// without duplicate keys.
	w.randomKeys = make([]uint64, size)
	for i := range w.randomKeys {
		w.randomKeys[i] = circlehash.Hash64Uint64x2(uint64(i), uint64(size), seed)
	}
	return w
}

func (w *Workload) Seed() uint64 {
	return w.seed
}

func (w *Workload) Size() int {
	return w.size
}

// SequentialKeys returns keys 0..size-1 in ascending order.
func (w *Workload) SequentialKeys() []uint64 {
	keys := make([]uint64, w.size)
	for i := range keys {
		keys[i] = uint64(i)
	}
	return keys
}

// RandomKeys returns the scrambled key permutation.
func (w *Workload) RandomKeys() []uint64 {
	return w.randomKeys
}

// Fingerprint returns a digest of the random key sequence. Two reports
// with the same fingerprint measured identical workloads.
func (w *Workload) Fingerprint() string {
	b := make([]byte, len(w.randomKeys)*8)
	for i, k := range w.randomKeys {
		binary.BigEndian.PutUint64(b[i*8:], k)
	}
	sum := blake3.Sum256(b)
	return fmt.Sprintf("%x", sum[:8])
}
