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

package benchmark

import (
	"fmt"

	"github.com/google/btree"

	"github.com/ordmap/ordmap"
)

// Engine is the minimal ordered-map surface the benchmarks drive. Every
// engine maps uint64 keys to uint64 values.
type Engine interface {
	Name() string
	Put(key, value uint64)
	Get(key uint64) (uint64, bool)
	Remove(key uint64) (uint64, bool)
	Len() int
	Ascend(fn func(key, value uint64) bool)
	AscendRange(from, to uint64, fn func(key, value uint64) bool)
	Clear()
}

// orderedMapEngine adapts any ordmap.OrderedMap.
type orderedMapEngine struct {
	name string
	m    ordmap.OrderedMap[uint64, uint64]
}

// NewRedBlackEngine returns an Engine backed by a Red-Black tree.
func NewRedBlackEngine() Engine {
	return &orderedMapEngine{
		name: "redblack",
		m:    ordmap.NewRedBlackTree[uint64, uint64](),
	}
}

// NewBPlusEngine returns an Engine backed by a B+ tree of the given order.
func NewBPlusEngine(order int) (Engine, error) {
	m, err := ordmap.NewBPlusTree[uint64, uint64](order)
	if err != nil {
		return nil, err
	}
	return &orderedMapEngine{
		name: fmt.Sprintf("bplus-%d", order),
		m:    m,
	}, nil
}

func (e *orderedMapEngine) Name() string {
	return e.name
}

func (e *orderedMapEngine) Put(key, value uint64) {
	e.m.Put(key, value)
}

func (e *orderedMapEngine) Get(key uint64) (uint64, bool) {
	return e.m.Get(key)
}

func (e *orderedMapEngine) Remove(key uint64) (uint64, bool) {
	return e.m.Remove(key)
}

func (e *orderedMapEngine) Len() int {
	return e.m.Size()
}

func (e *orderedMapEngine) Ascend(fn func(key, value uint64) bool) {
	e.m.Iterate(fn)
}

func (e *orderedMapEngine) AscendRange(from, to uint64, fn func(key, value uint64) bool) {
	it := e.m.RangeIterator(&from, &to)
	for {
		k, v, ok := it.Next()
		if !ok {
			return
		}
		if !fn(k, v) {
			return
		}
	}
}

func (e *orderedMapEngine) Clear() {
	e.m.Clear()
}

// btreeItem carries one key-value pair through the baseline B-tree.
type btreeItem struct {
	key   uint64
	value uint64
}

func (i btreeItem) Less(than btree.Item) bool {
	return i.key < than.(btreeItem).key
}

// btreeEngine is the google/btree baseline the tree engines are compared
// against.
type btreeEngine struct {
	degree int
	tree   *btree.BTree
}

func NewBTreeEngine(degree int) Engine {
	return &btreeEngine{
		degree: degree,
		tree:   btree.New(degree),
	}
}

func (e *btreeEngine) Name() string {
	return fmt.Sprintf("btree-%d", e.degree)
}

func (e *btreeEngine) Put(key, value uint64) {
	e.tree.ReplaceOrInsert(btreeItem{key: key, value: value})
}

func (e *btreeEngine) Get(key uint64) (uint64, bool) {
	item := e.tree.Get(btreeItem{key: key})
	if item == nil {
		return 0, false
	}
	return item.(btreeItem).value, true
}

func (e *btreeEngine) Remove(key uint64) (uint64, bool) {
	item := e.tree.Delete(btreeItem{key: key})
	if item == nil {
		return 0, false
	}
	return item.(btreeItem).value, true
}

func (e *btreeEngine) Len() int {
	return e.tree.Len()
}

func (e *btreeEngine) Ascend(fn func(key, value uint64) bool) {
	e.tree.Ascend(func(item btree.Item) bool {
		i := item.(btreeItem)
		return fn(i.key, i.value)
	})
}

func (e *btreeEngine) AscendRange(from, to uint64, fn func(key, value uint64) bool) {
	// AscendRange excludes the upper pivot, so pass the next key above it.
	e.tree.AscendRange(btreeItem{key: from}, btreeItem{key: to + 1}, func(item btree.Item) bool {
		i := item.(btreeItem)
		return fn(i.key, i.value)
	})
}

func (e *btreeEngine) Clear() {
	e.tree.Clear(false)
}
