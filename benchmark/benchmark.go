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
	"runtime"
	"time"
)

// Operation names one measured access pattern.
type Operation string

const (
	OpInsertSequential Operation = "insert-sequential"
	OpInsertRandom     Operation = "insert-random"
	OpLookupRandom     Operation = "lookup-random"
	OpDeleteSequential Operation = "delete-sequential"
	OpDeleteRandom     Operation = "delete-random"
	OpIterateFull      Operation = "iterate-full"
	OpIterateRange     Operation = "iterate-range"
)

// Operations lists every measured operation in report order.
var Operations = []Operation{
	OpInsertSequential,
	OpInsertRandom,
	OpLookupRandom,
	OpDeleteSequential,
	OpDeleteRandom,
	OpIterateFull,
	OpIterateRange,
}

// EngineFactory builds a fresh engine for each measurement so no run
// inherits another's layout.
type EngineFactory func() (Engine, error)

// Config describes one benchmark run.
type Config struct {
	Seed  uint64
	Sizes []int

	// Warmup runs are discarded; of the Iterations measured runs the
	// fastest is reported.
	Warmup     int
	Iterations int

	// LookupMissPercent of lookups probe keys known to be absent.
	LookupMissPercent int
}

// DefaultSizes covers three orders of magnitude.
var DefaultSizes = []int{100, 1000, 10000, 100000}

func DefaultConfig() Config {
	return Config{
		Seed:              42,
		Sizes:             DefaultSizes,
		Warmup:            1,
		Iterations:        3,
		LookupMissPercent: 25,
	}
}

// Run measures every operation for every engine at every size, returning
// a Report of the measurements.
func Run(config Config, factories []EngineFactory) (*Report, error) {
	if config.Iterations < 1 {
		config.Iterations = 1
	}

	var fingerprint string

	report := NewReport(config.Seed)

	for _, size := range config.Sizes {
		w := NewWorkload(config.Seed, size)
		if fingerprint == "" {
			fingerprint = w.Fingerprint()
		}

		for _, factory := range factories {
			ms, err := runEngine(config, factory, w)
			if err != nil {
				return nil, err
			}
			report.Measurements = append(report.Measurements, ms...)
		}
	}

	report.Fingerprint = fingerprint
	return report, nil
}

func runEngine(config Config, factory EngineFactory, w *Workload) ([]Measurement, error) {
	size := w.Size()
	sequential := w.SequentialKeys()
	random := w.RandomKeys()

	probe, err := factory()
	if err != nil {
		return nil, err
	}
	name := probe.Name()

	empty := func() (Engine, error) {
		return factory()
	}
	load := func(keys []uint64) func() (Engine, error) {
		return func() (Engine, error) {
			engine, err := factory()
			if err != nil {
				return nil, err
			}
			for _, k := range keys {
				engine.Put(k, k)
			}
			return engine, nil
		}
	}
	loaded := load(random)
	loadedSequential := load(sequential)

	measurements := make([]Measurement, 0, len(Operations))

	// Each iteration gets a freshly prepared engine; warmup iterations
	// are discarded and the fastest measured one is kept.
	measure := func(op Operation, prepare func() (Engine, error), run func(Engine)) error {
		var best time.Duration
		var bestAllocs uint64

		total := config.Warmup + config.Iterations
		for i := 0; i < total; i++ {
			engine, err := prepare()
			if err != nil {
				return err
			}

			elapsed, allocs := timed(func() {
				run(engine)
			})

			if i < config.Warmup {
				continue
			}
			if best == 0 || elapsed < best {
				best = elapsed
				bestAllocs = allocs
			}
		}

		measurements = append(measurements, Measurement{
			Engine:     name,
			Operation:  op,
			Size:       size,
			NsPerOp:    float64(best.Nanoseconds()) / float64(size),
			AllocBytes: bestAllocs,
		})
		return nil
	}

	// A fixed share of lookups probe absent keys. Flipping the low bit
	// of a present key misses whenever its neighbor is not in the set.
	missEvery := 0
	if config.LookupMissPercent > 0 {
		missEvery = 100 / config.LookupMissPercent
	}

	steps := []struct {
		op      Operation
		prepare func() (Engine, error)
		run     func(Engine)
	}{
		{OpInsertSequential, empty, func(engine Engine) {
			for _, k := range sequential {
				engine.Put(k, k)
			}
		}},
		{OpInsertRandom, empty, func(engine Engine) {
			for _, k := range random {
				engine.Put(k, k)
			}
		}},
		{OpLookupRandom, loaded, func(engine Engine) {
			for i, k := range random {
				if missEvery > 0 && i%missEvery == 0 {
					k ^= 1
				}
				engine.Get(k)
			}
		}},
		{OpDeleteSequential, loadedSequential, func(engine Engine) {
			for _, k := range sequential {
				engine.Remove(k)
			}
		}},
		{OpDeleteRandom, loaded, func(engine Engine) {
			for _, k := range random {
				engine.Remove(k)
			}
		}},
		{OpIterateFull, loaded, func(engine Engine) {
			engine.Ascend(func(_, _ uint64) bool {
				return true
			})
		}},
		{OpIterateRange, loaded, func(engine Engine) {
			// Middle half of the key space.
			from := uint64(1) << 62
			to := from * 3
			engine.AscendRange(from, to, func(_, _ uint64) bool {
				return true
			})
		}},
	}

	for _, step := range steps {
		if err := measure(step.op, step.prepare, step.run); err != nil {
			return nil, err
		}
	}

	return measurements, nil
}

// timed runs fn once, returning wall time and bytes allocated.
func timed(fn func()) (time.Duration, uint64) {
	var before, after runtime.MemStats

	runtime.GC()
	runtime.ReadMemStats(&before)

	start := time.Now()
	fn()
	elapsed := time.Since(start)

	runtime.ReadMemStats(&after)
	return elapsed, after.TotalAlloc - before.TotalAlloc
}
