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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ordmap/ordmap/benchmark"
)

var (
	benchSeed        uint64
	benchSizes       []int
	benchOrders      []int
	benchBTreeDegree int
	benchWarmup      int
	benchIterations  int
	benchMissPercent int
	benchFormat      string
	benchOutput      string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the benchmark suite",
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().Uint64Var(&benchSeed, "seed", 42, "workload seed")
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", benchmark.DefaultSizes, "element counts to measure")
	benchCmd.Flags().IntSliceVar(&benchOrders, "orders", []int{8, 16, 32, 128, 256}, "B+ tree orders to measure")
	benchCmd.Flags().IntVar(&benchBTreeDegree, "btree-degree", 8, "degree of the B-tree baseline")
	benchCmd.Flags().IntVar(&benchWarmup, "warmup", 1, "discarded warmup runs per measurement")
	benchCmd.Flags().IntVar(&benchIterations, "iterations", 3, "measured runs per measurement, fastest kept")
	benchCmd.Flags().IntVar(&benchMissPercent, "miss-percent", 25, "share of lookups probing absent keys")
	benchCmd.Flags().StringVar(&benchFormat, "format", "table", "output format: table, csv or cbor")
	benchCmd.Flags().StringVarP(&benchOutput, "output", "o", "", "write to file instead of stdout")

	rootCmd.AddCommand(benchCmd)
}

func runBench(_ *cobra.Command, _ []string) error {
	config := benchmark.Config{
		Seed:              benchSeed,
		Sizes:             benchSizes,
		Warmup:            benchWarmup,
		Iterations:        benchIterations,
		LookupMissPercent: benchMissPercent,
	}

	factories := []benchmark.EngineFactory{
		func() (benchmark.Engine, error) {
			return benchmark.NewRedBlackEngine(), nil
		},
	}
	for _, order := range benchOrders {
		order := order
		factories = append(factories, func() (benchmark.Engine, error) {
			return benchmark.NewBPlusEngine(order)
		})
	}
	factories = append(factories, func() (benchmark.Engine, error) {
		return benchmark.NewBTreeEngine(benchBTreeDegree), nil
	})

	report, err := benchmark.Run(config, factories)
	if err != nil {
		return err
	}

	out := os.Stdout
	if benchOutput != "" {
		f, err := os.Create(benchOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch benchFormat {
	case "table":
		return report.WriteTable(out)
	case "csv":
		return report.WriteCSV(out)
	case "cbor":
		return report.EncodeCBOR(out)
	default:
		return fmt.Errorf("unknown format %q", benchFormat)
	}
}
