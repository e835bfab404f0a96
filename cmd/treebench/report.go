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

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Render a stored benchmark report",
	Long:  "report reads a CBOR report produced by 'bench --format cbor' and renders it.",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "table", "output format: table or csv")

	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	report, err := benchmark.DecodeReport(f)
	if err != nil {
		return err
	}

	switch reportFormat {
	case "table":
		return report.WriteTable(os.Stdout)
	case "csv":
		return report.WriteCSV(os.Stdout)
	default:
		return fmt.Errorf("unknown format %q", reportFormat)
	}
}
