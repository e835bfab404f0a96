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
	"encoding/csv"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// Measurement is one engine running one operation at one size.
type Measurement struct {
	Engine     string    `cbor:"1,keyasint"`
	Operation  Operation `cbor:"2,keyasint"`
	Size       int       `cbor:"3,keyasint"`
	NsPerOp    float64   `cbor:"4,keyasint"`
	AllocBytes uint64    `cbor:"5,keyasint"`
}

// Report is the durable result of a benchmark run, annotated with enough
// environment detail to compare runs later.
type Report struct {
	ID           string        `cbor:"1,keyasint"`
	CreatedAt    time.Time     `cbor:"2,keyasint"`
	GoVersion    string        `cbor:"3,keyasint"`
	GOOS         string        `cbor:"4,keyasint"`
	GOARCH       string        `cbor:"5,keyasint"`
	Seed         uint64        `cbor:"6,keyasint"`
	Fingerprint  string        `cbor:"7,keyasint"`
	Measurements []Measurement `cbor:"8,keyasint"`
}

func NewReport(seed uint64) *Report {
	return &Report{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		GoVersion: runtime.Version(),
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
		Seed:      seed,
	}
}

var (
	encMode = func() cbor.EncMode {
		m, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			panic(err)
		}
		return m
	}()

	decMode = func() cbor.DecMode {
		m, err := cbor.DecOptions{}.DecMode()
		if err != nil {
			panic(err)
		}
		return m
	}()
)

// EncodeCBOR writes the report in its durable binary form.
func (r *Report) EncodeCBOR(w io.Writer) error {
	return encMode.NewEncoder(w).Encode(r)
}

// DecodeReport reads a report written by EncodeCBOR.
func DecodeReport(rd io.Reader) (*Report, error) {
	var r Report
	if err := decMode.NewDecoder(rd).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

var csvHeader = []string{"engine", "operation", "size", "ns_per_op", "alloc_bytes"}

// WriteCSV writes the measurements as CSV with a header row.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, m := range r.Measurements {
		record := []string{
			m.Engine,
			string(m.Operation),
			strconv.Itoa(m.Size),
			strconv.FormatFloat(m.NsPerOp, 'f', 1, 64),
			strconv.FormatUint(m.AllocBytes, 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTable writes a human-readable aligned table.
func (r *Report) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "run %s (%s, %s/%s, seed %d, workload %s)\n",
		r.ID, r.GoVersion, r.GOOS, r.GOARCH, r.Seed, r.Fingerprint)
	fmt.Fprintln(tw, "ENGINE\tOPERATION\tSIZE\tNS/OP\tALLOC B")

	for _, m := range r.Measurements {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f\t%d\n",
			m.Engine, m.Operation, m.Size, m.NsPerOp, m.AllocBytes)
	}

	return tw.Flush()
}
