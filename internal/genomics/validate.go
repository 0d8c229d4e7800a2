// Copyright 2025 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package genomics

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Data types understood by Validate.
const (
	DataSequence = "sequence"
	DataInterval = "interval"
	DataVariant  = "variant"
)

// Report is the outcome of validating a piece of genomic data.  Errors make
// the data unusable; warnings flag inputs the service may reject or pad.
type Report struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

func (r *Report) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks data, decoded from JSON, as the given data type.
func Validate(dataType string, data map[string]interface{}) (*Report, error) {
	report := &Report{Valid: true, Warnings: []string{}, Errors: []string{}}

	switch dataType {
	case DataSequence:
		sequence, _ := data["sequence"].(string)
		if sequence == "" {
			report.fail("Sequence is empty")
			break
		}
		if invalid := InvalidBases(sequence); len(invalid) > 0 {
			report.fail("Invalid characters found: %s", strings.Join(invalid, ", "))
		}
		if n := len([]rune(sequence)); !IsSupportedLength(n) {
			report.warn("Sequence length %d not in supported lengths: %v", n, SupportedSequenceLengths)
		}

	case DataInterval:
		if chromosome, _ := data["chromosome"].(string); chromosome == "" {
			report.fail("Chromosome is required")
		}
		start, okStart := integer(data["start"])
		end, okEnd := integer(data["end"])
		switch {
		case !okStart || !okEnd:
			report.fail("Start and end positions are required")
		case start >= end:
			report.fail("End position must be greater than start position")
		case start < 1:
			report.fail("Start position must be positive")
		}

	case DataVariant:
		if chromosome, _ := data["chromosome"].(string); chromosome == "" {
			report.fail("Chromosome is required")
		}
		if position, ok := integer(data["position"]); !ok || position < 1 {
			report.fail("Position must be a positive integer")
		}
		ref, _ := data["ref"].(string)
		alt, _ := data["alt"].(string)
		if ref == "" || alt == "" {
			report.fail("Reference and alternate alleles are required")
			break
		}
		if len(invalidChars(ref, "ACGT")) > 0 {
			report.fail("Reference allele contains invalid characters")
		}
		if len(invalidChars(alt, "ACGT")) > 0 {
			report.fail("Alternate allele contains invalid characters")
		}

	default:
		return nil, fmt.Errorf("unknown data type %q (want %s, %s or %s)", dataType, DataSequence, DataInterval, DataVariant)
	}

	return report, nil
}

// integer converts a JSON decoded number into an int64.  Non-integral values
// are rejected.
func integer(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}
