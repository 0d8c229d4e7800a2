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
	"errors"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// SupportedSequenceLengths are the input widths accepted by the model, in
// increasing order.
var SupportedSequenceLengths = []int{2048, 16384, 131072, 524288, 1048576}

// SequenceLengthNames maps the service names of the supported lengths.
var SequenceLengthNames = map[string]int{
	"SEQUENCE_LENGTH_2KB":   2048,
	"SEQUENCE_LENGTH_16KB":  16384,
	"SEQUENCE_LENGTH_100KB": 131072,
	"SEQUENCE_LENGTH_500KB": 524288,
	"SEQUENCE_LENGTH_1MB":   1048576,
}

var errEmptySequence = errors.New("sequence cannot be empty")

// InvalidBases returns the distinct characters of seq that are not one of
// A, C, G, T or N (case-insensitive), in sorted order.
func InvalidBases(seq string) []string {
	return invalidChars(seq, "ACGTN")
}

// ValidDNA reports whether seq is non-empty and contains only A, C, G, T or N.
func ValidDNA(seq string) bool {
	return seq != "" && len(InvalidBases(seq)) == 0
}

func invalidChars(seq, alphabet string) []string {
	seen := make(map[rune]bool)
	var invalid []string
	for _, r := range strings.ToUpper(seq) {
		if strings.ContainsRune(alphabet, r) || seen[r] {
			continue
		}
		seen[r] = true
		invalid = append(invalid, string(r))
	}
	sort.Strings(invalid)
	return invalid
}

// IsSupportedLength reports whether n is one of SupportedSequenceLengths.
func IsSupportedLength(n int) bool {
	for _, length := range SupportedSequenceLengths {
		if length == n {
			return true
		}
	}
	return false
}

// ClosestSupportedLength returns the supported length nearest to n.  Ties go
// to the shorter length.
func ClosestSupportedLength(n int) int {
	closest := SupportedSequenceLengths[0]
	for _, length := range SupportedSequenceLengths[1:] {
		if abs(length-n) < abs(closest-n) {
			closest = length
		}
	}
	return closest
}

// SmallestCoveringLength returns the smallest supported length that is at
// least n, or false if n exceeds all of them.
func SmallestCoveringLength(n int64) (int, bool) {
	for _, length := range SupportedSequenceLengths {
		if int64(length) >= n {
			return length, true
		}
	}
	return 0, false
}

// BaseCounts holds the number of each nucleotide in a sequence.
type BaseCounts struct {
	A int `json:"A"`
	T int `json:"T"`
	G int `json:"G"`
	C int `json:"C"`
	N int `json:"N"`
}

// SequenceInfo summarises the composition of a DNA sequence.
type SequenceInfo struct {
	Length                 int        `json:"length"`
	BaseCounts             BaseCounts `json:"base_counts"`
	GCContent              float64    `json:"gc_content"`
	ATContent              float64    `json:"at_content"`
	NContent               float64    `json:"n_content"`
	IsValid                bool       `json:"is_valid"`
	InvalidCharacters      []string   `json:"invalid_characters"`
	IsSupportedLength      bool       `json:"is_supported_length"`
	ClosestSupportedLength int        `json:"closest_supported_length"`
	SupportedLengths       []int      `json:"supported_lengths"`
}

// Describe computes the composition statistics of seq.  Percentages are
// rounded to two decimal places and GC content is relative to the known (non
// N) bases only.
func Describe(seq string) (*SequenceInfo, error) {
	if seq == "" {
		return nil, errEmptySequence
	}
	seq = strings.ToUpper(seq)

	var counts BaseCounts
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A':
			counts.A++
		case 'T':
			counts.T++
		case 'G':
			counts.G++
		case 'C':
			counts.C++
		case 'N':
			counts.N++
		}
	}

	var gc float64
	if known := counts.A + counts.T + counts.G + counts.C; known > 0 {
		gc = float64(counts.G+counts.C) / float64(known) * 100
	}

	invalid := InvalidBases(seq)
	if invalid == nil {
		invalid = []string{}
	}

	length := utf8.RuneCountInString(seq)
	return &SequenceInfo{
		Length:                 length,
		BaseCounts:             counts,
		GCContent:              round2(gc),
		ATContent:              round2(100 - gc),
		NContent:               round2(float64(counts.N) / float64(length) * 100),
		IsValid:                len(invalid) == 0,
		InvalidCharacters:      invalid,
		IsSupportedLength:      IsSupportedLength(length),
		ClosestSupportedLength: ClosestSupportedLength(length),
		SupportedLengths:       SupportedSequenceLengths,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
