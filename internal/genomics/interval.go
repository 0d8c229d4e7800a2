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

// Package genomics contains definitions related to Genomic data.
package genomics

import (
	"errors"
	"fmt"
)

var (
	errMissingChromosome = errors.New("chromosome is required")
	errNegativeStart     = errors.New("start position must not be negative")
	errEmptyInterval     = errors.New("end position must be greater than start position")
)

// Interval defines a region of genomic interest.
type Interval struct {
	Chromosome string `json:"chromosome"`
	// Start and End specify the half-open range [Start, End) in base pairs,
	// counted from zero.
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// NewInterval returns an Interval after checking that it is well formed.
func NewInterval(chromosome string, start, end int64) (Interval, error) {
	interval := Interval{chromosome, start, end}
	if err := interval.Check(); err != nil {
		return Interval{}, err
	}
	return interval, nil
}

// Check returns an error if the interval is not well formed.
func (interval Interval) Check() error {
	switch {
	case interval.Chromosome == "":
		return errMissingChromosome
	case interval.Start < 0:
		return errNegativeStart
	case interval.End <= interval.Start:
		return fmt.Errorf("%s: %v", interval, errEmptyInterval)
	}
	return nil
}

// Width returns the number of base pairs covered by the interval.
func (interval Interval) Width() int64 {
	if interval.End < interval.Start {
		return 0
	}
	return interval.End - interval.Start
}

// Overlaps reports whether the two intervals share at least one base pair.
func (interval Interval) Overlaps(other Interval) bool {
	return interval.Chromosome == other.Chromosome &&
		interval.Start < other.End && other.Start < interval.End
}

// Intersect returns the region shared by both intervals.  The second return
// value is false when the intervals do not overlap.
func (interval Interval) Intersect(other Interval) (Interval, bool) {
	if !interval.Overlaps(other) {
		return Interval{}, false
	}
	return Interval{
		Chromosome: interval.Chromosome,
		Start:      max(interval.Start, other.Start),
		End:        min(interval.End, other.End),
	}, true
}

// Resize returns an interval with the same center and the given width.
func (interval Interval) Resize(width int64) Interval {
	center := interval.Start + interval.Width()/2
	start := center - width/2
	return Interval{interval.Chromosome, start, start + width}
}

func (interval Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", interval.Chromosome, interval.Start, interval.End)
}
