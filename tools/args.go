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

package tools

import (
	"log"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/api"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/genomics"
)

// Args holds the arguments of every tool.  Each tool reads the fields it
// needs; pointer fields distinguish missing values from zero.
type Args struct {
	Sequence      string   `json:"sequence,omitempty"`
	Chromosome    string   `json:"chromosome,omitempty"`
	Start         *int64   `json:"start,omitempty"`
	End           *int64   `json:"end,omitempty"`
	Position      *int64   `json:"position,omitempty"`
	Ref           string   `json:"ref,omitempty"`
	Alt           string   `json:"alt,omitempty"`
	IntervalStart *int64   `json:"interval_start,omitempty"`
	IntervalEnd   *int64   `json:"interval_end,omitempty"`
	Organism      string   `json:"organism,omitempty"`
	OutputTypes   []string `json:"output_types,omitempty"`
	OntologyTerms []string `json:"ontology_terms,omitempty"`

	Sequences  []string            `json:"sequences,omitempty"`
	Intervals  []genomics.Interval `json:"intervals,omitempty"`
	Variants   []genomics.Variant  `json:"variants,omitempty"`
	Interval   *genomics.Interval  `json:"interval,omitempty"`
	MaxWorkers int                 `json:"max_workers,omitempty"`

	ISMChromosome string `json:"ism_chromosome,omitempty"`
	ISMStart      *int64 `json:"ism_start,omitempty"`
	ISMEnd        *int64 `json:"ism_end,omitempty"`

	GeneSymbol    string `json:"gene_symbol,omitempty"`
	FlankingSize  *int64 `json:"flanking_size,omitempty"`
	Sequence1     string `json:"sequence1,omitempty"`
	Sequence2     string `json:"sequence2,omitempty"`
	RankingMetric string `json:"ranking_metric,omitempty"`

	VariantString string                 `json:"variant_string,omitempty"`
	VariantFormat string                 `json:"variant_format,omitempty"`
	DataType      string                 `json:"data_type,omitempty"`
	Data          map[string]interface{} `json:"data,omitempty"`
	Interval1     *genomics.Interval     `json:"interval1,omitempty"`
	Interval2     *genomics.Interval     `json:"interval2,omitempty"`
}

// DefaultFlankingSize is the number of base pairs added on each side of a
// gene by analyze_gene_region.
const DefaultFlankingSize = 10000

// interval builds the interval described by the chromosome, start and end
// arguments.
func (args *Args) interval(command string) (genomics.Interval, error) {
	if args.Chromosome == "" || args.Start == nil || args.End == nil {
		return genomics.Interval{}, newArgumentError("--chromosome, --start, and --end are required for %s", command)
	}
	interval, err := genomics.NewInterval(args.Chromosome, *args.Start, *args.End)
	if err != nil {
		return genomics.Interval{}, newValueError("invalid interval: %v", err)
	}
	return interval, nil
}

// variant builds the variant and its sequence context from the chromosome,
// position, allele and interval bound arguments.
func (args *Args) variant(command string) (genomics.Interval, genomics.Variant, error) {
	if args.Chromosome == "" || args.Position == nil || args.Ref == "" || args.Alt == "" ||
		args.IntervalStart == nil || args.IntervalEnd == nil {
		return genomics.Interval{}, genomics.Variant{}, newArgumentError("All variant and interval parameters are required for %s", command)
	}
	interval, err := genomics.NewInterval(args.Chromosome, *args.IntervalStart, *args.IntervalEnd)
	if err != nil {
		return genomics.Interval{}, genomics.Variant{}, newValueError("invalid interval: %v", err)
	}
	variant := genomics.Variant{
		Chromosome: args.Chromosome,
		Position:   *args.Position,
		Ref:        args.Ref,
		Alt:        args.Alt,
	}
	if err := checkVariant(interval, variant); err != nil {
		return genomics.Interval{}, genomics.Variant{}, err
	}
	return interval, variant, nil
}

// batchInterval checks the analysis interval shared by the batch variant
// tools.
func (args *Args) batchInterval(command string) (genomics.Interval, error) {
	if len(args.Variants) == 0 || args.Interval == nil {
		return genomics.Interval{}, newArgumentError("--variants and --interval are required for %s", command)
	}
	if err := args.Interval.Check(); err != nil {
		return genomics.Interval{}, newValueError("invalid interval: %v", err)
	}
	for i, variant := range args.Variants {
		if err := checkVariant(*args.Interval, variant); err != nil {
			return genomics.Interval{}, newValueError("variant %d: %v", i, err)
		}
	}
	return *args.Interval, nil
}

func checkVariant(interval genomics.Interval, variant genomics.Variant) error {
	if err := variant.Check(); err != nil {
		return newValueError("invalid variant: %v", err)
	}
	if variant.Chromosome != interval.Chromosome ||
		variant.Position-1 < interval.Start || variant.Position-1 >= interval.End {
		return newValueError("variant %s lies outside interval %s", variant, interval)
	}
	return nil
}

// options converts the organism, output type and ontology arguments.
// Unknown output types are dropped with a warning.
func (tb *Toolbox) options(args *Args) (api.Options, error) {
	organism, err := tb.organism(args)
	if err != nil {
		return api.Options{}, err
	}
	opts := api.Options{Organism: organism, OntologyTerms: args.OntologyTerms}
	if len(args.OutputTypes) > 0 {
		types, unknown := genomics.ParseOutputTypes(args.OutputTypes)
		if len(unknown) > 0 {
			log.Printf("Ignoring unknown output types: %v", unknown)
		}
		if len(types) == 0 {
			return api.Options{}, newValueError("none of the requested output types %v are supported", args.OutputTypes)
		}
		opts.OutputTypes = types
	}
	return opts, nil
}
