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
	"context"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/genomics"
)

func init() {
	register(&Tool{
		Name:        "parse_variant_string",
		Description: "Parse a variant string in different formats (gnomAD, GTEx, Open Targets, etc.)",
		run:         (*Toolbox).parseVariantString,
	})
	register(&Tool{
		Name:        "validate_genomic_data",
		Description: "Validate sequences, intervals, and variants for correctness",
		run:         (*Toolbox).validateGenomicData,
	})
	register(&Tool{
		Name:        "get_supported_outputs",
		Description: "Get all supported output types with descriptions",
		run:         (*Toolbox).getSupportedOutputs,
	})
	register(&Tool{
		Name:        "calculate_genomic_overlap",
		Description: "Calculate overlap between two genomic intervals",
		run:         (*Toolbox).calculateGenomicOverlap,
	})
	register(&Tool{
		Name:        "get_sequence_info",
		Description: "Get detailed information about a DNA sequence",
		run:         (*Toolbox).getSequenceInfo,
	})
}

func (tb *Toolbox) parseVariantString(_ context.Context, args *Args) (Envelope, error) {
	if args.VariantString == "" {
		return nil, newArgumentError("--variant-string is required for parse_variant_string")
	}
	format := args.VariantFormat
	if format == "" {
		format = genomics.FormatDefault
	}

	variant, err := genomics.ParseVariant(args.VariantString, format)
	if err != nil {
		return nil, newValueError("%v", err)
	}

	envelope := success(map[string]interface{}{
		"chromosome":      variant.Chromosome,
		"position":        variant.Position,
		"reference_bases": variant.Ref,
		"alternate_bases": variant.Alt,
		"name":            args.VariantString,
		"parsed_format":   format,
	})
	envelope["original_string"] = args.VariantString
	return envelope, nil
}

func (tb *Toolbox) validateGenomicData(_ context.Context, args *Args) (Envelope, error) {
	if args.DataType == "" || args.Data == nil {
		return nil, newArgumentError("--data-type and --data are required for validate_genomic_data")
	}

	report, err := genomics.Validate(args.DataType, args.Data)
	if err != nil {
		return nil, newValueError("%v", err)
	}

	envelope := success(report)
	envelope["data_type"] = args.DataType
	return envelope, nil
}

func (tb *Toolbox) getSupportedOutputs(context.Context, *Args) (Envelope, error) {
	return success(map[string]interface{}{
		"output_types":                    genomics.OutputDescriptions(),
		"supported_sequence_lengths":      genomics.SequenceLengthNames,
		"max_ism_interval_width":          genomics.MaxISMIntervalWidth,
		"max_variant_scorers_per_request": genomics.MaxVariantScorersPerRequest,
		"supported_organisms":             genomics.SupportedOrganisms,
		"variant_formats":                 genomics.VariantFormats,
	}), nil
}

func (tb *Toolbox) calculateGenomicOverlap(_ context.Context, args *Args) (Envelope, error) {
	if args.Interval1 == nil || args.Interval2 == nil {
		return nil, newArgumentError("--interval1 and --interval2 are required for calculate_genomic_overlap")
	}
	a, b := *args.Interval1, *args.Interval2
	if err := a.Check(); err != nil {
		return nil, newValueError("interval1: %v", err)
	}
	if err := b.Check(); err != nil {
		return nil, newValueError("interval2: %v", err)
	}

	result := map[string]interface{}{
		"overlaps":  a.Overlaps(b),
		"interval1": a.String(),
		"interval2": b.String(),
	}

	if shared, ok := a.Intersect(b); ok {
		overlap := shared.Width()
		result["intersection"] = map[string]interface{}{
			"chromosome": shared.Chromosome,
			"start":      shared.Start,
			"end":        shared.End,
			"length":     overlap,
		}
		result["overlap_stats"] = map[string]interface{}{
			"overlap_length":          overlap,
			"interval1_length":        a.Width(),
			"interval2_length":        b.Width(),
			"overlap_percentage_int1": float64(overlap) / float64(a.Width()) * 100,
			"overlap_percentage_int2": float64(overlap) / float64(b.Width()) * 100,
		}
	}

	return success(result), nil
}

func (tb *Toolbox) getSequenceInfo(_ context.Context, args *Args) (Envelope, error) {
	if args.Sequence == "" {
		return nil, newArgumentError("--sequence is required for get_sequence_info")
	}
	info, err := genomics.Describe(args.Sequence)
	if err != nil {
		return nil, newValueError("%v", err)
	}
	return success(info), nil
}
