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
	"strings"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/api"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/genomics"
)

func init() {
	register(&Tool{
		Name:        "predict_sequence",
		Description: "Predict genomic features for a DNA sequence",
		Remote:      true,
		run:         (*Toolbox).predictSequence,
	})
	register(&Tool{
		Name:        "predict_interval",
		Description: "Predict genomic features for a genomic interval",
		Remote:      true,
		run:         (*Toolbox).predictInterval,
	})
	register(&Tool{
		Name:        "predict_variant",
		Description: "Predict the effect of a genetic variant",
		Remote:      true,
		run:         (*Toolbox).predictVariant,
	})
	register(&Tool{
		Name:        "get_metadata",
		Description: "Get metadata about available outputs for an organism",
		Remote:      true,
		run:         (*Toolbox).getMetadata,
	})
	register(&Tool{
		Name:        "predict_sequences",
		Description: "Predict genomic features for multiple DNA sequences",
		Remote:      true,
		run:         (*Toolbox).predictSequences,
	})
	register(&Tool{
		Name:        "predict_intervals",
		Description: "Predict genomic features for multiple genomic intervals",
		Remote:      true,
		run:         (*Toolbox).predictIntervals,
	})
	register(&Tool{
		Name:        "predict_variants",
		Description: "Predict the effects of multiple genetic variants",
		Remote:      true,
		run:         (*Toolbox).predictVariants,
	})
}

// checkSequence returns seq in upper case, or an error if it is not a DNA
// sequence.
func checkSequence(seq string) (string, error) {
	if seq == "" {
		return "", newValueError("Sequence must be a non-empty string")
	}
	if !genomics.ValidDNA(seq) {
		return "", newValueError("Sequence contains invalid characters. Only A, T, G, C, N are allowed")
	}
	return strings.ToUpper(seq), nil
}

func (tb *Toolbox) predictSequence(ctx context.Context, args *Args) (Envelope, error) {
	if args.Sequence == "" {
		return nil, newArgumentError("--sequence is required for predict_sequence")
	}
	return tb.predictOne(ctx, args.Sequence, args)
}

// predictOne predicts a single sequence.  It is shared with
// compare_sequences.
func (tb *Toolbox) predictOne(ctx context.Context, sequence string, args *Args) (Envelope, error) {
	seq, err := checkSequence(sequence)
	if err != nil {
		return nil, err
	}
	opts, err := tb.options(args)
	if err != nil {
		return nil, err
	}

	output, err := tb.Client.PredictSequence(ctx, seq, opts)
	if err != nil {
		return nil, err
	}

	envelope := success(serializeOutput(output))
	envelope["sequence_length"] = len(seq)
	return envelope, nil
}

func (tb *Toolbox) predictInterval(ctx context.Context, args *Args) (Envelope, error) {
	interval, err := args.interval("predict_interval")
	if err != nil {
		return nil, err
	}
	opts, err := tb.options(args)
	if err != nil {
		return nil, err
	}

	output, err := tb.Client.PredictInterval(ctx, interval, opts)
	if err != nil {
		return nil, err
	}

	envelope := success(serializeOutput(output))
	envelope["interval"] = interval.String()
	return envelope, nil
}

func (tb *Toolbox) predictVariant(ctx context.Context, args *Args) (Envelope, error) {
	interval, variant, err := args.variant("predict_variant")
	if err != nil {
		return nil, err
	}
	opts, err := tb.options(args)
	if err != nil {
		return nil, err
	}

	output, err := tb.Client.PredictVariant(ctx, interval, variant, opts)
	if err != nil {
		return nil, err
	}

	envelope := success(serializeVariantOutput(output))
	envelope["variant"] = variant.String()
	envelope["interval"] = interval.String()
	return envelope, nil
}

func (tb *Toolbox) getMetadata(ctx context.Context, args *Args) (Envelope, error) {
	organism, err := tb.organism(args)
	if err != nil {
		return nil, err
	}

	metadata, err := tb.Client.OutputMetadata(ctx, organism)
	if err != nil {
		return nil, err
	}

	name := args.Organism
	if name == "" {
		name = tb.Organism
	}
	if name == "" {
		name = "human"
	}
	envelope := success(serializeMetadata(metadata))
	envelope["organism"] = name
	return envelope, nil
}

func (tb *Toolbox) predictSequences(ctx context.Context, args *Args) (Envelope, error) {
	if len(args.Sequences) == 0 {
		return nil, newArgumentError("--sequences is required for predict_sequences")
	}
	sequences := make([]string, len(args.Sequences))
	for i, sequence := range args.Sequences {
		seq, err := checkSequence(sequence)
		if err != nil {
			return nil, newValueError("sequence %d: %v", i, err)
		}
		sequences[i] = seq
	}
	opts, err := tb.options(args)
	if err != nil {
		return nil, err
	}

	outputs, err := api.PredictSequences(ctx, tb.Client, sequences, opts, tb.maxWorkers(args))
	if err != nil {
		return nil, err
	}

	results := make([]interface{}, len(outputs))
	for i, output := range outputs {
		results[i] = serializeOutput(output)
	}
	return Envelope{
		"success":        true,
		"results":        results,
		"sequence_count": len(sequences),
	}, nil
}

func (tb *Toolbox) predictIntervals(ctx context.Context, args *Args) (Envelope, error) {
	if len(args.Intervals) == 0 {
		return nil, newArgumentError("--intervals is required for predict_intervals")
	}
	if err := checkIntervals(args.Intervals); err != nil {
		return nil, err
	}
	opts, err := tb.options(args)
	if err != nil {
		return nil, err
	}

	outputs, err := api.PredictIntervals(ctx, tb.Client, args.Intervals, opts, tb.maxWorkers(args))
	if err != nil {
		return nil, err
	}

	results := make([]interface{}, len(outputs))
	for i, output := range outputs {
		results[i] = serializeOutput(output)
	}
	return Envelope{
		"success":        true,
		"results":        results,
		"interval_count": len(args.Intervals),
	}, nil
}

func (tb *Toolbox) predictVariants(ctx context.Context, args *Args) (Envelope, error) {
	interval, err := args.batchInterval("predict_variants")
	if err != nil {
		return nil, err
	}
	opts, err := tb.options(args)
	if err != nil {
		return nil, err
	}

	outputs, err := api.PredictVariants(ctx, tb.Client, interval, args.Variants, opts, tb.maxWorkers(args))
	if err != nil {
		return nil, err
	}

	results := make([]interface{}, len(outputs))
	for i, output := range outputs {
		results[i] = serializeVariantOutput(output)
	}
	return Envelope{
		"success":       true,
		"results":       results,
		"variant_count": len(args.Variants),
		"interval":      interval.String(),
	}, nil
}

func checkIntervals(intervals []genomics.Interval) error {
	for i, interval := range intervals {
		if err := interval.Check(); err != nil {
			return newValueError("interval %d: %v", i, err)
		}
	}
	return nil
}
