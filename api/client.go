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

package api

import (
	"context"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/genomics"
)

// Client is an interface to the prediction service.
type Client interface {
	// PredictSequence predicts the requested outputs for a DNA sequence.
	PredictSequence(ctx context.Context, sequence string, opts Options) (Output, error)
	// PredictInterval predicts the requested outputs for a reference genome
	// interval.
	PredictInterval(ctx context.Context, interval genomics.Interval, opts Options) (Output, error)
	// PredictVariant predicts the requested outputs for the reference and
	// alternate sequences of interval around variant.
	PredictVariant(ctx context.Context, interval genomics.Interval, variant genomics.Variant, opts Options) (*VariantOutput, error)
	// ScoreVariant scores variant with the recommended variant scorers.
	ScoreVariant(ctx context.Context, interval genomics.Interval, variant genomics.Variant, organism genomics.Organism) (Scores, error)
	// ScoreInterval scores interval with the default interval scorers.
	ScoreInterval(ctx context.Context, interval genomics.Interval, organism genomics.Organism) (Scores, error)
	// ScoreISMVariants scores every single base substitution inside
	// ismInterval, using interval as the sequence context.
	ScoreISMVariants(ctx context.Context, interval, ismInterval genomics.Interval, organism genomics.Organism) ([]Scores, error)
	// OutputMetadata returns the tracks available for organism.
	OutputMetadata(ctx context.Context, organism genomics.Organism) (Metadata, error)
}

// Options selects what a prediction should return.  A nil OutputTypes asks
// the service for every output it supports.
type Options struct {
	Organism      genomics.Organism
	OutputTypes   []genomics.OutputType
	OntologyTerms []string
}
