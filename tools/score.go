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

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/api"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/genomics"
)

func init() {
	register(&Tool{
		Name:        "score_variant",
		Description: "Score a genetic variant using recommended scorers",
		Remote:      true,
		run:         (*Toolbox).scoreVariant,
	})
	register(&Tool{
		Name:        "score_variants",
		Description: "Score multiple genetic variants using recommended scorers",
		Remote:      true,
		run:         (*Toolbox).scoreVariants,
	})
	register(&Tool{
		Name:        "score_interval",
		Description: "Score a genomic interval using interval scorers",
		Remote:      true,
		run:         (*Toolbox).scoreInterval,
	})
	register(&Tool{
		Name:        "score_intervals",
		Description: "Score multiple genomic intervals using interval scorers",
		Remote:      true,
		run:         (*Toolbox).scoreIntervals,
	})
	register(&Tool{
		Name:        "score_ism_variants",
		Description: "Score in-silico mutagenesis variants within an interval",
		Remote:      true,
		run:         (*Toolbox).scoreISMVariants,
	})
}

func (tb *Toolbox) scoreVariant(ctx context.Context, args *Args) (Envelope, error) {
	interval, variant, err := args.variant("score_variant")
	if err != nil {
		return nil, err
	}
	organism, err := tb.organism(args)
	if err != nil {
		return nil, err
	}

	scores, err := tb.Client.ScoreVariant(ctx, interval, variant, organism)
	if err != nil {
		return nil, err
	}

	envelope := success(serializeScores(scores))
	envelope["variant"] = variant.String()
	envelope["interval"] = interval.String()
	return envelope, nil
}

func (tb *Toolbox) scoreVariants(ctx context.Context, args *Args) (Envelope, error) {
	interval, err := args.batchInterval("score_variants")
	if err != nil {
		return nil, err
	}
	organism, err := tb.organism(args)
	if err != nil {
		return nil, err
	}

	scores, err := api.ScoreVariants(ctx, tb.Client, interval, args.Variants, organism, tb.maxWorkers(args))
	if err != nil {
		return nil, err
	}

	return Envelope{
		"success":       true,
		"results":       serializeAllScores(scores),
		"variant_count": len(args.Variants),
		"interval":      interval.String(),
	}, nil
}

func (tb *Toolbox) scoreInterval(ctx context.Context, args *Args) (Envelope, error) {
	interval, err := args.interval("score_interval")
	if err != nil {
		return nil, err
	}
	organism, err := tb.organism(args)
	if err != nil {
		return nil, err
	}

	scores, err := tb.Client.ScoreInterval(ctx, interval, organism)
	if err != nil {
		return nil, err
	}

	return Envelope{
		"success":  true,
		"results":  serializeScores(scores),
		"interval": interval.String(),
	}, nil
}

func (tb *Toolbox) scoreIntervals(ctx context.Context, args *Args) (Envelope, error) {
	if len(args.Intervals) == 0 {
		return nil, newArgumentError("--intervals is required for score_intervals")
	}
	if err := checkIntervals(args.Intervals); err != nil {
		return nil, err
	}
	organism, err := tb.organism(args)
	if err != nil {
		return nil, err
	}

	scores, err := api.ScoreIntervals(ctx, tb.Client, args.Intervals, organism, tb.maxWorkers(args))
	if err != nil {
		return nil, err
	}

	return Envelope{
		"success":        true,
		"results":        serializeAllScores(scores),
		"interval_count": len(args.Intervals),
	}, nil
}

func (tb *Toolbox) scoreISMVariants(ctx context.Context, args *Args) (Envelope, error) {
	if args.Chromosome == "" || args.Start == nil || args.End == nil ||
		args.ISMChromosome == "" || args.ISMStart == nil || args.ISMEnd == nil {
		return nil, newArgumentError("All interval and ISM parameters are required for score_ism_variants")
	}
	interval, err := genomics.NewInterval(args.Chromosome, *args.Start, *args.End)
	if err != nil {
		return nil, newValueError("invalid interval: %v", err)
	}
	ismInterval, err := genomics.NewInterval(args.ISMChromosome, *args.ISMStart, *args.ISMEnd)
	if err != nil {
		return nil, newValueError("invalid ISM interval: %v", err)
	}
	if shared, ok := interval.Intersect(ismInterval); !ok || shared != ismInterval {
		return nil, newValueError("ISM interval %s must lie within interval %s", ismInterval, interval)
	}
	organism, err := tb.organism(args)
	if err != nil {
		return nil, err
	}

	scores, err := tb.Client.ScoreISMVariants(ctx, interval, ismInterval, organism)
	if err != nil {
		return nil, err
	}

	return Envelope{
		"success":      true,
		"results":      serializeAllScores(scores),
		"interval":     interval.String(),
		"ism_interval": ismInterval.String(),
	}, nil
}

func serializeAllScores(scores []api.Scores) []interface{} {
	results := make([]interface{}, len(scores))
	for i, s := range scores {
		results[i] = serializeScores(s)
	}
	return results
}
