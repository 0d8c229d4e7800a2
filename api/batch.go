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
	"fmt"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/genomics"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxWorkers is the number of concurrent calls made by the batch
// functions when the caller does not say otherwise.
const DefaultMaxWorkers = 5

// PredictSequences calls PredictSequence for every sequence using at most
// maxWorkers concurrent requests.  Results are in input order.
func PredictSequences(ctx context.Context, client Client, sequences []string, opts Options, maxWorkers int) ([]Output, error) {
	return each(ctx, sequences, maxWorkers, func(ctx context.Context, sequence string) (Output, error) {
		return client.PredictSequence(ctx, sequence, opts)
	})
}

// PredictIntervals calls PredictInterval for every interval using at most
// maxWorkers concurrent requests.
func PredictIntervals(ctx context.Context, client Client, intervals []genomics.Interval, opts Options, maxWorkers int) ([]Output, error) {
	return each(ctx, intervals, maxWorkers, func(ctx context.Context, interval genomics.Interval) (Output, error) {
		return client.PredictInterval(ctx, interval, opts)
	})
}

// PredictVariants calls PredictVariant for every variant against the same
// interval.
func PredictVariants(ctx context.Context, client Client, interval genomics.Interval, variants []genomics.Variant, opts Options, maxWorkers int) ([]*VariantOutput, error) {
	return each(ctx, variants, maxWorkers, func(ctx context.Context, variant genomics.Variant) (*VariantOutput, error) {
		return client.PredictVariant(ctx, interval, variant, opts)
	})
}

// ScoreVariants calls ScoreVariant for every variant against the same
// interval.
func ScoreVariants(ctx context.Context, client Client, interval genomics.Interval, variants []genomics.Variant, organism genomics.Organism, maxWorkers int) ([]Scores, error) {
	return each(ctx, variants, maxWorkers, func(ctx context.Context, variant genomics.Variant) (Scores, error) {
		return client.ScoreVariant(ctx, interval, variant, organism)
	})
}

// ScoreIntervals calls ScoreInterval for every interval.
func ScoreIntervals(ctx context.Context, client Client, intervals []genomics.Interval, organism genomics.Organism, maxWorkers int) ([]Scores, error) {
	return each(ctx, intervals, maxWorkers, func(ctx context.Context, interval genomics.Interval) (Scores, error) {
		return client.ScoreInterval(ctx, interval, organism)
	})
}

// each applies f to every item with at most maxWorkers calls in flight.  The
// first error cancels the remaining calls and is returned.
func each[T, R any](ctx context.Context, items []T, maxWorkers int, f func(context.Context, T) (R, error)) ([]R, error) {
	if maxWorkers < 1 {
		maxWorkers = DefaultMaxWorkers
	}

	results := make([]R, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			result, err := f(ctx, item)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
