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
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/api"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/genomics"
)

// Ranking metrics accepted by rank_variants_by_impact.
const (
	MetricComposite = "composite"
	MetricMax       = "max"
	MetricSum       = "sum"
)

// ErrGeneNotFound is wrapped by GeneLookup implementations when the symbol
// names no known gene.
var ErrGeneNotFound = errors.New("gene not found")

var errNoGeneLookup = &notImplementedError{errors.New("gene coordinate lookup is not configured; provide chromosome coordinates directly using predict_interval")}

func init() {
	register(&Tool{
		Name:        "analyze_gene_region",
		Description: "Analyze regulatory elements around a specific gene",
		Remote:      true,
		run:         (*Toolbox).analyzeGeneRegion,
	})
	register(&Tool{
		Name:        "compare_sequences",
		Description: "Compare regulatory predictions between two DNA sequences",
		Remote:      true,
		run:         (*Toolbox).compareSequences,
	})
	register(&Tool{
		Name:        "rank_variants_by_impact",
		Description: "Rank multiple variants by predicted functional impact",
		Remote:      true,
		run:         (*Toolbox).rankVariantsByImpact,
	})
}

// analyzeGeneRegion looks up the gene, adds the flanking region on both sides
// and widens the result to the smallest sequence length the model accepts
// before predicting it.
func (tb *Toolbox) analyzeGeneRegion(ctx context.Context, args *Args) (Envelope, error) {
	if args.GeneSymbol == "" {
		return nil, newArgumentError("--gene-symbol is required for analyze_gene_region")
	}
	flank := int64(DefaultFlankingSize)
	if args.FlankingSize != nil {
		flank = *args.FlankingSize
	}
	if flank < 0 {
		return nil, newValueError("flanking size must not be negative, got %d", flank)
	}
	if largest := genomics.SupportedSequenceLengths[len(genomics.SupportedSequenceLengths)-1]; flank > int64(largest) {
		return nil, newValueError("flanking size %d is larger than the largest supported sequence length %d", flank, largest)
	}
	if tb.Genes == nil {
		return nil, errNoGeneLookup
	}
	opts, err := tb.options(args)
	if err != nil {
		return nil, err
	}

	gene, err := tb.Genes.LookupGene(ctx, opts.Organism, args.GeneSymbol)
	if errors.Is(err, ErrGeneNotFound) {
		return nil, newValueError("looking up gene %q: %v", args.GeneSymbol, err)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up gene %q: %w", args.GeneSymbol, err)
	}

	region := genomics.Interval{
		Chromosome: gene.Interval.Chromosome,
		Start:      max(0, gene.Interval.Start-flank),
		End:        gene.Interval.End + flank,
	}
	width, ok := genomics.SmallestCoveringLength(region.Width())
	if !ok {
		return nil, newValueError("region %s around %s is %d bp, longer than the largest supported sequence length %d",
			region, gene.Symbol, region.Width(), genomics.SupportedSequenceLengths[len(genomics.SupportedSequenceLengths)-1])
	}
	analyzed := region.Resize(int64(width))
	if analyzed.Start < 0 {
		analyzed = genomics.Interval{Chromosome: analyzed.Chromosome, Start: 0, End: int64(width)}
	}

	output, err := tb.Client.PredictInterval(ctx, analyzed, opts)
	if err != nil {
		return nil, err
	}

	return success(map[string]interface{}{
		"gene":          gene,
		"flanking_size": flank,
		"region":        region.String(),
		"interval":      analyzed.String(),
		"predictions":   serializeOutput(output),
	}), nil
}

func (tb *Toolbox) compareSequences(ctx context.Context, args *Args) (Envelope, error) {
	if args.Sequence1 == "" || args.Sequence2 == "" {
		return nil, newArgumentError("--sequence1 and --sequence2 are required for compare_sequences")
	}

	result1 := tb.predictEnvelope(ctx, args.Sequence1, args)
	result2 := tb.predictEnvelope(ctx, args.Sequence2, args)
	if !result1.Success() || !result2.Success() {
		failed := result1
		if failed.Success() {
			failed = result2
		}
		return Envelope{
			"success": false,
			"error":   "Failed to predict one or both sequences",
			"type":    failed["type"],
			"result1": result1,
			"result2": result2,
		}, nil
	}

	predictions1 := result1["result"].(map[string]interface{})
	predictions2 := result2["result"].(map[string]interface{})
	only1, only2 := outputDifference(predictions1["data"], predictions2["data"])

	comparison := map[string]interface{}{
		"length_difference":         abs64(int64(len(args.Sequence1)) - int64(len(args.Sequence2))),
		"outputs_only_in_sequence1": only1,
		"outputs_only_in_sequence2": only2,
	}
	info1, err1 := genomics.Describe(args.Sequence1)
	info2, err2 := genomics.Describe(args.Sequence2)
	if err1 == nil && err2 == nil {
		comparison["gc_content_difference"] = math.Round((info1.GCContent-info2.GCContent)*100) / 100
	}

	return success(map[string]interface{}{
		"sequence1": map[string]interface{}{
			"length":      len(args.Sequence1),
			"predictions": predictions1,
		},
		"sequence2": map[string]interface{}{
			"length":      len(args.Sequence2),
			"predictions": predictions2,
		},
		"comparison": comparison,
	}), nil
}

func (tb *Toolbox) predictEnvelope(ctx context.Context, sequence string, args *Args) Envelope {
	envelope, err := tb.predictOne(ctx, sequence, args)
	if err != nil {
		return Failure(err)
	}
	return envelope
}

// outputDifference returns the output keys present in only one of the two
// serialized prediction data maps.
func outputDifference(a, b interface{}) ([]string, []string) {
	dataA, _ := a.(map[string]interface{})
	dataB, _ := b.(map[string]interface{})
	onlyA, onlyB := []string{}, []string{}
	for _, t := range genomics.OutputTypes {
		_, inA := dataA[t.Key()]
		_, inB := dataB[t.Key()]
		switch {
		case inA && !inB:
			onlyA = append(onlyA, t.Key())
		case inB && !inA:
			onlyB = append(onlyB, t.Key())
		}
	}
	return onlyA, onlyB
}

type rankedVariant struct {
	Rank           int                    `json:"rank"`
	Variant        string                 `json:"variant"`
	Chromosome     string                 `json:"chromosome"`
	Position       int64                  `json:"position"`
	Ref            string                 `json:"ref"`
	Alt            string                 `json:"alt"`
	ImpactScore    float64                `json:"impact_score"`
	ImpactCategory string                 `json:"impact_category"`
	Scores         map[string]interface{} `json:"scores"`

	hasScores bool
}

func (tb *Toolbox) rankVariantsByImpact(ctx context.Context, args *Args) (Envelope, error) {
	interval, err := args.batchInterval("rank_variants_by_impact")
	if err != nil {
		return nil, err
	}
	metric := args.RankingMetric
	if metric == "" {
		metric = MetricComposite
	}
	if metric != MetricComposite && metric != MetricMax && metric != MetricSum {
		return nil, newValueError("unknown ranking metric %q (want %s, %s or %s)", metric, MetricComposite, MetricMax, MetricSum)
	}
	organism, err := tb.organism(args)
	if err != nil {
		return nil, err
	}

	scores, err := api.ScoreVariants(ctx, tb.Client, interval, args.Variants, organism, tb.maxWorkers(args))
	if err != nil {
		return nil, err
	}

	ranked := make([]*rankedVariant, len(args.Variants))
	for i, variant := range args.Variants {
		score, ok := impactScore(scores[i], metric)
		ranked[i] = &rankedVariant{
			Variant:     variant.String(),
			Chromosome:  variant.Chromosome,
			Position:    variant.Position,
			Ref:         variant.Ref,
			Alt:         variant.Alt,
			ImpactScore: score,
			Scores:      serializeScores(scores[i]),
			hasScores:   ok,
		}
	}
	rankVariants(ranked)

	return success(map[string]interface{}{
		"ranked_variants": ranked,
		"total_variants":  len(ranked),
		"ranking_metric":  metric,
		"interval":        interval.String(),
	}), nil
}

// impactScore reduces the scores of a variant to a single number.  The second
// result is false if no scorer returned any values.
func impactScore(scores api.Scores, metric string) (float64, bool) {
	var values [][]float32
	for _, s := range scores {
		values = append(values, s.Values...)
	}
	summary := summarize(values)
	if summary.Count == 0 {
		return 0, false
	}
	switch metric {
	case MetricMax:
		return summary.MaxAbs, true
	case MetricSum:
		return summary.SumAbs, true
	}
	return summary.MeanAbs, true
}

// rankVariants sorts variants by decreasing impact score, numbers them from
// one and splits the scored variants into equal thirds of high, moderate and
// low impact.  Variants without scores are ranked last as unknown.
func rankVariants(variants []*rankedVariant) {
	sort.SliceStable(variants, func(i, j int) bool {
		if variants[i].hasScores != variants[j].hasScores {
			return variants[i].hasScores
		}
		return variants[i].ImpactScore > variants[j].ImpactScore
	})

	var scored int
	for _, v := range variants {
		if v.hasScores {
			scored++
		}
	}
	for i, v := range variants {
		v.Rank = i + 1
		switch {
		case !v.hasScores:
			v.ImpactCategory = "unknown"
		case i*3 < scored:
			v.ImpactCategory = "high"
		case i*3 < 2*scored:
			v.ImpactCategory = "moderate"
		default:
			v.ImpactCategory = "low"
		}
	}
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
