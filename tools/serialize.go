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
	"math"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/api"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/genomics"
)

// Predicted tracks can be megabases long, so envelopes carry summaries of the
// values rather than the values themselves.

type stats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	// MeanAbs is the mean of the absolute values.
	MeanAbs float64 `json:"mean_abs"`
	MaxAbs  float64 `json:"max_abs"`
	SumAbs  float64 `json:"sum_abs"`
}

func summarize(values [][]float32) stats {
	var s stats
	var sum float64
	s.Min, s.Max = math.Inf(1), math.Inf(-1)
	for _, row := range values {
		for _, v := range row {
			f := float64(v)
			if math.IsNaN(f) {
				continue
			}
			s.Count++
			sum += f
			s.SumAbs += math.Abs(f)
			s.Min = math.Min(s.Min, f)
			s.Max = math.Max(s.Max, f)
			s.MaxAbs = math.Max(s.MaxAbs, math.Abs(f))
		}
	}
	if s.Count == 0 {
		return stats{}
	}
	s.Mean = sum / float64(s.Count)
	s.MeanAbs = s.SumAbs / float64(s.Count)
	return s
}

func serializeTrackData(t genomics.OutputType, data *api.TrackData) map[string]interface{} {
	positions := len(data.Values)
	summary := map[string]interface{}{
		"description":   t.Description() + " available",
		"num_tracks":    data.Tracks(),
		"num_positions": positions,
		"stats":         summarize(data.Values),
	}
	if data.Resolution > 0 {
		summary["resolution"] = data.Resolution
	}
	if data.Interval != nil {
		summary["interval"] = data.Interval.String()
	}
	return summary
}

// outputData summarises each output type present in output, in the canonical
// output type order.
func outputData(output api.Output) map[string]interface{} {
	data := make(map[string]interface{})
	for _, t := range genomics.OutputTypes {
		if d, ok := output[t]; ok && d != nil {
			data[t.Key()] = serializeTrackData(t, d)
		}
	}
	return data
}

func serializeOutput(output api.Output) map[string]interface{} {
	return map[string]interface{}{
		"type": "prediction_output",
		"data": outputData(output),
	}
}

func serializeVariantOutput(output *api.VariantOutput) map[string]interface{} {
	data := make(map[string]interface{})
	if output == nil {
		return map[string]interface{}{"type": "variant_prediction_output", "data": data}
	}
	if output.Reference != nil {
		data["reference"] = outputData(output.Reference)
	}
	if output.Alternate != nil {
		data["alternate"] = outputData(output.Alternate)
	}
	if output.Reference != nil && output.Alternate != nil {
		difference := make(map[string]interface{})
		for _, t := range genomics.OutputTypes {
			ref, alt := output.Reference[t], output.Alternate[t]
			if ref == nil || alt == nil {
				continue
			}
			diff := subtract(alt.Values, ref.Values)
			difference[t.Key()] = map[string]interface{}{
				"description": t.Description() + " difference (alternate - reference) available",
				"stats":       summarize(diff),
			}
		}
		data["difference"] = difference
	}
	return map[string]interface{}{
		"type": "variant_prediction_output",
		"data": data,
	}
}

// subtract returns a - b over the positions and tracks present in both.
func subtract(a, b [][]float32) [][]float32 {
	n := min(len(a), len(b))
	diff := make([][]float32, n)
	for i := 0; i < n; i++ {
		m := min(len(a[i]), len(b[i]))
		diff[i] = make([]float32, m)
		for j := 0; j < m; j++ {
			diff[i][j] = a[i][j] - b[i][j]
		}
	}
	return diff
}

func serializeScores(scores api.Scores) map[string]interface{} {
	serialized := make([]map[string]interface{}, 0, len(scores))
	for i, score := range scores {
		entry := map[string]interface{}{
			"scorer_index": i,
			"num_tracks":   len(score.Tracks),
			"stats":        summarize(score.Values),
		}
		if score.Scorer != "" {
			entry["scorer"] = score.Scorer
		}
		if len(score.Genes) > 0 {
			entry["num_genes"] = len(score.Genes)
		}
		serialized = append(serialized, entry)
	}
	return map[string]interface{}{
		"type":   "variant_scores",
		"scores": serialized,
	}
}

func serializeMetadata(metadata api.Metadata) map[string]interface{} {
	available := []string{}
	counts := make(map[string]int)
	for _, t := range genomics.OutputTypes {
		if tracks, ok := metadata[t]; ok {
			available = append(available, t.Key())
			counts[t.Key()] = len(tracks)
		}
	}
	return map[string]interface{}{
		"type":              "output_metadata",
		"available_outputs": available,
		"track_counts":      counts,
	}
}
