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
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/genomics"
)

// TrackMetadata describes a single predicted track.
type TrackMetadata struct {
	Name                string `json:"name"`
	Strand              string `json:"strand,omitempty"`
	OntologyCURIE       string `json:"ontology_curie,omitempty"`
	BiosampleName       string `json:"biosample_name,omitempty"`
	BiosampleType       string `json:"biosample_type,omitempty"`
	Assay               string `json:"assay,omitempty"`
	TranscriptionFactor string `json:"transcription_factor,omitempty"`
	HistoneMark         string `json:"histone_mark,omitempty"`
}

// TrackData holds predictions for one output type.  Values is indexed by
// position (in units of Resolution base pairs) and then by track.
type TrackData struct {
	Values     [][]float32        `json:"values"`
	Metadata   []TrackMetadata    `json:"metadata"`
	Resolution int                `json:"resolution,omitempty"`
	Interval   *genomics.Interval `json:"interval,omitempty"`
}

// Tracks returns the number of tracks in the data.
func (d *TrackData) Tracks() int {
	if d == nil {
		return 0
	}
	if len(d.Metadata) > 0 {
		return len(d.Metadata)
	}
	if len(d.Values) > 0 {
		return len(d.Values[0])
	}
	return 0
}

// Output holds the predictions returned for a sequence or interval.  Output
// types that were not requested or not produced are absent.
type Output map[genomics.OutputType]*TrackData

// VariantOutput holds the predictions for the reference and alternate
// sequences of a variant.
type VariantOutput struct {
	Reference Output `json:"reference"`
	Alternate Output `json:"alternate"`
}

// ScoreData is the result of a single scorer.  Values is indexed by gene (or
// a single row for scorers that are not gene based) and then by track.
type ScoreData struct {
	Scorer string          `json:"scorer"`
	Values [][]float32     `json:"values"`
	Genes  []string        `json:"genes,omitempty"`
	Tracks []TrackMetadata `json:"tracks,omitempty"`
}

// Scores holds one ScoreData per scorer applied.
type Scores []ScoreData

// Metadata lists the tracks available for each output type.
type Metadata map[genomics.OutputType][]TrackMetadata
