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

package genomics

import (
	"fmt"
	"strings"
)

// OutputType names one of the prediction modalities produced by the model.
type OutputType string

// Output types in the order the service reports them.
const (
	ATAC            OutputType = "ATAC"
	CAGE            OutputType = "CAGE"
	ChIPHistone     OutputType = "CHIP_HISTONE"
	ChIPTF          OutputType = "CHIP_TF"
	ContactMaps     OutputType = "CONTACT_MAPS"
	DNase           OutputType = "DNASE"
	ProCap          OutputType = "PROCAP"
	RNASeq          OutputType = "RNA_SEQ"
	SpliceJunctions OutputType = "SPLICE_JUNCTIONS"
	SpliceSites     OutputType = "SPLICE_SITES"
	SpliceSiteUsage OutputType = "SPLICE_SITE_USAGE"
)

// OutputTypes lists every known output type.
var OutputTypes = []OutputType{
	ATAC, CAGE, ChIPHistone, ChIPTF, ContactMaps, DNase,
	ProCap, RNASeq, SpliceJunctions, SpliceSites, SpliceSiteUsage,
}

var outputDescriptions = map[OutputType]string{
	ATAC:            "ATAC-seq chromatin accessibility data",
	CAGE:            "CAGE transcription start site data",
	ChIPHistone:     "ChIP-seq histone modification data",
	ChIPTF:          "ChIP-seq transcription factor binding data",
	ContactMaps:     "3D chromatin contact maps",
	DNase:           "DNase hypersensitivity data",
	ProCap:          "PRO-cap nascent transcription data",
	RNASeq:          "RNA-seq gene expression data",
	SpliceJunctions: "Splice junction predictions",
	SpliceSites:     "Splice site predictions",
	SpliceSiteUsage: "Splice site usage predictions",
}

// Description returns a human readable description of the output type.
func (t OutputType) Description() string {
	return outputDescriptions[t]
}

// Key returns the lower case name used for the output in JSON payloads.
func (t OutputType) Key() string {
	return strings.ToLower(string(t))
}

// OutputDescriptions returns the description of every output type keyed by
// name.
func OutputDescriptions() map[string]string {
	descriptions := make(map[string]string, len(outputDescriptions))
	for t, d := range outputDescriptions {
		descriptions[string(t)] = d
	}
	return descriptions
}

// ParseOutputTypes converts names to output types, ignoring case.  Names
// that do not match any output type are returned separately so that callers
// can report them.
func ParseOutputTypes(names []string) (types []OutputType, unknown []string) {
	for _, name := range names {
		t := OutputType(strings.ToUpper(strings.TrimSpace(name)))
		if _, ok := outputDescriptions[t]; ok {
			types = append(types, t)
		} else {
			unknown = append(unknown, name)
		}
	}
	return types, unknown
}

// Organism identifies the species whose genome the model is asked about.
type Organism string

// Supported organisms, named the way the service expects.
const (
	HomoSapiens Organism = "HOMO_SAPIENS"
	MusMusculus Organism = "MUS_MUSCULUS"
)

// SupportedOrganisms lists the short organism names accepted on input.
var SupportedOrganisms = []string{"human", "mouse"}

// ParseOrganism converts a user supplied organism name into an Organism.
// An empty name selects human.
func ParseOrganism(name string) (Organism, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "human", "homo_sapiens":
		return HomoSapiens, nil
	case "mouse", "mus_musculus":
		return MusMusculus, nil
	}
	return "", fmt.Errorf("unsupported organism %q (supported: %s)", name, strings.Join(SupportedOrganisms, ", "))
}

// Limits imposed by the service on a single request.
const (
	MaxISMIntervalWidth         = 10
	MaxVariantScorersPerRequest = 20
)
