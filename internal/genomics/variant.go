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
	"strconv"
	"strings"
)

// Variant formats understood by ParseVariant.
const (
	FormatDefault             = "default"
	FormatGnomAD              = "gnomad"
	FormatGTEx                = "gtex"
	FormatOpenTargets         = "open_targets"
	FormatOpenTargetsBigQuery = "open_targets_bigquery"
)

// VariantFormats lists the names accepted by ParseVariant.
var VariantFormats = []string{
	FormatDefault,
	FormatGnomAD,
	FormatGTEx,
	FormatOpenTargets,
	FormatOpenTargetsBigQuery,
}

// Variant is a single sequence change relative to the reference genome.
type Variant struct {
	Chromosome string `json:"chromosome"`
	// Position is 1-based.
	Position int64  `json:"position"`
	Ref      string `json:"ref"`
	Alt      string `json:"alt"`
}

// Check returns an error if the variant cannot be sent to the service.
func (variant Variant) Check() error {
	switch {
	case variant.Chromosome == "":
		return errMissingChromosome
	case variant.Position < 1:
		return fmt.Errorf("position must be a positive integer, got %d", variant.Position)
	case variant.Ref == "" || variant.Alt == "":
		return fmt.Errorf("%s: reference and alternate alleles are required", variant)
	}
	return nil
}

func (variant Variant) String() string {
	return fmt.Sprintf("%s:%d%s>%s", variant.Chromosome, variant.Position, variant.Ref, variant.Alt)
}

// ParseVariant parses s into a Variant.  The dash and colon separated forms
// chr-pos-ref-alt and chr:pos:ref:alt are always recognised; anything else is
// parsed according to format.
func ParseVariant(s, format string) (Variant, error) {
	for _, sep := range []string{"-", ":"} {
		if !strings.Contains(s, sep) {
			continue
		}
		if parts := strings.Split(s, sep); len(parts) == 4 {
			return newVariant(parts[0], parts[1], parts[2], parts[3])
		}
		break
	}

	switch strings.ToLower(format) {
	case FormatDefault, "":
		// chr22:1024:A>C
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			break
		}
		alleles := strings.Split(parts[2], ">")
		if len(alleles) != 2 {
			break
		}
		return newVariant(parts[0], parts[1], alleles[0], alleles[1])
	case FormatGnomAD:
		if parts := strings.Split(s, "-"); len(parts) == 4 {
			return newVariant(parts[0], parts[1], parts[2], parts[3])
		}
	case FormatGTEx:
		// chr22_1024_A_C_b38
		if parts := strings.Split(s, "_"); len(parts) == 5 && parts[4] == "b38" {
			return newVariant(parts[0], parts[1], parts[2], parts[3])
		}
	case FormatOpenTargets:
		if parts := strings.Split(s, "_"); len(parts) == 4 {
			return newVariant(withChrPrefix(parts[0]), parts[1], parts[2], parts[3])
		}
	case FormatOpenTargetsBigQuery:
		if parts := strings.Split(s, ":"); len(parts) == 4 {
			return newVariant(withChrPrefix(parts[0]), parts[1], parts[2], parts[3])
		}
	default:
		return Variant{}, fmt.Errorf("unknown variant format %q", format)
	}
	return Variant{}, fmt.Errorf("cannot parse %q as a %s variant", s, format)
}

func newVariant(chromosome, position, ref, alt string) (Variant, error) {
	n, err := strconv.ParseInt(position, 10, 64)
	if err != nil {
		return Variant{}, fmt.Errorf("parsing position: %v", err)
	}
	return Variant{chromosome, n, ref, alt}, nil
}

func withChrPrefix(chromosome string) string {
	if strings.HasPrefix(chromosome, "chr") {
		return chromosome
	}
	return "chr" + chromosome
}
