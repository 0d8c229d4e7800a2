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

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/storage"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/tools"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type flagKind int

const (
	stringFlag flagKind = iota
	intFlag
	jsonFlag
)

type flagDef struct {
	kind  flagKind
	usage string
}

// flagDefs describes every tool argument flag.  JSON flags take the JSON
// text itself, @path or @gs://bucket/object.
var flagDefs = map[string]flagDef{
	"sequence":       {stringFlag, "DNA sequence (A, C, G, T, N)"},
	"chromosome":     {stringFlag, "chromosome name (e.g. chr1)"},
	"start":          {intFlag, "0-based interval start"},
	"end":            {intFlag, "interval end (exclusive)"},
	"position":       {intFlag, "1-based variant position"},
	"ref":            {stringFlag, "reference allele"},
	"alt":            {stringFlag, "alternate allele"},
	"interval-start": {intFlag, "start of the interval around the variant"},
	"interval-end":   {intFlag, "end of the interval around the variant"},
	"sequences":      {jsonFlag, "JSON list of DNA sequences"},
	"intervals":      {jsonFlag, `JSON list of intervals ({"chromosome", "start", "end"})`},
	"variants":       {jsonFlag, `JSON list of variants ({"chromosome", "position", "ref", "alt"})`},
	"interval":       {jsonFlag, "JSON interval shared by the variants"},
	"ism-chromosome": {stringFlag, "chromosome of the mutagenesis interval"},
	"ism-start":      {intFlag, "start of the mutagenesis interval"},
	"ism-end":        {intFlag, "end of the mutagenesis interval"},
	"gene-symbol":    {stringFlag, "gene symbol (e.g. TP53)"},
	"flanking-size":  {intFlag, "base pairs added on each side of the gene (default 10000)"},
	"sequence1":      {stringFlag, "first DNA sequence"},
	"sequence2":      {stringFlag, "second DNA sequence"},
	"ranking-metric": {stringFlag, "ranking metric: composite, max or sum (default composite)"},
	"variant-string": {stringFlag, "variant to parse"},
	"variant-format": {stringFlag, "variant notation: default, gnomad, gtex, open_targets or open_targets_bigquery"},
	"data-type":      {stringFlag, "type of data to validate: sequence, interval or variant"},
	"data":           {jsonFlag, "JSON object to validate"},
	"interval1":      {jsonFlag, "first JSON interval"},
	"interval2":      {jsonFlag, "second JSON interval"},
}

var (
	variantFlags  = []string{"chromosome", "position", "ref", "alt", "interval-start", "interval-end"}
	intervalFlags = []string{"chromosome", "start", "end"}
)

// toolFlags lists the argument flags of each tool.
var toolFlags = map[string][]string{
	"predict_sequence":          {"sequence"},
	"predict_interval":          intervalFlags,
	"predict_variant":           variantFlags,
	"score_variant":             variantFlags,
	"get_metadata":              nil,
	"predict_sequences":         {"sequences"},
	"predict_intervals":         {"intervals"},
	"predict_variants":          {"variants", "interval"},
	"score_variants":            {"variants", "interval"},
	"score_interval":            intervalFlags,
	"score_intervals":           {"intervals"},
	"score_ism_variants":        {"chromosome", "start", "end", "ism-chromosome", "ism-start", "ism-end"},
	"parse_variant_string":      {"variant-string", "variant-format"},
	"validate_genomic_data":     {"data-type", "data"},
	"get_supported_outputs":     nil,
	"calculate_genomic_overlap": {"interval1", "interval2"},
	"get_sequence_info":         {"sequence"},
	"analyze_gene_region":       {"gene-symbol", "flanking-size"},
	"compare_sequences":         {"sequence1", "sequence2"},
	"rank_variants_by_impact":   {"variants", "interval", "ranking-metric"},
}

// flagValues holds the parsed argument flags of one tool command.
type flagValues struct {
	texts   map[string]*string
	numbers map[string]*int64
}

func defineFlags(fs *pflag.FlagSet, names []string) *flagValues {
	v := &flagValues{make(map[string]*string), make(map[string]*int64)}
	for _, name := range names {
		def, ok := flagDefs[name]
		if !ok {
			panic(fmt.Sprintf("undefined flag %q", name))
		}
		if def.kind == intFlag {
			v.numbers[name] = fs.Int64(name, 0, def.usage)
		} else {
			v.texts[name] = fs.String(name, "", def.usage)
		}
	}
	return v
}

func (v *flagValues) text(name string) string {
	if p, ok := v.texts[name]; ok {
		return *p
	}
	return ""
}

// number returns nil unless the flag was given, so that zero can be told apart
// from a missing value.
func (v *flagValues) number(fs *pflag.FlagSet, name string) *int64 {
	if p, ok := v.numbers[name]; ok && fs.Changed(name) {
		n := *p
		return &n
	}
	return nil
}

// args converts the parsed flags to tool arguments, loading JSON values.
func (v *flagValues) args(ctx context.Context, fs *pflag.FlagSet) (*tools.Args, error) {
	args := &tools.Args{
		Sequence:      v.text("sequence"),
		Chromosome:    v.text("chromosome"),
		Start:         v.number(fs, "start"),
		End:           v.number(fs, "end"),
		Position:      v.number(fs, "position"),
		Ref:           v.text("ref"),
		Alt:           v.text("alt"),
		IntervalStart: v.number(fs, "interval-start"),
		IntervalEnd:   v.number(fs, "interval-end"),
		ISMChromosome: v.text("ism-chromosome"),
		ISMStart:      v.number(fs, "ism-start"),
		ISMEnd:        v.number(fs, "ism-end"),
		GeneSymbol:    v.text("gene-symbol"),
		FlankingSize:  v.number(fs, "flanking-size"),
		Sequence1:     v.text("sequence1"),
		Sequence2:     v.text("sequence2"),
		RankingMetric: v.text("ranking-metric"),
		VariantString: v.text("variant-string"),
		VariantFormat: v.text("variant-format"),
		DataType:      v.text("data-type"),
	}

	targets := map[string]interface{}{
		"sequences": &args.Sequences,
		"intervals": &args.Intervals,
		"variants":  &args.Variants,
		"interval":  &args.Interval,
		"data":      &args.Data,
		"interval1": &args.Interval1,
		"interval2": &args.Interval2,
	}
	for name, target := range targets {
		value := v.text(name)
		if value == "" {
			continue
		}
		if err := loadJSON(ctx, value, target); err != nil {
			return nil, fmt.Errorf("--%s: %v", name, err)
		}
	}
	return args, nil
}

// loadJSON decodes value into target.  A value starting with @ names a file
// or gs:// object holding the JSON text.
func loadJSON(ctx context.Context, value string, target interface{}) error {
	data := []byte(value)
	if strings.HasPrefix(value, "@") {
		b, err := storage.ReadAll(ctx, value[1:])
		if err != nil {
			return err
		}
		data = b
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parsing JSON: %v", err)
	}
	return nil
}

func (a *app) newToolCommand(tool *tools.Tool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   tool.Name,
		Short: tool.Description,
		Args:  cobra.NoArgs,
	}
	if alias := strings.ReplaceAll(tool.Name, "_", "-"); alias != tool.Name {
		cmd.Aliases = []string{alias}
	}
	values := defineFlags(cmd.Flags(), toolFlags[tool.Name])
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return a.runTool(cmd, tool, values)
	}
	return cmd
}

// runTool runs tool and writes its envelope.  The returned error is non-nil
// if the tool could not be started, in which case the process exits 1.
func (a *app) runTool(cmd *cobra.Command, tool *tools.Tool, values *flagValues) error {
	ctx := cmd.Context()

	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return a.report(cmd, "", tools.NewArgumentError(err))
	}

	args, err := values.args(ctx, cmd.Flags())
	if err != nil {
		return a.report(cmd, cfg.Output, tools.NewArgumentError(err))
	}
	args.OutputTypes = a.outputTypes
	args.OntologyTerms = a.ontologyTerms

	tb, err := newToolbox(ctx, cfg, tool.Remote)
	if err != nil {
		return a.report(cmd, cfg.Output, tools.NewArgumentError(err))
	}

	envelope, err := tb.Run(ctx, tool.Name, args)
	if werr := a.write(ctx, cfg.Output, envelope); werr != nil {
		return werr
	}
	if err != nil {
		return &reportedError{err}
	}
	return nil
}

func (a *app) report(cmd *cobra.Command, output string, err error) error {
	if werr := a.write(cmd.Context(), output, tools.Failure(err)); werr != nil {
		return werr
	}
	return &reportedError{err}
}

// write sends envelope to output, or to stdout if output is empty.
func (a *app) write(ctx context.Context, output string, envelope tools.Envelope) error {
	if output == "" {
		return writeEnvelope(a.stdout, envelope)
	}
	w, err := storage.Create(ctx, output)
	if err != nil {
		return fmt.Errorf("creating output: %v", err)
	}
	if err := writeEnvelope(w, envelope); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing output: %v", err)
	}
	return nil
}

func writeEnvelope(w io.Writer, envelope tools.Envelope) error {
	b, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %v", err)
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing result: %v", err)
	}
	return nil
}
