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

// Package cmd is the command line interface of alphagenome-client.  Every
// tool is a subcommand whose JSON envelope is written to stdout or to the
// --output destination.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/api"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/config"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/ensembl"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/tools"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settingFlags are the persistent flags that are also configuration keys.
var settingFlags = []string{
	config.KeyAPIKey,
	config.KeyEndpoint,
	config.KeyTimeout,
	config.KeyMaxWorkers,
	config.KeyOrganism,
	config.KeyEnsemblEndpoint,
	config.KeyOutput,
	config.KeyVerbose,
	config.KeyNoADC,
}

// reportedError is returned once the failure envelope describing the error
// has been written.
type reportedError struct{ error }

func (err *reportedError) Unwrap() error { return err.error }

// app holds the state shared by the commands of one invocation.
type app struct {
	stdout io.Writer
	v      *viper.Viper

	configFile    string
	outputTypes   []string
	ontologyTerms []string
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	a := &app{stdout: stdout, v: viper.New()}

	root := &cobra.Command{
		Use:   "alphagenome-client",
		Short: "Run AlphaGenome predictions and genomic utilities from the command line",
		Long: `Run AlphaGenome predictions and genomic utilities from the command line.

Each subcommand runs one tool and prints a JSON object with a "success" field.
Successful results are under "result" (or "results" for batch tools); failures
carry "error" and "type".

Settings are read from flags, ALPHAGENOME_* environment variables (for
example ALPHAGENOME_API_KEY) and $HOME/.alphagenome.yaml, in that order.`,
		Version:       "1.0.0",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default $HOME/"+config.DefaultFile+")")
	flags.String(config.KeyAPIKey, "", "AlphaGenome API key")
	flags.String(config.KeyEndpoint, api.DefaultEndpoint, "prediction service endpoint")
	flags.Duration(config.KeyTimeout, 5*time.Minute, "timeout of each service call")
	flags.Int(config.KeyMaxWorkers, api.DefaultMaxWorkers, "maximum concurrent requests of batch tools")
	flags.String(config.KeyOrganism, "human", "organism (human or mouse)")
	flags.String(config.KeyEnsemblEndpoint, ensembl.DefaultEndpoint, "Ensembl REST endpoint used to locate genes")
	flags.StringP(config.KeyOutput, "o", "", "write the result to this file or gs:// object instead of stdout")
	flags.BoolP(config.KeyVerbose, "v", false, "log each service call to stderr")
	flags.Bool(config.KeyNoADC, false, "do not fall back to application default credentials without an API key")
	flags.StringSliceVar(&a.outputTypes, "output-types", nil, "output types to predict (e.g. DNASE,RNA_SEQ)")
	flags.StringSliceVar(&a.ontologyTerms, "ontology-terms", nil, "ontology terms restricting the predicted tracks (e.g. UBERON:0002048)")

	for _, tool := range tools.All() {
		root.AddCommand(a.newToolCommand(tool))
	}
	return root
}

// Execute runs the command line client and exits non-zero if the arguments
// could not be used.  This is called by main.main().
func Execute() {
	ctx, err := withCABundle(context.Background())
	if err != nil {
		log.Fatalf("Failed to configure TLS: %v", err)
	}
	if err := newRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			if werr := writeEnvelope(os.Stdout, tools.Failure(tools.NewArgumentError(err))); werr != nil {
				log.Printf("Failed to write result: %v", werr)
			}
		}
		os.Exit(1)
	}
}

// loadConfig resolves the settings of the running command.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.Init(a.v, a.configFile); err != nil {
		return nil, err
	}
	for _, key := range settingFlags {
		if err := a.v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			return nil, fmt.Errorf("binding flag %s: %v", key, err)
		}
	}
	return config.Load(a.v)
}

// newToolbox returns the Toolbox described by cfg.  The service client is
// only created for tools that need it, so local utilities work without
// credentials.
func newToolbox(ctx context.Context, cfg *config.Config, remote bool) (*tools.Toolbox, error) {
	tb := &tools.Toolbox{
		MaxWorkers: cfg.MaxWorkers,
		Organism:   cfg.Organism,
	}
	if !remote {
		return tb, nil
	}
	client, err := api.NewHTTPClient(ctx, cfg.API())
	if err != nil {
		return nil, err
	}
	tb.Client = client
	tb.Genes = ensembl.NewClient(cfg.EnsemblEndpoint, contextClient(ctx))
	return tb, nil
}
