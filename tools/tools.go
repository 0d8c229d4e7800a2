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

// Package tools implements the operations exposed by the command line client
// and the tool server.  Every operation validates its arguments, calls the
// prediction service if needed and reports the outcome as an Envelope.
package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/api"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/genomics"
)

// Error types reported in failure envelopes for errors that did not come from
// the prediction service.
const (
	TypeValueError     = "ValueError"
	TypeNotImplemented = "NotImplementedError"
	TypeError          = "Error"
)

var errNoClient = errors.New("an API key is required for this operation")

// Envelope is the JSON object returned by every operation.  It always has a
// "success" field; successful envelopes carry the result and operation
// specific context, failed envelopes carry "error" and "type".
type Envelope map[string]interface{}

// Success reports whether the envelope describes a successful operation.
func (e Envelope) Success() bool {
	ok, _ := e["success"].(bool)
	return ok
}

func success(result interface{}) Envelope {
	return Envelope{"success": true, "result": result}
}

// Failure returns the envelope describing err.
func Failure(err error) Envelope {
	return Envelope{
		"success": false,
		"error":   err.Error(),
		"type":    errorType(err),
	}
}

// GeneLookup resolves gene symbols to reference genome coordinates.  An
// unknown symbol is reported with an error wrapping ErrGeneNotFound.
type GeneLookup interface {
	LookupGene(ctx context.Context, organism genomics.Organism, symbol string) (*Gene, error)
}

// Gene is a gene located on the reference genome.
type Gene struct {
	ID       string            `json:"id"`
	Symbol   string            `json:"symbol"`
	Biotype  string            `json:"biotype,omitempty"`
	Strand   int               `json:"strand"`
	Interval genomics.Interval `json:"interval"`
}

// Toolbox runs operations against a prediction service.
type Toolbox struct {
	// Client is used for every operation that calls the service.  Operations
	// that only use local utilities work with a nil Client.
	Client api.Client
	// Genes resolves gene symbols for analyze_gene_region.
	Genes GeneLookup
	// MaxWorkers is the default concurrency of batch operations.
	MaxWorkers int
	// Organism is used when the arguments do not name one.
	Organism string
}

// Tool describes a single operation.
type Tool struct {
	Name        string
	Description string
	// Remote is set for operations that call the prediction service.
	Remote bool

	run func(tb *Toolbox, ctx context.Context, args *Args) (Envelope, error)
}

var registry = map[string]*Tool{}

func register(tool *Tool) {
	if _, ok := registry[tool.Name]; ok {
		panic(fmt.Sprintf("tool %q registered twice", tool.Name))
	}
	registry[tool.Name] = tool
}

// Lookup returns the tool with the given name.
func Lookup(name string) (*Tool, bool) {
	tool, ok := registry[name]
	return tool, ok
}

// All returns every tool sorted by name.
func All() []*Tool {
	tools := make([]*Tool, 0, len(registry))
	for _, tool := range registry {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// Run executes the named tool.  The returned envelope is always populated.
// The error is non-nil only when the tool could not be started because its
// arguments were missing or malformed; failures of the operation itself are
// reported in the envelope alone.
func (tb *Toolbox) Run(ctx context.Context, name string, args *Args) (Envelope, error) {
	tool, ok := Lookup(name)
	if !ok {
		err := newArgumentError("unknown command: %s", name)
		return Failure(err), err
	}
	if args == nil {
		args = &Args{}
	}
	if tool.Remote && tb.Client == nil {
		err := &argumentError{errNoClient}
		return Failure(err), err
	}

	envelope, err := tool.run(tb, ctx, args)
	if err != nil {
		var argErr *argumentError
		if errors.As(err, &argErr) {
			return Failure(err), err
		}
		return Failure(err), nil
	}
	return envelope, nil
}

func (tb *Toolbox) organism(args *Args) (genomics.Organism, error) {
	name := args.Organism
	if name == "" {
		name = tb.Organism
	}
	organism, err := genomics.ParseOrganism(name)
	if err != nil {
		return "", newValueError("%v", err)
	}
	return organism, nil
}

func (tb *Toolbox) maxWorkers(args *Args) int {
	if args.MaxWorkers > 0 {
		return args.MaxWorkers
	}
	if tb.MaxWorkers > 0 {
		return tb.MaxWorkers
	}
	return api.DefaultMaxWorkers
}

// argumentError reports missing or malformed tool arguments.
type argumentError struct{ error }

func (err *argumentError) Unwrap() error { return err.error }

// NewArgumentError marks err as a problem with the arguments supplied to a
// tool, as opposed to a failure of the operation.
func NewArgumentError(err error) error {
	return &argumentError{err}
}

func newArgumentError(format string, args ...interface{}) error {
	return &argumentError{fmt.Errorf(format, args...)}
}

// valueError reports arguments that were supplied but are not acceptable.
type valueError struct{ error }

func (err *valueError) Unwrap() error { return err.error }

func newValueError(format string, args ...interface{}) error {
	return &valueError{fmt.Errorf(format, args...)}
}

type notImplementedError struct{ error }

func errorType(err error) string {
	if kind := api.Kind(err); kind != "" {
		return kind
	}
	var (
		argErr   *argumentError
		valueErr *valueError
		notImpl  *notImplementedError
	)
	switch {
	case errors.As(err, &argErr), errors.As(err, &valueErr):
		return TypeValueError
	case errors.As(err, &notImpl):
		return TypeNotImplemented
	}
	return TypeError
}
