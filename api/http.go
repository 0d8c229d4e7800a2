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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/genomics"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
)

const (
	// DefaultEndpoint is the base URL of the hosted prediction service.
	DefaultEndpoint = "https://alphagenome.googleapis.com"

	scope = "https://www.googleapis.com/auth/cloud-platform"
)

var (
	errMissingCredentials    = errors.New("an API key is required when application default credentials are disabled")
	errMissingOrInvalidToken = errors.New("missing or invalid token")
)

// Config controls how an HTTPClient reaches the service.
type Config struct {
	// Endpoint is the base URL of the service.  DefaultEndpoint is used if it
	// is empty.
	Endpoint string
	// APIKey is sent with every request.  If it is empty, requests are
	// authorized with application default credentials unless NoADC is set.
	APIKey string
	NoADC  bool
	// Timeout bounds each call.  Zero means no limit beyond the context.
	Timeout time.Duration
	// Verbose enables a log line per call.
	Verbose bool
}

// HTTPClient is a Client for the service's JSON REST interface.
type HTTPClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
	timeout  time.Duration
	verbose  bool
}

// NewHTTPClient returns a client configured by config.  An *http.Client
// stored in ctx under oauth2.HTTPClient is used as the transport, which
// allows callers to override TLS settings or inject fakes.
func NewHTTPClient(ctx context.Context, config Config) (*HTTPClient, error) {
	endpoint := strings.TrimSuffix(config.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	client := http.DefaultClient
	if c, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok {
		client = c
	}

	if config.APIKey == "" {
		if config.NoADC {
			return nil, errMissingCredentials
		}
		c, err := google.DefaultClient(ctx, scope)
		if err != nil {
			return nil, fmt.Errorf("creating default credentials client: %v", err)
		}
		client = c
	}

	return &HTTPClient{
		endpoint: endpoint,
		apiKey:   config.APIKey,
		client:   client,
		timeout:  config.Timeout,
		verbose:  config.Verbose,
	}, nil
}

// NewClientFromBearerToken returns a client that calls the service with the
// OAuth2 bearer token presented in the Authorization header of req.  Any API
// key in config is ignored.
func NewClientFromBearerToken(req *http.Request, config Config) (*HTTPClient, error) {
	fields := strings.Split(req.Header.Get("Authorization"), " ")
	if len(fields) != 2 || fields[0] != "Bearer" || fields[1] == "" {
		return nil, newAPIError(KindInvalidAuthentication, http.StatusUnauthorized, "reading authorization", errMissingOrInvalidToken)
	}

	token := oauth2.Token{
		TokenType:   fields[0],
		AccessToken: fields[1],
	}
	endpoint := strings.TrimSuffix(config.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &HTTPClient{
		endpoint: endpoint,
		client:   oauth2.NewClient(req.Context(), oauth2.StaticTokenSource(&token)),
		timeout:  config.Timeout,
		verbose:  config.Verbose,
	}, nil
}

type predictRequest struct {
	Sequence         string                `json:"sequence,omitempty"`
	Interval         *genomics.Interval    `json:"interval,omitempty"`
	Variant          *genomics.Variant     `json:"variant,omitempty"`
	ISMInterval      *genomics.Interval    `json:"ism_interval,omitempty"`
	Organism         genomics.Organism     `json:"organism"`
	RequestedOutputs []genomics.OutputType `json:"requested_outputs,omitempty"`
	OntologyTerms    []string              `json:"ontology_terms,omitempty"`
}

func newPredictRequest(opts Options) *predictRequest {
	organism := opts.Organism
	if organism == "" {
		organism = genomics.HomoSapiens
	}
	return &predictRequest{
		Organism:         organism,
		RequestedOutputs: opts.OutputTypes,
		OntologyTerms:    opts.OntologyTerms,
	}
}

// PredictSequence implements Client.
func (c *HTTPClient) PredictSequence(ctx context.Context, sequence string, opts Options) (Output, error) {
	req := newPredictRequest(opts)
	req.Sequence = sequence

	var resp struct {
		Output Output `json:"output"`
	}
	if err := c.call(ctx, "predictSequence", req, &resp); err != nil {
		return nil, err
	}
	return resp.Output, nil
}

// PredictInterval implements Client.
func (c *HTTPClient) PredictInterval(ctx context.Context, interval genomics.Interval, opts Options) (Output, error) {
	req := newPredictRequest(opts)
	req.Interval = &interval

	var resp struct {
		Output Output `json:"output"`
	}
	if err := c.call(ctx, "predictInterval", req, &resp); err != nil {
		return nil, err
	}
	return resp.Output, nil
}

// PredictVariant implements Client.
func (c *HTTPClient) PredictVariant(ctx context.Context, interval genomics.Interval, variant genomics.Variant, opts Options) (*VariantOutput, error) {
	req := newPredictRequest(opts)
	req.Interval = &interval
	req.Variant = &variant

	var resp VariantOutput
	if err := c.call(ctx, "predictVariant", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ScoreVariant implements Client.
func (c *HTTPClient) ScoreVariant(ctx context.Context, interval genomics.Interval, variant genomics.Variant, organism genomics.Organism) (Scores, error) {
	req := newPredictRequest(Options{Organism: organism})
	req.Interval = &interval
	req.Variant = &variant

	var resp struct {
		Scores Scores `json:"scores"`
	}
	if err := c.call(ctx, "scoreVariant", req, &resp); err != nil {
		return nil, err
	}
	return resp.Scores, nil
}

// ScoreInterval implements Client.
func (c *HTTPClient) ScoreInterval(ctx context.Context, interval genomics.Interval, organism genomics.Organism) (Scores, error) {
	req := newPredictRequest(Options{Organism: organism})
	req.Interval = &interval

	var resp struct {
		Scores Scores `json:"scores"`
	}
	if err := c.call(ctx, "scoreInterval", req, &resp); err != nil {
		return nil, err
	}
	return resp.Scores, nil
}

// ScoreISMVariants implements Client.
func (c *HTTPClient) ScoreISMVariants(ctx context.Context, interval, ismInterval genomics.Interval, organism genomics.Organism) ([]Scores, error) {
	req := newPredictRequest(Options{Organism: organism})
	req.Interval = &interval
	req.ISMInterval = &ismInterval

	var resp struct {
		Scores []Scores `json:"scores"`
	}
	if err := c.call(ctx, "scoreIsmVariants", req, &resp); err != nil {
		return nil, err
	}
	return resp.Scores, nil
}

// OutputMetadata implements Client.
func (c *HTTPClient) OutputMetadata(ctx context.Context, organism genomics.Organism) (Metadata, error) {
	req := newPredictRequest(Options{Organism: organism})

	var resp struct {
		Metadata Metadata `json:"metadata"`
	}
	if err := c.call(ctx, "outputMetadata", req, &resp); err != nil {
		return nil, err
	}
	return resp.Metadata, nil
}

// call POSTs req to the named method and decodes the JSON response into resp.
func (c *HTTPClient) call(ctx context.Context, method string, req, resp interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encoding %s request: %v", method, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %v", err)
	}
	id := uuid.New().String()
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Request-Id", id)
	if c.apiKey != "" {
		request.Header.Set("X-Goog-Api-Key", c.apiKey)
	}

	if c.verbose {
		log.Printf("Calling %s (request %s, %d bytes)", method, id, len(body))
	}
	response, err := c.client.Do(request)
	if err != nil {
		return newServiceError(method, err)
	}
	defer response.Body.Close()

	if err := googleapi.CheckResponse(response); err != nil {
		return newServiceError(method, err)
	}

	if err := json.NewDecoder(response.Body).Decode(resp); err != nil {
		return fmt.Errorf("decoding %s response: %v", method, err)
	}
	return nil
}
