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

// Package ensembl resolves gene symbols to genome coordinates using the
// Ensembl REST API.
package ensembl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/genomics"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/tools"
)

// DefaultEndpoint is the public Ensembl REST server.
const DefaultEndpoint = "https://rest.ensembl.org"

var species = map[genomics.Organism]string{
	genomics.HomoSapiens: "homo_sapiens",
	genomics.MusMusculus: "mus_musculus",
}

// Client looks up genes on an Ensembl REST server.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient returns a Client for the server at endpoint.  A nil client uses
// http.DefaultClient.
func NewClient(endpoint string, client *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{strings.TrimSuffix(endpoint, "/"), client}
}

type lookupResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Biotype     string `json:"biotype"`
	Region      string `json:"seq_region_name"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
	Strand      int    `json:"strand"`
}

// LookupGene implements tools.GeneLookup.  Ensembl reports 1-based inclusive
// coordinates; the returned interval is 0-based half-open.
func (c *Client) LookupGene(ctx context.Context, organism genomics.Organism, symbol string) (*tools.Gene, error) {
	name, ok := species[organism]
	if !ok {
		return nil, fmt.Errorf("no Ensembl species for organism %q", organism)
	}

	target := fmt.Sprintf("%s/lookup/symbol/%s/%s?content-type=application/json", c.endpoint, name, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching gene: %v", err)
	}
	defer resp.Body.Close()

	if err := errorFromResponse(resp); err != nil {
		return nil, err
	}

	var gene lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&gene); err != nil {
		return nil, fmt.Errorf("decoding response: %v", err)
	}
	if gene.Region == "" || gene.End < gene.Start {
		return nil, fmt.Errorf("incomplete location for gene %q", symbol)
	}

	display := gene.DisplayName
	if display == "" {
		display = symbol
	}
	return &tools.Gene{
		ID:      gene.ID,
		Symbol:  display,
		Biotype: gene.Biotype,
		Strand:  gene.Strand,
		Interval: genomics.Interval{
			Chromosome: chromosomeName(gene.Region),
			Start:      gene.Start - 1,
			End:        gene.End,
		},
	}, nil
}

// chromosomeName converts an Ensembl sequence region name to the UCSC style
// used by the prediction service.
func chromosomeName(region string) string {
	if region == "MT" {
		return "chrM"
	}
	if strings.HasPrefix(region, "chr") {
		return region
	}
	return "chr" + region
}

// errorFromResponse returns nil for a successful lookup.  Ensembl answers an
// unknown symbol with 400 or 404 and an {"error": message} body; those are
// reported as tools.ErrGeneNotFound.
func errorFromResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest, http.StatusNotFound:
		v := make(map[string]string)
		if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
			return fmt.Errorf("bad request: parsing response body: %v", err)
		}
		if message, ok := v["error"]; ok {
			return fmt.Errorf("%w: %v", tools.ErrGeneNotFound, message)
		}
	}
	return fmt.Errorf("unexpected response status: %q", resp.Status)
}
