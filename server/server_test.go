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

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/api"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/analytics"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/genomics"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/tools"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient implements the calls used by these tests; any other call
// panics on the nil embedded interface.
type stubClient struct {
	api.Client
}

func (stubClient) PredictSequence(_ context.Context, sequence string, _ api.Options) (api.Output, error) {
	return api.Output{genomics.DNase: {Values: [][]float32{{1}}}}, nil
}

func (stubClient) OutputMetadata(context.Context, genomics.Organism) (api.Metadata, error) {
	return api.Metadata{genomics.DNase: make([]api.TrackMetadata, 3)}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(newToolbox NewToolboxFunc) *gin.Engine {
	router := gin.New()
	New(newToolbox).Export(router)
	return router
}

func stubToolbox(*http.Request) (*tools.Toolbox, error) {
	return &tools.Toolbox{Client: stubClient{}}, nil
}

func post(router http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestListTools(t *testing.T) {
	router := setupRouter(stubToolbox)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/tools", nil)
	req.Header.Set("Origin", "https://example.org")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.org", w.Header().Get("Access-Control-Allow-Origin"))
	var body struct {
		Tools []toolInfo `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Tools, len(tools.All()))
}

func TestAllowedTools(t *testing.T) {
	server := New(stubToolbox)
	require.NoError(t, server.Allow([]string{" get_sequence_info", "", "compare_sequences "}))
	assert.Error(t, server.Allow([]string{"no_such_tool"}))
	router := gin.New()
	server.Export(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/tools", nil))
	assert.Contains(t, w.Body.String(), "get_sequence_info")
	assert.Contains(t, w.Body.String(), "compare_sequences")
	assert.NotContains(t, w.Body.String(), "predict_sequence")

	w = post(router, "/v1/tools/predict_sequence", `{"sequence": "ACGT"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunRemoteTool(t *testing.T) {
	router := setupRouter(stubToolbox)

	w := post(router, "/v1/tools/predict_sequence", `{"sequence": "acgt", "output_types": ["DNASE"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	v := decode(t, w)
	assert.Equal(t, true, v["success"])
	assert.Equal(t, 4.0, v["sequence_length"])

	w = post(router, "/v1/tools/get_metadata", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "human", decode(t, w)["organism"])
}

func TestRunToolWithEmptyChunkedBody(t *testing.T) {
	router := setupRouter(stubToolbox)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/tools/get_metadata", strings.NewReader(""))
	req.ContentLength = -1
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])
}

func TestRunLocalToolWithoutToolbox(t *testing.T) {
	router := setupRouter(func(*http.Request) (*tools.Toolbox, error) {
		t.Error("Toolbox requested for a local tool")
		return nil, errors.New("unexpected")
	})

	w := post(router, "/v1/tools/calculate_genomic_overlap",
		`{"interval1": {"chromosome": "chr1", "start": 0, "end": 100}, "interval2": {"chromosome": "chr1", "start": 50, "end": 150}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	result := decode(t, w)["result"].(map[string]interface{})
	assert.Equal(t, true, result["overlaps"])
}

func TestRunToolFailures(t *testing.T) {
	testCases := []struct {
		name       string
		path, body string
		newToolbox NewToolboxFunc
		wantCode   int
		wantType   string
	}{
		{"unknown tool", "/v1/tools/predict_protein", `{}`, stubToolbox, http.StatusNotFound, tools.TypeValueError},
		{"malformed body", "/v1/tools/get_sequence_info", `{"sequence": 7}`, stubToolbox, http.StatusBadRequest, tools.TypeValueError},
		{"missing argument", "/v1/tools/predict_sequence", `{}`, stubToolbox, http.StatusBadRequest, tools.TypeValueError},
		{"invalid sequence", "/v1/tools/predict_sequence", `{"sequence": "ACGU"}`, stubToolbox, http.StatusBadRequest, tools.TypeValueError},
		{"invalid comparison", "/v1/tools/compare_sequences", `{"sequence1": "ACGT", "sequence2": "ACGU"}`, stubToolbox, http.StatusBadRequest, tools.TypeValueError},
		{"no gene lookup", "/v1/tools/analyze_gene_region", `{"gene_symbol": "TP53"}`, stubToolbox, http.StatusNotImplemented, tools.TypeNotImplemented},
		{
			"missing token", "/v1/tools/get_metadata", `{}`,
			func(req *http.Request) (*tools.Toolbox, error) {
				client, err := api.NewClientFromBearerToken(req, api.Config{})
				if err != nil {
					return nil, err
				}
				return &tools.Toolbox{Client: client}, nil
			},
			http.StatusUnauthorized, api.KindInvalidAuthentication,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := post(setupRouter(tc.newToolbox), tc.path, tc.body)
			assert.Equal(t, tc.wantCode, w.Code)
			v := decode(t, w)
			assert.Equal(t, false, v["success"])
			assert.Equal(t, tc.wantType, v["type"])
		})
	}
}

func TestRunToolTracksUsage(t *testing.T) {
	var hits []analytics.Hit
	handler := analytics.TrackingHandler(New(stubToolbox).Handler(), func(h []analytics.Hit) {
		hits = append(hits, h...)
	})

	post(handler, "/v1/tools/get_sequence_info", `{"sequence": "ACGT"}`)
	post(handler, "/v1/tools/get_sequence_info", `{}`)

	require.Len(t, hits, 2)
	assert.Equal(t, "get_sequence_info", hits[0]["ea"])
	assert.Equal(t, "success", hits[0]["el"])
	assert.Equal(t, "failure", hits[1]["el"])
}
