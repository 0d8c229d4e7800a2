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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/genomics"
)

const testAPIKey = "test-key"

// fakeService records the requests it receives and replies with handler.
type fakeService struct {
	mu       sync.Mutex
	requests map[string][]predictRequest
	handler  func(method string, req predictRequest) (int, interface{})
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Goog-Api-Key") != testAPIKey {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"code": 401, "message": "API key not valid"}}`)
		return
	}
	if r.Header.Get("X-Request-Id") == "" {
		http.Error(w, "missing request ID", http.StatusBadRequest)
		return
	}

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	method := r.URL.Path[len("/v1/"):]

	f.mu.Lock()
	if f.requests == nil {
		f.requests = make(map[string][]predictRequest)
	}
	f.requests[method] = append(f.requests[method], req)
	f.mu.Unlock()

	code, body := f.handler(method, req)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T, handler func(string, predictRequest) (int, interface{})) (*HTTPClient, *fakeService) {
	fake := &fakeService{handler: handler}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(context.Background(), Config{Endpoint: server.URL + "/", APIKey: testAPIKey})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client, fake
}

func TestPredictSequence(t *testing.T) {
	client, fake := newTestClient(t, func(method string, req predictRequest) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{
			"output": map[string]interface{}{
				"ATAC": map[string]interface{}{
					"values":   [][]float32{{0.5, 1}},
					"metadata": []map[string]string{{"name": "UBERON:0002048 ATAC-seq"}, {"name": "UBERON:0000955 ATAC-seq"}},
				},
			},
		}
	})

	output, err := client.PredictSequence(context.Background(), "ACGT", Options{
		OutputTypes:   []genomics.OutputType{genomics.ATAC},
		OntologyTerms: []string{"UBERON:0002048"},
	})
	if err != nil {
		t.Fatalf("PredictSequence failed: %v", err)
	}
	if got, want := output[genomics.ATAC].Tracks(), 2; got != want {
		t.Errorf("Wrong number of tracks: got %d, want %d", got, want)
	}

	reqs := fake.requests["predictSequence"]
	if len(reqs) != 1 {
		t.Fatalf("Wrong number of requests: got %d, want 1", len(reqs))
	}
	if got, want := reqs[0].Organism, genomics.HomoSapiens; got != want {
		t.Errorf("Wrong organism: got %v, want %v", got, want)
	}
	if got, want := reqs[0].Sequence, "ACGT"; got != want {
		t.Errorf("Wrong sequence: got %v, want %v", got, want)
	}
}

func TestServiceErrors(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		kind   string
	}{
		{"bad request", http.StatusBadRequest, KindInvalidInput},
		{"forbidden", http.StatusForbidden, KindPermissionDenied},
		{"not found", http.StatusNotFound, KindNotFound},
		{"quota", http.StatusTooManyRequests, KindResourceExhausted},
		{"unavailable", http.StatusServiceUnavailable, KindUnavailable},
		{"internal", http.StatusInternalServerError, KindInternal},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(string, predictRequest) (int, interface{}) {
				return tc.status, map[string]interface{}{
					"error": map[string]interface{}{"code": tc.status, "message": "failed"},
				}
			})
			_, err := client.ScoreInterval(context.Background(), genomics.Interval{Chromosome: "chr1", Start: 0, End: 2048}, genomics.HomoSapiens)
			if err == nil {
				t.Fatal("ScoreInterval succeeded")
			}
			if got, want := Kind(err), tc.kind; got != want {
				t.Errorf("Wrong error kind: got %q, want %q (%v)", got, want, err)
			}
			if got, want := StatusCode(err), tc.status; got != want {
				t.Errorf("Wrong status code: got %d, want %d", got, want)
			}
		})
	}
}

func TestInvalidAPIKey(t *testing.T) {
	client, _ := newTestClient(t, nil)
	client.apiKey = "wrong"

	_, err := client.OutputMetadata(context.Background(), genomics.HomoSapiens)
	if got, want := Kind(err), KindInvalidAuthentication; got != want {
		t.Errorf("Wrong error kind: got %q, want %q (%v)", got, want, err)
	}
}

func TestTimeout(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	client, _ := newTestClient(t, func(string, predictRequest) (int, interface{}) {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
		}
		return http.StatusOK, map[string]interface{}{}
	})
	client.timeout = 50 * time.Millisecond

	_, err := client.PredictInterval(context.Background(), genomics.Interval{Chromosome: "chr1", Start: 0, End: 2048}, Options{})
	if got, want := Kind(err), KindDeadlineExceeded; got != want {
		t.Errorf("Wrong error kind: got %q, want %q (%v)", got, want, err)
	}
}

func TestMissingCredentials(t *testing.T) {
	if _, err := NewHTTPClient(context.Background(), Config{NoADC: true}); err == nil {
		t.Error("NewHTTPClient without credentials succeeded")
	}
}

func TestClientFromBearerToken(t *testing.T) {
	var authorization string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization = r.Header.Get("Authorization")
		if key := r.Header.Get("X-Goog-Api-Key"); key != "" {
			t.Errorf("API key sent with bearer token: %q", key)
		}
		fmt.Fprint(w, `{"metadata": {"DNASE": [{"name": "a"}]}}`)
	}))
	defer server.Close()

	req := httptest.NewRequest("POST", "/v1/tools/get_metadata", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	client, err := NewClientFromBearerToken(req, Config{Endpoint: server.URL, APIKey: testAPIKey})
	if err != nil {
		t.Fatalf("NewClientFromBearerToken failed: %v", err)
	}
	metadata, err := client.OutputMetadata(context.Background(), genomics.HomoSapiens)
	if err != nil {
		t.Fatalf("OutputMetadata failed: %v", err)
	}
	if got, want := len(metadata[genomics.DNase]), 1; got != want {
		t.Errorf("Wrong number of DNase tracks: got %d, want %d", got, want)
	}
	if got, want := authorization, "Bearer abc123"; got != want {
		t.Errorf("Wrong authorization: got %q, want %q", got, want)
	}

	for _, header := range []string{"", "Bearer", "Basic abc123", "Bearer a b"} {
		req.Header.Set("Authorization", header)
		_, err := NewClientFromBearerToken(req, Config{})
		if got, want := Kind(err), KindInvalidAuthentication; got != want {
			t.Errorf("Authorization %q: got kind %q, want %q", header, got, want)
		}
	}
}

func TestScoreVariantsOrder(t *testing.T) {
	client, fake := newTestClient(t, func(_ string, req predictRequest) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{
			"scores": []map[string]interface{}{
				{"scorer": "RNA_SEQ", "values": [][]float32{{float32(req.Variant.Position)}}},
			},
		}
	})

	interval := genomics.Interval{Chromosome: "chr1", Start: 0, End: 2048}
	var variants []genomics.Variant
	for i := int64(1); i <= 12; i++ {
		variants = append(variants, genomics.Variant{Chromosome: "chr1", Position: i * 100, Ref: "A", Alt: "G"})
	}

	results, err := ScoreVariants(context.Background(), client, interval, variants, genomics.HomoSapiens, 3)
	if err != nil {
		t.Fatalf("ScoreVariants failed: %v", err)
	}
	if got, want := len(results), len(variants); got != want {
		t.Fatalf("Wrong number of results: got %d, want %d", got, want)
	}
	for i, scores := range results {
		if got, want := scores[0].Values[0][0], float32(variants[i].Position); got != want {
			t.Errorf("Result %d out of order: got %v, want %v", i, got, want)
		}
	}
	if got, want := len(fake.requests["scoreVariant"]), len(variants); got != want {
		t.Errorf("Wrong number of requests: got %d, want %d", got, want)
	}
}

type countingClient struct {
	Client
	inFlight, peak int32
	fail           int64
}

func (c *countingClient) PredictSequence(ctx context.Context, sequence string, opts Options) (Output, error) {
	n := atomic.AddInt32(&c.inFlight, 1)
	defer atomic.AddInt32(&c.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&c.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&c.peak, peak, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	if int64(len(sequence)) == c.fail {
		return nil, errors.New("prediction failed")
	}
	return Output{}, nil
}

func TestBatchWorkerLimit(t *testing.T) {
	client := &countingClient{fail: -1}
	sequences := make([]string, 20)
	for i := range sequences {
		sequences[i] = "ACGT"
	}

	if _, err := PredictSequences(context.Background(), client, sequences, Options{}, 4); err != nil {
		t.Fatalf("PredictSequences failed: %v", err)
	}
	if got, want := atomic.LoadInt32(&client.peak), int32(4); got > want {
		t.Errorf("Too many concurrent calls: got %d, want at most %d", got, want)
	}
}

func TestBatchFailure(t *testing.T) {
	client := &countingClient{fail: 3}
	if _, err := PredictSequences(context.Background(), client, []string{"ACGT", "ACG", "AC"}, Options{}, 0); err == nil {
		t.Error("PredictSequences succeeded with a failing item")
	}
}
