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
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log"
	"net/http"
	"os"

	"golang.org/x/oauth2"
)

// caBundleEnv names the certificate authority override read by cURL.
const caBundleEnv = "CURL_CA_BUNDLE"

// withCABundle returns ctx carrying an HTTP client that trusts the
// certificates in the CURL_CA_BUNDLE file in addition to the system pool.
// The service, storage and Ensembl clients all pick it up.  ctx is returned
// unchanged if the variable is not set.
func withCABundle(ctx context.Context) (context.Context, error) {
	bundle := os.Getenv(caBundleEnv)
	if bundle == "" {
		return ctx, nil
	}

	pem, err := os.ReadFile(bundle)
	if err != nil {
		return nil, fmt.Errorf("reading CA override file %q: %v", bundle, err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil {
		return nil, fmt.Errorf("initializing system certificate pool: %v", err)
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in bundle %q", bundle)
	}

	log.Printf("Using CA override bundle from %q", bundle)
	return context.WithValue(ctx, oauth2.HTTPClient, &http.Client{
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{RootCAs: pool},
		},
	}), nil
}

// contextClient returns the HTTP client carried by ctx, or nil.
func contextClient(ctx context.Context) *http.Client {
	client, _ := ctx.Value(oauth2.HTTPClient).(*http.Client)
	return client
}
