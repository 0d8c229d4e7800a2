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

// Package alphagenome serves the tool API on App Engine.
package alphagenome

import (
	"net/http"
	"os"
	"strings"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/api"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/ensembl"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/server"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/tools"
	"google.golang.org/appengine"
)

func init() {
	srv := server.New(newAppEngineToolbox)
	if list := os.Getenv("ALLOWED_TOOLS"); list != "" {
		if err := srv.Allow(strings.Split(list, ",")); err != nil {
			panic(err)
		}
	}
	http.Handle("/", srv.Handler())
}

// newAppEngineToolbox calls the service with the API key from the
// environment, or with the application's default credentials if there is
// none.
func newAppEngineToolbox(req *http.Request) (*tools.Toolbox, error) {
	ctx := appengine.NewContext(req)
	client, err := api.NewHTTPClient(ctx, api.Config{
		Endpoint: os.Getenv("ALPHAGENOME_ENDPOINT"),
		APIKey:   os.Getenv("ALPHAGENOME_API_KEY"),
	})
	if err != nil {
		return nil, err
	}
	return &tools.Toolbox{
		Client: client,
		Genes:  ensembl.NewClient(os.Getenv("ALPHAGENOME_ENSEMBL_ENDPOINT"), nil),
	}, nil
}
