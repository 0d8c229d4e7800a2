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

// This binary serves the AlphaGenome tools over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/api"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/analytics"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/ensembl"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/server"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/tools"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/profile"
)

var (
	port = flag.Int("port", 8080, "HTTP service port")

	endpoint        = flag.String("endpoint", api.DefaultEndpoint, "prediction service endpoint")
	ensemblEndpoint = flag.String("ensembl_endpoint", ensembl.DefaultEndpoint, "Ensembl REST endpoint used to locate genes")
	timeout         = flag.Duration("timeout", 5*time.Minute, "timeout of each service call")
	maxWorkers      = flag.Int("max_workers", api.DefaultMaxWorkers, "maximum concurrent requests of batch tools")
	verbose         = flag.Bool("verbose", false, "log each service call")

	secure    = flag.Bool("secure", false, "serve in HTTPS-only mode and forward client bearer tokens")
	httpsCert = flag.String("https_cert", "", "HTTPS certificate file")
	httpsKey  = flag.String("https_key", "", "HTTPS key file")

	allowed = flag.String("tools", "", "if set, restricts the server to a comma-separated list of tools")

	cpuProfile = flag.Bool("profile", false, "write a CPU profile to the working directory")

	// Enable or disable anonymous usage tracking.
	//
	// If enabled, the name, outcome and duration of each tool call handled by
	// the server is logged to Google via Google Analytics.  No arguments or
	// user identifying information are ever sent.
	trackUsage = flag.Bool("track_usage", false, "anonymous usage tracking")
	propertyID = flag.String("analytics_property", "", "Google Analytics property ID that receives usage tracking")
)

func main() {
	flag.Parse()

	if *secure && (*httpsCert == "" || *httpsKey == "") {
		log.Fatalf("You must specify both -https_cert and -https_key in secure mode.")
	}
	if *trackUsage && *propertyID == "" {
		log.Fatalf("You must specify -analytics_property to enable usage tracking.")
	}
	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	config := api.Config{
		Endpoint: *endpoint,
		APIKey:   os.Getenv("ALPHAGENOME_API_KEY"),
		Timeout:  *timeout,
		Verbose:  *verbose,
	}
	genes := ensembl.NewClient(*ensemblEndpoint, nil)

	var newToolbox server.NewToolboxFunc
	if *secure {
		newToolbox = func(req *http.Request) (*tools.Toolbox, error) {
			client, err := api.NewClientFromBearerToken(req, config)
			if err != nil {
				return nil, err
			}
			return &tools.Toolbox{Client: client, Genes: genes, MaxWorkers: *maxWorkers}, nil
		}
	} else {
		client, err := api.NewHTTPClient(context.Background(), config)
		if err != nil {
			log.Fatalf("Failed to create service client: %v", err)
		}
		toolbox := &tools.Toolbox{Client: client, Genes: genes, MaxWorkers: *maxWorkers}
		newToolbox = func(*http.Request) (*tools.Toolbox, error) {
			return toolbox, nil
		}
	}

	srv := server.New(newToolbox)
	if *allowed != "" {
		if err := srv.Allow(strings.Split(*allowed, ",")); err != nil {
			log.Fatalf("Invalid -tools: %v", err)
		}
	}

	router := gin.Default()
	srv.Export(router)

	handler := http.Handler(router)
	if *trackUsage {
		log.Printf("Enabling anonymous usage tracking")

		client := analytics.NewClient(*propertyID, uuid.New().String())
		handler = analytics.TrackingHandler(handler, func(hits []analytics.Hit) {
			if err := client.Send(context.Background(), hits); err != nil {
				log.Printf("Failed to send %d hits to analytics: %v", len(hits), err)
			}
		})
	}

	address := fmt.Sprintf(":%d", *port)
	if *secure {
		if err := http.ListenAndServeTLS(address, *httpsCert, *httpsKey, handler); err != nil {
			log.Fatalf("HTTPS server returned an error: %v", err)
		}
	} else {
		if err := http.ListenAndServe(address, handler); err != nil {
			log.Fatalf("HTTP server returned an error: %v", err)
		}
	}
}
