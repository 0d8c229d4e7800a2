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

// Package server exposes the tools over HTTP.
//
// GET /v1/tools lists the available tools.  POST /v1/tools/{name} runs a tool
// with the JSON object in the request body as its arguments and responds with
// the tool's envelope.
package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/api"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/analytics"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/tools"
	"github.com/gin-gonic/gin"
)

const toolsPath = "/v1/tools"

// NewToolboxFunc is the type of function that constructs the Toolbox used to
// serve the incoming request.  It is only called for tools that reach the
// prediction service.
type NewToolboxFunc func(*http.Request) (*tools.Toolbox, error)

// Server provides the tool HTTP API.  Must be created with New.
type Server struct {
	newToolbox NewToolboxFunc
	allowed    map[string]bool
}

// New returns a new Server that calls newToolbox on each request to
// determine how to reach the prediction service.
func New(newToolbox NewToolboxFunc) *Server {
	return &Server{newToolbox, make(map[string]bool)}
}

// Allow adds tools to the set of tools that the server will run.  If Allow is
// never called for a given Server then every tool is available.  Names are
// trimmed of surrounding space and empty names are ignored.
func (server *Server) Allow(names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := tools.Lookup(name); !ok {
			return fmt.Errorf("unknown tool %q", name)
		}
		server.allowed[name] = true
	}
	return nil
}

func (server *Server) lookup(name string) (*tools.Tool, bool) {
	if len(server.allowed) > 0 && !server.allowed[name] {
		return nil, false
	}
	return tools.Lookup(name)
}

// Export registers the tool API endpoints with router.
func (server *Server) Export(router gin.IRouter) {
	group := router.Group(toolsPath, forwardOrigin)
	group.GET("", server.listTools)
	group.POST("/:name", server.runTool)
}

// Handler returns an http.Handler serving only the tool API.
func (server *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	server.Export(router)
	return router
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Remote      bool   `json:"remote"`
}

func (server *Server) listTools(c *gin.Context) {
	var list []toolInfo
	for _, tool := range tools.All() {
		if _, ok := server.lookup(tool.Name); ok {
			list = append(list, toolInfo{tool.Name, tool.Description, tool.Remote})
		}
	}
	c.JSON(http.StatusOK, gin.H{"tools": list})
}

func (server *Server) runTool(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("name")

	track := analytics.TrackerFromContext(ctx)
	start := time.Now()

	tool, ok := server.lookup(name)
	if !ok {
		c.JSON(http.StatusNotFound, tools.Failure(tools.NewArgumentError(fmt.Errorf("unknown tool: %s", name))))
		return
	}

	// An empty body, with or without a Content-Length, means no arguments.
	var args tools.Args
	if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
		err = tools.NewArgumentError(fmt.Errorf("parsing arguments: %v", err))
		track(analytics.ToolEvent(name, false, time.Since(start)))
		c.JSON(http.StatusBadRequest, tools.Failure(err))
		return
	}

	toolbox := &tools.Toolbox{}
	if tool.Remote {
		tb, err := server.newToolbox(c.Request)
		if err != nil {
			track(analytics.ToolEvent(name, false, time.Since(start)))
			c.JSON(api.StatusCode(err), tools.Failure(err))
			return
		}
		toolbox = tb
	}

	envelope, _ := toolbox.Run(ctx, name, &args)
	track(analytics.ToolEvent(name, envelope.Success(), time.Since(start)))
	c.JSON(statusCode(envelope), envelope)
}

var failureStatus = map[string]int{
	tools.TypeValueError:          http.StatusBadRequest,
	tools.TypeNotImplemented:      http.StatusNotImplemented,
	api.KindInvalidInput:          http.StatusBadRequest,
	api.KindInvalidAuthentication: http.StatusUnauthorized,
	api.KindPermissionDenied:      http.StatusForbidden,
	api.KindNotFound:              http.StatusNotFound,
	api.KindResourceExhausted:     http.StatusTooManyRequests,
	api.KindUnavailable:           http.StatusServiceUnavailable,
	api.KindDeadlineExceeded:      http.StatusGatewayTimeout,
}

// statusCode returns the HTTP status that accompanies envelope.
func statusCode(envelope tools.Envelope) int {
	if envelope.Success() {
		return http.StatusOK
	}
	kind, _ := envelope["type"].(string)
	if code, ok := failureStatus[kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func forwardOrigin(c *gin.Context) {
	if origin := c.GetHeader("Origin"); origin != "" {
		c.Header("Access-Control-Allow-Origin", origin)
	}
	c.Next()
}
