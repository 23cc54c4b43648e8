// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

// Package mcpserver exposes the line parser as MCP tools over stdio. All
// calls share one session, so set_variable and assignment lines are visible
// to later parse_line calls.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/marcelocantos/linesh/internal/parser"
	"github.com/marcelocantos/linesh/internal/rules"
	"github.com/marcelocantos/linesh/internal/session"
)

// Server wraps an MCP server bound to one session.
type Server struct {
	mu   sync.Mutex // serialises Eval so assignments apply in call order
	sess *session.Session
	mcp  *server.MCPServer
}

// New registers the parse_line, set_variable and get_variable tools.
func New(s *session.Session, version string) *Server {
	srv := &Server{
		sess: s,
		mcp:  server.NewMCPServer("linesh", version, server.WithToolCapabilities(false)),
	}

	srv.mcp.AddTool(mcp.NewTool("parse_line",
		mcp.WithDescription("Parse one shell-like line into a pipeline of commands. "+
			"Quotes are removed, $VAR references are expanded from the session "+
			"environment, and NAME=VALUE lines set a session variable."),
		mcp.WithString("line", mcp.Required(), mcp.Description("The input line")),
	), srv.parseLine)

	srv.mcp.AddTool(mcp.NewTool("set_variable",
		mcp.WithDescription("Set a variable in the session environment."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Variable name: [A-Za-z_][A-Za-z0-9_]*")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Variable value")),
	), srv.setVariable)

	srv.mcp.AddTool(mcp.NewTool("get_variable",
		mcp.WithDescription("Read a variable from the session environment."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Variable name")),
	), srv.getVariable)

	return srv
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcp }

// Serve runs the server on stdin/stdout until the input closes.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

// parseResponse is the JSON body of a successful parse_line call.
type parseResponse struct {
	Blank      bool             `json:"blank,omitempty"`
	Assignment *assignment      `json:"assignment,omitempty"`
	Commands   []parser.Command `json:"commands,omitempty"`
}

type assignment struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (s *Server) parseLine(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	line, err := req.RequireString("line")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	res, err := s.sess.Eval(line)
	s.mu.Unlock()
	if err != nil {
		return mcp.NewToolResultError(describe(err)), nil
	}

	var resp parseResponse
	switch name, value, ok := res.Assignment(); {
	case res == nil:
		resp.Blank = true
	case ok:
		resp.Assignment = &assignment{Name: name, Value: value}
	default:
		resp.Commands = res.Commands
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) setVariable(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.sess.Env.Set(name, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s set", name)), nil
}

func (s *Server) getVariable(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, ok := s.sess.Env.Lookup(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%s is not set", name)), nil
	}
	return mcp.NewToolResultText(value), nil
}

func describe(err error) string {
	var perr *parser.Error
	if errors.As(err, &perr) {
		return "parse error: " + perr.Error()
	}
	var rej *rules.RejectedError
	if errors.As(err, &rej) {
		return "rejected: " + rej.Error()
	}
	return err.Error()
}
