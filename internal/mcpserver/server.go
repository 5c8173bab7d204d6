// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Dagaz vault tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/dagaz/internal/builtin"
	"github.com/starford/dagaz/internal/diagramservice"
)

// Server wraps the MCP server with Dagaz tools.
type Server struct {
	mcp *server.MCPServer
	svc *diagramservice.Service
}

// New creates a new MCP server with all Dagaz tools registered.
func New(svc *diagramservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Dagaz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_diagrams",
		mcp.WithDescription("List every diagram in the vault with its id, name, and theme."),
	), s.listDiagrams)

	s.mcp.AddTool(mcp.NewTool("read_diagram",
		mcp.WithDescription("Read the full Mermaid source of one diagram."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Diagram id")),
	), s.readDiagram)

	s.mcp.AddTool(mcp.NewTool("create_diagram",
		mcp.WithDescription("Create a new diagram from Mermaid source. "+
			"Source MUST be valid Mermaid syntax; read the get_diagram_contract tool "+
			"or the dagaz://diagram-format resource first."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name for the diagram")),
		mcp.WithString("code", mcp.Required(), mcp.Description("Mermaid source text")),
	), s.createDiagram)

	s.mcp.AddTool(mcp.NewTool("get_diagram_contract",
		mcp.WithDescription("Returns the canonical Mermaid source contract. "+
			"Call this before creating diagrams to ensure correct syntax."),
	), s.getDiagramContract)

	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the ready-made diagram templates with their ids and categories."),
	), s.listTemplates)

	s.mcp.AddTool(mcp.NewTool("create_share_link",
		mcp.WithDescription("Build a shareable URL embedding one diagram."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Diagram id to share")),
	), s.createShareLink)

	// Resource: diagram source contract.
	s.mcp.AddResource(
		mcp.NewResource("dagaz://diagram-format", "Diagram Format Contract",
			mcp.WithResourceDescription("Canonical Mermaid source format that all diagrams must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDiagramFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listDiagrams(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	diagrams, err := s.svc.ListDiagrams(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	type item struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Theme string `json:"theme"`
	}
	items := make([]item, len(diagrams))
	for i, d := range diagrams {
		items[i] = item{ID: d.ID, Name: d.Name, Theme: string(d.Theme)}
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDiagram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.GetDiagram(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(d.Code), nil
}

func (s *Server) createDiagram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d, err := s.svc.CreateDiagram(ctx, name, code)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created diagram %s (%s)", d.ID, d.Name)), nil
}

func (s *Server) getDiagramContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DiagramFormatContract), nil
}

func (s *Server) listTemplates(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(builtin.Templates(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createShareLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	url, err := s.svc.ShareURL(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(url), nil
}

func (s *Server) readDiagramFormatResource(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     DiagramFormatContract,
		},
	}, nil
}
