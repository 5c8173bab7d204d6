package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/dagaz/internal/diagramservice"
	"github.com/starford/dagaz/internal/testutil"
)

func testServer(t *testing.T) (*Server, *diagramservice.Service) {
	t.Helper()

	diagrams, collections := testutil.Stores(t)
	svc := diagramservice.NewService(diagrams, collections, "http://localhost:8080", nil)
	return New(svc), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so we invoke the handler
	// functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_diagrams":
		result, err = srv.listDiagrams(ctx, req)
	case "read_diagram":
		result, err = srv.readDiagram(ctx, req)
	case "create_diagram":
		result, err = srv.createDiagram(ctx, req)
	case "get_diagram_contract":
		result, err = srv.getDiagramContract(ctx, req)
	case "list_templates":
		result, err = srv.listTemplates(ctx, req)
	case "create_share_link":
		result, err = srv.createShareLink(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndReadDiagram(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_diagram", map[string]interface{}{
		"name": "Auth flow",
		"code": "graph TD\n A-->B",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "created diagram ") || !strings.Contains(text, "Auth flow") {
		t.Errorf("create result = %q", text)
	}

	// Pull the minted id back out via the service-visible list.
	lr := callTool(t, srv, "list_diagrams", map[string]interface{}{})
	list := resultText(lr)
	if !strings.Contains(list, "Auth flow") {
		t.Fatalf("list missing created diagram: %q", list)
	}
}

func TestReadDiagram(t *testing.T) {
	srv, svc := testServer(t)
	d, err := svc.CreateDiagram(context.Background(), "d", "pie\n\"a\": 1")
	if err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "read_diagram", map[string]interface{}{"id": d.ID})
	if text := resultText(r); text != "pie\n\"a\": 1" {
		t.Errorf("read result = %q", text)
	}
}

func TestReadDiagramMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_diagram", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing diagram")
	}
}

func TestCreateDiagramMissingArgs(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_diagram", map[string]interface{}{"name": "x"})
	if !r.IsError {
		t.Error("expected error when code argument is missing")
	}
}

func TestDiagramContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_diagram_contract", map[string]interface{}{})
	if text := resultText(r); !strings.Contains(text, "Mermaid") {
		t.Errorf("contract = %q", text)
	}
}

func TestListTemplates(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_templates", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "flowchart") {
		t.Errorf("templates missing flowchart: %q", text)
	}
}

func TestCreateShareLink(t *testing.T) {
	srv, svc := testServer(t)
	d, err := svc.CreateDiagram(context.Background(), "s", "pie")
	if err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "create_share_link", map[string]interface{}{"id": d.ID})
	text := resultText(r)
	if !strings.HasPrefix(text, "http://localhost:8080") || !strings.Contains(text, "shared=") {
		t.Errorf("share link = %q", text)
	}

	r = callTool(t, srv, "create_share_link", map[string]interface{}{"id": "ghost"})
	if !r.IsError {
		t.Error("expected error for missing diagram")
	}
}
