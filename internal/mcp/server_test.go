package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quill/internal/config"
	"quill/internal/logging"
	"quill/internal/workspace"

	"github.com/mark3labs/mcp-go/mcp"
)

func setupServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"main.go":     "package main\n\nfunc main() {}\n",
		"README.md":   "# Demo project\n\nSearchable phrase here.\n",
		"lib/util.go": "package lib\n\n// searchable phrase here too\n",
		".quill/prompts/review.md": `---
description: Review a file for problems
---
Please review {{path}} and point out bugs.
`,
		".quill/prompts/summarize.md": `---
name: summarize-workspace
description: Summarize the workspace
---
Summarize this workspace in one paragraph.
`,
		".quill/prompts/no-frontmatter.md": "Just text, not a prompt.\n",
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ws, err := workspace.Open(dir)
	if err != nil {
		t.Fatalf("workspace.Open() error = %v", err)
	}
	t.Cleanup(func() { ws.Close() })

	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	logger, _ := logging.NewTestLogger()

	s, err := NewServer(&cfg, logger, ws)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s
}

func callTool(t *testing.T, s *Server, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("tool result content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestNewServerDisabled(t *testing.T) {
	dir := t.TempDir()
	ws, err := workspace.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()

	cfg := config.DefaultConfig()
	cfg.MCP.Enabled = false
	logger, _ := logging.NewTestLogger()

	if _, err := NewServer(&cfg, logger, ws); err == nil {
		t.Error("NewServer() with MCP disabled succeeded, want error")
	}
}

func TestWorkspaceInfoTool(t *testing.T) {
	s := setupServer(t, nil)

	result := callTool(t, s, s.handleWorkspaceInfo, nil)
	if result.IsError {
		t.Fatalf("workspace_info returned error: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, s.ws.Name()) {
		t.Errorf("workspace_info missing workspace name: %s", text)
	}
	if !strings.Contains(text, "fileCount") {
		t.Errorf("workspace_info missing file count: %s", text)
	}
}

func TestListFilesTool(t *testing.T) {
	s := setupServer(t, nil)

	result := callTool(t, s, s.handleListFiles, map[string]any{"pattern": "*.go"})
	text := resultText(t, result)

	if !strings.Contains(text, "main.go") || !strings.Contains(text, "lib/util.go") {
		t.Errorf("list_files missing Go files: %s", text)
	}
	if strings.Contains(text, "README.md") {
		t.Errorf("list_files(*.go) included README.md: %s", text)
	}
}

func TestReadFileTool(t *testing.T) {
	s := setupServer(t, nil)

	result := callTool(t, s, s.handleReadFile, map[string]any{"path": "main.go"})
	if result.IsError {
		t.Fatalf("read_file returned error: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "package main") {
		t.Errorf("read_file content = %s", resultText(t, result))
	}

	result = callTool(t, s, s.handleReadFile, map[string]any{"path": "../escape"})
	if !result.IsError {
		t.Error("read_file with traversal path did not return error result")
	}

	result = callTool(t, s, s.handleReadFile, nil)
	if !result.IsError {
		t.Error("read_file without path did not return error result")
	}
}

func TestSearchFilesTool(t *testing.T) {
	s := setupServer(t, nil)

	result := callTool(t, s, s.handleSearchFiles, map[string]any{"query": "searchable phrase"})
	text := resultText(t, result)

	if !strings.Contains(text, "README.md:3") {
		t.Errorf("search missing README match: %s", text)
	}
	if !strings.Contains(text, "lib/util.go:3") {
		t.Errorf("search missing util.go match: %s", text)
	}

	// Case sensitive: only the lowercase occurrence matches
	result = callTool(t, s, s.handleSearchFiles, map[string]any{
		"query":          "searchable phrase",
		"case_sensitive": true,
	})
	text = resultText(t, result)
	if strings.Contains(text, "README.md") {
		t.Errorf("case-sensitive search matched README.md: %s", text)
	}
}

func TestWriteToolsGatedByConfig(t *testing.T) {
	s := setupServer(t, func(c *config.Config) { c.MCP.ToolsEnabled = true })

	result := callTool(t, s, s.handleWriteFile, map[string]any{
		"path":    "generated.txt",
		"content": "from a client",
	})
	if result.IsError {
		t.Fatalf("write_file returned error: %s", resultText(t, result))
	}

	data, err := s.ws.ReadFile("generated.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "from a client" {
		t.Errorf("written content = %q", data)
	}

	result = callTool(t, s, s.handleCreateDir, map[string]any{"path": "newdir/sub"})
	if result.IsError {
		t.Fatalf("create_dir returned error: %s", resultText(t, result))
	}
	if st, err := s.ws.Stat("newdir/sub"); err != nil || !st.IsDir {
		t.Error("create_dir did not create the directory")
	}
}

func TestCreateFileTool(t *testing.T) {
	s := setupServer(t, func(c *config.Config) { c.MCP.ToolsEnabled = true })

	result := callTool(t, s, s.handleCreateFile, map[string]any{"path": "docs/notes.txt"})
	if result.IsError {
		t.Fatalf("create_file returned error: %s", resultText(t, result))
	}
	if st, err := s.ws.Stat("docs/notes.txt"); err != nil || st.IsDir {
		t.Error("create_file did not create the file")
	}

	// A second create against the same path must fail.
	result = callTool(t, s, s.handleCreateFile, map[string]any{"path": "docs/notes.txt"})
	if !result.IsError {
		t.Error("create_file on an existing file did not return error result")
	}
}

func TestRenamePathTool(t *testing.T) {
	s := setupServer(t, func(c *config.Config) { c.MCP.ToolsEnabled = true })

	result := callTool(t, s, s.handleRenamePath, map[string]any{
		"from": "README.md",
		"to":   "docs/README.md",
	})
	if result.IsError {
		t.Fatalf("rename_path returned error: %s", resultText(t, result))
	}
	if _, err := s.ws.Stat("docs/README.md"); err != nil {
		t.Error("rename_path target missing")
	}
	if _, err := s.ws.Stat("README.md"); err == nil {
		t.Error("rename_path left the source in place")
	}

	result = callTool(t, s, s.handleRenamePath, map[string]any{
		"from": "main.go",
		"to":   "../escaped.go",
	})
	if !result.IsError {
		t.Error("rename_path with traversal target did not return error result")
	}
}

func TestDeletePathTool(t *testing.T) {
	s := setupServer(t, func(c *config.Config) { c.MCP.ToolsEnabled = true })

	result := callTool(t, s, s.handleDeletePath, map[string]any{"path": "README.md"})
	if result.IsError {
		t.Fatalf("delete_path returned error: %s", resultText(t, result))
	}
	if _, err := s.ws.Stat("README.md"); err == nil {
		t.Error("delete_path left the file in place")
	}

	// Non-empty directories need the recursive flag.
	result = callTool(t, s, s.handleDeletePath, map[string]any{"path": "lib"})
	if !result.IsError {
		t.Error("delete_path on a non-empty directory did not return error result")
	}
	result = callTool(t, s, s.handleDeletePath, map[string]any{"path": "lib", "recursive": true})
	if result.IsError {
		t.Fatalf("recursive delete_path returned error: %s", resultText(t, result))
	}
	if _, err := s.ws.Stat("lib"); err == nil {
		t.Error("recursive delete_path left the directory in place")
	}
}

func TestWriteFileRejectsEscape(t *testing.T) {
	s := setupServer(t, func(c *config.Config) { c.MCP.ToolsEnabled = true })

	result := callTool(t, s, s.handleWriteFile, map[string]any{
		"path":    "../outside.txt",
		"content": "nope",
	})
	if !result.IsError {
		t.Error("write_file with traversal path did not return error result")
	}
}

func TestTreeResource(t *testing.T) {
	s := setupServer(t, nil)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = treeResourceURI

	contents, err := s.handleTreeResource(context.Background(), req)
	if err != nil {
		t.Fatalf("tree resource error = %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("tree resource returned %d contents, want 1", len(contents))
	}

	text := contents[0].(mcp.TextResourceContents).Text
	if !strings.Contains(text, "main.go") || !strings.Contains(text, "lib/") {
		t.Errorf("tree resource missing entries:\n%s", text)
	}
}

func TestFileResource(t *testing.T) {
	s := setupServer(t, nil)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = fileResourcePrefix + "README.md"

	contents, err := s.handleFileResource(context.Background(), req)
	if err != nil {
		t.Fatalf("file resource error = %v", err)
	}

	rc := contents[0].(mcp.TextResourceContents)
	if !strings.Contains(rc.Text, "# Demo project") {
		t.Errorf("file resource content = %q", rc.Text)
	}
	if rc.MIMEType != "text/markdown" {
		t.Errorf("MIME type = %s, want text/markdown", rc.MIMEType)
	}

	req.Params.URI = fileResourcePrefix + "../escape"
	if _, err := s.handleFileResource(context.Background(), req); err == nil {
		t.Error("file resource with traversal path succeeded, want error")
	}

	req.Params.URI = "quill://other/thing"
	if _, err := s.handleFileResource(context.Background(), req); err == nil {
		t.Error("file resource with foreign URI succeeded, want error")
	}
}
