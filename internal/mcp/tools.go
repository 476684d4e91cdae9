package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"quill/internal/workspace"

	"github.com/mark3labs/mcp-go/mcp"
)

// maxSearchResults caps search_files output so one query cannot flood the
// client's context window.
const maxSearchResults = 100

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("workspace_info",
		mcp.WithDescription("Summarize the open workspace: name, path, and file count."),
	), s.handleWorkspaceInfo)

	s.mcpServer.AddTool(mcp.NewTool("list_files",
		mcp.WithDescription("List files in the workspace, optionally filtered by a glob on the file name."),
		mcp.WithString("pattern",
			mcp.Description("Glob matched against file names, e.g. *.go or README*"),
		),
	), s.handleListFiles)

	s.mcpServer.AddTool(mcp.NewTool("read_file",
		mcp.WithDescription("Read a file from the workspace."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Workspace-relative path of the file to read"),
		),
	), s.handleReadFile)

	s.mcpServer.AddTool(mcp.NewTool("search_files",
		mcp.WithDescription("Search workspace files for a substring, line by line."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to search for"),
		),
		mcp.WithString("pattern",
			mcp.Description("Optional glob restricting which files are searched"),
		),
		mcp.WithBoolean("case_sensitive",
			mcp.Description("Match case exactly (default false)"),
		),
		mcp.WithBoolean("regex",
			mcp.Description("Treat the query as a regular expression (default false)"),
		),
	), s.handleSearchFiles)

	// Write tools need both the tools toggle and the resource exposure
	// toggle; a server without them is read-only regardless of what a
	// client requests.
	if !s.cfg.MCP.ToolsEnabled || !s.cfg.MCP.ExposeResources {
		return
	}

	s.mcpServer.AddTool(mcp.NewTool("write_file",
		mcp.WithDescription("Write content to a workspace file, creating it and any parent directories if needed."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Workspace-relative path of the file to write"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Full new file content"),
		),
	), s.handleWriteFile)

	s.mcpServer.AddTool(mcp.NewTool("create_file",
		mcp.WithDescription("Create a new empty file in the workspace. Fails if the file already exists."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Workspace-relative path of the file to create"),
		),
	), s.handleCreateFile)

	s.mcpServer.AddTool(mcp.NewTool("create_dir",
		mcp.WithDescription("Create a directory (and missing parents) in the workspace."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Workspace-relative path of the directory to create"),
		),
	), s.handleCreateDir)

	s.mcpServer.AddTool(mcp.NewTool("rename_path",
		mcp.WithDescription("Move or rename a file or directory within the workspace."),
		mcp.WithString("from",
			mcp.Required(),
			mcp.Description("Workspace-relative path to move"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Workspace-relative destination path"),
		),
	), s.handleRenamePath)

	s.mcpServer.AddTool(mcp.NewTool("delete_path",
		mcp.WithDescription("Delete a file or empty directory from the workspace. Set recursive to remove a directory and its contents."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Workspace-relative path to delete"),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Remove directories and their contents (default false)"),
		),
	), s.handleDeletePath)
}

func (s *Server) handleWorkspaceInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, err := s.ws.ListFiles("")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info := map[string]any{
		"name":      s.ws.Name(),
		"path":      s.ws.Path(),
		"fileCount": len(files),
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode workspace info: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleListFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern := req.GetString("pattern", "")

	files, err := s.ws.ListFiles(pattern)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(files) == 0 {
		return mcp.NewToolResultText("No files found."), nil
	}

	var b strings.Builder
	for _, f := range files {
		fmt.Fprintf(&b, "%s\t%d bytes\n", f.Path, f.Size)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleReadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := s.ws.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleSearchFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	matches, err := s.ws.SearchContent(query, workspace.SearchOptions{
		CaseSensitive: req.GetBool("case_sensitive", false),
		Regex:         req.GetBool("regex", false),
		NamePattern:   req.GetString("pattern", ""),
		MaxResults:    maxSearchResults,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText("No matches found."), nil
	}

	var b strings.Builder
	for _, m := range matches {
		fmt.Fprintf(&b, "%s:%d: %s\n", m.Path, m.Line, strings.TrimSpace(m.Text))
	}
	if len(matches) == maxSearchResults {
		fmt.Fprintf(&b, "(results capped at %d)\n", maxSearchResults)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleWriteFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.ws.WriteFile(path, []byte(content)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.logger.Info("MCP client wrote file", "path", path, "bytes", len(content))
	return mcp.NewToolResultText(fmt.Sprintf("Wrote %d bytes to %s", len(content), path)), nil
}

func (s *Server) handleCreateFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.ws.CreateFile(path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.logger.Info("MCP client created file", "path", path)
	return mcp.NewToolResultText(fmt.Sprintf("Created %s", path)), nil
}

func (s *Server) handleCreateDir(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.ws.CreateDir(path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.logger.Info("MCP client created directory", "path", path)
	return mcp.NewToolResultText(fmt.Sprintf("Created directory %s", path)), nil
}

func (s *Server) handleRenamePath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.ws.Rename(from, to); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.logger.Info("MCP client renamed path", "from", from, "to", to)
	return mcp.NewToolResultText(fmt.Sprintf("Renamed %s to %s", from, to)), nil
}

func (s *Server) handleDeletePath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if req.GetBool("recursive", false) {
		err = s.ws.DeleteTree(path)
	} else {
		err = s.ws.Delete(path)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.logger.Info("MCP client deleted path", "path", path)
	return mcp.NewToolResultText(fmt.Sprintf("Deleted %s", path)), nil
}
