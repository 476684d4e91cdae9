package mcp

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	treeResourceURI    = "quill://workspace/tree"
	fileResourcePrefix = "quill://workspace/file/"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(
		treeResourceURI,
		"Workspace file tree",
		mcp.WithResourceDescription("Every file and directory in the workspace, one per line, directories suffixed with /"),
		mcp.WithMIMEType("text/plain"),
	), s.handleTreeResource)

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(
		fileResourcePrefix+"{path}",
		"Workspace file",
		mcp.WithTemplateDescription("Contents of a single workspace file, addressed by its relative path"),
		mcp.WithTemplateMIMEType("text/plain"),
	), s.handleFileResource)
}

func (s *Server) handleTreeResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries, err := s.ws.Scan()
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(filepath.ToSlash(e.Path))
		if e.IsDir {
			b.WriteByte('/')
		}
		b.WriteByte('\n')
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      treeResourceURI,
			MIMEType: "text/plain",
			Text:     b.String(),
		},
	}, nil
}

func (s *Server) handleFileResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	rel := strings.TrimPrefix(req.Params.URI, fileResourcePrefix)
	if rel == req.Params.URI || rel == "" {
		return nil, fmt.Errorf("invalid file resource URI: %s", req.Params.URI)
	}

	data, err := s.ws.ReadFile(rel)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: mimeTypeFor(rel),
			Text:     string(data),
		},
	}, nil
}

// mimeTypeFor picks a MIME type from the file extension, defaulting to
// plain text since the server only serves text resources.
func mimeTypeFor(rel string) string {
	switch ext := filepath.Ext(rel); ext {
	case ".md":
		return "text/markdown"
	case ".go", ".py", ".rs", ".ts", ".js":
		return "text/plain"
	default:
		if t := mime.TypeByExtension(ext); t != "" && strings.HasPrefix(t, "text/") {
			return t
		}
		if t := mime.TypeByExtension(ext); strings.Contains(t, "json") || strings.Contains(t, "yaml") || strings.Contains(t, "xml") {
			return t
		}
		return "text/plain"
	}
}
