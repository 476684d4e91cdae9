package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerPrompts loads the workspace prompt catalog and registers each
// file as a named prompt with its placeholders as optional arguments.
func (s *Server) registerPrompts() error {
	prompts, err := loadPromptFiles(s.ws)
	if err != nil {
		return fmt.Errorf("failed to load workspace prompts: %w", err)
	}

	for _, pf := range prompts {
		opts := []mcp.PromptOption{mcp.WithPromptDescription(pf.Description)}
		for _, arg := range pf.Arguments {
			opts = append(opts, mcp.WithArgument(arg,
				mcp.ArgumentDescription(fmt.Sprintf("Value substituted for {{%s}} in the template", arg)),
			))
		}

		pf := pf
		s.mcpServer.AddPrompt(mcp.NewPrompt(pf.Name, opts...), func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			rendered := renderPrompt(pf.Content, req.Params.Arguments)
			return mcp.NewGetPromptResult(
				pf.Description,
				[]mcp.PromptMessage{
					mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(rendered)),
				},
			), nil
		})
	}

	if len(prompts) > 0 {
		s.logger.Info("Workspace prompts registered", "count", len(prompts))
	}
	return nil
}
