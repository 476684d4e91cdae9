package mcp

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"quill/internal/workspace"

	"github.com/adrg/frontmatter"
)

// promptDir is the workspace directory scanned for prompt files.
const promptDir = ".quill/prompts"

// PromptFrontmatter is the YAML frontmatter expected in prompt files.
// Arguments is optional; when absent the argument list is inferred from
// the {{name}} placeholders in the body.
type PromptFrontmatter struct {
	Name        string   `yaml:"name,omitempty"`
	Description string   `yaml:"description"`
	Arguments   []string `yaml:"arguments,omitempty"`
}

// PromptFile is a parsed prompt template from the workspace.
type PromptFile struct {
	FileName    string
	Name        string
	Description string
	Content     string
	Arguments   []string // from frontmatter, or inferred from placeholders
}

var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// loadPromptFiles scans .quill/prompts for markdown files with valid
// frontmatter. Files without a description are skipped; a missing prompt
// directory yields an empty catalog.
func loadPromptFiles(ws *workspace.Workspace) ([]PromptFile, error) {
	if _, err := ws.Stat(promptDir); err != nil {
		return nil, nil
	}

	entries, err := ws.ListDir(promptDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan prompt directory: %w", err)
	}

	var prompts []PromptFile
	for _, entry := range entries {
		if entry.IsDir || filepath.Ext(entry.Name) != ".md" {
			continue
		}

		content, err := ws.ReadFile(entry.Path)
		if err != nil {
			continue
		}

		var matter PromptFrontmatter
		body, err := frontmatter.Parse(bytes.NewReader(content), &matter)
		if err != nil || matter.Description == "" {
			continue
		}

		name := matter.Name
		if name == "" {
			name = strings.TrimSuffix(entry.Name, ".md")
		}

		args := matter.Arguments
		if len(args) == 0 {
			args = extractPlaceholders(string(body))
		}

		prompts = append(prompts, PromptFile{
			FileName:    entry.Name,
			Name:        name,
			Description: matter.Description,
			Content:     string(body),
			Arguments:   args,
		})
	}

	sort.Slice(prompts, func(i, j int) bool { return prompts[i].Name < prompts[j].Name })
	return prompts, nil
}

// extractPlaceholders returns the unique {{name}} placeholders in order of
// first appearance.
func extractPlaceholders(content string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// renderPrompt substitutes {{name}} placeholders with argument values.
// Unprovided placeholders are left intact.
func renderPrompt(content string, args map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(content, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		if v, ok := args[name]; ok {
			return v
		}
		return m
	})
}
