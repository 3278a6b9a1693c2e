// Package tools exposes the design conformance engines as MCP tools.
package tools

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/designcheck/internal/audit"
	"github.com/standardbeagle/designcheck/internal/compare"
	"github.com/standardbeagle/designcheck/internal/pixeldiff"
	"github.com/standardbeagle/designcheck/internal/styletree"
	"github.com/standardbeagle/designcheck/internal/tokens"
)

// Engines are the shared, stateless engines behind the tools.
type Engines struct {
	Styles  *compare.Engine
	Pixels  *pixeldiff.Engine
	Auditor *audit.Auditor
}

// RegisterDesignTools adds style_compare, visual_diff and audit.
func RegisterDesignTools(server *mcp.Server, e Engines) {
	registerStyleCompare(server, e.Styles)
	registerVisualDiff(server, e.Pixels)
	registerAudit(server, e.Auditor)
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// styleSource names a style tree and its design system, each given inline
// or as a file path.
type styleSource struct {
	tree, treePath             string
	tokens, tokensPath         string
	components, componentsPath string
}

func (s styleSource) present() bool {
	return s.tree != "" || s.treePath != ""
}

func (s styleSource) load() (*styletree.Element, *tokens.Set, []compare.Component, error) {
	var (
		root *styletree.Element
		err  error
	)
	switch {
	case s.tree != "":
		root, err = styletree.Parse([]byte(s.tree))
	case s.treePath != "":
		root, err = styletree.LoadFile(s.treePath)
	default:
		err = errors.New("one of tree or tree_path is required")
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("style tree: %w", err)
	}

	var set *tokens.Set
	switch {
	case s.tokens != "":
		set, err = tokens.Parse([]byte(s.tokens), tokens.SniffExt([]byte(s.tokens)))
	case s.tokensPath != "":
		set, err = tokens.LoadFile(s.tokensPath)
	default:
		err = errors.New("one of tokens or tokens_path is required")
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("tokens: %w", err)
	}

	var components []compare.Component
	switch {
	case s.components != "":
		components, err = compare.ParseComponents([]byte(s.components), tokens.SniffExt([]byte(s.components)))
	case s.componentsPath != "":
		components, err = compare.LoadComponents(s.componentsPath)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("components: %w", err)
	}

	return root, set, components, nil
}

// imageBytes returns the encoded image given as base64 or as a path.
func imageBytes(label, encoded, path string) ([]byte, error) {
	switch {
	case encoded != "":
		data, err := pixeldiff.DecodeBase64(encoded)
		if err != nil {
			return nil, &pixeldiff.DecodeError{Input: label, Err: err}
		}
		return data, nil
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", label, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s is required", label)
}

// writePNG saves img when path is set.
func writePNG(path string, img image.Image) error {
	if path == "" {
		return nil
	}
	data, err := pixeldiff.EncodePNG(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
