package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/designcheck/internal/snapshot"
)

// SnapshotPage is one screenshot passed to the snapshot tool.
type SnapshotPage struct {
	Name       string `json:"name,omitempty" jsonschema:"Page identifier, defaults to url"`
	URL        string `json:"url,omitempty" jsonschema:"Page URL"`
	Width      int    `json:"width,omitempty" jsonschema:"Viewport width"`
	Height     int    `json:"height,omitempty" jsonschema:"Viewport height"`
	Screenshot string `json:"screenshot" jsonschema:"Screenshot as base64 or data URI"`
}

// SnapshotInput defines input for the snapshot tool.
type SnapshotInput struct {
	Action   string         `json:"action" jsonschema:"Action: baseline, compare, list, get, delete"`
	Name     string         `json:"name,omitempty" jsonschema:"Baseline name (required for baseline, get and delete)"`
	Baseline string         `json:"baseline,omitempty" jsonschema:"Baseline to compare against (compare action)"`
	Pages    []SnapshotPage `json:"pages,omitempty" jsonschema:"Screenshots for baseline and compare"`
}

// SnapshotOutput defines output for the snapshot tool.
type SnapshotOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// RegisterSnapshotTools registers the snapshot tool.
func RegisterSnapshotTools(server *mcp.Server, manager *snapshot.Manager) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "snapshot",
		Description: `Save screenshots as named baselines and compare later captures against them.

Actions:
- baseline: Create (or replace) a baseline from screenshots
- compare: Pixel-diff screenshots against a baseline; writes diff images and a report
- list: List baselines, newest first
- get: Show one baseline
- delete: Delete a baseline

Example baseline:
  snapshot {action: "baseline", name: "before-refactor", pages: [{name: "home", url: "/", screenshot: "data:image/png;base64,..."}]}

Example compare:
  snapshot {action: "compare", baseline: "before-refactor", pages: [{name: "home", screenshot: "iVBORw0..."}]}`,
	}, func(ctx context.Context, req *mcp.CallToolRequest, input SnapshotInput) (*mcp.CallToolResult, SnapshotOutput, error) {
		return handleSnapshot(ctx, manager, input)
	})
}

func handleSnapshot(ctx context.Context, manager *snapshot.Manager, input SnapshotInput) (*mcp.CallToolResult, SnapshotOutput, error) {
	switch input.Action {
	case "baseline":
		return handleSnapshotBaseline(ctx, manager, input)
	case "compare":
		return handleSnapshotCompare(ctx, manager, input)
	case "list":
		return handleSnapshotList(manager)
	case "get":
		return handleSnapshotGet(manager, input)
	case "delete":
		return handleSnapshotDelete(manager, input)
	default:
		return errorResult(fmt.Sprintf("Unknown action: %s. Valid actions: baseline, compare, list, get, delete", input.Action)), SnapshotOutput{}, nil
	}
}

func captures(pages []SnapshotPage) []snapshot.Capture {
	out := make([]snapshot.Capture, 0, len(pages))
	for _, p := range pages {
		out = append(out, snapshot.Capture{
			Name:       p.Name,
			URL:        p.URL,
			Viewport:   snapshot.Viewport{Width: p.Width, Height: p.Height},
			Screenshot: p.Screenshot,
		})
	}
	return out
}

func handleSnapshotBaseline(ctx context.Context, manager *snapshot.Manager, input SnapshotInput) (*mcp.CallToolResult, SnapshotOutput, error) {
	if input.Name == "" {
		return errorResult("Missing required parameter: name"), SnapshotOutput{}, nil
	}
	if len(input.Pages) == 0 {
		return errorResult("Missing or empty required parameter: pages"), SnapshotOutput{}, nil
	}

	b, err := manager.CreateBaseline(ctx, input.Name, captures(input.Pages))
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to create baseline: %v", err)), SnapshotOutput{}, nil
	}

	msg := fmt.Sprintf("Baseline '%s' created with %d page(s)", b.Name, len(b.Pages))
	if b.GitCommit != "" {
		msg += fmt.Sprintf(" at %s@%s", b.GitBranch, b.GitCommit)
	}
	return nil, SnapshotOutput{Success: true, Message: msg, Data: b}, nil
}

func handleSnapshotCompare(ctx context.Context, manager *snapshot.Manager, input SnapshotInput) (*mcp.CallToolResult, SnapshotOutput, error) {
	name := input.Baseline
	if name == "" {
		name = input.Name
	}
	if name == "" {
		return errorResult("Missing required parameter: baseline"), SnapshotOutput{}, nil
	}
	if len(input.Pages) == 0 {
		return errorResult("Missing or empty required parameter: pages"), SnapshotOutput{}, nil
	}

	rep, err := manager.CompareToBaseline(ctx, name, captures(input.Pages))
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to compare: %v", err)), SnapshotOutput{}, nil
	}

	return nil, SnapshotOutput{
		Success: !rep.Summary.HasRegressions(),
		Message: formatSnapshotReport(rep),
		Data:    rep,
	}, nil
}

func handleSnapshotList(manager *snapshot.Manager) (*mcp.CallToolResult, SnapshotOutput, error) {
	baselines, err := manager.ListBaselines()
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to list baselines: %v", err)), SnapshotOutput{}, nil
	}
	if len(baselines) == 0 {
		return nil, SnapshotOutput{Success: true, Message: "No baselines found", Data: baselines}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Baselines (%d):\n", len(baselines))
	for i, b := range baselines {
		fmt.Fprintf(&sb, "%d. %s - %d page(s) - %s", i+1, b.Name, len(b.Pages), b.CreatedAt.Format("2006-01-02 15:04:05"))
		if b.GitBranch != "" {
			fmt.Fprintf(&sb, " [%s@%s]", b.GitBranch, b.GitCommit)
		}
		sb.WriteByte('\n')
	}
	return nil, SnapshotOutput{Success: true, Message: sb.String(), Data: baselines}, nil
}

func handleSnapshotGet(manager *snapshot.Manager, input SnapshotInput) (*mcp.CallToolResult, SnapshotOutput, error) {
	if input.Name == "" {
		return errorResult("Missing required parameter: name"), SnapshotOutput{}, nil
	}
	b, err := manager.GetBaseline(input.Name)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to get baseline: %v", err)), SnapshotOutput{}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Baseline '%s' (%s)\n", b.Name, b.CreatedAt.Format("2006-01-02 15:04:05"))
	for _, p := range b.Pages {
		fmt.Fprintf(&sb, "  %s %dx%d %s\n", p.Name, p.Width, p.Height, p.Screenshot)
	}
	return nil, SnapshotOutput{Success: true, Message: sb.String(), Data: b}, nil
}

func handleSnapshotDelete(manager *snapshot.Manager, input SnapshotInput) (*mcp.CallToolResult, SnapshotOutput, error) {
	if input.Name == "" {
		return errorResult("Missing required parameter: name"), SnapshotOutput{}, nil
	}
	if err := manager.DeleteBaseline(input.Name); err != nil {
		return errorResult(fmt.Sprintf("Failed to delete baseline: %v", err)), SnapshotOutput{}, nil
	}
	return nil, SnapshotOutput{Success: true, Message: fmt.Sprintf("Baseline '%s' deleted", input.Name)}, nil
}

func formatSnapshotReport(rep *snapshot.Report) string {
	var sb strings.Builder
	s := rep.Summary
	fmt.Fprintf(&sb, "Visual regression report: %s -> current\n\n", rep.Baseline)
	if s.HasRegressions() {
		fmt.Fprintf(&sb, "%d of %d page(s) regressed, %d missing (%.2f%% average match)\n\n",
			s.Regressions, s.TotalPages, s.PagesMissing, s.AverageMatch)
	} else {
		fmt.Fprintf(&sb, "No regressions across %d page(s)\n\n", s.TotalPages)
	}

	for _, p := range rep.Pages {
		mark := "ok  "
		switch {
		case p.Regression || p.Missing:
			mark = "FAIL"
		case p.Changed:
			mark = "diff"
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", mark, p.Name, p.Description)
		if p.SideBySidePath != "" && p.Changed {
			fmt.Fprintf(&sb, "     %s\n", p.SideBySidePath)
		}
	}
	for _, name := range s.Unexpected {
		fmt.Fprintf(&sb, "new  %s: not in baseline\n", name)
	}
	fmt.Fprintf(&sb, "\nReport: %s\n", rep.Dir)
	return sb.String()
}
