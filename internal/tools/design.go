package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/designcheck/internal/audit"
	"github.com/standardbeagle/designcheck/internal/compare"
	"github.com/standardbeagle/designcheck/internal/pixeldiff"
)

// StyleCompareInput defines input for the style_compare tool.
type StyleCompareInput struct {
	Tree           string `json:"tree,omitempty" jsonschema:"Style tree as JSON: {tag, id, classes, styles, children}"`
	TreePath       string `json:"tree_path,omitempty" jsonschema:"Path to a style tree JSON file (alternative to tree)"`
	Tokens         string `json:"tokens,omitempty" jsonschema:"Design tokens as JSON or YAML: {colors, typography, spacing, radii}"`
	TokensPath     string `json:"tokens_path,omitempty" jsonschema:"Path to a .json or .yaml token file (alternative to tokens)"`
	Components     string `json:"components,omitempty" jsonschema:"Component specs as JSON or YAML: [{name, styles}]"`
	ComponentsPath string `json:"components_path,omitempty" jsonschema:"Path to a component spec file (alternative to components)"`
	Category       string `json:"category,omitempty" jsonschema:"Only return mismatches of this category; the summary counts the returned mismatches, scores still cover all"`
}

// StyleCompareOutput defines output for style_compare.
type StyleCompareOutput struct {
	Report  *compare.Result `json:"report"`
	Message string          `json:"message"`
}

func registerStyleCompare(server *mcp.Server, engine *compare.Engine) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "style_compare",
		Description: `Compare a page's computed styles against design tokens.

Each element's colors, typography, spacing and border radii are matched to the
nearest token; values outside tolerance become mismatches with a severity, a
CSS locator and the suggested token. Returns per-category scores (0-100) and an
overall weighted score.

Examples:
  style_compare {tree_path: "page.json", tokens_path: "tokens.yaml"}
  style_compare {tree: "{\"tag\":\"button\",\"styles\":{\"color\":\"rgb(255,0,0)\"}}", tokens: "{\"colors\":[{\"name\":\"brand\",\"hex\":\"#00ff00\"}]}"}
  style_compare {tree_path: "page.json", tokens_path: "tokens.yaml", components_path: "components.yaml", category: "spacing"}`,
	}, func(ctx context.Context, req *mcp.CallToolRequest, input StyleCompareInput) (*mcp.CallToolResult, StyleCompareOutput, error) {
		src := styleSource{
			tree: input.Tree, treePath: input.TreePath,
			tokens: input.Tokens, tokensPath: input.TokensPath,
			components: input.Components, componentsPath: input.ComponentsPath,
		}
		root, set, components, err := src.load()
		if err != nil {
			return errorResult(err.Error()), StyleCompareOutput{}, nil
		}

		result := engine.CompareWithComponents(root, set, components)
		if input.Category != "" {
			result.Mismatches = result.ByCategory(compare.Category(input.Category))
			result.Summary = compare.Summarize(result.Mismatches)
		}

		return nil, StyleCompareOutput{
			Report:  result,
			Message: formatStyleResult(result),
		}, nil
	})
}

func formatStyleResult(r *compare.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Score %d/100 across %d elements: %d mismatches (%d critical, %d major, %d minor)\n",
		r.OverallScore, r.Elements, r.Summary.Total, r.Summary.Critical, r.Summary.Major, r.Summary.Minor)
	for _, m := range r.Mismatches {
		fmt.Fprintf(&sb, "  [%s] %s %s: %s, expected %s", m.Severity, m.Locator, m.Property, m.Actual, m.Expected)
		if m.Token != "" {
			fmt.Fprintf(&sb, " (%s)", m.Token)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// VisualDiffInput defines input for the visual_diff tool.
type VisualDiffInput struct {
	Expected       string   `json:"expected,omitempty" jsonschema:"Expected screenshot as base64 or data URI"`
	ExpectedPath   string   `json:"expected_path,omitempty" jsonschema:"Path to the expected screenshot (alternative to expected)"`
	Actual         string   `json:"actual,omitempty" jsonschema:"Actual screenshot as base64 or data URI"`
	ActualPath     string   `json:"actual_path,omitempty" jsonschema:"Path to the actual screenshot (alternative to actual)"`
	Threshold      *float64 `json:"threshold,omitempty" jsonschema:"Matching sensitivity 0 (exact) to 1 (lenient), default from config"`
	IncludeAA      *bool    `json:"include_aa,omitempty" jsonschema:"Count anti-aliased pixels as differences"`
	DiffPath       string   `json:"diff_path,omitempty" jsonschema:"Write the diff image to this path"`
	SideBySidePath string   `json:"side_by_side_path,omitempty" jsonschema:"Write an expected | actual | diff composite to this path"`
	IncludeImage   bool     `json:"include_image,omitempty" jsonschema:"Return the side-by-side composite as image content"`
}

// VisualDiffOutput defines output for visual_diff.
type VisualDiffOutput struct {
	MatchPercentage   float64            `json:"match_percentage"`
	MismatchedPixels  int                `json:"mismatched_pixels"`
	AntiAliasedPixels int                `json:"anti_aliased_pixels"`
	TotalPixels       int                `json:"total_pixels"`
	Width             int                `json:"width"`
	Height            int                `json:"height"`
	Regions           []pixeldiff.Region `json:"regions"`
	DiffPath          string             `json:"diff_path,omitempty"`
	SideBySidePath    string             `json:"side_by_side_path,omitempty"`
	Message           string             `json:"message"`
}

func registerVisualDiff(server *mcp.Server, engine *pixeldiff.Engine) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "visual_diff",
		Description: `Pixel-compare two screenshots.

Images of different sizes are compared on a shared white canvas. Anti-aliased
edges are ignored unless include_aa is set. Differing pixels are grouped into
merged rectangular regions.

Examples:
  visual_diff {expected_path: "design.png", actual_path: "page.png"}
  visual_diff {expected: "data:image/png;base64,...", actual: "iVBORw0...", include_image: true}
  visual_diff {expected_path: "a.png", actual_path: "b.png", threshold: 0, diff_path: "diff.png"}`,
	}, func(ctx context.Context, req *mcp.CallToolRequest, input VisualDiffInput) (*mcp.CallToolResult, VisualDiffOutput, error) {
		expected, err := imageBytes("expected image", input.Expected, input.ExpectedPath)
		if err != nil {
			return errorResult(err.Error()), VisualDiffOutput{}, nil
		}
		actual, err := imageBytes("actual image", input.Actual, input.ActualPath)
		if err != nil {
			return errorResult(err.Error()), VisualDiffOutput{}, nil
		}

		e := engine
		if input.Threshold != nil || input.IncludeAA != nil {
			opts := engine.Options()
			if input.Threshold != nil {
				opts.Threshold = *input.Threshold
			}
			if input.IncludeAA != nil {
				opts.IncludeAA = *input.IncludeAA
			}
			e = pixeldiff.NewEngine(opts)
		}

		res, err := e.Compare(expected, actual)
		if err != nil {
			return errorResult(err.Error()), VisualDiffOutput{}, nil
		}

		out := VisualDiffOutput{
			MatchPercentage:   res.MatchPercentage,
			MismatchedPixels:  res.MismatchedPixels,
			AntiAliasedPixels: res.AntiAliasedPixels,
			TotalPixels:       res.TotalPixels,
			Width:             res.Width,
			Height:            res.Height,
			Regions:           res.Regions,
			DiffPath:          input.DiffPath,
			SideBySidePath:    input.SideBySidePath,
			Message:           formatPixelResult(res),
		}
		if err := writePNG(input.DiffPath, res.Diff); err != nil {
			return errorResult(err.Error()), VisualDiffOutput{}, nil
		}
		var composite []byte
		if input.SideBySidePath != "" || input.IncludeImage {
			img := res.SideBySide()
			if err := writePNG(input.SideBySidePath, img); err != nil {
				return errorResult(err.Error()), VisualDiffOutput{}, nil
			}
			if input.IncludeImage {
				if composite, err = pixeldiff.EncodePNG(img); err != nil {
					return errorResult(err.Error()), VisualDiffOutput{}, nil
				}
			}
		}

		if composite == nil {
			return nil, out, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: out.Message},
				&mcp.ImageContent{Data: composite, MIMEType: "image/png"},
			},
		}, out, nil
	})
}

func formatPixelResult(r *pixeldiff.Result) string {
	if r.Identical() {
		return fmt.Sprintf("Images match (%dx%d, %d anti-aliased pixels ignored)", r.Width, r.Height, r.AntiAliasedPixels)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%.2f%% match: %d of %d pixels differ in %d region(s)\n",
		r.MatchPercentage, r.MismatchedPixels, r.TotalPixels, len(r.Regions))
	for _, reg := range r.Regions {
		fmt.Fprintf(&sb, "  %s\n", reg)
	}
	return sb.String()
}

// AuditInput defines input for the audit tool.
type AuditInput struct {
	Name           string `json:"name,omitempty" jsonschema:"Label for the audited page"`
	Tree           string `json:"tree,omitempty" jsonschema:"Style tree as JSON"`
	TreePath       string `json:"tree_path,omitempty" jsonschema:"Path to a style tree JSON file"`
	Tokens         string `json:"tokens,omitempty" jsonschema:"Design tokens as JSON or YAML"`
	TokensPath     string `json:"tokens_path,omitempty" jsonschema:"Path to a token file"`
	Components     string `json:"components,omitempty" jsonschema:"Component specs as JSON or YAML"`
	ComponentsPath string `json:"components_path,omitempty" jsonschema:"Path to a component spec file"`
	Expected       string `json:"expected,omitempty" jsonschema:"Expected screenshot as base64 or data URI"`
	ExpectedPath   string `json:"expected_path,omitempty" jsonschema:"Path to the expected screenshot"`
	Actual         string `json:"actual,omitempty" jsonschema:"Actual screenshot as base64 or data URI"`
	ActualPath     string `json:"actual_path,omitempty" jsonschema:"Path to the actual screenshot"`
}

// AuditOutput defines output for audit.
type AuditOutput struct {
	ID       string            `json:"id"`
	Passed   bool              `json:"passed"`
	Failures []string          `json:"failures,omitempty"`
	Styles   *compare.Result   `json:"styles,omitempty"`
	Pixels   *pixeldiff.Result `json:"pixels,omitempty"`
	Message  string            `json:"message"`
}

func registerAudit(server *mcp.Server, auditor *audit.Auditor) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "audit",
		Description: `Run style_compare and visual_diff together for one page and return a pass/fail verdict.

Either half may be omitted. The verdict uses the configured minimum style score
and minimum pixel match percentage.

Example:
  audit {name: "home", tree_path: "home.json", tokens_path: "tokens.yaml", expected_path: "home-design.png", actual_path: "home.png"}`,
	}, func(ctx context.Context, req *mcp.CallToolRequest, input AuditInput) (*mcp.CallToolResult, AuditOutput, error) {
		in := audit.Input{Name: input.Name}

		src := styleSource{
			tree: input.Tree, treePath: input.TreePath,
			tokens: input.Tokens, tokensPath: input.TokensPath,
			components: input.Components, componentsPath: input.ComponentsPath,
		}
		if src.present() {
			root, set, components, err := src.load()
			if err != nil {
				return errorResult(err.Error()), AuditOutput{}, nil
			}
			in.Tree, in.Tokens, in.Components = root, set, components
		}

		if input.Expected != "" || input.ExpectedPath != "" || input.Actual != "" || input.ActualPath != "" {
			var err error
			if in.Expected, err = imageBytes("expected image", input.Expected, input.ExpectedPath); err != nil {
				return errorResult(err.Error()), AuditOutput{}, nil
			}
			if in.Actual, err = imageBytes("actual image", input.Actual, input.ActualPath); err != nil {
				return errorResult(err.Error()), AuditOutput{}, nil
			}
		}

		rep, err := auditor.Run(ctx, in)
		if err != nil {
			return errorResult(err.Error()), AuditOutput{}, nil
		}

		return nil, AuditOutput{
			ID:       rep.ID,
			Passed:   rep.Passed,
			Failures: rep.Failures,
			Styles:   rep.Styles,
			Pixels:   rep.Pixels,
			Message:  formatAudit(rep),
		}, nil
	})
}

func formatAudit(rep *audit.Report) string {
	var sb strings.Builder
	if rep.Passed {
		sb.WriteString("PASS")
	} else {
		sb.WriteString("FAIL")
	}
	if rep.Name != "" {
		fmt.Fprintf(&sb, " %s", rep.Name)
	}
	sb.WriteByte('\n')
	for _, f := range rep.Failures {
		fmt.Fprintf(&sb, "  %s\n", f)
	}
	if rep.Styles != nil {
		sb.WriteString(formatStyleResult(rep.Styles))
	}
	if rep.Pixels != nil {
		sb.WriteString(formatPixelResult(rep.Pixels))
		sb.WriteByte('\n')
	}
	return sb.String()
}
