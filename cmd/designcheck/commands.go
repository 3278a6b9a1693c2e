package main

import (
	"fmt"
	"image"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/standardbeagle/designcheck/internal/audit"
	"github.com/standardbeagle/designcheck/internal/compare"
	"github.com/standardbeagle/designcheck/internal/pixeldiff"
	"github.com/standardbeagle/designcheck/internal/styletree"
	"github.com/standardbeagle/designcheck/internal/tokens"
)

var (
	treeFile       string
	tokensFile     string
	componentsFile string
	outputFormat   string
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "Compare computed styles against design tokens",
	Long: `Compare a captured style tree with a design token set.

Every element's colors, typography, spacing and border radii are matched to the
nearest token. Values outside tolerance are reported with a severity, a CSS
locator and the suggested token, and each category is scored 0-100.

Examples:
  designcheck styles --tree page.json --tokens tokens.yaml
  designcheck styles --tree page.json --tokens tokens.json --components components.yaml --format text
  designcheck styles --tree page.json --tokens tokens.yaml --min-score 90`,
	Args: cobra.NoArgs,
	RunE: runStyles,
}

var pixelsCmd = &cobra.Command{
	Use:   "pixels EXPECTED ACTUAL",
	Short: "Pixel-compare two screenshots",
	Long: `Compare two screenshots pixel by pixel.

Images of different sizes are compared on a shared white canvas anchored at the
top-left corner. Anti-aliased edges are ignored unless --include-aa is set, and
differing pixels are grouped into merged rectangular regions.

Examples:
  designcheck pixels design.png page.png
  designcheck pixels design.png page.png --diff diff.png --side-by-side review.png
  designcheck pixels design.png page.png --threshold 0 --min-match 99.5`,
	Args: cobra.ExactArgs(2),
	RunE: runPixels,
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run style and pixel comparison together",
	Long: `Audit one page: compare its styles with the tokens and its screenshot with the
design, concurrently, and report a pass/fail verdict using the configured
minimum score and match percentage. Exits 1 when the audit fails.

Either half may be omitted.

Examples:
  designcheck audit --tree page.json --tokens tokens.yaml --expected design.png --actual page.png
  designcheck audit --expected design.png --actual page.png --name checkout`,
	Args: cobra.NoArgs,
	RunE: runAudit,
}

var treeCmd = &cobra.Command{
	Use:   "tree FILE",
	Short: "Print a style tree",
	Long: `Print a captured style tree with the locator of every element.

Examples:
  designcheck tree page.json
  designcheck tree page.json --styles`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

var (
	minScore     int
	minMatch     float64
	threshold    float64
	includeAA    bool
	diffOut      string
	sideBySide   string
	expectedFile string
	actualFile   string
	auditName    string
	showStyles   bool
)

func init() {
	for _, cmd := range []*cobra.Command{stylesCmd, auditCmd} {
		cmd.Flags().StringVar(&treeFile, "tree", "", "Style tree JSON file")
		cmd.Flags().StringVar(&tokensFile, "tokens", "", "Design token file (.json, .yaml)")
		cmd.Flags().StringVar(&componentsFile, "components", "", "Component spec file (.json, .yaml)")
	}
	for _, cmd := range []*cobra.Command{stylesCmd, pixelsCmd, auditCmd} {
		cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or text")
	}
	stylesCmd.MarkFlagRequired("tree")
	stylesCmd.MarkFlagRequired("tokens")
	stylesCmd.Flags().IntVar(&minScore, "min-score", 0, "Exit 1 when the overall score is below this")

	pixelsCmd.Flags().Float64Var(&threshold, "threshold", -1, "Matching sensitivity 0-1 (default from config)")
	pixelsCmd.Flags().BoolVar(&includeAA, "include-aa", false, "Count anti-aliased pixels as differences")
	pixelsCmd.Flags().StringVar(&diffOut, "diff", "", "Write the diff image to this PNG file")
	pixelsCmd.Flags().StringVar(&sideBySide, "side-by-side", "", "Write an expected | actual | diff composite to this PNG file")
	pixelsCmd.Flags().Float64Var(&minMatch, "min-match", 0, "Exit 1 when the match percentage is below this")

	auditCmd.Flags().StringVar(&expectedFile, "expected", "", "Expected screenshot")
	auditCmd.Flags().StringVar(&actualFile, "actual", "", "Actual screenshot")
	auditCmd.Flags().StringVar(&auditName, "name", "", "Label for the audited page")

	treeCmd.Flags().BoolVar(&showStyles, "styles", false, "Include computed styles")
}

func loadStyleInputs(treePath, tokensPath, componentsPath string) (*styletree.Element, *tokens.Set, []compare.Component, error) {
	root, err := styletree.LoadFile(treePath)
	if err != nil {
		return nil, nil, nil, err
	}
	var set *tokens.Set
	if tokensPath != "" {
		if set, err = tokens.LoadFile(tokensPath); err != nil {
			return nil, nil, nil, err
		}
	}
	var components []compare.Component
	if componentsPath != "" {
		if components, err = compare.LoadComponents(componentsPath); err != nil {
			return nil, nil, nil, err
		}
	}
	return root, set, components, nil
}

func runStyles(cmd *cobra.Command, args []string) error {
	if err := formatFlag(outputFormat); err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	root, set, components, err := loadStyleInputs(treeFile, tokensFile, componentsFile)
	if err != nil {
		return err
	}

	result := a.styles.CompareWithComponents(root, set, components)

	out := cmd.OutOrStdout()
	if outputFormat == "text" {
		fmt.Fprint(out, styleReport(result))
	} else if err := printJSON(out, result); err != nil {
		return err
	}

	if result.OverallScore < minScore {
		return errCheckFailed
	}
	return nil
}

func runPixels(cmd *cobra.Command, args []string) error {
	if err := formatFlag(outputFormat); err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}

	engine := a.pixels
	if cmd.Flags().Changed("threshold") || cmd.Flags().Changed("include-aa") {
		opts := engine.Options()
		if cmd.Flags().Changed("threshold") {
			opts.Threshold = threshold
		}
		if cmd.Flags().Changed("include-aa") {
			opts.IncludeAA = includeAA
		}
		engine = pixeldiff.NewEngine(opts)
	}

	expected, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read expected image: %w", err)
	}
	actual, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read actual image: %w", err)
	}

	res, err := engine.Compare(expected, actual)
	if err != nil {
		return err
	}

	if err := writeImage(diffOut, res.Diff); err != nil {
		return err
	}
	if sideBySide != "" {
		if err := writeImage(sideBySide, res.SideBySide()); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if outputFormat == "text" {
		fmt.Fprint(out, pixelReport(res))
	} else if err := printJSON(out, res); err != nil {
		return err
	}

	if res.MatchPercentage < minMatch {
		return errCheckFailed
	}
	return nil
}

func runAudit(cmd *cobra.Command, args []string) error {
	if err := formatFlag(outputFormat); err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}

	in := audit.Input{Name: auditName}
	if treeFile != "" {
		if in.Tree, in.Tokens, in.Components, err = loadStyleInputs(treeFile, tokensFile, componentsFile); err != nil {
			return err
		}
	}
	if expectedFile != "" || actualFile != "" {
		if expectedFile == "" || actualFile == "" {
			return fmt.Errorf("--expected and --actual must be given together")
		}
		if in.Expected, err = os.ReadFile(expectedFile); err != nil {
			return fmt.Errorf("read expected image: %w", err)
		}
		if in.Actual, err = os.ReadFile(actualFile); err != nil {
			return fmt.Errorf("read actual image: %w", err)
		}
	}

	rep, err := a.auditor.Run(cmd.Context(), in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == "text" {
		fmt.Fprint(out, auditReport(rep))
	} else if err := printJSON(out, rep); err != nil {
		return err
	}

	if !rep.Passed {
		return errCheckFailed
	}
	return nil
}

func runTree(cmd *cobra.Command, args []string) error {
	root, err := styletree.LoadFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), styletree.Print(root, showStyles))
	return nil
}

// writeImage encodes img as PNG at path. An empty path is a no-op.
func writeImage(path string, img image.Image) error {
	if path == "" || img == nil {
		return nil
	}
	data, err := pixeldiff.EncodePNG(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Debug().Str("path", path).Msg("wrote image")
	return nil
}
