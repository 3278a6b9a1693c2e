package tools

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/designcheck/internal/audit"
	"github.com/standardbeagle/designcheck/internal/compare"
	"github.com/standardbeagle/designcheck/internal/pixeldiff"
	"github.com/standardbeagle/designcheck/internal/snapshot"
)

const redButton = `{"tag":"button","classes":["cta"],"styles":{"color":"rgb(255, 0, 0)"}}`
const greenTokens = `{"colors":[{"name":"green","hex":"#00ff00"}]}`

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(&mcp.Implementation{Name: "designcheck-test", Version: "test"}, nil)
	RegisterDesignTools(server, Engines{
		Styles:  compare.NewEngine(compare.DefaultOptions()),
		Pixels:  pixeldiff.NewEngine(pixeldiff.DefaultOptions()),
		Auditor: audit.New(nil, nil, audit.DefaultCriteria()),
	})
	manager, err := snapshot.NewManager(t.TempDir(), nil, 99)
	require.NoError(t, err)
	RegisterSnapshotTools(server, manager)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	_, err = server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func call(t *testing.T, session *mcp.ClientSession, name string, args map[string]any, out any) *mcp.CallToolResult {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	if out != nil && !res.IsError {
		data, err := json.Marshal(res.StructuredContent)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, out))
	}
	return res
}

func textOf(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func pngFile(t *testing.T, dir, name string, mark bool) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if mark && x < 20 && y < 20 {
				c = color.NRGBA{R: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	data, err := pixeldiff.EncodePNG(img)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestStyleCompareTool(t *testing.T) {
	session := connect(t)

	var out StyleCompareOutput
	res := call(t, session, "style_compare", map[string]any{
		"tree":   redButton,
		"tokens": greenTokens,
	}, &out)

	require.False(t, res.IsError, textOf(res))
	require.NotNil(t, out.Report)
	require.Len(t, out.Report.Mismatches, 1)
	m := out.Report.Mismatches[0]
	assert.Equal(t, compare.CategoryColor, m.Category)
	assert.Equal(t, "button.cta", m.Locator)
	assert.Equal(t, "green", m.Token)
	assert.Contains(t, out.Message, "button.cta color")
}

func TestStyleCompareToolFiltersCategory(t *testing.T) {
	session := connect(t)

	var out StyleCompareOutput
	res := call(t, session, "style_compare", map[string]any{
		"tree":     redButton,
		"tokens":   "colors:\n  - name: green\n    hex: '#00ff00'\n",
		"category": "spacing",
	}, &out)

	require.False(t, res.IsError, textOf(res))
	assert.Empty(t, out.Report.Mismatches)
	assert.Equal(t, 0, out.Report.Summary.Total)
	assert.Contains(t, out.Message, ": 0 mismatches")
	assert.Less(t, out.Report.OverallScore, 100)

	res = call(t, session, "style_compare", map[string]any{
		"tree":     `{"tag":"div","styles":{"color":"rgb(255, 0, 0)","padding-top":"14px"}}`,
		"tokens":   `{"colors":[{"name":"green","hex":"#00ff00"}],"spacing":[{"name":"sm","value":8}]}`,
		"category": "color",
	}, &out)
	require.False(t, res.IsError, textOf(res))
	require.Len(t, out.Report.Mismatches, 1)
	assert.Equal(t, 1, out.Report.Summary.Total)
	assert.Contains(t, out.Message, ": 1 mismatches")
	assert.Less(t, out.Report.CategoryScores[compare.CategorySpacing], 100)
}

func TestStyleCompareToolErrors(t *testing.T) {
	session := connect(t)

	res := call(t, session, "style_compare", map[string]any{"tokens": greenTokens}, nil)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(res), "tree")

	res = call(t, session, "style_compare", map[string]any{"tree": "{not json", "tokens": greenTokens}, nil)
	assert.True(t, res.IsError)
}

func TestVisualDiffTool(t *testing.T) {
	session := connect(t)
	dir := t.TempDir()
	expected := pngFile(t, dir, "expected.png", false)
	actual := pngFile(t, dir, "actual.png", true)
	diffPath := filepath.Join(dir, "diff.png")

	var out VisualDiffOutput
	res := call(t, session, "visual_diff", map[string]any{
		"expected_path": expected,
		"actual_path":   actual,
		"diff_path":     diffPath,
		"include_image": true,
	}, &out)

	require.False(t, res.IsError, textOf(res))
	assert.Equal(t, 400, out.MismatchedPixels)
	assert.Equal(t, 75.0, out.MatchPercentage)
	require.Len(t, out.Regions, 1)
	assert.Equal(t, pixeldiff.Region{X: 0, Y: 0, Width: 20, Height: 20, Pixels: 400}, out.Regions[0])
	assert.FileExists(t, diffPath)

	var sawImage bool
	for _, c := range res.Content {
		if img, ok := c.(*mcp.ImageContent); ok {
			sawImage = true
			assert.Equal(t, "image/png", img.MIMEType)
		}
	}
	assert.True(t, sawImage)
}

func TestVisualDiffToolDecodeError(t *testing.T) {
	session := connect(t)

	res := call(t, session, "visual_diff", map[string]any{
		"expected": "data:image/png;base64,aGVsbG8=",
		"actual":   "aGVsbG8=",
	}, nil)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(res), "expected image")
}

func TestAuditTool(t *testing.T) {
	session := connect(t)
	dir := t.TempDir()
	shot := pngFile(t, dir, "shot.png", false)

	var out AuditOutput
	res := call(t, session, "audit", map[string]any{
		"name":          "landing",
		"tree":          `{"tag":"p","styles":{"color":"rgb(0, 255, 0)"}}`,
		"tokens":        greenTokens,
		"expected_path": shot,
		"actual_path":   shot,
	}, &out)

	require.False(t, res.IsError, textOf(res))
	assert.True(t, out.Passed)
	assert.NotEmpty(t, out.ID)
	require.NotNil(t, out.Styles)
	require.NotNil(t, out.Pixels)
	assert.Equal(t, 100, out.Styles.OverallScore)
	assert.Equal(t, 100.0, out.Pixels.MatchPercentage)

	res = call(t, session, "audit", map[string]any{}, nil)
	assert.True(t, res.IsError)
}

func TestSnapshotTool(t *testing.T) {
	session := connect(t)
	dir := t.TempDir()

	encode := func(path string) string {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		img, err := pixeldiff.Decode(data)
		require.NoError(t, err)
		uri, err := pixeldiff.EncodeDataURI(img)
		require.NoError(t, err)
		return uri
	}
	clean := encode(pngFile(t, dir, "clean.png", false))
	marked := encode(pngFile(t, dir, "marked.png", true))

	var out SnapshotOutput
	res := call(t, session, "snapshot", map[string]any{
		"action": "baseline",
		"name":   "v1",
		"pages":  []map[string]any{{"name": "home", "screenshot": clean}},
	}, &out)
	require.False(t, res.IsError, textOf(res))
	assert.True(t, out.Success)

	res = call(t, session, "snapshot", map[string]any{
		"action":   "compare",
		"baseline": "v1",
		"pages":    []map[string]any{{"name": "home", "screenshot": marked}},
	}, &out)
	require.False(t, res.IsError, textOf(res))
	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "FAIL home")

	res = call(t, session, "snapshot", map[string]any{"action": "list"}, &out)
	require.False(t, res.IsError)
	assert.Contains(t, out.Message, "v1")

	res = call(t, session, "snapshot", map[string]any{"action": "delete", "name": "v1"}, &out)
	require.False(t, res.IsError)

	res = call(t, session, "snapshot", map[string]any{"action": "get", "name": "v1"}, nil)
	assert.True(t, res.IsError)

	res = call(t, session, "snapshot", map[string]any{"action": "explode"}, nil)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(res), "Unknown action")
}
