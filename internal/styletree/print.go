package styletree

import (
	"fmt"
	"sort"
	"strings"

	tp "github.com/xlab/treeprint"
)

// Print renders the tree as indented text. With styles set, each element's
// computed styles are listed beneath it in property order.
func Print(root *Element, styles bool) string {
	printer := tp.New()
	printer.SetValue(describe(root))
	printNode(printer, root, styles)
	return printer.String()
}

func printNode(branch tp.Tree, e *Element, styles bool) {
	if styles && len(e.Styles) > 0 {
		names := make([]string, 0, len(e.Styles))
		for k := range e.Styles {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			branch.AddNode(fmt.Sprintf("%s: %s", k, e.Styles[k]))
		}
	}
	for _, c := range e.Children {
		if c == nil {
			continue
		}
		if len(c.Children) == 0 && !(styles && len(c.Styles) > 0) {
			branch.AddNode(describe(c))
			continue
		}
		printNode(branch.AddBranch(describe(c)), c, styles)
	}
}

func describe(e *Element) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(e.Tag))
	if e.ID != "" {
		b.WriteString("#" + e.ID)
	}
	for _, c := range e.Classes {
		b.WriteString("." + c)
	}
	if e.Rect.Width > 0 || e.Rect.Height > 0 {
		fmt.Fprintf(&b, " [%g,%g %gx%g]", e.Rect.X, e.Rect.Y, e.Rect.Width, e.Rect.Height)
	}
	return b.String()
}
