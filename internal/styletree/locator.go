package styletree

import (
	"fmt"
	"strings"
)

// Locator builds a human readable selector for e. An id makes the locator
// absolute; otherwise the first class or the 1-based child position is
// appended to the parent's locator. Locators are descriptive only and are not
// guaranteed to be unique.
func Locator(e *Element, parent string, index int) string {
	tag := strings.ToLower(e.Tag)
	if tag == "" {
		tag = "*"
	}

	if e.ID != "" {
		return tag + "#" + e.ID
	}

	var seg string
	switch {
	case len(e.Classes) > 0 && e.Classes[0] != "":
		seg = tag + "." + e.Classes[0]
	case index > 0:
		seg = fmt.Sprintf("%s:nth-child(%d)", tag, index)
	default:
		seg = tag
	}

	if parent == "" {
		return seg
	}
	return parent + " > " + seg
}
