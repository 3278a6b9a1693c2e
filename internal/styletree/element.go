// Package styletree models the captured DOM of a rendered page: elements with
// their computed styles, bounding boxes and children.
package styletree

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Element is one captured DOM node. The comparison engine reads it and never
// modifies it.
type Element struct {
	Tag      string            `json:"tag"`
	ID       string            `json:"id,omitempty"`
	Classes  []string          `json:"classes,omitempty"`
	Name     string            `json:"name,omitempty"`
	TestID   string            `json:"testId,omitempty"`
	Text     string            `json:"text,omitempty"`
	Styles   map[string]string `json:"styles,omitempty"`
	Rect     Rect              `json:"rect"`
	Children []*Element        `json:"children,omitempty"`
}

// Rect is an element's bounding box in CSS pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// UnmarshalJSON accepts classes either as an array or as a single
// space-separated className string.
func (e *Element) UnmarshalJSON(data []byte) error {
	type plain Element
	var aux struct {
		plain
		Classes   json.RawMessage `json:"classes,omitempty"`
		ClassName string          `json:"className,omitempty"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = Element(aux.plain)
	e.Classes = nil

	if len(aux.Classes) > 0 {
		var list []string
		if err := json.Unmarshal(aux.Classes, &list); err != nil {
			var s string
			if err := json.Unmarshal(aux.Classes, &s); err != nil {
				return fmt.Errorf("classes: %w", err)
			}
			list = strings.Fields(s)
		}
		e.Classes = list
	}
	if len(e.Classes) == 0 && aux.ClassName != "" {
		e.Classes = strings.Fields(aux.ClassName)
	}
	return nil
}

// Style returns the computed value of the first property in names that is
// present and non-empty.
func (e *Element) Style(names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := e.Styles[n]; ok {
			v = strings.TrimSpace(v)
			if v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// Length returns the first present property parsed as a pixel length.
func (e *Element) Length(names ...string) (float64, bool) {
	v, ok := e.Style(names...)
	if !ok {
		return 0, false
	}
	return ParseLength(v)
}

// Walk visits e and its descendants depth-first in pre-order. Returning false
// from fn stops the walk.
func (e *Element) Walk(fn func(el *Element, locator string) bool) {
	e.walk("", 0, fn)
}

func (e *Element) walk(parent string, index int, fn func(*Element, string) bool) bool {
	loc := Locator(e, parent, index)
	if !fn(e, loc) {
		return false
	}
	for i, c := range e.Children {
		if c == nil {
			continue
		}
		if !c.walk(loc, i+1, fn) {
			return false
		}
	}
	return true
}

// Count returns the number of elements in the tree rooted at e.
func (e *Element) Count() int {
	n := 0
	e.Walk(func(*Element, string) bool {
		n++
		return true
	})
	return n
}

// LoadFile reads a JSON style tree.
func LoadFile(path string) (*Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style tree: %w", err)
	}
	root, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse style tree %s: %w", path, err)
	}
	return root, nil
}

// Parse decodes a JSON style tree.
func Parse(data []byte) (*Element, error) {
	var root Element
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Tag == "" {
		return nil, fmt.Errorf("root element has no tag")
	}
	return &root, nil
}
