package xmldiff

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrInvalidXML = errors.New("invalid xml")

// Attr is one attribute in document order.
type Attr struct {
	Name  string
	Value string
}

// Element is a parsed XML element. Text holds the concatenated, trimmed
// character data directly under the element; mixed content is not given any
// special treatment beyond that.
type Element struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Element
}

func xmlName(n xml.Name) string {
	if n.Space != "" {
		return n.Space + ":" + n.Local
	}
	return n.Local
}

// Parse builds the element tree of a single-rooted XML document.
func Parse(text string) (*Element, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	var root *Element
	var stack []*Element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Tag: xmlName(t.Name)}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: xmlName(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", ErrInvalidXML)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			trimmed := strings.TrimSpace(string(t))
			if trimmed == "" {
				continue
			}
			cur := stack[len(stack)-1]
			if cur.Text != "" {
				cur.Text += " "
			}
			cur.Text += trimmed
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrInvalidXML)
	}
	return root, nil
}
