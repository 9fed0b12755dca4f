// Package xmlutil reads namespaced elements and typed attribute values out
// of XML documents.
package xmlutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// Load parses r and returns its root element.
func Load(r io.Reader) (*etree.Element, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse xml: no root element")
	}
	return root, nil
}

// LoadFile parses path and returns its root element.
func LoadFile(path string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse %s: no root element", path)
	}
	return root, nil
}

// Namespace returns the element's namespace URI in {uri} form, or "".
func Namespace(e *etree.Element) string {
	if uri := e.NamespaceURI(); uri != "" {
		return "{" + uri + "}"
	}
	return ""
}

// Children returns the child elements named tag in namespace uri,
// whatever prefix the document binds it to.
func Children(e *etree.Element, uri, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag == tag && c.NamespaceURI() == uri {
			out = append(out, c)
		}
	}
	return out
}

// Attr returns the attribute key in namespace uri.
func Attr(e *etree.Element, uri, key string) (string, bool) {
	for _, a := range e.Attr {
		if a.Key == key && a.NamespaceURI() == uri {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue parses the attribute key in namespace uri. When def is nil the
// attribute is required; otherwise a missing one yields *def.
func AttrValue[T any](e *etree.Element, uri, key string, parse func(string) (T, error), def *T) (T, error) {
	var zero T
	v, ok := Attr(e, uri, key)
	if !ok {
		if def != nil {
			return *def, nil
		}
		return zero, fmt.Errorf("attribute %s is missing", key)
	}
	out, err := parse(v)
	if err != nil {
		return zero, fmt.Errorf("attribute %s value %q is invalid: %w", key, v, err)
	}
	return out, nil
}

// Text concatenates the character data below e, nested elements included,
// and trims the result.
func Text(e *etree.Element) string {
	var sb strings.Builder
	var walk func(*etree.Element)
	walk = func(n *etree.Element) {
		for _, t := range n.Child {
			switch v := t.(type) {
			case *etree.CharData:
				sb.WriteString(v.Data)
			case *etree.Element:
				walk(v)
			}
		}
	}
	walk(e)
	return strings.TrimSpace(sb.String())
}
