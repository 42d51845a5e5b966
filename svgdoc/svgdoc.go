// Provides parsing of SVG documents into a
// traversable tree of elements, indexed by identifier.
// No styling or geometry is interpreted here: consumers
// read the raw attributes they need.
package svgdoc

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

var errEmptyDocument = errors.New("invalid svg xml document")

// Element is a node of the document tree.
type Element struct {
	Tag      string // lower-cased local name, such as "g" or "path"
	ID       string
	Attrs    []xml.Attr
	Children []*Element
}

// Attr returns the value of the attribute with local name `name`.
func (e *Element) Attr(name string) (string, bool) {
	for _, attr := range e.Attrs {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Document holds a parsed SVG file.
type Document struct {
	Root *Element

	ids map[string]*Element // upper-cased ID -> first element in document order
}

// ElementByID returns the first element (in document order) whose
// identifier matches `id`, ignoring case, or nil.
func (d *Document) ElementByID(id string) *Element {
	return d.ids[strings.ToUpper(id)]
}

// IDCount returns the number of distinct identifiers in the document.
func (d *Document) IDCount() int { return len(d.ids) }

// ReadDocumentStream reads the document from the given io.Reader.
func ReadDocumentStream(stream io.Reader) (*Document, error) {
	doc := &Document{ids: make(map[string]*Element)}
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	var stack []*Element // open elements
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				if doc.Root == nil {
					return nil, errEmptyDocument
				}
				break
			}
			return nil, err
		}
		// Inspect the type of the XML token
		switch se := t.(type) {
		case xml.StartElement:
			el := &Element{Tag: strings.ToLower(se.Name.Local), Attrs: se.Copy().Attr}
			el.ID, _ = el.Attr("id")
			if el.ID != "" {
				key := strings.ToUpper(el.ID)
				if _, has := doc.ids[key]; !has {
					doc.ids[key] = el
				}
			}
			if len(stack) == 0 {
				if doc.Root == nil {
					doc.Root = el
				}
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
	return doc, nil
}

// ReadDocument reads the document from the named file.
func ReadDocument(file string) (*Document, error) {
	fin, errf := os.Open(file)
	if errf != nil {
		return nil, errf
	}
	defer fin.Close()
	return ReadDocumentStream(fin)
}
