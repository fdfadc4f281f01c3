package scene

import (
	"sync"

	"golang.org/x/net/html"
)

// Document creates elements and owns scratch containers.
type Document struct {
	nativeParsing bool
	mx            sync.Mutex
	detached      map[*Element]struct{}
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithoutMarkupParsing creates a document for a host which is unable to
// parse arbitrary markup by itself, e.g. a strict XML renderer. Markup has
// to be parsed into detached containers for such hosts.
func WithoutMarkupParsing() DocumentOption {
	return func(doc *Document) {
		doc.nativeParsing = false
	}
}

// NewDocument creates a new document.
func NewDocument(opts ...DocumentOption) *Document {
	doc := &Document{
		nativeParsing: true,
		detached:      make(map[*Element]struct{}),
	}
	for _, opt := range opts {
		opt(doc)
	}
	return doc
}

// CanParseMarkup reports wether the host is capable of parsing arbitrary
// (not necessarily well-formed) markup.
func (doc *Document) CanParseMarkup() bool {
	return doc.nativeParsing
}

// CreateElementNS creates a detached element with a given namespace and
// tag name. An empty namespace is legal.
func (doc *Document) CreateElementNS(namespace, tag string) *Element {
	return newElement(doc, html.ElementNode, namespace, tag)
}

// CreateElement creates a detached XHTML element.
func (doc *Document) CreateElement(tag string) *Element {
	return doc.CreateElementNS(XHTMLNamespace, tag)
}

// CreateTextNode creates a detached text node.
func (doc *Document) CreateTextNode(text string) *Element {
	t := newElement(doc, html.TextNode, "", "#text")
	t.text = text
	return t
}

// CreateContainer creates a detached XHTML <div> to be used as a scratch
// parent. The document tracks the container until Release is called.
func (doc *Document) CreateContainer() *Element {
	c := doc.CreateElement("div")
	doc.mx.Lock()
	defer doc.mx.Unlock()
	doc.detached[c] = struct{}{}
	tracer().Debugf("scene: created scratch container, %d live", len(doc.detached))
	return c
}

// Release discards a scratch container together with its content.
// Releasing an element which is not a live container is a no-op.
func (doc *Document) Release(container *Element) {
	if container == nil {
		return
	}
	doc.mx.Lock()
	defer doc.mx.Unlock()
	if _, ok := doc.detached[container]; !ok {
		return
	}
	delete(doc.detached, container)
	container.Isolate()
	container.Clear()
}

// DetachedCount returns the number of scratch containers not yet released.
func (doc *Document) DetachedCount() int {
	doc.mx.Lock()
	defer doc.mx.Unlock()
	return len(doc.detached)
}
