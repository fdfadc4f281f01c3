package ast

import (
	"sync"

	"github.com/npillmayer/chartmarkup/scene"
)

// Sanitizer parses markup, filters it against allow-lists and materializes
// it into a scene. A Sanitizer is immutable after construction and may be
// used concurrently, as long as the scene elements it writes to are not
// shared between goroutines.
type Sanitizer struct {
	allow    AllowLists
	host     *scene.Document
	strategy Strategy
	parser   Parser
	bypass   bool
	reporter Reporter
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithAllowLists replaces the default allow-lists.
func WithAllowLists(al AllowLists) Option {
	return func(s *Sanitizer) {
		s.allow = al
	}
}

// WithHost sets the host document, which is needed for container parsing.
func WithHost(doc *scene.Document) Option {
	return func(s *Sanitizer) {
		s.host = doc
	}
}

// WithStrategy overrides the capability check of the host document.
func WithStrategy(st Strategy) Option {
	return func(s *Sanitizer) {
		s.strategy = st
	}
}

// WithParser sets a custom parser. Strategy and host are then irrelevant
// for parsing.
func WithParser(p Parser) Option {
	return func(s *Sanitizer) {
		s.parser = p
	}
}

// WithReporter installs a receiver for rejections. The default reporter
// traces rejections at level Error.
func WithReporter(r Reporter) Option {
	return func(s *Sanitizer) {
		s.reporter = r
	}
}

// WithoutFiltering disables allow-list checks. Use only for markup from a
// trusted source.
func WithoutFiltering() Option {
	return func(s *Sanitizer) {
		s.bypass = true
	}
}

// New creates a Sanitizer with the default allow-lists, modified by opts.
// The parser is selected once, here: if the host document cannot parse
// markup by itself, markup is parsed into scratch containers of the host.
// If it can, the native parser is used, with container parsing as a
// fallback.
func New(opts ...Option) (*Sanitizer, error) {
	s := &Sanitizer{
		allow:    DefaultAllowLists(),
		reporter: traceRejection,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reporter == nil {
		s.reporter = func(Rejection) {}
	}
	if s.parser != nil {
		return s, nil
	}
	switch s.strategy {
	case StrategyNative:
		s.parser = NativeParser{}
	case StrategyContainer:
		if s.host == nil {
			return nil, ErrNoHost
		}
		s.parser = ContainerParser{Host: s.host}
	default:
		if s.host == nil {
			s.parser = NativeParser{}
		} else if !s.host.CanParseMarkup() {
			s.parser = ContainerParser{Host: s.host}
		} else {
			s.parser = fallbackParser{
				primary:   NativeParser{},
				secondary: ContainerParser{Host: s.host},
			}
		}
	}
	tracer().Debugf("ast: new sanitizer with parser %T", s.parser)
	return s, nil
}

// AllowLists returns the allow-lists in use.
func (s *Sanitizer) AllowLists() AllowLists {
	return s.allow
}

// Parse parses markup into top-level nodes, without filtering.
func (s *Sanitizer) Parse(markup string) ([]*Node, error) {
	return s.parser.Parse(markup)
}

func (s *Sanitizer) report(r Rejection) {
	s.reporter(r)
}

// --- Default sanitizer ------------------------------------------------

var defaultSanitizer struct {
	once sync.Once
	s    *Sanitizer
}

// Default returns the process-wide Sanitizer, using the default
// allow-lists and a private host document.
func Default() *Sanitizer {
	defaultSanitizer.once.Do(func() {
		s, err := New(WithHost(scene.NewDocument()))
		if err != nil {
			panic(err) // cannot happen for strategy auto
		}
		defaultSanitizer.s = s
	})
	return defaultSanitizer.s
}

// Parse parses markup with the default Sanitizer.
func Parse(markup string) ([]*Node, error) {
	return Default().Parse(markup)
}

// FilterAttributes filters attrs in place with the default allow-lists.
func FilterAttributes(attrs Attributes) Attributes {
	return Default().FilterAttributes(attrs)
}

// SetMarkup replaces the content of target by sanitized markup, using the
// default Sanitizer.
func SetMarkup(target *scene.Element, markup string) error {
	return Default().SetMarkup(target, markup)
}
