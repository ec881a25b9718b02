package adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// ParserAdapter turns the content of one file into a grammar-neutral unit.
// Syntax errors do not fail the parse; they are lowered to error nodes.
type ParserAdapter interface {
	Parse(ctx context.Context, path m.Path, content []byte) (m.Unit, error)
}

// ParserRegistry maps file extensions to parser adapters. The first
// registration of an extension wins. Safe for concurrent use.
type ParserRegistry struct {
	mu      sync.RWMutex
	parsers map[m.Language]ParserAdapter
	extMap  map[string]m.Language
}

// NewParserRegistry creates an empty registry.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{
		parsers: make(map[m.Language]ParserAdapter),
		extMap:  make(map[string]m.Language),
	}
}

// DefaultParsers returns a registry with the TypeScript and template parsers.
func DefaultParsers() *ParserRegistry {
	r := NewParserRegistry()
	r.Register(m.LanguageTypeScript, []string{".ts", ".mts", ".cts"}, NewTypeScriptAdapter())
	r.Register(m.LanguageTemplate, []string{".html"}, NewTemplateAdapter())

	return r
}

// Register adds a parser for the given extensions, which include the dot.
func (r *ParserRegistry) Register(lang m.Language, extensions []string, parser ParserAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.parsers[lang] = parser

	for _, ext := range extensions {
		if _, exists := r.extMap[ext]; !exists {
			r.extMap[ext] = lang
		}
	}
}

// ForPath returns the parser for path's extension.
func (r *ParserRegistry) ForPath(path m.Path) (ParserAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := filepath.Ext(string(path))

	lang, ok := r.extMap[ext]
	if !ok {
		return nil, fmt.Errorf("no parser registered for extension %q", ext)
	}

	return r.parsers[lang], nil
}

// Extensions lists the registered extensions in sorted order.
func (r *ParserRegistry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.extMap))
	for ext := range r.extMap {
		exts = append(exts, ext)
	}

	sort.Strings(exts)

	return exts
}

// Parse implements ParserAdapter by dispatching on path's extension.
func (r *ParserRegistry) Parse(ctx context.Context, path m.Path, content []byte) (m.Unit, error) {
	parser, err := r.ForPath(path)
	if err != nil {
		return m.Unit{}, err
	}

	return parser.Parse(ctx, path, content)
}
