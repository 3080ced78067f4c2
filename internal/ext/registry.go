package ext

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/alnah/go-nowiki/internal/dom"
)

// Sentinel errors for registration.
var (
	ErrDuplicateTag = errors.New("extension tag already registered")
	ErrInvalidTag   = errors.New("invalid extension tag")
)

var tagNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// Registry maps tag names and typeof values to extensions.
// Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byTag  map[string]Extension
	byType map[string]Extension
}

// NewRegistry returns a registry holding exts.
func NewRegistry(exts ...Extension) (*Registry, error) {
	r := &Registry{
		byTag:  make(map[string]Extension),
		byType: make(map[string]Extension),
	}
	for _, e := range exts {
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds every tag of e. Nothing is registered if any tag is
// invalid or already taken.
func (r *Registry) Register(e Extension) error {
	cfg := e.Config()

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(cfg.Tags) == 0 {
		return fmt.Errorf("%w: extension %q declares no tags", ErrInvalidTag, cfg.Name)
	}
	for _, tag := range cfg.Tags {
		if !tagNamePattern.MatchString(tag.Name) {
			return fmt.Errorf("%w: %q", ErrInvalidTag, tag.Name)
		}
		if _, ok := r.byTag[strings.ToLower(tag.Name)]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateTag, tag.Name)
		}
	}

	for _, tag := range cfg.Tags {
		name := strings.ToLower(tag.Name)
		r.byTag[name] = e
		r.byType[dom.TypeOfExtension+name] = e
		if tag.TypeOf != "" {
			r.byType[tag.TypeOf] = e
		}
	}
	return nil
}

// TagHandler returns the extension owning the tag name (any case).
func (r *Registry) TagHandler(name string) (ExtensionTag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byTag[strings.ToLower(name)]
	return e, ok
}

// SerialHandlerFor returns the handler for node, chosen by its typeof.
func (r *Registry) SerialHandlerFor(node *html.Node) (SerialHandler, bool) {
	types := strings.Fields(dom.TypeOf(node))
	if len(types) == 0 {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range types {
		if e, ok := r.byType[t]; ok {
			return e, true
		}
	}
	return nil, false
}

// TagNames returns the registered tag names, sorted.
func (r *Registry) TagNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byTag))
	for name := range r.byTag {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
