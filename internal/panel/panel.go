// Package panel owns the single result-display surface. Surfaces are found
// or created by a stable key; at most one live surface exists per key, and
// every Show overwrites the prior content wholesale.
package panel

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
)

// ResultKey identifies the audit result surface.
const ResultKey = "audit-result"

// ErrPanelUnavailable means no surface could be found or allocated. Callers
// must surface a user-visible notice rather than drop the result.
var ErrPanelUnavailable = errors.New("no display surface available")

// Surface is one display region. SetContent replaces whatever was shown
// before; the text is raw preformatted markdown, rendering is the viewer's
// concern.
type Surface interface {
	SetContent(text string)
}

// Allocator creates the surface for a key the first time it is shown.
type Allocator func() (Surface, error)

type Registry struct {
	mu         sync.Mutex
	surfaces   map[string]Surface
	allocators map[string]Allocator
}

func NewRegistry() *Registry {
	return &Registry{
		surfaces:   make(map[string]Surface),
		allocators: make(map[string]Allocator),
	}
}

// Register installs the allocator used when key has no live surface yet.
func (r *Registry) Register(key string, alloc Allocator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allocators[key] = alloc
}

// Show finds or creates the surface for key and overwrites its content.
func (r *Registry) Show(key, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	surface, ok := r.surfaces[key]
	if !ok {
		alloc, registered := r.allocators[key]
		if !registered {
			return fmt.Errorf("%w: no allocator for %q", ErrPanelUnavailable, key)
		}
		created, err := alloc()
		if err != nil {
			log.Err(err).Str("key", key).Msg("Surface allocation failed")
			return fmt.Errorf("%w: %v", ErrPanelUnavailable, err)
		}
		surface = created
		r.surfaces[key] = surface
	}

	surface.SetContent(text)
	return nil
}

// Surface returns the live surface for key, if one exists.
func (r *Registry) Surface(key string) (Surface, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surfaces[key]
	return s, ok
}

// TextSurface holds the most recent text in memory. The TUI reads it back
// into its viewport after each Show.
type TextSurface struct {
	mu   sync.RWMutex
	text string
}

func NewTextSurface() *TextSurface {
	return &TextSurface{}
}

func (s *TextSurface) SetContent(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

func (s *TextSurface) Content() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text
}

// WriterSurface streams each shown result to a writer. One-shot CLI runs use
// it with stdout.
type WriterSurface struct {
	w io.Writer
}

func NewWriterSurface(w io.Writer) *WriterSurface {
	return &WriterSurface{w: w}
}

func (s *WriterSurface) SetContent(text string) {
	fmt.Fprintln(s.w, text)
}
