package parser

import (
	"errors"
	"fmt"

	"github.com/nikolastas/logistis-sub000/internal/models"
)

// ErrMalformedInput is returned when an adapter's decoding library cannot
// recover any structure from the buffer (not a PDF, not a workbook).
// Problems with individual rows never produce it.
var ErrMalformedInput = errors.New("malformed input")

// Kind is the container family an adapter reads.
type Kind int

const (
	KindText Kind = iota
	KindPDF
	KindZip
	KindOLE2
)

func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindZip:
		return "xlsx"
	case KindOLE2:
		return "xls"
	default:
		return "text"
	}
}

// Adapter converts one bank's statement export into raw movements.
type Adapter interface {
	// Name is the unique adapter identifier, also accepted as a format hint.
	Name() string
	// Bank is the bank identifier reported alongside parsed movements.
	Bank() string
	Kind() Kind
	Parse(data []byte) ([]models.RawMovement, error)
}

// Detector is implemented by adapters that can recognise their own content.
// The sample is decoded text: the leading few KB for text formats, the first
// pages for PDFs. Adapters without a detector match any input of their Kind.
type Detector interface {
	Detect(sample string) bool
}

// Registry holds adapters in registration order. Order breaks detection ties.
type Registry struct {
	adapters []Adapter
	byName   map[string]Adapter
	fallback Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Adapter)}
}

// Register adds an adapter. It panics if the name is already registered.
func (r *Registry) Register(a Adapter) {
	if _, exists := r.byName[a.Name()]; exists {
		panic(fmt.Sprintf("duplicate adapter name: %s", a.Name()))
	}
	r.adapters = append(r.adapters, a)
	r.byName[a.Name()] = a
}

// SetDefault registers a as the adapter used when nothing else matches text input.
func (r *Registry) SetDefault(a Adapter) {
	if _, exists := r.byName[a.Name()]; !exists {
		r.Register(a)
	}
	r.fallback = a
}

// Get returns the adapter with the given name, or nil.
func (r *Registry) Get(name string) Adapter {
	return r.byName[name]
}

// All returns the adapters in registration order.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, len(r.adapters))
	copy(out, r.adapters)
	return out
}

// Default returns the fallback delimited-text adapter.
func (r *Registry) Default() Adapter {
	return r.fallback
}

// DefaultRegistry returns a registry with all built-in adapters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewRevolutAdapter())
	r.Register(NewNBGLegacyAdapter())
	r.Register(NewPiraeusAdapter())
	r.Register(NewAlphaAdapter())
	r.Register(NewVivaCardAdapter())
	r.Register(NewGenericPDFAdapter())
	r.SetDefault(NewDelimitedAdapter())
	return r
}
