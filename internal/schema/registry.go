// Package schema generates and compiles JSON Schema documents for the
// substrate-reserved command and event param shapes (spec.md §6), the
// contract rule modules follow to register validation for their own
// command/event types through the same mechanism.
package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	invopop "github.com/invopop/jsonschema"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/sync/errgroup"
)

// Registry holds compiled schemas keyed by the command_type or event_type
// they validate. A Registry is built once at Simulation construction and
// never mutated during a tick.
type Registry struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

func newRegistry() *Registry {
	return &Registry{compiled: make(map[string]*jsonschema.Schema)}
}

// GenerateFromStruct reflects a Go struct into a JSON Schema document, the
// shape a command's or event's params are expected to satisfy.
func GenerateFromStruct(v any) ([]byte, error) {
	reflector := &invopop.Reflector{ExpandedStruct: true, DoNotReference: true}
	doc := reflector.Reflect(v)
	return json.Marshal(doc)
}

type pendingSchema struct {
	name string
	doc  []byte
}

// Builder accumulates named schema documents for one concurrent compile
// pass.
type Builder struct {
	pending []pendingSchema
}

// NewBuilder constructs an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Add queues doc (a raw JSON Schema document) under name for the next
// CompileAll call.
func (b *Builder) Add(name string, doc []byte) {
	b.pending = append(b.pending, pendingSchema{name: name, doc: doc})
}

// CompileAll compiles every queued schema concurrently — construction-time
// parallelism only, never called from inside the single-threaded tick loop
// — and returns a Registry ready for Validate.
func (b *Builder) CompileAll(ctx context.Context) (*Registry, error) {
	reg := newRegistry()
	var mu sync.Mutex
	group, _ := errgroup.WithContext(ctx)
	for _, p := range b.pending {
		p := p
		group.Go(func() error {
			compiler := jsonschema.NewCompiler()
			resourceName := p.name + ".schema.json"
			if err := compiler.AddResource(resourceName, bytesReader(p.doc)); err != nil {
				return fmt.Errorf("schema: adding resource %s: %w", p.name, err)
			}
			compiled, err := compiler.Compile(resourceName)
			if err != nil {
				return fmt.Errorf("schema: compiling %s: %w", p.name, err)
			}
			mu.Lock()
			reg.compiled[p.name] = compiled
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return reg, nil
}

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }

// Validate runs name's compiled schema against raw, a
// json.Unmarshal-shaped value (map[string]any and friends). A name with no
// registered schema always passes: only structural JSON-safety is enforced
// at that point, per spec.md §4.9's "all other command types validated only
// structurally."
func (r *Registry) Validate(name string, raw any) error {
	r.mu.RLock()
	compiled, ok := r.compiled[name]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return compiled.Validate(raw)
}

// Has reports whether name has a compiled schema registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.compiled[name]
	return ok
}
