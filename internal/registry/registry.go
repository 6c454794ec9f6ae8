// Package registry holds the draftsmith tool catalogue and runs
// invocations through it: look the tool up, validate the raw input against
// its schema, render, and package whatever happened as a Result.
//
// The registry is assembled once at startup and read-only afterwards, so
// concurrent invocations need no locking. Register errors are startup
// errors; nothing that happens during Invoke can crash the host.
package registry

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/draftsmith-io/draftsmith/internal/schema"
)

// RenderFunc turns a validated Input into the tool's output text. The ctx
// is for tools that consult external collaborators (filesystem scans);
// pure tools ignore it. A RenderFunc must be deterministic for a given
// Input and must not mutate shared state.
type RenderFunc func(ctx context.Context, in schema.Input) (string, error)

// ToolSpec declares one tool: identity, input contract, behavior hints,
// and the render function.
type ToolSpec struct {
	Name        string
	Description string
	Schema      schema.Descriptor

	// Hints surfaced as MCP tool annotations.
	ReadOnly   bool
	Idempotent bool

	Render RenderFunc
}

// Observer is notified after every invocation with the finished Result.
// Used for logging and the journal. Must not block for long; must not
// modify the Result.
type Observer func(Result)

// Option configures a Registry at construction.
type Option func(*Registry)

// WithStrictFields makes validation reject unknown input keys instead of
// dropping them.
func WithStrictFields(strict bool) Option {
	return func(r *Registry) { r.strict = strict }
}

// WithObserver sets the post-invocation observer.
func WithObserver(obs Observer) Option {
	return func(r *Registry) { r.observer = obs }
}

// toolNameRe gates tool names: lower-case snake, leading letter.
var toolNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Registry is the static tool catalogue.
//
// Register during startup only; it is not safe to call concurrently with
// Invoke. After startup the registry never changes.
type Registry struct {
	strict   bool
	observer Observer
	specs    map[string]ToolSpec
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{specs: make(map[string]ToolSpec)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a tool. Fails on invalid names, nil render functions,
// malformed schemas, and duplicates — all configuration bugs that should
// stop the server before it accepts a single request.
func (r *Registry) Register(spec ToolSpec) error {
	if !toolNameRe.MatchString(spec.Name) {
		return errors.Newf("registry: invalid tool name %q", spec.Name)
	}
	if spec.Render == nil {
		return errors.Newf("registry: tool %q has no render function", spec.Name)
	}
	if err := spec.Schema.Check(); err != nil {
		return errors.Wrapf(err, "registry: tool %q", spec.Name)
	}
	if _, exists := r.specs[spec.Name]; exists {
		return errors.Newf("registry: tool %q already registered", spec.Name)
	}
	r.specs[spec.Name] = spec
	return nil
}

// Get returns the spec for a tool name.
func (r *Registry) Get(name string) (ToolSpec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.specs) }

// Strict reports whether unknown input keys are rejected.
func (r *Registry) Strict() bool { return r.strict }

// Invoke runs one tool call end to end. It never panics and never returns
// a Go error: unknown tools, invalid input, and renderer faults all come
// back as a Result with Success false.
func (r *Registry) Invoke(ctx context.Context, name string, raw map[string]any) Result {
	start := time.Now()
	res := Result{Tool: name, ID: uuid.NewString()}

	spec, ok := r.specs[name]
	if !ok {
		res.Kind = KindUnknownTool
		res.Errors = []schema.FieldError{{
			Field:   "tool",
			Message: fmt.Sprintf("unknown tool %q", name),
		}}
		return r.finish(res, start)
	}

	in, fieldErrs := spec.Schema.Validate(raw, r.strict)
	if len(fieldErrs) > 0 {
		res.Kind = KindValidation
		res.Errors = fieldErrs
		return r.finish(res, start)
	}

	out, err := renderSafely(ctx, spec, in)
	if err != nil {
		log.Error().Err(err).Str("tool", name).Str("invocation", res.ID).Msg("render failed")
		res.Kind = KindRender
		res.Errors = []schema.FieldError{{Message: "internal render error"}}
		return r.finish(res, start)
	}

	res.Success = true
	res.Kind = KindOK
	res.Output = out
	return r.finish(res, start)
}

func (r *Registry) finish(res Result, start time.Time) Result {
	res.Duration = time.Since(start)
	if r.observer != nil {
		r.observer(res)
	}
	return res
}

// renderSafely runs the render function with panic recovery. A panicking
// or empty-handed renderer is a tool bug; the caller gets a render fault
// either way.
func renderSafely(ctx context.Context, spec ToolSpec, in schema.Input) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf("tool %q panicked: %v", spec.Name, rec)
		}
	}()

	out, err = spec.Render(ctx, in)
	if err != nil {
		return "", errors.Wrapf(err, "tool %q", spec.Name)
	}
	if strings.TrimSpace(out) == "" {
		return "", errors.Newf("tool %q produced empty output", spec.Name)
	}
	return out, nil
}
