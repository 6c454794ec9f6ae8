package registry_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftsmith-io/draftsmith/internal/registry"
	"github.com/draftsmith-io/draftsmith/internal/schema"
)

func echoSpec() registry.ToolSpec {
	return registry.ToolSpec{
		Name:        "echo_note",
		Description: "Echoes a note back as a heading.",
		Schema: schema.Descriptor{Fields: []schema.Field{
			{Name: "note", Type: schema.TypeString, Required: true},
			{Name: "loud", Type: schema.TypeBool},
		}},
		ReadOnly:   true,
		Idempotent: true,
		Render: func(_ context.Context, in schema.Input) (string, error) {
			out := "# " + in.String("note", "")
			if in.Bool("loud", false) {
				out += "!"
			}
			return out, nil
		},
	}
}

func TestRegister(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(echoSpec()))
	assert.Equal(t, 1, r.Len())

	_, ok := r.Get("echo_note")
	assert.True(t, ok)

	t.Run("duplicate name fails and leaves the registry intact", func(t *testing.T) {
		err := r.Register(echoSpec())
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"echo_note" already registered`)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("invalid names", func(t *testing.T) {
		for _, name := range []string{"", "Echo", "9lives", "has-dash", "has space"} {
			spec := echoSpec()
			spec.Name = name
			err := r.Register(spec)
			require.Error(t, err, "name %q", name)
			assert.Contains(t, err.Error(), "invalid tool name")
		}
	})

	t.Run("nil render", func(t *testing.T) {
		spec := echoSpec()
		spec.Name = "no_render"
		spec.Render = nil
		err := r.Register(spec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no render function")
	})

	t.Run("malformed schema", func(t *testing.T) {
		spec := echoSpec()
		spec.Name = "bad_schema"
		spec.Schema = schema.Descriptor{Fields: []schema.Field{
			{Name: "x", Type: schema.TypeInt, Enum: []string{"a"}},
		}}
		err := r.Register(spec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `tool "bad_schema"`)
	})
}

func TestNamesSorted(t *testing.T) {
	r := registry.New()
	for _, name := range []string{"zeta_tool", "alpha_tool", "mid_tool"} {
		spec := echoSpec()
		spec.Name = name
		require.NoError(t, r.Register(spec))
	}
	assert.Equal(t, []string{"alpha_tool", "mid_tool", "zeta_tool"}, r.Names())
}

func TestInvokeSuccess(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(echoSpec()))

	res := r.Invoke(context.Background(), "echo_note", map[string]any{"note": "hello", "loud": true})
	assert.True(t, res.Success)
	assert.Equal(t, registry.KindOK, res.Kind)
	assert.Equal(t, "# hello!", res.Output)
	assert.Empty(t, res.Errors)
	assert.Equal(t, "echo_note", res.Tool)
	assert.NotEmpty(t, res.ID)
	assert.GreaterOrEqual(t, res.Duration, time.Duration(0))
}

func TestInvokeUnknownTool(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(echoSpec()))

	res := r.Invoke(context.Background(), "nope", nil)
	assert.False(t, res.Success)
	assert.Equal(t, registry.KindUnknownTool, res.Kind)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "tool", res.Errors[0].Field)
	assert.Contains(t, res.Errors[0].Message, `unknown tool "nope"`)
	assert.Empty(t, res.Output)
}

func TestInvokeValidationFailure(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(echoSpec()))

	res := r.Invoke(context.Background(), "echo_note", map[string]any{"loud": "yes"})
	assert.False(t, res.Success)
	assert.Equal(t, registry.KindValidation, res.Kind)
	require.Len(t, res.Errors, 2, "missing required and type mismatch both reported")
	assert.Equal(t, schema.FieldError{Field: "note", Message: "required"}, res.Errors[0])
	assert.Equal(t, "loud", res.Errors[1].Field)
}

func TestInvokeStrictFields(t *testing.T) {
	raw := map[string]any{"note": "n", "mystery": 1.0}

	relaxed := registry.New()
	require.NoError(t, relaxed.Register(echoSpec()))
	assert.True(t, relaxed.Invoke(context.Background(), "echo_note", raw).Success)

	strict := registry.New(registry.WithStrictFields(true))
	require.NoError(t, strict.Register(echoSpec()))
	res := strict.Invoke(context.Background(), "echo_note", raw)
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, schema.FieldError{Field: "mystery", Message: "unknown field"}, res.Errors[0])
}

func TestInvokeRenderFaults(t *testing.T) {
	tests := []struct {
		name   string
		render registry.RenderFunc
	}{
		{
			name: "error",
			render: func(context.Context, schema.Input) (string, error) {
				return "", fmt.Errorf("boom")
			},
		},
		{
			name: "panic",
			render: func(context.Context, schema.Input) (string, error) {
				panic("render bug")
			},
		},
		{
			name: "empty output",
			render: func(context.Context, schema.Input) (string, error) {
				return "   \n", nil
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := registry.New()
			spec := echoSpec()
			spec.Render = tc.render
			require.NoError(t, r.Register(spec))

			res := r.Invoke(context.Background(), "echo_note", map[string]any{"note": "n"})
			assert.False(t, res.Success)
			assert.Equal(t, registry.KindRender, res.Kind)
			require.Len(t, res.Errors, 1)
			assert.Equal(t, "", res.Errors[0].Field)
			assert.Equal(t, "internal render error", res.Errors[0].Message, "cause stays server-side")
		})
	}
}

func TestInvokeIdempotent(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(echoSpec()))

	raw := map[string]any{"note": "same input"}
	first := r.Invoke(context.Background(), "echo_note", raw)
	second := r.Invoke(context.Background(), "echo_note", raw)
	assert.Equal(t, first.Output, second.Output)
	assert.NotEqual(t, first.ID, second.ID, "every invocation gets its own id")
}

func TestObserver(t *testing.T) {
	var seen []registry.Result
	r := registry.New(registry.WithObserver(func(res registry.Result) {
		seen = append(seen, res)
	}))
	require.NoError(t, r.Register(echoSpec()))

	r.Invoke(context.Background(), "echo_note", map[string]any{"note": "n"})
	r.Invoke(context.Background(), "missing_tool", nil)

	require.Len(t, seen, 2)
	assert.Equal(t, registry.KindOK, seen[0].Kind)
	assert.Equal(t, registry.KindUnknownTool, seen[1].Kind)
}

func TestConcurrentInvocations(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(echoSpec()))

	var wg sync.WaitGroup
	results := make([]registry.Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Invoke(context.Background(), "echo_note", map[string]any{
				"note": fmt.Sprintf("call %d", i),
			})
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		assert.True(t, res.Success)
		assert.Equal(t, fmt.Sprintf("# call %d", i), res.Output)
	}
}

func TestResultJSON(t *testing.T) {
	res := registry.Result{
		Tool:     "echo_note",
		ID:       "abc",
		Success:  true,
		Kind:     registry.KindOK,
		Output:   "# hi",
		Duration: 1500 * time.Microsecond,
	}
	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tool":"echo_note","id":"abc","success":true,"kind":"ok","output":"# hi","duration_ms":1}`, string(raw))
}
