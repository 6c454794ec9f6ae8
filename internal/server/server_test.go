package server

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/draftsmith-io/draftsmith/internal/registry"
	"github.com/draftsmith-io/draftsmith/internal/schema"
)

// --- Test helpers ---

// briefSpec is a representative spec covering every field type the
// translation layer has to map.
func briefSpec() registry.ToolSpec {
	return registry.ToolSpec{
		Name:        "draft_brief",
		Description: "Draft a short brief.",
		Schema: schema.Descriptor{Fields: []schema.Field{
			{Name: "context", Type: schema.TypeString, Required: true, Description: "What the work is about", Example: "billing service"},
			{Name: "goal", Type: schema.TypeString, Required: true, Description: "What should change"},
			{Name: "tone", Type: schema.TypeString, Description: "Writing tone", Enum: []string{"neutral", "formal"}},
			{Name: "priority", Type: schema.TypeInt, Description: "1 is highest", Min: schema.Ptr(1), Max: schema.Ptr(5)},
			{Name: "tags", Type: schema.TypeStringList, Description: "Free-form labels", Max: schema.Ptr(10)},
			{Name: "verbose", Type: schema.TypeBool, Description: "Include extra detail"},
		}},
		ReadOnly:   true,
		Idempotent: true,
		Render: func(ctx context.Context, in schema.Input) (string, error) {
			return "# Brief\n\n" + in.String("context", "") + " / " + in.String("goal", ""), nil
		},
	}
}

func property(t *testing.T, tool mcp.Tool, name string) map[string]interface{} {
	t.Helper()
	raw, ok := tool.InputSchema.Properties[name]
	if !ok {
		t.Fatalf("property %q missing from input schema", name)
	}
	prop, ok := raw.(map[string]interface{})
	if !ok {
		t.Fatalf("property %q is %T, want map", name, raw)
	}
	return prop
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("result carries no text content")
	return ""
}

// --- Tool translation ---

func TestMCPTool_Definition(t *testing.T) {
	tool := mcpTool(briefSpec())

	if tool.Name != "draft_brief" {
		t.Errorf("name = %q, want draft_brief", tool.Name)
	}
	if tool.Description != "Draft a short brief." {
		t.Errorf("description = %q", tool.Description)
	}
	if tool.Annotations.ReadOnlyHint == nil || !*tool.Annotations.ReadOnlyHint {
		t.Error("expected read-only hint to be set")
	}
	if tool.Annotations.IdempotentHint == nil || !*tool.Annotations.IdempotentHint {
		t.Error("expected idempotent hint to be set")
	}
	if len(tool.InputSchema.Properties) != 6 {
		t.Errorf("got %d properties, want 6", len(tool.InputSchema.Properties))
	}
}

func TestMCPTool_RequiredFields(t *testing.T) {
	tool := mcpTool(briefSpec())

	want := []string{"context", "goal"}
	if len(tool.InputSchema.Required) != len(want) {
		t.Fatalf("required = %v, want %v", tool.InputSchema.Required, want)
	}
	for i, name := range want {
		if tool.InputSchema.Required[i] != name {
			t.Errorf("required[%d] = %q, want %q", i, tool.InputSchema.Required[i], name)
		}
	}
}

func TestMCPTool_PropertyTypes(t *testing.T) {
	tool := mcpTool(briefSpec())

	tests := []struct {
		name     string
		wantType string
	}{
		{"context", "string"},
		{"tone", "string"},
		{"priority", "number"},
		{"tags", "array"},
		{"verbose", "boolean"},
	}
	for _, tt := range tests {
		prop := property(t, tool, tt.name)
		if prop["type"] != tt.wantType {
			t.Errorf("%s: type = %v, want %s", tt.name, prop["type"], tt.wantType)
		}
	}

	items, ok := property(t, tool, "tags")["items"].(map[string]interface{})
	if !ok {
		t.Fatal("tags property has no items schema")
	}
	if items["type"] != "string" {
		t.Errorf("tags items type = %v, want string", items["type"])
	}
}

func TestMCPTool_Constraints(t *testing.T) {
	tool := mcpTool(briefSpec())

	if _, ok := property(t, tool, "tone")["enum"]; !ok {
		t.Error("tone property lost its enum")
	}
	prio := property(t, tool, "priority")
	if _, ok := prio["minimum"]; !ok {
		t.Error("priority property lost its minimum")
	}
	if _, ok := prio["maximum"]; !ok {
		t.Error("priority property lost its maximum")
	}
	if _, ok := property(t, tool, "tags")["maxItems"]; !ok {
		t.Error("tags property lost maxItems")
	}

	desc, _ := property(t, tool, "context")["description"].(string)
	if !strings.Contains(desc, "billing service") {
		t.Errorf("context description %q should carry the example", desc)
	}
}

// --- Invocation handler ---

func TestInvokeHandler_Success(t *testing.T) {
	reg := registry.New()
	if err := reg.Register(briefSpec()); err != nil {
		t.Fatalf("register: %v", err)
	}
	handler := invokeHandler(reg, "draft_brief")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"context": "backend service",
		"goal":    "add caching",
	}
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	text := resultText(t, res)
	checks := []string{
		"backend service",
		"add caching",
		"tokens",
	}
	for _, want := range checks {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestInvokeHandler_ValidationListsEveryField(t *testing.T) {
	reg := registry.New()
	if err := reg.Register(briefSpec()); err != nil {
		t.Fatalf("register: %v", err)
	}
	handler := invokeHandler(reg, "draft_brief")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"tone": "sarcastic"}
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool error for invalid input")
	}

	text := resultText(t, res)
	checks := []string{
		"draft_brief rejected the input",
		"- context: required",
		"- goal: required",
		"- tone: must be one of: neutral, formal",
		"retry once",
	}
	for _, want := range checks {
		if !strings.Contains(text, want) {
			t.Errorf("error body missing %q:\n%s", want, text)
		}
	}
}

func TestInvokeHandler_UnknownTool(t *testing.T) {
	reg := registry.New()
	handler := invokeHandler(reg, "draft_missing")

	res, err := handler(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool error for an unknown tool")
	}
	if text := resultText(t, res); !strings.Contains(text, `unknown tool "draft_missing"`) {
		t.Errorf("error body = %q", text)
	}
}

func TestErrorBody_RenderFault(t *testing.T) {
	res := registry.Result{
		Tool:   "draft_brief",
		Kind:   registry.KindRender,
		Errors: []schema.FieldError{{Message: "internal render error"}},
	}
	if got := errorBody(res); got != "internal render error" {
		t.Errorf("errorBody = %q", got)
	}
}
