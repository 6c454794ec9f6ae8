// Package render produces draftsmith's markdown artifacts from embedded
// templates.
//
// Templates are compiled once at startup. The function map is sprig's
// hermetic set — no clock, no randomness, no environment access — so the
// same data always renders byte-identical output. Optional sections are
// guarded with conditionals in the templates themselves: zero-value data
// renders the document skeleton, and absent optional fields drop their
// whole section instead of leaving placeholder text.
package render

import (
	"embed"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template names accepted by Render.
const (
	Prompt        = "prompt.md.tmpl"
	ReleaseNotes  = "release_notes.md.tmpl"
	SprintPlan    = "sprint_plan.md.tmpl"
	Onboarding    = "onboarding.md.tmpl"
	HygieneReport = "hygiene_report.md.tmpl"
)

// Renderer renders a named template with the given data.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// EmbedRenderer renders from the embedded template set.
type EmbedRenderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates. A parse failure is a build
// defect and should stop startup.
func NewRenderer() (*EmbedRenderer, error) {
	t, err := template.New("draftsmith").Funcs(funcMap()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "render: parsing embedded templates")
	}
	return &EmbedRenderer{templates: t}, nil
}

// Render executes the named template.
func (r *EmbedRenderer) Render(name string, data any) (string, error) {
	t := r.templates.Lookup(name)
	if t == nil {
		return "", errors.Newf("render: unknown template %q", name)
	}

	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", errors.Wrapf(err, "render: executing %q", name)
	}
	return sb.String(), nil
}

// funcMap is sprig's hermetic function set plus local helpers.
func funcMap() template.FuncMap {
	funcs := sprig.HermeticTxtFuncMap()
	funcs["slugify"] = Slugify
	return funcs
}
