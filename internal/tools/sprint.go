// sprint.go implements the draft_sprint_plan tool: sprint window math
// with weekends and holidays excluded, capacity in person-days, and an
// optional velocity forecast.
package tools

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/draftsmith-io/draftsmith/internal/registry"
	"github.com/draftsmith-io/draftsmith/internal/render"
	"github.com/draftsmith-io/draftsmith/internal/schema"
)

const (
	dateLayout  = "2006-01-02"
	datePattern = `^\d{4}-\d{2}-\d{2}$`
)

// defaultFocusFactor is the share of a working day spent on sprint work
// when the input does not say otherwise.
const defaultFocusFactor = 0.8

// SprintTool drafts sprint plans.
type SprintTool struct {
	renderer render.Renderer
}

// NewSprintTool creates a SprintTool with the given renderer.
func NewSprintTool(renderer render.Renderer) *SprintTool {
	return &SprintTool{renderer: renderer}
}

// Spec returns the registry entry for draft_sprint_plan.
func (t *SprintTool) Spec() registry.ToolSpec {
	return registry.ToolSpec{
		Name: "draft_sprint_plan",
		Description: "Draft a sprint plan: end date, working days (weekends " +
			"and holidays excluded), team capacity, and an optional " +
			"velocity forecast.",
		ReadOnly:   true,
		Idempotent: true,
		Schema: schema.Descriptor{
			Fields: []schema.Field{
				{
					Name:        "start_date",
					Type:        schema.TypeString,
					Required:    true,
					Description: "First day of the sprint (YYYY-MM-DD)",
					Example:     "2026-03-02",
					Pattern:     datePattern,
				},
				{
					Name:        "length_days",
					Type:        schema.TypeInt,
					Required:    true,
					Description: "Sprint length in calendar days",
					Min:         schema.Ptr(1),
					Max:         schema.Ptr(30),
				},
				{
					Name:        "team_size",
					Type:        schema.TypeInt,
					Required:    true,
					Description: "People on the sprint",
					Min:         schema.Ptr(1),
					Max:         schema.Ptr(50),
				},
				{
					Name:        "focus_factor",
					Type:        schema.TypeNumber,
					Description: "Share of time spent on sprint work (default 0.8)",
					Min:         schema.Ptr(0.1),
					Max:         schema.Ptr(1),
				},
				{
					Name:        "velocity",
					Type:        schema.TypeNumber,
					Description: "Story points the team finishes per sprint",
					Min:         schema.Ptr(1),
					Max:         schema.Ptr(500),
				},
				{
					Name:        "holidays",
					Type:        schema.TypeStringList,
					Description: "Non-working dates inside the sprint (YYYY-MM-DD)",
				},
				{
					Name:        "goals",
					Type:        schema.TypeStringList,
					Description: "What the sprint should achieve",
				},
			},
		},
		Render: t.render,
	}
}

func (t *SprintTool) render(ctx context.Context, in schema.Input) (string, error) {
	startRaw := in.String("start_date", "")
	lengthDays := in.Int("length_days", 0)
	teamSize := in.Int("team_size", 0)
	focus := in.Float("focus_factor", defaultFocusFactor)
	velocity := in.Float("velocity", 0)

	data := render.SprintPlanData{
		StartDate:   startRaw,
		LengthDays:  lengthDays,
		TeamSize:    teamSize,
		FocusFactor: formatFloat(focus),
		Goals:       in.StringList("goals"),
	}

	// The pattern admits impossible dates like 2026-13-45. Those degrade
	// to a note instead of an error; the plan still echoes the input.
	start, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		data.DateNote = "start_date matches the date format but is not a real calendar date; schedule math skipped"
		return t.renderer.Render(render.SprintPlan, data)
	}

	holidaySet := make(map[string]bool)
	skipped := 0
	for _, h := range in.StringList("holidays") {
		if _, err := time.Parse(dateLayout, h); err != nil {
			skipped++
			continue
		}
		holidaySet[h] = true
		data.Holidays = append(data.Holidays, h)
	}
	if skipped > 0 {
		data.DateNote = fmt.Sprintf("%d holiday entries were not real calendar dates and were ignored", skipped)
	}

	end := start.AddDate(0, 0, lengthDays-1)
	data.EndDate = end.Format(dateLayout)

	working := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if holidaySet[d.Format(dateLayout)] {
			continue
		}
		working++
	}
	data.WorkingDays = working

	data.Capacity = formatFloat(round1(float64(working) * float64(teamSize) * focus))
	if velocity > 0 {
		data.Forecast = formatFloat(round1(velocity * focus))
	}

	return t.renderer.Render(render.SprintPlan, data)
}

// formatFloat prints a float without trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
