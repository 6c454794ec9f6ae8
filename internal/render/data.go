package render

// PromptData feeds prompt.md.tmpl — the task brief handed to an LLM.
type PromptData struct {
	Context         string
	Goal            string
	Audience        string
	Tone            string
	Constraints     []string
	SuccessCriteria []string
}

// ChangeGroup is one grouped section of release notes ("Added", "Fixed"...).
type ChangeGroup struct {
	Title string
	Items []string
}

// ReleaseNotesData feeds release_notes.md.tmpl.
type ReleaseNotesData struct {
	Version      string
	Date         string
	Breaking     []string
	Groups       []ChangeGroup
	Contributors []string
}

// SprintPlanData feeds sprint_plan.md.tmpl. Numeric values arrive
// pre-formatted; the template does layout only.
type SprintPlanData struct {
	StartDate   string
	EndDate     string
	LengthDays  int
	WorkingDays int
	TeamSize    int
	FocusFactor string
	Capacity    string
	Forecast    string
	Holidays    []string
	Goals       []string
	DateNote    string
}

// OnboardingData feeds onboarding.md.tmpl.
type OnboardingData struct {
	ProjectName  string
	Audience     string
	Ecosystem    string
	FileCount    int
	Tree         string
	Manifests    []string
	EntryPoints  []string
	TestEvidence []string
	Docs         []string
	ScanNote     string
}

// DimensionRow is one scored hygiene dimension.
type DimensionRow struct {
	Name   string
	Status string
	Score  int
	Note   string
}

// HygieneReportData feeds hygiene_report.md.tmpl.
type HygieneReportData struct {
	Path            string
	FileCount       int
	Score           int
	Grade           string
	Dimensions      []DimensionRow
	Findings        []string
	Recommendations []string
	ScanNote        string
}
