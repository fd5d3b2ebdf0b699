package doctor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubCheck struct {
	name   string
	result *CheckResult
	fixes  []FixResult
	fixed  bool
}

func (s *stubCheck) Name() string     { return s.name }
func (s *stubCheck) Category() string { return "test" }
func (s *stubCheck) Run() *CheckResult {
	if s.result == nil {
		return &CheckResult{Name: s.name, Status: SeverityPass}
	}
	return s.result
}

type stubFixer struct {
	stubCheck
}

func (s *stubFixer) CanFix() bool { return len(s.fixes) > 0 }
func (s *stubFixer) Fix() []FixResult {
	s.fixed = true
	return s.fixes
}

func TestRunner_ChecksKeepOrder(t *testing.T) {
	r := NewRunner(&stubCheck{name: "settings-file"})
	r.AddCheck(&stubCheck{name: "library-cache"})
	r.AddCheck(&stubCheck{name: "tool-config"})

	report := r.Run()

	var names []string
	for _, res := range report.Results {
		names = append(names, res.Name)
	}
	assert.Equal(t, []string{"settings-file", "library-cache", "tool-config"}, names)
}

func TestRunner_Summary(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Severity
		want     Summary
	}{
		{"empty", nil, Summary{}},
		{"all pass", []Severity{SeverityPass, SeverityPass}, Summary{Passed: 2}},
		{"info only", []Severity{SeverityInfo}, Summary{Info: 1}},
		{
			"mixed",
			[]Severity{SeverityPass, SeverityInfo, SeverityWarning, SeverityWarning, SeverityError},
			Summary{Passed: 1, Info: 1, Warnings: 2, Errors: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner()
			for _, status := range tt.statuses {
				r.AddCheck(&stubCheck{result: &CheckResult{Status: status}})
			}

			report := r.Run()
			assert.Len(t, report.Results, len(tt.statuses))
			assert.Equal(t, tt.want, report.Summary)
			assert.Equal(t, len(tt.statuses), report.Summary.Total())
		})
	}
}

func TestDoctorReport_Flags(t *testing.T) {
	tests := []struct {
		name         string
		summary      Summary
		wantErrors   bool
		wantWarnings bool
	}{
		{"zero", Summary{}, false, false},
		{"warnings only", Summary{Warnings: 3}, false, true},
		{"errors only", Summary{Errors: 2}, true, false},
		{"both", Summary{Warnings: 1, Errors: 1}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &DoctorReport{Summary: tt.summary}
			assert.Equal(t, tt.wantErrors, r.HasErrors())
			assert.Equal(t, tt.wantWarnings, r.HasWarnings())
		})
	}
}

func TestRunner_Fix(t *testing.T) {
	r := NewRunner()
	plain := &stubCheck{name: "plain"}
	idle := &stubFixer{stubCheck{name: "idle"}}
	active := &stubFixer{stubCheck{name: "active", fixes: []FixResult{{Path: "/a", Fixed: true}}}}
	r.AddCheck(plain)
	r.AddCheck(idle)
	r.AddCheck(active)

	r.Run()
	results := r.Fix()

	assert.Equal(t, []FixResult{{Path: "/a", Fixed: true}}, results)
	assert.False(t, idle.fixed, "Fix called on a check with nothing to fix")
	assert.True(t, active.fixed)
}

func TestRunner_UsesClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	r := NewRunner()
	r.now = func() time.Time { return fixed }

	report := r.Run()
	assert.Equal(t, fixed.UTC(), report.Timestamp)
}

func TestSeverity_MarshalText(t *testing.T) {
	b, err := SeverityWarning.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "warning", string(b))
}

// healingCheck reports an error until Fix is called.
type healingCheck struct {
	runs  int
	fixed bool
}

func (h *healingCheck) Name() string     { return "healing" }
func (h *healingCheck) Category() string { return "test" }
func (h *healingCheck) CanFix() bool     { return !h.fixed }
func (h *healingCheck) Fix() []FixResult {
	h.fixed = true
	return []FixResult{{Path: "/game/settings.json", Fixed: true, Description: "set mode 0644"}}
}

func (h *healingCheck) Run() *CheckResult {
	h.runs++
	r := newResult(h, nil)
	if !h.fixed {
		return r.set(SeverityError, "world-writable", "run 'tnalias doctor --fix'")
	}
	return r.set(SeverityPass, "ok", "")
}

func TestRunner_Repair(t *testing.T) {
	h := &healingCheck{}
	r := NewRunner(h)

	report, fixes := r.Repair()

	assert.Len(t, fixes, 1)
	assert.Equal(t, 2, h.runs, "checks run again after a fix")
	assert.Equal(t, SeverityPass, report.Worst())
	assert.Equal(t, 1, report.Summary.Passed)
}

func TestRunner_RepairNothingToFix(t *testing.T) {
	h := &healingCheck{fixed: true}
	r := NewRunner(h)

	report, fixes := r.Repair()

	assert.Empty(t, fixes)
	assert.Equal(t, 1, h.runs)
	assert.False(t, report.HasErrors())
}

func TestDoctorReport_WorstAndProblems(t *testing.T) {
	r := NewRunner(
		&stubCheck{name: "a", result: &CheckResult{Name: "a", Status: SeverityInfo}},
		&stubCheck{name: "b", result: &CheckResult{Name: "b", Status: SeverityWarning}},
		&stubCheck{name: "c", result: &CheckResult{Name: "c", Status: SeverityPass}},
		&stubCheck{name: "d", result: &CheckResult{Name: "d", Status: SeverityError}},
	)

	report := r.Run()

	assert.Equal(t, SeverityError, report.Worst())
	assert.Equal(t, 4, report.Summary.Total())
	var names []string
	for _, p := range report.Problems() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"b", "d"}, names)

	assert.Equal(t, SeverityPass, (&DoctorReport{}).Worst())
	assert.Empty(t, (&DoctorReport{}).Problems())
}

func TestSeverity_IsProblem(t *testing.T) {
	assert.False(t, SeverityPass.IsProblem())
	assert.False(t, SeverityInfo.IsProblem())
	assert.True(t, SeverityWarning.IsProblem())
	assert.True(t, SeverityError.IsProblem())
	assert.Equal(t, "unknown", Severity(-1).String())
}

func TestCheckResult_Set(t *testing.T) {
	r := newResult(&stubCheck{name: "sample"}, nil)
	assert.Equal(t, "sample", r.Name)
	assert.Equal(t, "test", r.Category)
	assert.Equal(t, SeverityPass, r.Status)
	assert.NotNil(t, r.Details)

	got := r.set(SeverityWarning, "stale", "sync again")
	assert.Same(t, r, got)
	assert.Equal(t, SeverityWarning, r.Status)
	assert.Equal(t, "stale", r.Message)
	assert.Equal(t, "sync again", r.FixHint)
}
