package doctor

import "time"

// Check is one diagnostic. Name is unique within a Runner; Category groups
// related checks in the output ("settings", "library", ...).
type Check interface {
	Name() string
	Category() string
	Run() *CheckResult
}

// Runner executes diagnostic checks and aggregates their results.
type Runner struct {
	checks []Check
	now    func() time.Time
}

// NewRunner creates a Runner with the given checks.
func NewRunner(checks ...Check) *Runner {
	return &Runner{
		checks: checks,
		now:    time.Now,
	}
}

// AddCheck registers a diagnostic check with the runner.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run executes all registered checks in registration order.
func (r *Runner) Run() *DoctorReport {
	report := &DoctorReport{
		Timestamp: r.now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}
	for _, check := range r.checks {
		result := check.Run()
		report.Results = append(report.Results, result)
		report.Summary.add(result.Status)
	}
	return report
}

// Fix applies every available remediation from checks that implement Fixer.
// It must be called after Run.
func (r *Runner) Fix() []FixResult {
	var results []FixResult
	for _, check := range r.checks {
		f, ok := check.(Fixer)
		if !ok || !f.CanFix() {
			continue
		}
		results = append(results, f.Fix()...)
	}
	return results
}

// Repair runs the checks, applies fixes, and runs the checks again when
// anything was attempted so the report reflects the repaired state.
func (r *Runner) Repair() (*DoctorReport, []FixResult) {
	report := r.Run()
	fixes := r.Fix()
	if len(fixes) > 0 {
		report = r.Run()
	}
	return report, fixes
}

// DoctorReport aggregates all check results with timing and summary.
type DoctorReport struct {
	// Timestamp is when the run started.
	Timestamp time.Time      `json:"timestamp"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

// HasErrors returns true if any check has SeverityError.
func (r *DoctorReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings returns true if any check has SeverityWarning.
func (r *DoctorReport) HasWarnings() bool {
	return r.Summary.Warnings > 0
}

// Worst returns the most severe status in the report.
func (r *DoctorReport) Worst() Severity {
	worst := SeverityPass
	for _, res := range r.Results {
		if res.Status > worst {
			worst = res.Status
		}
	}
	return worst
}

// Problems returns the warning and error results in report order.
func (r *DoctorReport) Problems() []*CheckResult {
	var out []*CheckResult
	for _, res := range r.Results {
		if res.Status.IsProblem() {
			out = append(out, res)
		}
	}
	return out
}
