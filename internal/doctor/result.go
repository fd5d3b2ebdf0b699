package doctor

// Severity indicates the importance level of a check result. Values are
// ordered, so a worse result compares greater.
type Severity int

const (
	SeverityPass Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

var severityNames = [...]string{"pass", "info", "warning", "error"}

func (s Severity) String() string {
	if s < SeverityPass || s > SeverityError {
		return "unknown"
	}
	return severityNames[s]
}

// MarshalText renders the severity by name in JSON reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsProblem reports whether s is a warning or an error.
func (s Severity) IsProblem() bool {
	return s >= SeverityWarning
}

// CheckResult represents the outcome of a single diagnostic check.
type CheckResult struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Status   Severity `json:"status"`
	Message  string   `json:"message"`

	// Details holds check-specific context such as the path inspected or
	// the list of issues under "issues".
	Details map[string]any `json:"details,omitempty"`

	// Fixable marks results that 'tnalias doctor --fix' can repair.
	Fixable bool   `json:"fixable,omitempty"`
	FixHint string `json:"fix_hint,omitempty"`
}

// newResult starts a passing result for c with the given details.
func newResult(c Check, details map[string]any) *CheckResult {
	if details == nil {
		details = map[string]any{}
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Details:  details,
	}
}

// set records the outcome and returns r so checks can end with
// `return result.set(...)`.
func (r *CheckResult) set(status Severity, message, hint string) *CheckResult {
	r.Status = status
	r.Message = message
	r.FixHint = hint
	return r
}

// Summary aggregates counts of check results by severity.
type Summary struct {
	Passed   int `json:"passed"`
	Info     int `json:"info"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

func (s *Summary) add(status Severity) {
	switch status {
	case SeverityPass:
		s.Passed++
	case SeverityInfo:
		s.Info++
	case SeverityWarning:
		s.Warnings++
	case SeverityError:
		s.Errors++
	}
}

// Total returns the number of results counted.
func (s Summary) Total() int {
	return s.Passed + s.Info + s.Warnings + s.Errors
}
