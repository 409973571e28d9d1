package doctor

import "context"

// Status represents the result status of a check item.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// CheckItem represents a single line item within a check result.
type CheckItem struct {
	Label   string `json:"label"`
	Status  Status `json:"-"`
	Detail  string `json:"detail,omitempty"`
	Fixable bool   `json:"fixable,omitempty"`

	// For JSON output
	StatusStr string `json:"status"`
}

// Result represents the outcome of a check containing multiple items.
type Result struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

// Check is a single diagnostic run by the doctor command.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// RunAll runs checks in order and fills in StatusStr for JSON output.
func RunAll(ctx context.Context, checks []Check) []Result {
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		result := check.Run(ctx)
		for i := range result.Items {
			result.Items[i].StatusStr = result.Items[i].Status.String()
		}
		results = append(results, result)
	}
	return results
}

// Counts tallies item statuses across results.
type Counts struct {
	Passed  int `json:"passed"`
	Warned  int `json:"warned"`
	Failed  int `json:"failed"`
	Fixable int `json:"fixable"`
}

// Healthy reports whether no item failed.
func (c Counts) Healthy() bool {
	return c.Failed == 0
}

// Summarize counts item statuses. Fixable only includes items that are not
// passing.
func Summarize(results []Result) Counts {
	var c Counts
	for _, r := range results {
		for _, item := range r.Items {
			switch item.Status {
			case StatusPass:
				c.Passed++
				continue
			case StatusWarn:
				c.Warned++
			case StatusFail:
				c.Failed++
			}
			if item.Fixable {
				c.Fixable++
			}
		}
	}
	return c
}
