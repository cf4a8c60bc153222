package domain

// HealthStatus indicates doctor check outcomes.
type HealthStatus string

const (
	HealthOK    HealthStatus = "ok"
	HealthWarn  HealthStatus = "warn"
	HealthError HealthStatus = "error"
)

// HealthCheck captures a single diagnostic result.
type HealthCheck struct {
	Name     string
	Status   HealthStatus
	Details  string
	Required bool
}

// HealthReport aggregates checks.
type HealthReport struct {
	Checks []HealthCheck
}

// MissingRequired returns the names of required checks that failed.
func (r HealthReport) MissingRequired() []string {
	var names []string
	for _, check := range r.Checks {
		if check.Required && check.Status == HealthError {
			names = append(names, check.Name)
		}
	}
	return names
}
