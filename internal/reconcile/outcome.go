package reconcile

// State is the terminal state of one host in one run.
type State string

const (
	StateDryRunReported State = "dry-run"
	StateUpToDate       State = "up-to-date"
	StateApplied        State = "applied"
	StateFailed         State = "failed"
)

// Outcome reports what happened to one host.
type Outcome struct {
	Host      string
	Partition string
	State     State
	Added     int
	Err       error
}

func (o *Outcome) AsLogFields() []any {
	fields := []any{
		"host", o.Host,
		"lpar", o.Partition,
		"state", string(o.State),
		"added", o.Added,
	}

	if o.Err != nil {
		fields = append(fields, "error", o.Err.Error())
	}

	return fields
}
