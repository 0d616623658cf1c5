package joiner

import (
	"github.com/Vodeneev/statjoin/internal/pkg/models"
	"github.com/Vodeneev/statjoin/internal/pkg/stats"
	"github.com/Vodeneev/statjoin/internal/reconcile"
)

// Outcome is the result of one reconciliation: the join, its report and
// the stats failure, if any, that left the stat side empty.
type Outcome struct {
	RunID      string            `json:"run_id,omitempty"`
	Sport      string            `json:"sport,omitempty"`
	Result     models.JoinResult `json:"result"`
	Report     reconcile.Report  `json:"report"`
	Message    string            `json:"message"`
	StatsError string            `json:"stats_error,omitempty"`

	// StatsErr is the stats failure behind StatsError.
	StatsErr error `json:"-"`
}

// Evaluate loads table against teamColumn and reconciles picks with it.
// A missing team column does not fail the call: the outcome is for zero
// stat rows and carries the *stats.SchemaError.
func Evaluate(picks []models.PickRecord, table stats.Table, teamColumn string, opts ...reconcile.Option) *Outcome {
	loaded, err := stats.Load(table, teamColumn)
	if err != nil {
		return failedOutcome(picks, err, opts...)
	}
	return buildOutcome(picks, loaded.Records(), opts...)
}

func failedOutcome(picks []models.PickRecord, err error, opts ...reconcile.Option) *Outcome {
	o := buildOutcome(picks, nil, opts...)
	o.StatsErr = err
	o.StatsError = err.Error()
	return o
}

func buildOutcome(picks []models.PickRecord, recs []models.StatRecord, opts ...reconcile.Option) *Outcome {
	res := reconcile.Reconcile(picks, recs, opts...)
	rep := reconcile.NewReport(len(picks), len(recs), res)
	return &Outcome{
		Result:  res,
		Report:  rep,
		Message: rep.Message(),
	}
}

func reconcileOptions(exactOnly bool) []reconcile.Option {
	if exactOnly {
		return []reconcile.Option{reconcile.ExactOnly()}
	}
	return nil
}
