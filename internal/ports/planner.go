package ports

import (
	"context"
	"fmt"

	"logistics-dispatch-service/internal/domain"
)

// Recoverable planning failure: the request was well formed but no
// workable dispatch exists (unknown orders, model declared the load
// infeasible). Handlers map it to 422 rather than 500.
type InfeasiblePlanError struct {
	Reason string
}

func (e *InfeasiblePlanError) Error() string {
	return fmt.Sprintf("infeasible plan: %s", e.Reason)
}

// Contract for planning multi-order shipments.
type LogisticsPlanner interface {
	// Plan dispatches the given orders into shipments and returns the
	// full plan. Returns *InfeasiblePlanError when no workable plan
	// exists for the requested orders.
	Plan(ctx context.Context, orderIDs []string) (*domain.DispatchPlan, error)
}
