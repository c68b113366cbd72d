package service

import "github.com/aaronHenao/backend-tailorflow/internal/domain"

// Project maps the statuses of a parent's children onto the parent's
// aggregate status. The same function is applied at both levels of the
// cascade: task statuses to a product, product statuses to an order.
//
// The policy is "any progress means in process": a parent with one
// finished child and the rest pending reports IN_PROCESS even though
// no child is literally mid-task. DELAYED children count as progress
// and DELAYED is never produced as an output.
//
// Aggregation over zero children is undefined; ok is false and the
// caller must leave the parent untouched.
func Project(children []domain.Status) (status domain.Status, ok bool) {
	if len(children) == 0 {
		return "", false
	}

	allFinished := true
	allPending := true
	for _, s := range children {
		if s != domain.StatusFinished {
			allFinished = false
		}
		if s.InFlight() {
			allPending = false
		}
	}

	switch {
	case allFinished:
		return domain.StatusFinished, true
	case allPending:
		return domain.StatusPending, true
	default:
		return domain.StatusInProcess, true
	}
}
