package orders

import (
	"fmt"

	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
)

// CanTransition enforces the checkout funnel. The funnel only moves
// forward by rank; canceled is reachable from any state that has not
// completed, and returned only from complete.
func CanTransition(current, target enums.OrderState) error {
	if !target.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order state %q", target))
	}

	switch target {
	case enums.OrderStateCanceled:
		if current == enums.OrderStateComplete || current == enums.OrderStateReturned {
			return transitionError(current, target)
		}
		return nil
	case enums.OrderStateReturned:
		if current != enums.OrderStateComplete {
			return transitionError(current, target)
		}
		return nil
	}

	if target.Rank() < current.Rank() {
		return transitionError(current, target)
	}
	return nil
}

func transitionError(current, target enums.OrderState) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("cannot move order from %s to %s", current, target)).
		WithDetails(map[string]any{
			"from": current.String(),
			"to":   target.String(),
		})
}
