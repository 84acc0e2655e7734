package tradeup

import "errors"

// Infeasible outcomes. A (goal, tier) pair that ends in one of these is dropped from
// the result set without being treated as a failure.
var (
	// ErrUnaffordable indicates not even one primary unit fits under the after-tax goal price
	ErrUnaffordable = errors.New("primary input unaffordable at goal price")

	// ErrNoFiller indicates no other container offers a profitable filler for the remaining slots
	ErrNoFiller = errors.New("no profitable filler")

	// ErrConditionUnreachable indicates the inputs cannot produce the goal at the target tier
	ErrConditionUnreachable = errors.New("goal tier unreachable with input conditions")

	// ErrNoOutcomes indicates the outcome universe is empty
	ErrNoOutcomes = errors.New("no possible outcomes")

	// ErrFreeInput indicates the inputs cost nothing, so ROI is undefined
	ErrFreeInput = errors.New("input cost must be positive")
)

var (
	// ErrInvalidComposition is returned when the input counts do not add up to ten
	ErrInvalidComposition = errors.New("invalid input composition")

	// ErrInvalidChance is returned when a chance falls outside (0, 1]
	ErrInvalidChance = errors.New("chance must be in (0, 1]")

	// ErrInvalidGoal is returned when the goal rarity has no input rarity below it
	ErrInvalidGoal = errors.New("invalid goal")

	// ErrTicketOutOfRange is returned when a lottery ticket is outside [1, total]
	ErrTicketOutOfRange = errors.New("ticket out of range")
)

// IsInfeasible reports whether err means the pair simply has no viable trade-up
func IsInfeasible(err error) bool {
	return errors.Is(err, ErrUnaffordable) ||
		errors.Is(err, ErrNoFiller) ||
		errors.Is(err, ErrConditionUnreachable) ||
		errors.Is(err, ErrNoOutcomes) ||
		errors.Is(err, ErrFreeInput)
}
