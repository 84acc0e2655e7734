package catalog

import "errors"

// Lookup misses. Callers treat these as missing data and skip the candidate;
// they never stand in for a zero price.
var (
	// ErrItemNotFound is returned when an item id has no catalog entry
	ErrItemNotFound = errors.New("item not found")

	// ErrContainerNotFound is returned when a container id has no catalog entry
	ErrContainerNotFound = errors.New("container not found")

	// ErrNoPriceQuote is returned when an item has no liquidity at a condition tier
	ErrNoPriceQuote = errors.New("no price quote")

	// ErrCheapestNotFound is returned when no cheapest item is cached for a container, rarity and tier
	ErrCheapestNotFound = errors.New("cheapest item not found")
)

// Validation errors raised while converting stored rows into domain values.
var (
	ErrUnknownRarity   = errors.New("unknown rarity")
	ErrUnknownCategory = errors.New("unknown category")

	// ErrInvalidConditionRange is returned when min/max condition are outside [0,1] or inverted
	ErrInvalidConditionRange = errors.New("invalid condition range")

	// ErrInvalidPrice is returned when a price is negative
	ErrInvalidPrice = errors.New("invalid price")
)

// IsMissingData reports whether err is a lookup miss rather than a store failure.
func IsMissingData(err error) bool {
	return errors.Is(err, ErrNoPriceQuote) ||
		errors.Is(err, ErrCheapestNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrContainerNotFound)
}
