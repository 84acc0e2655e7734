package tradeup

import (
	"fmt"
	"math"

	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
)

// CeilingPolicy controls how input condition ceilings are tightened until the
// projected output condition lands at or below the target tier.
type CeilingPolicy struct {
	Step     float64
	MaxSteps int
}

// DefaultCeilingPolicy lowers ceilings 0.01 at a time, at most 100 times
func DefaultCeilingPolicy() CeilingPolicy {
	return CeilingPolicy{Step: 0.01, MaxSteps: 100}
}

// CeilingInput is the condition range and slot count of one input kind
type CeilingInput struct {
	Min   float64
	Max   float64
	Count int
}

// Fit returns one condition ceiling per input such that the goal's projected condition
// classifies at tier or better. Ceilings start at the worst value the input can have while
// still trading at tier and never drop below the input's own floor within that tier.
func (p CeilingPolicy) Fit(goal *catalog.Item, tier condition.Tier, inputs []CeilingInput) ([]float64, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no inputs", ErrInvalidComposition)
	}

	top := tierTop(tier)
	ceilings := make([]float64, len(inputs))
	floors := make([]float64, len(inputs))
	for i, in := range inputs {
		ceilings[i] = math.Min(in.Max, top)
		floors[i] = math.Min(math.Max(in.Min, tier.Lower()), ceilings[i])
	}

	for step := 0; ; step++ {
		estimate := goal.EstimateCondition(weightedAverage(ceilings, inputs))
		if condition.TierOf(estimate) <= tier {
			return ceilings, nil
		}
		if step >= p.MaxSteps {
			break
		}

		lowered := false
		for i := range ceilings {
			next := math.Max(ceilings[i]-p.Step, floors[i])
			if next < ceilings[i] {
				lowered = true
			}
			ceilings[i] = next
		}
		if !lowered {
			break
		}
	}

	return nil, fmt.Errorf("%w: goal %d at %s", ErrConditionUnreachable, goal.ID(), tier)
}

// tierTop is the worst condition that still classifies as tier. Upper bounds are
// exclusive except for the last tier.
func tierTop(tier condition.Tier) float64 {
	top := tier.Upper()
	if condition.TierOf(top) != tier {
		top = math.Nextafter(top, 0)
	}
	return top
}

func weightedAverage(values []float64, inputs []CeilingInput) float64 {
	var total float64
	var count int
	for i, in := range inputs {
		total += values[i] * float64(in.Count)
		count += in.Count
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}
