package leitner

import "fmt"

// Params defines all configurable parameters for the Leitner scheduler.
type Params struct {
	// MaxBox is the highest box a card can be promoted to.
	MaxBox int

	// BoxIntervals maps a box index (1..MaxBox) to the number of days until
	// the card is next due. Values must be strictly increasing with box
	// index and must not depend on anything except the box index.
	BoxIntervals map[int]int

	// PassThreshold is the minimum accuracy ratio for a multi-question card
	// to count as correct.
	PassThreshold float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values leave the corresponding default in place.
type ParamsConfig struct {
	MaxBox        int
	BoxIntervals  map[int]int
	PassThreshold float64
}

// NewDefaultParams creates a new Params instance with default values:
// five boxes on a 1/3/7/14/30 day schedule and a 70% pass threshold.
func NewDefaultParams() *Params {
	return &Params{
		MaxBox: 5,
		BoxIntervals: map[int]int{
			1: 1,
			2: 3,
			3: 7,
			4: 14,
			5: 30,
		},
		PassThreshold: 0.7,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Returns an error if the resulting schedule is not strictly increasing
// across boxes, since that would break promotion monotonicity.
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if config.MaxBox > 0 {
		params.MaxBox = config.MaxBox
	}

	if config.BoxIntervals != nil {
		params.BoxIntervals = config.BoxIntervals
	}

	if config.PassThreshold > 0 {
		params.PassThreshold = config.PassThreshold
	}

	if err := params.validate(); err != nil {
		return nil, err
	}

	return params, nil
}

// validate checks the schedule invariants: every box up to MaxBox has an
// interval, intervals are positive, and intervals strictly increase with box
// index.
func (p *Params) validate() error {
	if p.MaxBox < 1 {
		return fmt.Errorf("max box must be at least 1, got %d", p.MaxBox)
	}

	if p.PassThreshold <= 0 || p.PassThreshold > 1 {
		return fmt.Errorf("pass threshold must be in (0, 1], got %v", p.PassThreshold)
	}

	prev := 0
	for box := 1; box <= p.MaxBox; box++ {
		interval, ok := p.BoxIntervals[box]
		if !ok {
			return fmt.Errorf("no interval configured for box %d", box)
		}
		if interval <= prev {
			return fmt.Errorf(
				"box intervals must be strictly increasing: box %d has %d days, box %d has %d days",
				box-1, prev, box, interval,
			)
		}
		prev = interval
	}

	return nil
}
