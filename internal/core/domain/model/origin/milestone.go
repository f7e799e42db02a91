package origin

import (
	"errors"

	"orderflow/internal/pkg/errs"
)

// Milestone is an index into the fixed list of origin fulfilment stages.
// It only ever moves forward, one step at a time.
type Milestone int

const (
	MilestoneConfirmed Milestone = iota
	MilestonePreparingAtOrigin
	MilestonePacked
	MilestoneShipped
	MilestoneInTransit
	MilestoneOutForDelivery
	MilestoneDelivered
)

// LastMilestone is the terminal stage.
const LastMilestone = MilestoneDelivered

var milestoneNames = [...]string{
	MilestoneConfirmed:         "confirmed",
	MilestonePreparingAtOrigin: "preparing_at_origin",
	MilestonePacked:            "packed",
	MilestoneShipped:           "shipped",
	MilestoneInTransit:         "in_transit",
	MilestoneOutForDelivery:    "out_for_delivery",
	MilestoneDelivered:         "delivered",
}

// Milestones returns every stage in order.
func Milestones() []Milestone {
	out := make([]Milestone, 0, len(milestoneNames))
	for i := range milestoneNames {
		out = append(out, Milestone(i))
	}
	return out
}

// NewMilestone validates a stored index.
func NewMilestone(index int) (Milestone, error) {
	m := Milestone(index)
	if err := m.Validate(); err != nil {
		return 0, err
	}
	return m, nil
}

func (m Milestone) Validate() error {
	if m < MilestoneConfirmed || m > LastMilestone {
		return errs.NewValueIsOutOfRangeErrorWithCause(
			"milestone", int(m), int(MilestoneConfirmed), int(LastMilestone),
			errors.New("unknown milestone index"),
		)
	}
	return nil
}

func (m Milestone) Index() int {
	return int(m)
}

func (m Milestone) String() string {
	if m < MilestoneConfirmed || m > LastMilestone {
		return "unknown"
	}
	return milestoneNames[m]
}

// Next returns the following stage, clamped at LastMilestone.
func (m Milestone) Next() Milestone {
	if m >= LastMilestone {
		return LastMilestone
	}
	return m + 1
}

// IsActive reports whether the flow has not reached its terminal stage.
func (m Milestone) IsActive() bool {
	return m < LastMilestone
}
