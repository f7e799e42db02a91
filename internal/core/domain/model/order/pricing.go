package order

import (
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// Pricing is the price snapshot handed over at checkout.
type Pricing struct {
	subtotal    kernel.Money
	deliveryFee kernel.Money
	total       kernel.Money
}

// NewPricing derives the total from subtotal and delivery fee. It fails when the
// total does not fit in Money.
func NewPricing(subtotal, deliveryFee kernel.Money) (Pricing, error) {
	total, err := subtotal.Add(deliveryFee)
	if err != nil {
		return Pricing{}, errs.NewValueIsInvalidErrorWithCause("pricing total", err)
	}
	return Pricing{
		subtotal:    subtotal,
		deliveryFee: deliveryFee,
		total:       total,
	}, nil
}

// RestorePricing rebuilds a stored pricing and checks that the total still adds up.
func RestorePricing(subtotal, deliveryFee, total kernel.Money) (Pricing, error) {
	p, err := NewPricing(subtotal, deliveryFee)
	if err != nil {
		return Pricing{}, err
	}
	if !p.total.IsEqual(total) {
		return Pricing{}, errs.NewValueIsInvalidErrorWithCause(
			"pricing",
			fmt.Errorf("total %s does not equal subtotal %s plus fee %s", total, subtotal, deliveryFee),
		)
	}
	return p, nil
}

func (p Pricing) Subtotal() kernel.Money {
	return p.subtotal
}

func (p Pricing) DeliveryFee() kernel.Money {
	return p.deliveryFee
}

func (p Pricing) Total() kernel.Money {
	return p.total
}
