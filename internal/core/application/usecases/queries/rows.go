// Package queries contains read-only operations. Handlers read straight from the
// database into response structs and never load aggregates.
package queries

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItemView is one line of an order as shown to its owner. Kind is "reference"
// for catalogue products and "snapshot" for items priced at checkout.
type OrderItemView struct {
	Kind       string
	ProductID  string
	Name       string
	PriceMinor int64
	ImageURL   string
	Quantity   int
}

// PricingView holds amounts in minor units.
type PricingView struct {
	SubtotalMinor    int64
	DeliveryFeeMinor int64
	TotalMinor       int64
}

type AddressView struct {
	Line string
	City string
	Note string
}

// HeaderRow is the column set shared by orders and origin_orders. It is embedded
// anonymously in the row structs, so it must stay exported for GORM to scan into it.
type HeaderRow struct {
	ID                      uuid.UUID
	OwnerID                 string
	VerificationStatus      int
	VerificationTokenExpiry *time.Time
	VerifiedAt              *time.Time
	SubtotalMinor           int64
	DeliveryFeeMinor        int64
	TotalMinor              int64
	AddressLine             string
	AddressCity             string
	AddressNote             string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (r HeaderRow) pricing() PricingView {
	return PricingView{
		SubtotalMinor:    r.SubtotalMinor,
		DeliveryFeeMinor: r.DeliveryFeeMinor,
		TotalMinor:       r.TotalMinor,
	}
}

func (r HeaderRow) address() AddressView {
	return AddressView{Line: r.AddressLine, City: r.AddressCity, Note: r.AddressNote}
}

type itemRow struct {
	Kind       string
	ProductID  string
	Name       string
	PriceMinor int64
	ImageURL   string
	Quantity   int
}

// loadItems reads the lines of one order from table, keyed by fkColumn, in position order.
func loadItems(ctx context.Context, db *gorm.DB, table, fkColumn string, id kernel.UUID) ([]OrderItemView, error) {
	var rows []itemRow
	err := db.WithContext(ctx).
		Table(table).
		Select("kind, product_id, name, price_minor, image_url, quantity").
		Where(fkColumn+" = ?", id.Bytes()).
		Order("position").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]OrderItemView, 0, len(rows))
	for _, r := range rows {
		items = append(items, OrderItemView(r))
	}
	return items, nil
}
