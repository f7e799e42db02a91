// Package orderrepo persists order aggregates with GORM. An order is stored as one
// row in "orders" plus its lines in "order_items".
package orderrepo

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// Item kinds stored in ItemFields.Kind.
const (
	ItemKindReference = "reference"
	ItemKindSnapshot  = "snapshot"
)

// OrderDTO is the "orders" row.
type OrderDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID string    `gorm:"type:varchar(255);not null;index:idx_orders_owner_created,priority:1"`

	Status             int `gorm:"type:smallint;not null;index"`
	VerificationStatus int `gorm:"type:smallint;not null"`

	VerificationToken         *string `gorm:"type:varchar(128)"`
	VerificationTokenIssuedAt *time.Time
	VerificationTokenExpiry   *time.Time `gorm:"index"`
	VerifiedAt                *time.Time

	Rating *int
	Review string `gorm:"type:text;not null;default:''"`

	Pricing PricingDTO `gorm:"embedded"`
	Address AddressDTO `gorm:"embedded;embeddedPrefix:address_"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime:false;index:idx_orders_owner_created,priority:2"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
	Version   int       `gorm:"not null"`

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// PricingDTO holds amounts in minor units.
type PricingDTO struct {
	SubtotalMinor    int64 `gorm:"not null"`
	DeliveryFeeMinor int64 `gorm:"not null"`
	TotalMinor       int64 `gorm:"not null"`
}

type AddressDTO struct {
	Line string `gorm:"type:varchar(512);not null"`
	City string `gorm:"type:varchar(255)"`
	Note string `gorm:"type:text"`
}

// ItemFields is the column set shared by order and origin order lines. Kind selects
// which of ProductID or Name/PriceMinor/ImageURL is meaningful.
type ItemFields struct {
	Position   int    `gorm:"not null"`
	Kind       string `gorm:"type:varchar(16);not null"`
	ProductID  string `gorm:"type:varchar(255)"`
	Name       string `gorm:"type:varchar(255)"`
	PriceMinor int64
	ImageURL   string `gorm:"type:text"`
	Quantity   int    `gorm:"not null"`
}

// OrderItemDTO is an "order_items" row.
type OrderItemDTO struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemFields `gorm:"embedded"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// updateColumns lists every mutable column. Items are immutable after creation and
// are never rewritten.
func (dto OrderDTO) updateColumns() map[string]any {
	return map[string]any{
		"status":                       dto.Status,
		"verification_status":          dto.VerificationStatus,
		"verification_token":           dto.VerificationToken,
		"verification_token_issued_at": dto.VerificationTokenIssuedAt,
		"verification_token_expiry":    dto.VerificationTokenExpiry,
		"verified_at":                  dto.VerifiedAt,
		"rating":                       dto.Rating,
		"review":                       dto.Review,
		"updated_at":                   dto.UpdatedAt,
		"version":                      dto.Version,
	}
}

func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:                 aggregate.ID().Bytes(),
		OwnerID:            aggregate.OwnerID().String(),
		Status:             int(aggregate.Status()),
		VerificationStatus: int(aggregate.VerificationStatus()),
		VerifiedAt:         aggregate.VerifiedAt(),
		Review:             aggregate.Review(),
		Pricing:            PricingFromDomain(aggregate.Pricing()),
		Address:            AddressFromDomain(aggregate.Address()),
		CreatedAt:          aggregate.CreatedAt(),
		UpdatedAt:          aggregate.UpdatedAt(),
		Version:            aggregate.Version(),
	}

	if token := aggregate.DeliveryToken(); token != nil {
		value, issuedAt, expiry := token.Value(), token.IssuedAt(), token.Expiry()
		dto.VerificationToken = &value
		dto.VerificationTokenIssuedAt = &issuedAt
		dto.VerificationTokenExpiry = &expiry
	}
	if rating := aggregate.Rating(); rating != nil {
		r := rating.Int()
		dto.Rating = &r
	}

	for i, item := range aggregate.Items() {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderID:    dto.ID,
			ItemFields: ItemFromDomain(i, item),
		})
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	owner, err := kernel.NewOwnerID(dto.OwnerID)
	if err != nil {
		return nil, err
	}

	fields := make([]ItemFields, 0, len(dto.Items))
	for _, item := range dto.Items {
		fields = append(fields, item.ItemFields)
	}
	items, err := ItemsToDomain(fields)
	if err != nil {
		return nil, err
	}

	pricing, err := PricingToDomain(dto.Pricing)
	if err != nil {
		return nil, err
	}
	address, err := order.NewAddress(dto.Address.Line, dto.Address.City, dto.Address.Note)
	if err != nil {
		return nil, err
	}
	token, err := TokenToDomain(dto.VerificationToken, dto.VerificationTokenIssuedAt, dto.VerificationTokenExpiry)
	if err != nil {
		return nil, err
	}

	var rating *order.Rating
	if dto.Rating != nil {
		r, ratingErr := order.NewRating(*dto.Rating)
		if ratingErr != nil {
			return nil, ratingErr
		}
		rating = &r
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                 id,
		OwnerID:            owner,
		Items:              items,
		Pricing:            pricing,
		Address:            address,
		Status:             order.Status(dto.Status),
		VerificationStatus: order.VerificationStatus(dto.VerificationStatus),
		DeliveryToken:      token,
		VerifiedAt:         dto.VerifiedAt,
		Rating:             rating,
		Review:             dto.Review,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
		Version:            dto.Version,
	})
}

// ItemFromDomain maps an order line to its columns.
func ItemFromDomain(position int, item order.Item) ItemFields {
	fields := ItemFields{Position: position, Quantity: item.Quantity()}
	switch ref := item.Ref().(type) {
	case order.ProductReference:
		fields.Kind = ItemKindReference
		fields.ProductID = ref.ProductID()
	case order.ProductSnapshot:
		fields.Kind = ItemKindSnapshot
		fields.Name = ref.Name()
		fields.PriceMinor = ref.Price().Minor()
		fields.ImageURL = ref.ImageURL()
	}
	return fields
}

// ItemsToDomain resolves stored lines into items, ordered by position.
func ItemsToDomain(rows []ItemFields) ([]order.Item, error) {
	items := make([]order.Item, len(rows))
	seen := make([]bool, len(rows))
	for _, row := range rows {
		if row.Position < 0 || row.Position >= len(rows) || seen[row.Position] {
			return nil, fmt.Errorf("order item position %d is out of sequence", row.Position)
		}

		var ref order.ItemRef
		var err error
		switch row.Kind {
		case ItemKindReference:
			ref, err = order.NewProductReference(row.ProductID)
		case ItemKindSnapshot:
			price, priceErr := kernel.NewMoney(row.PriceMinor)
			if priceErr != nil {
				return nil, priceErr
			}
			ref, err = order.NewProductSnapshot(row.Name, price, row.ImageURL)
		default:
			err = fmt.Errorf("unknown order item kind %q", row.Kind)
		}
		if err != nil {
			return nil, err
		}

		item, err := order.NewItem(ref, row.Quantity)
		if err != nil {
			return nil, err
		}
		items[row.Position] = item
		seen[row.Position] = true
	}
	return items, nil
}

func PricingFromDomain(p order.Pricing) PricingDTO {
	return PricingDTO{
		SubtotalMinor:    p.Subtotal().Minor(),
		DeliveryFeeMinor: p.DeliveryFee().Minor(),
		TotalMinor:       p.Total().Minor(),
	}
}

func PricingToDomain(dto PricingDTO) (order.Pricing, error) {
	subtotal, subErr := kernel.NewMoney(dto.SubtotalMinor)
	fee, feeErr := kernel.NewMoney(dto.DeliveryFeeMinor)
	total, totalErr := kernel.NewMoney(dto.TotalMinor)
	if err := errors.Join(subErr, feeErr, totalErr); err != nil {
		return order.Pricing{}, err
	}
	return order.RestorePricing(subtotal, fee, total)
}

func AddressFromDomain(a order.Address) AddressDTO {
	return AddressDTO{Line: a.Line(), City: a.City(), Note: a.Note()}
}

// TokenToDomain rebuilds the optional token; all three columns must be set together.
func TokenToDomain(value *string, issuedAt, expiry *time.Time) (*order.DeliveryToken, error) {
	if value == nil && issuedAt == nil && expiry == nil {
		return nil, nil
	}
	if value == nil || issuedAt == nil || expiry == nil {
		return nil, errors.New("delivery token columns are partially set")
	}
	token, err := order.NewDeliveryToken(*value, *issuedAt, *expiry)
	if err != nil {
		return nil, err
	}
	return &token, nil
}
