// Package originrepo persists origin orders with GORM in "origin_orders" and
// "origin_order_items". Line, pricing and address columns are shared with orderrepo.
package originrepo

import (
	"time"

	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/origin"

	"github.com/google/uuid"
)

type OriginOrderDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID string    `gorm:"type:varchar(255);not null;index:idx_origin_orders_owner_created,priority:1"`

	Milestone          int `gorm:"type:smallint;not null"`
	VerificationStatus int `gorm:"type:smallint;not null"`

	VerificationToken         *string `gorm:"type:varchar(128)"`
	VerificationTokenIssuedAt *time.Time
	VerificationTokenExpiry   *time.Time
	VerifiedAt                *time.Time

	Pricing orderrepo.PricingDTO `gorm:"embedded"`
	Address orderrepo.AddressDTO `gorm:"embedded;embeddedPrefix:address_"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime:false;index:idx_origin_orders_owner_created,priority:2"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
	Version   int       `gorm:"not null"`

	Items []OriginOrderItemDTO `gorm:"foreignKey:OriginOrderID;constraint:OnDelete:CASCADE"`
}

func (OriginOrderDTO) TableName() string {
	return "origin_orders"
}

type OriginOrderItemDTO struct {
	ID                   uint      `gorm:"primaryKey;autoIncrement"`
	OriginOrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	orderrepo.ItemFields `gorm:"embedded"`
}

func (OriginOrderItemDTO) TableName() string {
	return "origin_order_items"
}

func (dto OriginOrderDTO) updateColumns() map[string]any {
	return map[string]any{
		"milestone":                    dto.Milestone,
		"verification_status":          dto.VerificationStatus,
		"verification_token":           dto.VerificationToken,
		"verification_token_issued_at": dto.VerificationTokenIssuedAt,
		"verification_token_expiry":    dto.VerificationTokenExpiry,
		"verified_at":                  dto.VerifiedAt,
		"updated_at":                   dto.UpdatedAt,
		"version":                      dto.Version,
	}
}

func fromDomain(aggregate *origin.OriginOrder) OriginOrderDTO {
	dto := OriginOrderDTO{
		ID:                 aggregate.ID().Bytes(),
		OwnerID:            aggregate.OwnerID().String(),
		Milestone:          aggregate.Milestone().Index(),
		VerificationStatus: int(aggregate.VerificationStatus()),
		VerifiedAt:         aggregate.VerifiedAt(),
		Pricing:            orderrepo.PricingFromDomain(aggregate.Pricing()),
		Address:            orderrepo.AddressFromDomain(aggregate.Address()),
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

	for i, item := range aggregate.Items() {
		dto.Items = append(dto.Items, OriginOrderItemDTO{
			OriginOrderID: dto.ID,
			ItemFields:    orderrepo.ItemFromDomain(i, item),
		})
	}
	return dto
}

func toDomain(dto OriginOrderDTO) (*origin.OriginOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	owner, err := kernel.NewOwnerID(dto.OwnerID)
	if err != nil {
		return nil, err
	}

	fields := make([]orderrepo.ItemFields, 0, len(dto.Items))
	for _, item := range dto.Items {
		fields = append(fields, item.ItemFields)
	}
	items, err := orderrepo.ItemsToDomain(fields)
	if err != nil {
		return nil, err
	}

	pricing, err := orderrepo.PricingToDomain(dto.Pricing)
	if err != nil {
		return nil, err
	}
	address, err := order.NewAddress(dto.Address.Line, dto.Address.City, dto.Address.Note)
	if err != nil {
		return nil, err
	}
	milestone, err := origin.NewMilestone(dto.Milestone)
	if err != nil {
		return nil, err
	}
	token, err := orderrepo.TokenToDomain(dto.VerificationToken, dto.VerificationTokenIssuedAt, dto.VerificationTokenExpiry)
	if err != nil {
		return nil, err
	}

	return origin.RestoreOriginOrder(origin.Snapshot{
		ID:                 id,
		OwnerID:            owner,
		Items:              items,
		Pricing:            pricing,
		Address:            address,
		Milestone:          milestone,
		VerificationStatus: order.VerificationStatus(dto.VerificationStatus),
		DeliveryToken:      token,
		VerifiedAt:         dto.VerifiedAt,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
		Version:            dto.Version,
	})
}
