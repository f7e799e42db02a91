package queries

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads an order with its items. A missing order is an
// ObjectNotFoundError; an order owned by someone else is an AccessDeniedError.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

type orderRow struct {
	HeaderRow
	Status int
	Rating *int
	Review string
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var row orderRow
	err := h.db.WithContext(ctx).
		Table("orders").
		Where("id = ?", query.OrderID().Bytes()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if row.OwnerID != query.RequesterID().String() {
		return GetOrderQueryResponse{}, errs.NewAccessDeniedError("order "+query.OrderID().String(), query.RequesterID().String())
	}

	items, err := loadItems(ctx, h.db, "order_items", "order_id", query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return GetOrderQueryResponse{
		ID:                 id,
		OwnerID:            row.OwnerID,
		Status:             order.Status(row.Status).String(),
		VerificationStatus: order.VerificationStatus(row.VerificationStatus).String(),
		Items:              items,
		Pricing:            row.pricing(),
		Address:            row.address(),
		TokenExpiry:        row.VerificationTokenExpiry,
		VerifiedAt:         row.VerifiedAt,
		Rating:             row.Rating,
		Review:             row.Review,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}, nil
}
