package queries

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/origin"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOriginOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOriginOrderQueryHandler(db *gorm.DB) GetOriginOrderQueryHandler {
	return GetOriginOrderQueryHandler{db: db}
}

type originOrderRow struct {
	HeaderRow
	Milestone int
}

func (h GetOriginOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOriginOrderQuery,
) (GetOriginOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOriginOrderQueryResponse{}, err
	}

	var row originOrderRow
	err := h.db.WithContext(ctx).
		Table("origin_orders").
		Where("id = ?", query.OrderID().Bytes()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return GetOriginOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID())
	}
	if err != nil {
		return GetOriginOrderQueryResponse{}, err
	}
	if row.OwnerID != query.RequesterID().String() {
		return GetOriginOrderQueryResponse{}, errs.NewAccessDeniedError(
			"origin order "+query.OrderID().String(), query.RequesterID().String())
	}

	milestone, err := origin.NewMilestone(row.Milestone)
	if err != nil {
		return GetOriginOrderQueryResponse{}, err
	}
	items, err := loadItems(ctx, h.db, "origin_order_items", "origin_order_id", query.OrderID())
	if err != nil {
		return GetOriginOrderQueryResponse{}, err
	}
	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return GetOriginOrderQueryResponse{}, err
	}

	names := make([]string, 0, len(origin.Milestones()))
	for _, m := range origin.Milestones() {
		names = append(names, m.String())
	}

	return GetOriginOrderQueryResponse{
		ID:                 id,
		OwnerID:            row.OwnerID,
		Milestone:          milestone.String(),
		MilestoneIndex:     milestone.Index(),
		Milestones:         names,
		IsActive:           milestone.IsActive(),
		VerificationStatus: order.VerificationStatus(row.VerificationStatus).String(),
		Items:              items,
		Pricing:            row.pricing(),
		Address:            row.address(),
		TokenExpiry:        row.VerificationTokenExpiry,
		VerifiedAt:         row.VerifiedAt,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}, nil
}
