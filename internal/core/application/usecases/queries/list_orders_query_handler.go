package queries

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle returns an empty slice, not nil, when the requester has no orders.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			verification_status,
			total_minor,
			created_at
		FROM orders
		WHERE owner_id = ?
		ORDER BY created_at DESC, id
	`, query.RequesterID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]ListOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			id                 uuid.UUID
			status             int
			verificationStatus int
			totalMinor         int64
			createdAt          time.Time
		)
		if err = rows.Scan(&id, &status, &verificationStatus, &totalMinor, &createdAt); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orders = append(orders, ListOrdersQueryResponse{
			ID:                 orderID,
			Status:             order.Status(status).String(),
			VerificationStatus: order.VerificationStatus(verificationStatus).String(),
			TotalMinor:         totalMinor,
			CreatedAt:          createdAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
