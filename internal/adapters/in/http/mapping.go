package http

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/origin"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/generated/servers"
	"orderflow/internal/pkg/errs"
)

// checkout is a validated order body shared by orders and origin orders.
type checkout struct {
	items   []order.Item
	pricing order.Pricing
	address order.Address
}

func checkoutFromRequest(body servers.NewOrder) (checkout, error) {
	items := make([]order.Item, 0, len(body.Items))
	var itemErrs []error
	for i, raw := range body.Items {
		item, err := itemFromRequest(raw)
		if err != nil {
			itemErrs = append(itemErrs, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		items = append(items, item)
	}

	subtotal, subtotalErr := kernel.NewMoney(body.Pricing.SubtotalMinor)
	fee, feeErr := kernel.NewMoney(body.Pricing.DeliveryFeeMinor)
	address, addressErr := order.NewAddress(body.Address.Line, body.Address.City, deref(body.Address.Note))

	if err := errors.Join(append(itemErrs, subtotalErr, feeErr, addressErr)...); err != nil {
		return checkout{}, err
	}
	pricing, err := order.NewPricing(subtotal, fee)
	if err != nil {
		return checkout{}, err
	}

	return checkout{
		items:   items,
		pricing: pricing,
		address: address,
	}, nil
}

// itemFromRequest prefers a catalogue reference and falls back to an inline snapshot.
func itemFromRequest(raw servers.NewOrderItem) (order.Item, error) {
	var ref order.ItemRef
	if productID := deref(raw.ProductId); productID != "" {
		reference, err := order.NewProductReference(productID)
		if err != nil {
			return order.Item{}, err
		}
		ref = reference
	} else {
		if raw.PriceMinor == nil {
			return order.Item{}, errs.NewValueIsRequiredError("item price")
		}
		price, err := kernel.NewMoney(*raw.PriceMinor)
		if err != nil {
			return order.Item{}, err
		}
		snapshot, err := order.NewProductSnapshot(deref(raw.Name), price, deref(raw.ImageUrl))
		if err != nil {
			return order.Item{}, err
		}
		ref = snapshot
	}
	return order.NewItem(ref, raw.Quantity)
}

func verifyCommandFromRequest(
	orderID kernel.UUID,
	requester kernel.OwnerID,
	body servers.VerificationRequest,
) (commands.VerifyDeliveryTokenCommand, error) {
	if payload := deref(body.Payload); payload != "" {
		return commands.NewVerifyDeliveryTokenCommandFromPayload(orderID, requester, payload)
	}

	var issuedAt time.Time
	if body.IssuedAt != nil {
		issuedAt = *body.IssuedAt
	}
	return commands.NewVerifyDeliveryTokenCommand(orderID, requester, deref(body.Token), issuedAt)
}

func orderResponse(view queries.GetOrderQueryResponse) servers.Order {
	resp := servers.Order{
		Id:                 view.ID.Bytes(),
		OwnerId:            view.OwnerID,
		Status:             servers.OrderStatus(view.Status),
		VerificationStatus: view.VerificationStatus,
		Items:              itemsResponse(view.Items),
		Pricing:            pricingResponse(view.Pricing),
		Address:            addressResponse(view.Address),
		TokenExpiry:        view.TokenExpiry,
		VerifiedAt:         view.VerifiedAt,
		Rating:             view.Rating,
		CreatedAt:          view.CreatedAt,
		UpdatedAt:          view.UpdatedAt,
	}
	if view.Review != "" {
		resp.Review = &view.Review
	}
	return resp
}

func orderSummariesResponse(views []queries.ListOrdersQueryResponse) []servers.OrderSummary {
	out := make([]servers.OrderSummary, len(views))
	for i, view := range views {
		out[i] = servers.OrderSummary{
			Id:                 view.ID.Bytes(),
			Status:             servers.OrderStatus(view.Status),
			VerificationStatus: view.VerificationStatus,
			TotalMinor:         view.TotalMinor,
			CreatedAt:          view.CreatedAt,
		}
	}
	return out
}

func originOrderResponse(view queries.GetOriginOrderQueryResponse) servers.OriginOrder {
	return servers.OriginOrder{
		Id:                 view.ID.Bytes(),
		OwnerId:            view.OwnerID,
		Milestone:          view.Milestone,
		MilestoneIndex:     view.MilestoneIndex,
		Milestones:         view.Milestones,
		IsActive:           view.IsActive,
		VerificationStatus: view.VerificationStatus,
		Items:              itemsResponse(view.Items),
		Pricing:            pricingResponse(view.Pricing),
		Address:            addressResponse(view.Address),
		TokenExpiry:        view.TokenExpiry,
		VerifiedAt:         view.VerifiedAt,
		CreatedAt:          view.CreatedAt,
		UpdatedAt:          view.UpdatedAt,
	}
}

func milestoneResponse(m origin.Milestone) servers.MilestoneProgress {
	return servers.MilestoneProgress{
		Milestone:      m.String(),
		MilestoneIndex: m.Index(),
		IsActive:       m.IsActive(),
	}
}

func ticketResponse(ticket services.DeliveryTicket) servers.DeliveryTicket {
	return servers.DeliveryTicket{
		Payload:          ticket.Payload,
		Token:            ticket.Token,
		IssuedAt:         ticket.IssuedAt,
		Expiry:           ticket.Expiry,
		VerificationCode: ticket.VerificationCode,
	}
}

func verificationResponse(result commands.VerificationResult) servers.VerificationResult {
	resp := servers.VerificationResult{
		Success:            result.Success,
		Status:             result.Status,
		VerificationStatus: result.VerificationStatus,
		VerifiedAt:         result.VerifiedAt,
	}
	if result.Reason != "" {
		reason := servers.VerificationResultReason(result.Reason)
		resp.Reason = &reason
	}
	return resp
}

func itemsResponse(views []queries.OrderItemView) []servers.OrderItem {
	out := make([]servers.OrderItem, len(views))
	for i, view := range views {
		item := servers.OrderItem{
			Kind:     servers.OrderItemKind(view.Kind),
			Quantity: view.Quantity,
		}
		switch item.Kind {
		case servers.Reference:
			item.ProductId = ptr(view.ProductID)
		case servers.Snapshot:
			item.Name = ptr(view.Name)
			price := view.PriceMinor
			item.PriceMinor = &price
			if view.ImageURL != "" {
				item.ImageUrl = ptr(view.ImageURL)
			}
		}
		out[i] = item
	}
	return out
}

func pricingResponse(view queries.PricingView) servers.Pricing {
	return servers.Pricing{
		SubtotalMinor:    view.SubtotalMinor,
		DeliveryFeeMinor: view.DeliveryFeeMinor,
		TotalMinor:       view.TotalMinor,
	}
}

func addressResponse(view queries.AddressView) servers.Address {
	resp := servers.Address{Line: view.Line, City: view.City}
	if view.Note != "" {
		resp.Note = ptr(view.Note)
	}
	return resp
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	return &s
}
