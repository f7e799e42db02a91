package order

import (
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ItemRef identifies what was ordered. Persisted items either point at a catalog
// product or carry an inline snapshot of it; both forms are resolved into one of the
// two concrete types when the order is loaded, so callers switch on the type once:
//
//	switch ref := item.Ref().(type) {
//	case order.ProductReference:
//	    lookup(ref.ProductID())
//	case order.ProductSnapshot:
//	    render(ref.Name(), ref.Price())
//	}
type ItemRef interface {
	itemRef()
}

// ProductReference points at a catalog product by id.
type ProductReference struct {
	productID string
}

// NewProductReference validates the catalog id.
func NewProductReference(productID string) (ProductReference, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return ProductReference{}, errs.NewValueIsRequiredError("productID")
	}
	return ProductReference{productID: productID}, nil
}

func (ProductReference) itemRef() {}

func (r ProductReference) ProductID() string {
	return r.productID
}

// ProductSnapshot is the product as it looked at checkout time.
type ProductSnapshot struct {
	name     string
	price    kernel.Money
	imageURL string
}

// NewProductSnapshot validates the snapshot name; image is optional.
func NewProductSnapshot(name string, price kernel.Money, imageURL string) (ProductSnapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ProductSnapshot{}, errs.NewValueIsRequiredError("item name")
	}
	return ProductSnapshot{name: name, price: price, imageURL: strings.TrimSpace(imageURL)}, nil
}

func (ProductSnapshot) itemRef() {}

func (s ProductSnapshot) Name() string {
	return s.name
}

func (s ProductSnapshot) Price() kernel.Money {
	return s.price
}

func (s ProductSnapshot) ImageURL() string {
	return s.imageURL
}

// Item is one line of an order.
type Item struct {
	ref      ItemRef
	quantity int
}

// NewItem requires a reference and a positive quantity.
func NewItem(ref ItemRef, quantity int) (Item, error) {
	if ref == nil {
		return Item{}, errs.NewValueIsRequiredError("item reference")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	return Item{ref: ref, quantity: quantity}, nil
}

func (i Item) Ref() ItemRef {
	return i.ref
}

func (i Item) Quantity() int {
	return i.quantity
}
