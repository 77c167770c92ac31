package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Item is a value object describing one order line.
// Only the quantity participates in fulfillment (package computation);
// product data is owned by the out-of-scope catalog.
type Item struct {
	id       kernel.UUID
	quantity int
}

// NewItem creates an order line with a positive quantity.
func NewItem(id kernel.UUID, quantity int) (Item, error) {
	if err := id.Validate(); err != nil {
		return Item{}, err
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return Item{id: id, quantity: quantity}, nil
}

// ID returns the order line identifier.
func (i Item) ID() kernel.UUID {
	return i.id
}

// Quantity returns the number of units on this line.
func (i Item) Quantity() int {
	return i.quantity
}
