package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tair/batch-inventory/internal/inventory/domain"
)

// ProductCheck is the outcome of a product reference lookup. Valid is false
// when no product has the requested id.
type ProductCheck struct {
	Product *domain.Product
	Valid   bool
}

// DateCheck carries a parsed date and whether it satisfies its range rule.
// Date is set even when Valid is false.
type DateCheck struct {
	Date  time.Time
	Valid bool
}

// Clock supplies the current instant and the location that defines "today"
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock returns a Clock backed by time.Now in loc
func SystemClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return domain.Today(now(), c.Location)
}

// ValidateCode rejects an absent or non-positive batch code
func (h *RecordEntryHandler) ValidateCode(code *int) error {
	if code == nil {
		return domain.InvalidInput("the batch code cannot be null")
	}
	if *code <= 0 {
		return domain.InvalidInput("the batch code cannot be less than or equal to zero")
	}
	return nil
}

// ValidateProduct rejects an absent or non-positive product id, then looks
// the product up. A missing product is reported through ProductCheck.Valid.
func (h *RecordEntryHandler) ValidateProduct(ctx context.Context, productID *int) (ProductCheck, error) {
	if productID == nil {
		return ProductCheck{}, domain.InvalidInput("product ID cannot be null")
	}
	if *productID <= 0 {
		return ProductCheck{}, domain.InvalidInput("product ID must be greater than zero")
	}

	product, err := h.products.FindByID(ctx, uint(*productID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ProductCheck{Valid: false}, nil
		}
		return ProductCheck{}, fmt.Errorf("failed to look up product: %w", err)
	}

	return ProductCheck{Product: product, Valid: true}, nil
}

// ValidateProductionDate parses text and reports whether it is not after today
func (h *RecordEntryHandler) ValidateProductionDate(text string) (DateCheck, error) {
	if text == "" {
		return DateCheck{}, domain.InvalidInput("production date string cannot be null or empty")
	}

	date, err := domain.ParseDate(text)
	if err != nil {
		return DateCheck{}, domain.InvalidInput("invalid production date format, must be in the format 'yyyy-MM-dd'")
	}

	return DateCheck{Date: date, Valid: !date.After(h.clock.today())}, nil
}

// ValidateExpirationDate parses text and reports whether it is not before today
func (h *RecordEntryHandler) ValidateExpirationDate(text string) (DateCheck, error) {
	if text == "" {
		return DateCheck{}, domain.InvalidInput("expiration date string cannot be null or empty")
	}

	date, err := domain.ParseDate(text)
	if err != nil {
		return DateCheck{}, domain.InvalidInput("invalid expiration date format, must be in the format 'yyyy-MM-dd'")
	}

	return DateCheck{Date: date, Valid: !date.Before(h.clock.today())}, nil
}

// ValidateQuantity rejects an absent or non-positive batch quantity
func (h *RecordEntryHandler) ValidateQuantity(quantity *int) error {
	if quantity == nil {
		return domain.InvalidInput("the amount of products in the batch cannot be null")
	}
	if *quantity <= 0 {
		return domain.InvalidInput("the amount of products in the batch cannot be less than or equal to zero")
	}
	return nil
}
