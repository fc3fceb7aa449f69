package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/models"
)

// subItemSuffix marks bill lines derived from a sub-item.
const subItemSuffix = " (Subitem)"

// Bounds on amounts accepted from user text. Exponents or coefficients beyond
// these make decimal arithmetic rescale to arbitrary size.
const (
	maxExponent = 32
	maxDigits   = 40
)

// ErrAmountOutOfRange is returned for amounts whose scale or precision is
// beyond anything a receipt can hold.
var ErrAmountOutOfRange = errors.New("amount out of range")

// ParseAmount parses a decimal amount typed by the user. Text that is not a
// number, or whose exponent or digit count is out of range, is an error.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if exp := d.Exponent(); exp < -maxExponent || exp > maxExponent || d.NumDigits() > maxDigits {
		return decimal.Zero, fmt.Errorf("%w: '%s'", ErrAmountOutOfRange, s)
	}
	return d, nil
}

// ParsePrice parses a monetary amount typed by the user.
// Empty, non-numeric or out-of-range text yields zero.
func ParsePrice(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseQuantity parses an item quantity. Anything that is not a positive
// whole number yields 1.
func ParseQuantity(s string) int64 {
	s = strings.TrimSpace(s)
	if q, err := strconv.ParseInt(s, 10, 64); err == nil {
		if q < 1 {
			return 1
		}
		return q
	}
	// Accept "2.0" from numeric inputs that always render a fraction.
	d, err := ParseAmount(s)
	if err != nil || !d.IsInteger() || !d.IsPositive() || !d.BigInt().IsInt64() {
		return 1
	}
	return d.IntPart()
}

// portion is one independently assigned piece of a receipt after parsing:
// an equal-split line item or a single sub-item of a custom-split one.
type portion struct {
	itemID    string
	subItemID string
	name      string
	subName   string
	quantity  int64
	price     decimal.Decimal
	unitPrice decimal.Decimal
	assignees []string
}

// normalize parses every numeric field once and flattens the receipt's items
// into portions in processing order.
func normalize(items []models.LineItem) []portion {
	portions := make([]portion, 0, len(items))
	for _, item := range items {
		if item.SplitMode == models.SplitCustom {
			for _, sub := range item.SubItems {
				price := ParsePrice(sub.Price)
				portions = append(portions, portion{
					itemID:    item.ID,
					subItemID: sub.ID,
					name:      item.Name + subItemSuffix,
					subName:   sub.Name,
					quantity:  1,
					price:     price,
					unitPrice: price,
					assignees: uniqueIDs(sub.AssignedTo),
				})
			}
			continue
		}

		price := ParsePrice(item.Price)
		quantity := ParseQuantity(item.Quantity)
		portions = append(portions, portion{
			itemID:    item.ID,
			name:      item.Name,
			quantity:  quantity,
			price:     price,
			unitPrice: price.Div(decimal.NewFromInt(quantity)),
			assignees: uniqueIDs(item.AssignedTo),
		})
	}
	return portions
}

// uniqueIDs drops repeated IDs, keeping first occurrences in order.
func uniqueIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
