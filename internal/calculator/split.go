package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/models"
)

// BillLine is one allocated charge on a participant's bill.
type BillLine struct {
	ItemID    string
	SubItemID string // empty for equal-split lines

	// Name is the item name, suffixed with " (Subitem)" for sub-item lines.
	Name string

	// Quantity is the item's quantity for equal-split lines and 1 for sub-item lines.
	Quantity int64

	// UnitPrice is informational: price ÷ quantity, or the sub-item price.
	UnitPrice decimal.Decimal

	// Amount is this participant's share of the item.
	Amount decimal.Decimal
}

// Bill is the computed result for one participant.
type Bill struct {
	Participant models.Participant
	Lines       []BillLine
	Total       decimal.Decimal
}

// Unallocated describes an item or sub-item that nobody was assigned to.
// Its price is not part of any bill nor of the grand total.
type Unallocated struct {
	ItemID      string
	SubItemID   string
	Name        string
	SubItemName string
	Amount      decimal.Decimal
}

// Result is the output of ComputeBills.
type Result struct {
	// Bills has one entry per roster participant, in roster order.
	Bills []Bill

	// GrandTotal is the sum of all bill totals.
	GrandTotal decimal.Decimal

	// Unallocated lists skipped items and sub-items in input order.
	Unallocated []Unallocated
}

// ComputeBills distributes each line item of the receipt over the participants
// assigned to it and returns one itemized bill per roster participant.
//
// Algorithm:
//   - equal items: share = price / len(assignees), one line per assignee
//   - custom items: the same rule per sub-item; the item's own price and
//     assignees are ignored
//   - portions with no assignees are skipped and reported as Unallocated
//   - assignee IDs missing from the roster are ignored, but still count
//     towards the divisor
//
// Shares are exact decimal quotients; nothing is rounded to cents here.
// A nil receipt yields an empty result. ComputeBills never fails and never
// modifies the receipt.
func ComputeBills(receipt *models.Receipt) Result {
	if receipt == nil {
		return Result{Bills: []Bill{}, GrandTotal: decimal.Zero}
	}

	bills := make([]Bill, len(receipt.Participants))
	index := make(map[string]int, len(receipt.Participants))
	for i, p := range receipt.Participants {
		bills[i] = Bill{Participant: p, Total: decimal.Zero}
		// First roster entry wins on duplicate IDs
		if _, exists := index[p.ID]; !exists {
			index[p.ID] = i
		}
	}

	var unallocated []Unallocated
	for _, part := range normalize(receipt.Items) {
		if len(part.assignees) == 0 {
			unallocated = append(unallocated, Unallocated{
				ItemID:      part.itemID,
				SubItemID:   part.subItemID,
				Name:        part.name,
				SubItemName: part.subName,
				Amount:      part.price,
			})
			continue
		}

		share := part.price.Div(decimal.NewFromInt(int64(len(part.assignees))))
		for _, id := range part.assignees {
			i, exists := index[id]
			if !exists {
				continue
			}
			bills[i].Lines = append(bills[i].Lines, BillLine{
				ItemID:    part.itemID,
				SubItemID: part.subItemID,
				Name:      part.name,
				Quantity:  part.quantity,
				UnitPrice: part.unitPrice,
				Amount:    share,
			})
			bills[i].Total = bills[i].Total.Add(share)
		}
	}

	grandTotal := decimal.Zero
	for _, bill := range bills {
		grandTotal = grandTotal.Add(bill.Total)
	}

	return Result{
		Bills:       bills,
		GrandTotal:  grandTotal,
		Unallocated: unallocated,
	}
}

// Owed returns each participant's bill total as a Share, in roster order.
func (r Result) Owed() []Share {
	shares := make([]Share, len(r.Bills))
	for i, bill := range r.Bills {
		shares[i] = Share{ParticipantID: bill.Participant.ID, Amount: bill.Total}
	}
	return shares
}

// UnallocatedTotal sums the prices of everything that was left unassigned.
func (r Result) UnallocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, u := range r.Unallocated {
		total = total.Add(u.Amount)
	}
	return total
}
