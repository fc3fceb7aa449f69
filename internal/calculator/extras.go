package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/models"
)

// ExtraShare is one participant's bill total together with their portion of
// the receipt's tax and tip.
type ExtraShare struct {
	Participant models.Participant
	Subtotal    decimal.Decimal // the bill total from ComputeBills
	Tax         decimal.Decimal
	Tip         decimal.Decimal
	Total       decimal.Decimal // Subtotal + Tax + Tip
}

// ProrateExtras spreads tax and tip over the bills of res in proportion to
// each bill's total:
//
//	person_tax = person_subtotal × (tax / grand_total)
//
// If nothing was allocated (grand total zero) the extras are split equally
// across the roster. An empty roster yields nil. res is not modified.
func ProrateExtras(res Result, tax, tip decimal.Decimal) []ExtraShare {
	if len(res.Bills) == 0 {
		return nil
	}

	shares := make([]ExtraShare, len(res.Bills))
	headcount := decimal.NewFromInt(int64(len(res.Bills)))
	for i, bill := range res.Bills {
		share := ExtraShare{Participant: bill.Participant, Subtotal: bill.Total}
		if res.GrandTotal.IsZero() {
			share.Tax = tax.Div(headcount)
			share.Tip = tip.Div(headcount)
		} else {
			share.Tax = bill.Total.Mul(tax).Div(res.GrandTotal)
			share.Tip = bill.Total.Mul(tip).Div(res.GrandTotal)
		}
		share.Total = share.Subtotal.Add(share.Tax).Add(share.Tip)
		shares[i] = share
	}
	return shares
}

// OwedWithExtras returns the extras-inclusive totals as Shares, in order.
func OwedWithExtras(extras []ExtraShare) []Share {
	shares := make([]Share, len(extras))
	for i, e := range extras {
		shares[i] = Share{ParticipantID: e.Participant.ID, Amount: e.Total}
	}
	return shares
}
