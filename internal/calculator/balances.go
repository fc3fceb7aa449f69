package calculator

import "github.com/shopspring/decimal"

// Share is an amount attributed to one participant.
type Share struct {
	ParticipantID string
	Amount        decimal.Decimal
}

// MemberBalance is the settlement position of one participant.
type MemberBalance struct {
	ParticipantID string
	TotalPaid     decimal.Decimal
	TotalOwed     decimal.Decimal
	NetBalance    decimal.Decimal // Positive = owed money, Negative = owes money
}

// Transfer is a payment from one participant to another.
type Transfer struct {
	FromID string // Person who owes
	ToID   string // Person who is owed
	Amount decimal.Decimal
}

// cent is the smallest residual worth a transfer.
var cent = decimal.New(1, -2)

// Balances nets what each participant paid against what they owe.
// Participants appear in order of first mention, owed before paid.
func Balances(owed, paid []Share) []MemberBalance {
	var order []string
	balances := make(map[string]*MemberBalance)
	get := func(id string) *MemberBalance {
		if bal, exists := balances[id]; exists {
			return bal
		}
		bal := &MemberBalance{
			ParticipantID: id,
			TotalPaid:     decimal.Zero,
			TotalOwed:     decimal.Zero,
		}
		balances[id] = bal
		order = append(order, id)
		return bal
	}

	for _, s := range owed {
		bal := get(s.ParticipantID)
		bal.TotalOwed = bal.TotalOwed.Add(s.Amount)
	}
	for _, s := range paid {
		bal := get(s.ParticipantID)
		bal.TotalPaid = bal.TotalPaid.Add(s.Amount)
	}

	out := make([]MemberBalance, len(order))
	for i, id := range order {
		bal := balances[id]
		bal.NetBalance = bal.TotalPaid.Sub(bal.TotalOwed)
		out[i] = *bal
	}
	return out
}

// Settle computes the transfers that clear the balances between what was
// owed and what was paid.
//
// Debtors are matched to creditors greedily in balance order. Residuals
// below one cent are treated as settled. When paid and owed don't add up to
// the same amount the leftover stays unmatched.
func Settle(owed, paid []Share) []Transfer {
	var debtors, creditors []MemberBalance
	for _, bal := range Balances(owed, paid) {
		switch {
		case bal.NetBalance.IsNegative():
			debtors = append(debtors, bal)
		case bal.NetBalance.IsPositive():
			creditors = append(creditors, bal)
		}
	}

	var transfers []Transfer
	debtorLeft := make([]decimal.Decimal, len(debtors))
	for i, d := range debtors {
		debtorLeft[i] = d.NetBalance.Neg()
	}
	creditorLeft := make([]decimal.Decimal, len(creditors))
	for j, c := range creditors {
		creditorLeft[j] = c.NetBalance
	}

	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		// Amount to settle is the smaller of what the debtor owes and the creditor is owed
		amount := decimal.Min(debtorLeft[i], creditorLeft[j])

		if amount.GreaterThanOrEqual(cent) {
			transfers = append(transfers, Transfer{
				FromID: debtors[i].ParticipantID,
				ToID:   creditors[j].ParticipantID,
				Amount: amount,
			})
		}

		debtorLeft[i] = debtorLeft[i].Sub(amount)
		creditorLeft[j] = creditorLeft[j].Sub(amount)

		if debtorLeft[i].LessThan(cent) {
			i++
		}
		if creditorLeft[j].LessThan(cent) {
			j++
		}
	}

	return transfers
}
