// Package api defines the request and response messages of
// receiptsplit.v1.SplitService and the JSON codec they travel with.
//
// Input amounts are strings exactly as the user typed them. Output amounts
// are decimals, serialized as JSON strings and never rounded; rounding for
// display belongs to the client.
package api

import "github.com/shopspring/decimal"

// Participant is a person on the receipt's roster.
type Participant struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// SubItem is a custom-assignable portion of a line item.
type SubItem struct {
	Id             string   `json:"id"`
	Name           string   `json:"name"`
	Price          string   `json:"price"`
	ParticipantIds []string `json:"participant_ids,omitempty"`
}

// LineItem is one purchased item.
type LineItem struct {
	Id             string    `json:"id"`
	Name           string    `json:"name"`
	Price          string    `json:"price"`
	Quantity       string    `json:"quantity,omitempty"`
	SplitMode      string    `json:"split_mode,omitempty"` // "equal" (default) or "custom"
	ParticipantIds []string  `json:"participant_ids,omitempty"`
	SubItems       []SubItem `json:"sub_items,omitempty"`
}

// Receipt is the receipt to split.
type Receipt struct {
	Id           string        `json:"id,omitempty"`
	Title        string        `json:"title,omitempty"`
	Participants []Participant `json:"participants"`
	Items        []LineItem    `json:"items"`
	Tax          string        `json:"tax,omitempty"`
	Tip          string        `json:"tip,omitempty"`
}

// BillLine is one allocated charge on a participant's bill.
type BillLine struct {
	ItemId    string          `json:"item_id"`
	SubItemId string          `json:"sub_item_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// Bill is one participant's itemized bill.
type Bill struct {
	Participant Participant     `json:"participant"`
	Lines       []BillLine      `json:"lines"`
	Total       decimal.Decimal `json:"total"`
}

// UnallocatedEntry is an item or sub-item nobody was assigned to.
type UnallocatedEntry struct {
	ItemId      string          `json:"item_id"`
	SubItemId   string          `json:"sub_item_id,omitempty"`
	Name        string          `json:"name"`
	SubItemName string          `json:"sub_item_name,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// ExtraShare is a participant's total including their share of tax and tip.
type ExtraShare struct {
	ParticipantId string          `json:"participant_id"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Tip           decimal.Decimal `json:"tip"`
	Total         decimal.Decimal `json:"total"`
}

type CalculateBillsRequest struct {
	// Receipt may be omitted; the response is then empty.
	Receipt *Receipt `json:"receipt,omitempty"`

	// IncludeExtras asks for tax and tip to be pro-rated into Extras.
	// Bills and GrandTotal never include them.
	IncludeExtras bool `json:"include_extras,omitempty"`
}

type CalculateBillsResponse struct {
	CalculationId string             `json:"calculation_id"`
	Bills         []Bill             `json:"bills"`
	GrandTotal    decimal.Decimal    `json:"grand_total"`
	Unallocated   []UnallocatedEntry `json:"unallocated,omitempty"`
	Extras        []ExtraShare       `json:"extras,omitempty"`
}

// Payment is money a participant put down for the receipt.
type Payment struct {
	ParticipantId string `json:"participant_id"`
	Amount        string `json:"amount"`
}

// Transfer is a payment one participant owes another.
type Transfer struct {
	FromId string          `json:"from_id"`
	ToId   string          `json:"to_id"`
	Amount decimal.Decimal `json:"amount"`
}

type SettleUpRequest struct {
	Receipt       *Receipt  `json:"receipt,omitempty"`
	Payments      []Payment `json:"payments"`
	IncludeExtras bool      `json:"include_extras,omitempty"`
}

type SettleUpResponse struct {
	CalculationId string          `json:"calculation_id"`
	Transfers     []Transfer      `json:"transfers"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}
