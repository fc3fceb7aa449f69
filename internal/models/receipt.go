package models

// SplitMode selects how a line item's cost is divided.
type SplitMode string

const (
	// SplitEqual divides the item's price evenly among AssignedTo.
	SplitEqual SplitMode = "equal"

	// SplitCustom ignores the item's own price and assignees and divides each
	// SubItem among its own assignees instead.
	SplitCustom SplitMode = "custom"
)

// Receipt is the input to the split calculation as it arrives from the
// data-entry layer. Numeric fields are free-form text.
type Receipt struct {
	// ID is the receipt identifier. Informational only.
	ID string

	// Title is the display name of the receipt (e.g., "Friday dinner").
	Title string

	// Participants is the roster to produce bills for.
	// Output bills keep this order.
	Participants []Participant

	// Items are the purchased line items, processed in order.
	Items []LineItem

	// Tax and Tip are captured upstream. They are not part of the item
	// allocation and are only used when extras are requested explicitly.
	Tax string
	Tip string
}

// Participant is a person who may owe money on a receipt.
// Identity is by ID; names are not assumed unique.
type Participant struct {
	ID   string
	Name string
}

// LineItem is one purchased item on a receipt.
type LineItem struct {
	// ID is the unique identifier for the item.
	ID string

	// Name is the display name (e.g., "Pizza", "Beer").
	Name string

	// Price is the total price of the line, not the per-unit price.
	// Text that does not parse as a decimal counts as zero.
	Price string

	// Quantity is informational: it derives the unit price shown on a bill
	// line and never scales the allocated amount. Defaults to 1.
	Quantity string

	// SplitMode is SplitEqual or SplitCustom. Anything else is treated as equal.
	SplitMode SplitMode

	// AssignedTo holds participant IDs sharing the item in equal mode.
	AssignedTo []string

	// SubItems are the custom-assignable portions used in custom mode.
	SubItems []SubItem
}

// SubItem is a custom-assignable portion of a LineItem.
// Subitem prices are not checked against the parent's price.
type SubItem struct {
	ID         string
	Name       string
	Price      string
	AssignedTo []string
}
