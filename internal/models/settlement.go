package models

// Payment records money a participant put down toward a receipt,
// e.g. the person who handed over the card at the restaurant.
type Payment struct {
	// ParticipantID is the roster ID of the person who paid.
	ParticipantID string

	// Amount is the paid amount as entered.
	Amount string
}
