// Package models defines the receipt shapes exchanged with the data-entry layer.
//
// # Models
//
//   - Receipt: a receipt with its participant roster and line items
//   - Participant: a person who may owe money, identified by ID
//   - LineItem: one purchased item, split equally or through sub-items
//   - SubItem: a custom-assignable portion of a line item
//   - Payment: money a participant actually put down for a receipt
//
// Numeric fields (prices, quantities, tax, tip) are kept as the text the user
// typed. The calculator package parses them once, mapping malformed text to
// defaults, so nothing in this package validates them.
//
// Relationships use ID strings instead of pointers: items reference
// participants by ID and a reference to an unknown ID is not an error.
package models
