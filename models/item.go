package models

// Item is a single traded game tracked from the sender's hands to the final
// recipient. Id is the stable server key; AssignedTradeCode is the
// human-facing trade-linking code and is what matches an item across trades.
type Item struct {
	ID                int        `json:"id"`
	AssignedTradeCode int        `json:"assigned_trade_code"`
	Title             string     `json:"title"`
	Member            string     `json:"member"`
	Location          int        `json:"location"`
	LocationName      string     `json:"location_name"`
	Status            ItemStatus `json:"status"`
	BoxNumber         *int       `json:"box_number"`

	// ChangedBy is the id of the user whose action last moved the status.
	// Audit display only, never used for decisions.
	ChangedBy int `json:"changed_by,omitempty"`
}

func (i *Item) IsBoxed() bool {
	return i.BoxNumber != nil
}

// Boxable reports whether the item may be placed into a box at all:
// it has physically arrived at the organization and is not already packed.
func (i *Item) Boxable() bool {
	return i.Status == StatusReadyAtOrg && !i.IsBoxed()
}
