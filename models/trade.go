package models

// TradeResult is the item-side of a trade as the trade endpoints report it:
// the trade-linking code plus a display status string instead of the raw code.
type TradeResult struct {
	AssignedTradeCode int    `json:"assigned_trade_code"`
	Title             string `json:"title"`
	StatusDisplay     string `json:"status"`
}

// Trade is the delivery/receipt unit shown to volunteers: what game changes
// hands and which member receives it. It is a projection over the same item
// the logistics endpoints track; it has no lifecycle of its own here.
type Trade struct {
	ID     int         `json:"id"`
	Result TradeResult `json:"result"`
	Member string      `json:"member"`
}

// Status resolves the display string back to the closed status enum.
func (t *Trade) Status() (ItemStatus, error) {
	return ParseItemStatusDisplay(t.Result.StatusDisplay)
}
