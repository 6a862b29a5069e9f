package models

import (
	"errors"
	"fmt"

	"github.com/fesgura/mathtrade-logistics-sub000/utils"
)

// Box is a physical transport container bound for exactly one destination.
// SelectedItemIds is client-only UI selection state; it never travels to the
// server and a fresh fetch replaces it with an empty set unless the caller
// carries it over explicitly.
type Box struct {
	ID              int    `json:"id"`
	Number          *int   `json:"number"`
	DestinationID   int    `json:"destination_id"`
	DestinationName string `json:"destination_name"`
	Items           []Item `json:"items"`

	SelectedItemIds map[int]bool `json:"-"`
}

func (b *Box) ContainsItem(itemId int) bool {
	for i := range b.Items {
		if b.Items[i].ID == itemId {
			return true
		}
	}
	return false
}

// ItemIds returns the full current membership, in box order. Membership
// updates are whole-list PATCHes, so every mutation starts from this.
func (b *Box) ItemIds() []int {
	ids := make([]int, 0, len(b.Items))
	for i := range b.Items {
		ids = append(ids, b.Items[i].ID)
	}
	return ids
}

// SortNumber treats an unlabeled box as number 0 for display ordering.
func (b *Box) SortNumber() int {
	return utils.DereferencePtr(b.Number)
}

func (b *Box) ToggleItemSelection(itemId int) {
	if b.SelectedItemIds == nil {
		b.SelectedItemIds = make(map[int]bool)
	}
	if b.SelectedItemIds[itemId] {
		delete(b.SelectedItemIds, itemId)
	} else {
		b.SelectedItemIds[itemId] = true
	}
}

func (b *Box) ClearSelection() {
	b.SelectedItemIds = nil
}

func (b *Box) SelectedIds() []int {
	ids := make([]int, 0, len(b.SelectedItemIds))
	for id := range b.SelectedItemIds {
		ids = append(ids, id)
	}
	return ids
}

var (
	ErrItemNotReady     = errors.New("item has not been received by the organization")
	ErrItemAlreadyBoxed = errors.New("item is already in a box")
)

// CanAccept enforces the packing invariants: only unpacked items already at
// the organization may enter a box, and the item's destination must match.
func (b *Box) CanAccept(item *Item) error {
	if item.IsBoxed() {
		return ErrItemAlreadyBoxed
	}
	if item.Status != StatusReadyAtOrg {
		return ErrItemNotReady
	}
	if item.Location != b.DestinationID {
		return fmt.Errorf("item is bound for %s, not %s", item.LocationName, b.DestinationName)
	}
	return nil
}
