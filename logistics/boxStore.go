package logistics

import (
	"context"
	"fmt"
	"sync"

	"github.com/fesgura/mathtrade-logistics-sub000/api"
	"github.com/fesgura/mathtrade-logistics-sub000/config"
	"github.com/fesgura/mathtrade-logistics-sub000/models"
	"github.com/fesgura/mathtrade-logistics-sub000/utils"
	"github.com/sirupsen/logrus"
)

// BoxAPI is the slice of the server API the box store needs.
type BoxAPI interface {
	FetchItems(ctx context.Context) ([]models.Item, error)
	FetchBoxes(ctx context.Context) ([]models.Box, error)
	CreateBox(ctx context.Context, destinationId int, itemIds []int) (*models.Box, error)
	DeleteBox(ctx context.Context, boxId int) error
	UpdateBoxItems(ctx context.Context, boxId int, itemIds []int) (*models.Box, error)
}

// BoxStore mirrors the server's boxes and unpacked items and is the only
// place either collection is mutated locally. Creation applies its result
// optimistically; add/remove/delete confirm against the server first so an
// item is never shown boxed and then yanked back out on failure. Every
// successful mutation schedules a reconciling refetch, which bounds how
// stale the projection can get to one round-trip.
type BoxStore struct {
	mu      sync.Mutex
	api     BoxAPI
	logger  *logrus.Logger
	notices *NoticeBoard
	refresh *refresher

	items []models.Item
	boxes []models.Box
}

func NewBoxStore(boxAPI BoxAPI) *BoxStore {
	logger := config.GetLogger()
	return &BoxStore{
		api:     boxAPI,
		logger:  logger,
		notices: NewNoticeBoard(),
		refresh: newRefresher(logger),
	}
}

func (s *BoxStore) Notices() *NoticeBoard { return s.notices }

// Load replaces the whole projection from the server. Selections on boxes
// that survived the fetch are carried over; a box the server replaced starts
// with an empty selection set.
func (s *BoxStore) Load(ctx context.Context) error {
	items, err := s.api.FetchItems(ctx)
	if err != nil {
		return err
	}
	boxes, err := s.api.FetchBoxes(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	previous := make(map[int]map[int]bool, len(s.boxes))
	for i := range s.boxes {
		if len(s.boxes[i].SelectedItemIds) > 0 {
			previous[s.boxes[i].ID] = s.boxes[i].SelectedItemIds
		}
	}
	for i := range boxes {
		if sel, ok := previous[boxes[i].ID]; ok {
			kept := make(map[int]bool)
			for id := range sel {
				if boxes[i].ContainsItem(id) {
					kept[id] = true
				}
			}
			if len(kept) > 0 {
				boxes[i].SelectedItemIds = kept
			}
		}
	}
	s.items = items
	s.boxes = boxes
	return nil
}

// Items returns a copy of the mirrored item list.
func (s *BoxStore) Items() []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Item(nil), s.items...)
}

// Boxes returns a deep-enough copy of the mirrored boxes for rendering.
func (s *BoxStore) Boxes() []models.Box {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyBoxes(s.boxes)
}

// Buckets recomputes the destination partition from the current items.
func (s *BoxStore) Buckets() DestinationBuckets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AggregateDestinations(s.items)
}

func (s *BoxStore) FindBox(boxId int) (*models.Box, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.boxes {
		if s.boxes[i].ID == boxId {
			box := s.boxes[i]
			box.Items = append([]models.Item(nil), s.boxes[i].Items...)
			return &box, true
		}
	}
	return nil, false
}

// CreateEmptyBox opens a new box for a destination that has something to
// pack. This is the one optimistic-apply operation: the created box is
// inserted locally as soon as the server confirms, enriched with the
// destination name looked up from the mirrored items, and the reconciling
// refetch runs behind it.
func (s *BoxStore) CreateEmptyBox(ctx context.Context, destinationId int) (*models.Box, error) {
	if err := s.requireReadyItemAt(destinationId); err != nil {
		s.notices.SetError(api.PublicMessage(err))
		return nil, err
	}

	box, err := s.api.CreateBox(ctx, destinationId, nil)
	if err != nil {
		s.notices.SetError(api.PublicMessage(err))
		return nil, err
	}

	s.mu.Lock()
	box.DestinationID = destinationId
	if box.DestinationName == "" {
		box.DestinationName = s.locationNameLocked(destinationId)
	}
	s.boxes = append(s.boxes, *box)
	s.mu.Unlock()

	s.scheduleReload(ctx, "CreateEmptyBox")
	s.notices.SetSuccess(fmt.Sprintf("Box created for %s", box.DestinationName))
	return box, nil
}

// DeleteBox removes the box server-side first. The items it held become
// unboxed on the server; that downstream effect is only observed through the
// refetch, never guessed locally.
func (s *BoxStore) DeleteBox(ctx context.Context, boxId int) error {
	if _, ok := s.FindBox(boxId); !ok {
		s.notices.SetError(api.PublicMessage(utils.ErrorRecordNotFound))
		return utils.ErrorRecordNotFound
	}
	if err := s.api.DeleteBox(ctx, boxId); err != nil {
		s.notices.SetError(api.PublicMessage(err))
		return err
	}

	s.mu.Lock()
	kept := s.boxes[:0]
	for i := range s.boxes {
		if s.boxes[i].ID != boxId {
			kept = append(kept, s.boxes[i])
		}
	}
	s.boxes = kept
	s.mu.Unlock()

	s.scheduleReload(ctx, "DeleteBox")
	s.notices.SetSuccess("Box deleted")
	return nil
}

// AddItemToBox submits the box's whole membership plus the new item, and
// applies the change locally only after the server confirms it.
func (s *BoxStore) AddItemToBox(ctx context.Context, boxId int, itemId int) error {
	box, ok := s.FindBox(boxId)
	if !ok {
		s.notices.SetError(api.PublicMessage(utils.ErrorRecordNotFound))
		return utils.ErrorRecordNotFound
	}
	item, ok := s.findItem(itemId)
	if !ok {
		s.notices.SetError(api.PublicMessage(utils.ErrorRecordNotFound))
		return utils.ErrorRecordNotFound
	}
	if err := box.CanAccept(item); err != nil {
		s.notices.SetError(err.Error())
		return err
	}

	newMembers := utils.MergeIntSlices(box.ItemIds(), []int{itemId})
	if _, err := s.api.UpdateBoxItems(ctx, boxId, newMembers); err != nil {
		s.notices.SetError(api.PublicMessage(err))
		return err
	}

	s.applyMembership(boxId, newMembers)
	s.scheduleReload(ctx, "AddItemToBox")
	s.notices.SetSuccess(fmt.Sprintf("%s added to box", item.Title))
	return nil
}

// BatchResult reports an all-or-nothing membership update: a failing PATCH
// fails the whole batch.
type BatchResult struct {
	Success int
	Errors  int
}

// AddMultipleItemsToBox adds the items in a single whole-membership PATCH.
// On success the box's selection set is cleared; on failure neither the box
// nor any target item changes locally.
func (s *BoxStore) AddMultipleItemsToBox(ctx context.Context, boxId int, itemIds []int) (BatchResult, error) {
	itemIds = utils.UniqueSlice(itemIds)
	if len(itemIds) == 0 {
		s.notices.SetError(api.PublicMessage(utils.ErrorNoSelection))
		return BatchResult{}, utils.ErrorNoSelection
	}
	box, ok := s.FindBox(boxId)
	if !ok {
		s.notices.SetError(api.PublicMessage(utils.ErrorRecordNotFound))
		return BatchResult{Errors: len(itemIds)}, utils.ErrorRecordNotFound
	}
	for _, itemId := range itemIds {
		item, ok := s.findItem(itemId)
		if !ok {
			s.notices.SetError(api.PublicMessage(utils.ErrorRecordNotFound))
			return BatchResult{Errors: len(itemIds)}, utils.ErrorRecordNotFound
		}
		if err := box.CanAccept(item); err != nil {
			s.notices.SetError(err.Error())
			return BatchResult{Errors: len(itemIds)}, err
		}
	}

	newMembers := utils.MergeIntSlices(box.ItemIds(), itemIds)
	if _, err := s.api.UpdateBoxItems(ctx, boxId, newMembers); err != nil {
		s.notices.SetError(api.PublicMessage(err))
		return BatchResult{Errors: len(itemIds)}, err
	}

	s.applyMembership(boxId, newMembers)
	s.clearSelection(boxId)
	s.scheduleReload(ctx, "AddMultipleItemsToBox")
	s.notices.SetSuccess(fmt.Sprintf("%d items added to box", len(itemIds)))
	return BatchResult{Success: len(itemIds)}, nil
}

// RemoveItemFromBox submits the membership without the item and clears the
// item's box number locally once the server confirms.
func (s *BoxStore) RemoveItemFromBox(ctx context.Context, boxId int, itemId int) error {
	box, ok := s.FindBox(boxId)
	if !ok {
		s.notices.SetError(api.PublicMessage(utils.ErrorRecordNotFound))
		return utils.ErrorRecordNotFound
	}
	if !box.ContainsItem(itemId) {
		s.notices.SetError(api.PublicMessage(utils.ErrorRecordNotFound))
		return utils.ErrorRecordNotFound
	}

	newMembers := utils.RemoveIntFromSlice(box.ItemIds(), itemId)
	if _, err := s.api.UpdateBoxItems(ctx, boxId, newMembers); err != nil {
		s.notices.SetError(api.PublicMessage(err))
		return err
	}

	s.applyMembership(boxId, newMembers)
	s.scheduleReload(ctx, "RemoveItemFromBox")
	s.notices.SetSuccess("Item removed from box")
	return nil
}

func (s *BoxStore) ToggleItemSelection(boxId int, itemId int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.boxes {
		if s.boxes[i].ID == boxId {
			s.boxes[i].ToggleItemSelection(itemId)
			return
		}
	}
}

// WaitForReconciliation blocks until pending background refetches finish.
// Deterministic tests need it; interactive callers do not.
func (s *BoxStore) WaitForReconciliation() {
	s.refresh.wait()
}

func (s *BoxStore) scheduleReload(ctx context.Context, funcName string) {
	s.refresh.schedule(ctx, funcName, s.Load)
}

func (s *BoxStore) requireReadyItemAt(destinationId int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Location == destinationId && s.items[i].Boxable() {
			return nil
		}
	}
	return fmt.Errorf("no items ready to pack at destination %d", destinationId)
}

func (s *BoxStore) locationNameLocked(destinationId int) string {
	for i := range s.items {
		if s.items[i].Location == destinationId {
			return s.items[i].LocationName
		}
	}
	return ""
}

func (s *BoxStore) findItem(itemId int) (*models.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == itemId {
			item := s.items[i]
			return &item, true
		}
	}
	return nil, false
}

// applyMembership rewrites one box's item list to exactly the given ids and
// keeps each item's BoxNumber in step. Items entering the box are looked up
// in the mirrored pool; items leaving it go back to unboxed.
func (s *BoxStore) applyMembership(boxId int, itemIds []int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var box *models.Box
	for i := range s.boxes {
		if s.boxes[i].ID == boxId {
			box = &s.boxes[i]
			break
		}
	}
	if box == nil {
		return
	}

	wanted := make(map[int]bool, len(itemIds))
	for _, id := range itemIds {
		wanted[id] = true
	}

	removed := make(map[int]bool)
	kept := make([]models.Item, 0, len(itemIds))
	for i := range box.Items {
		if wanted[box.Items[i].ID] {
			kept = append(kept, box.Items[i])
			delete(wanted, box.Items[i].ID)
		} else {
			removed[box.Items[i].ID] = true
		}
	}
	for i := range s.items {
		if wanted[s.items[i].ID] {
			s.items[i].BoxNumber = utils.NewInt(box.SortNumber())
			kept = append(kept, s.items[i])
		}
		if removed[s.items[i].ID] {
			s.items[i].BoxNumber = nil
		}
	}
	box.Items = kept
}

func (s *BoxStore) clearSelection(boxId int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.boxes {
		if s.boxes[i].ID == boxId {
			s.boxes[i].ClearSelection()
			return
		}
	}
}

func copyBoxes(boxes []models.Box) []models.Box {
	out := make([]models.Box, len(boxes))
	for i := range boxes {
		out[i] = boxes[i]
		out[i].Items = append([]models.Item(nil), boxes[i].Items...)
	}
	return out
}
