package logistics_test

import (
	"context"
	"errors"
	"sync"

	"github.com/fesgura/mathtrade-logistics-sub000/models"
	"github.com/fesgura/mathtrade-logistics-sub000/utils"
)

// fakeServer simulates the authoritative server for component tests: it
// applies mutations to its own state so reconciling refetches observe the
// same truth a real backend would report.
type fakeServer struct {
	mu sync.Mutex

	items   []models.Item
	boxes   []models.Box
	trades  []models.Trade
	windows []models.Window
	users   []models.WindowUser

	failPatch  bool
	failCreate bool
	failBulk   bool

	patchCalls [][]int
	bulkCalls  [][]int
	nextBoxId  int
	fetchBoxes int
}

func (f *fakeServer) FetchItems(ctx context.Context) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Item(nil), f.items...), nil
}

func (f *fakeServer) FetchBoxes(ctx context.Context) ([]models.Box, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchBoxes++
	out := make([]models.Box, len(f.boxes))
	for i := range f.boxes {
		out[i] = f.boxes[i]
		out[i].Items = append([]models.Item(nil), f.boxes[i].Items...)
		out[i].SelectedItemIds = nil
	}
	return out, nil
}

func (f *fakeServer) CreateBox(ctx context.Context, destinationId int, itemIds []int) (*models.Box, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return nil, errors.New("create failed")
	}
	f.nextBoxId++
	box := models.Box{
		ID:            f.nextBoxId,
		Number:        utils.NewInt(f.nextBoxId),
		DestinationID: destinationId,
	}
	f.boxes = append(f.boxes, box)
	f.applyMembershipLocked(box.ID, itemIds)
	created := f.boxes[len(f.boxes)-1]
	return &created, nil
}

func (f *fakeServer) DeleteBox(ctx context.Context, boxId int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.boxes[:0]
	for i := range f.boxes {
		if f.boxes[i].ID == boxId {
			for _, item := range f.boxes[i].Items {
				f.unboxItemLocked(item.ID)
			}
			continue
		}
		kept = append(kept, f.boxes[i])
	}
	f.boxes = kept
	return nil
}

func (f *fakeServer) UpdateBoxItems(ctx context.Context, boxId int, itemIds []int) (*models.Box, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patchCalls = append(f.patchCalls, append([]int(nil), itemIds...))
	if f.failPatch {
		return nil, errors.New("patch failed")
	}
	f.applyMembershipLocked(boxId, itemIds)
	for i := range f.boxes {
		if f.boxes[i].ID == boxId {
			box := f.boxes[i]
			return &box, nil
		}
	}
	return nil, errors.New("box not found")
}

func (f *fakeServer) applyMembershipLocked(boxId int, itemIds []int) {
	for i := range f.boxes {
		if f.boxes[i].ID != boxId {
			continue
		}
		box := &f.boxes[i]
		for _, item := range box.Items {
			f.unboxItemLocked(item.ID)
		}
		box.Items = nil
		for _, id := range itemIds {
			for j := range f.items {
				if f.items[j].ID == id {
					f.items[j].BoxNumber = utils.NewInt(utils.DereferencePtr(box.Number))
					box.Items = append(box.Items, f.items[j])
				}
			}
		}
		return
	}
}

func (f *fakeServer) unboxItemLocked(itemId int) {
	for j := range f.items {
		if f.items[j].ID == itemId {
			f.items[j].BoxNumber = nil
		}
	}
}

func (f *fakeServer) FetchTrades(ctx context.Context) ([]models.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Trade(nil), f.trades...), nil
}

func (f *fakeServer) BulkUpdateItemStatus(ctx context.Context, assignedTradeCodes []int, status models.ItemStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkCalls = append(f.bulkCalls, append([]int(nil), assignedTradeCodes...))
	if f.failBulk {
		return errors.New("bulk update failed")
	}
	acted := make(map[int]bool, len(assignedTradeCodes))
	for _, code := range assignedTradeCodes {
		acted[code] = true
	}
	for i := range f.trades {
		if acted[f.trades[i].Result.AssignedTradeCode] {
			f.trades[i].Result.StatusDisplay = status.Display()
		}
	}
	return nil
}

func (f *fakeServer) FetchWindows(ctx context.Context) ([]models.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Window(nil), f.windows...), nil
}

func (f *fakeServer) FetchReadyToPickup(ctx context.Context) ([]models.WindowUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.WindowUser(nil), f.users...), nil
}

func (f *fakeServer) UpdateWindowUserStatus(ctx context.Context, userId int, status models.WindowUserStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == userId {
			f.users[i].Status = status
		}
	}
	return nil
}

// fakeSession is a canned SessionProvider.
type fakeSession struct {
	authenticated bool
	userId        int
	isAdmin       bool
}

func (s *fakeSession) IsAuthenticated() bool { return s.authenticated }
func (s *fakeSession) Token() string         { return "test-token" }
func (s *fakeSession) UserId() int           { return s.userId }
func (s *fakeSession) IsAdmin() bool         { return s.isAdmin }
