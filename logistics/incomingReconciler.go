package logistics

import (
	"context"
	"sort"
	"sync"

	"github.com/fesgura/mathtrade-logistics-sub000/models"
)

// IncomingBoxReconciler projects the boxes still awaiting review at the
// organization and keeps the operator's location/box filters valid across
// refetches. When a refetch removes whatever the operator had selected, the
// selection advances instead of dangling: next location alphabetically
// (wrapping to the first), first box of the resolved location.
//
// Item selections inside a box are client-only. The reconciler carries them
// across fetches of the same box but never clears them on behalf of the
// caller; changing filters is the caller's moment to ClearAllSelections.
type IncomingBoxReconciler struct {
	mu  sync.Mutex
	api IncomingBoxAPI

	boxes            []models.Box
	selectedLocation string
	selectedBoxId    int
}

// IncomingBoxAPI is the single read the reconciler depends on.
type IncomingBoxAPI interface {
	FetchBoxes(ctx context.Context) ([]models.Box, error)
}

func NewIncomingBoxReconciler(boxAPI IncomingBoxAPI) *IncomingBoxReconciler {
	return &IncomingBoxReconciler{api: boxAPI}
}

// needsReview keeps a box on the incoming list while there is anything left
// to receive: a brand-new empty box, or one holding at least one item that
// has not yet been received by the organization.
func needsReview(box *models.Box) bool {
	if len(box.Items) == 0 {
		return true
	}
	for i := range box.Items {
		if box.Items[i].Status != models.StatusReadyAtOrg &&
			box.Items[i].Status != models.StatusDeliveredToRecipient {
			return true
		}
	}
	return false
}

// Refresh refetches, refilters, and re-resolves both filters.
func (r *IncomingBoxReconciler) Refresh(ctx context.Context) error {
	fetched, err := r.api.FetchBoxes(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous := make(map[int]map[int]bool, len(r.boxes))
	for i := range r.boxes {
		if len(r.boxes[i].SelectedItemIds) > 0 {
			previous[r.boxes[i].ID] = r.boxes[i].SelectedItemIds
		}
	}

	boxes := make([]models.Box, 0, len(fetched))
	for i := range fetched {
		if !needsReview(&fetched[i]) {
			continue
		}
		box := fetched[i]
		// A refetched box is a new object with an empty selection set;
		// carry the old selections over for ids still in the box.
		if sel, ok := previous[box.ID]; ok {
			kept := make(map[int]bool)
			for id := range sel {
				if box.ContainsItem(id) {
					kept[id] = true
				}
			}
			if len(kept) > 0 {
				box.SelectedItemIds = kept
			}
		}
		boxes = append(boxes, box)
	}
	r.boxes = boxes

	r.selectedLocation = resolveLocation(r.locationsLocked(), r.selectedLocation)
	r.selectedBoxId = resolveBox(r.visibleBoxesLocked(), r.selectedBoxId)
	return nil
}

// resolveLocation keeps the current location if it still exists, otherwise
// advances to the next one alphabetically, wrapping to the first. An empty
// location list clears the selection.
func resolveLocation(locations []string, current string) string {
	if len(locations) == 0 {
		return ""
	}
	for _, loc := range locations {
		if loc == current {
			return current
		}
	}
	for _, loc := range locations {
		if loc > current {
			return loc
		}
	}
	return locations[0]
}

// resolveBox keeps the current box if it still resolves within the visible
// list, else picks the first visible box, else clears.
func resolveBox(boxes []models.Box, currentId int) int {
	for i := range boxes {
		if boxes[i].ID == currentId {
			return currentId
		}
	}
	if len(boxes) > 0 {
		return boxes[0].ID
	}
	return 0
}

func (r *IncomingBoxReconciler) locationsLocked() []string {
	seen := make(map[string]bool)
	var locations []string
	for i := range r.boxes {
		name := r.boxes[i].DestinationName
		if !seen[name] {
			seen[name] = true
			locations = append(locations, name)
		}
	}
	sort.Strings(locations)
	return locations
}

func (r *IncomingBoxReconciler) visibleBoxesLocked() []models.Box {
	var visible []models.Box
	for i := range r.boxes {
		if r.boxes[i].DestinationName == r.selectedLocation {
			visible = append(visible, r.boxes[i])
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].SortNumber() < visible[j].SortNumber()
	})
	return visible
}

func (r *IncomingBoxReconciler) Locations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.locationsLocked()
}

func (r *IncomingBoxReconciler) SelectedLocation() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selectedLocation
}

func (r *IncomingBoxReconciler) SelectedBoxId() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selectedBoxId
}

// VisibleBoxes lists the boxes at the selected location ordered by box
// number, unlabeled boxes first.
func (r *IncomingBoxReconciler) VisibleBoxes() []models.Box {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyBoxes(r.visibleBoxesLocked())
}

// SelectLocation switches the location filter and re-pins the box filter.
// Callers changing filters are responsible for ClearAllSelections.
func (r *IncomingBoxReconciler) SelectLocation(location string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selectedLocation = resolveLocation(r.locationsLocked(), location)
	r.selectedBoxId = resolveBox(r.visibleBoxesLocked(), 0)
}

func (r *IncomingBoxReconciler) SelectBox(boxId int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selectedBoxId = resolveBox(r.visibleBoxesLocked(), boxId)
}

func (r *IncomingBoxReconciler) ToggleItemSelection(boxId int, itemId int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.boxes {
		if r.boxes[i].ID == boxId {
			r.boxes[i].ToggleItemSelection(itemId)
			return
		}
	}
}

func (r *IncomingBoxReconciler) ClearAllSelections() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.boxes {
		r.boxes[i].ClearSelection()
	}
}
