package logistics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fesgura/mathtrade-logistics-sub000/config"
	"github.com/fesgura/mathtrade-logistics-sub000/models"
	"github.com/fesgura/mathtrade-logistics-sub000/utils"
	"github.com/sirupsen/logrus"
)

// settingsCheckInterval is the fast secondary tick that watches for an
// externally changed polling interval between two regular polls.
const settingsCheckInterval = 2 * time.Second

// WindowAPI is the slice of the server API the pickup organizer needs.
type WindowAPI interface {
	FetchWindows(ctx context.Context) ([]models.Window, error)
	FetchReadyToPickup(ctx context.Context) ([]models.WindowUser, error)
	UpdateWindowUserStatus(ctx context.Context, userId int, status models.WindowUserStatus) error
}

// WindowBucket is one pickup window's slice of the display: the users it
// shows (already ordered and truncated), the counts, and how many waiting
// users fell past the display limit.
type WindowBucket struct {
	Window   models.Window
	Users    []models.WindowUser
	Ready    int
	Attended int
	NoShow   int
	Total    int
	Overflow int
}

// WindowPickupOrganizer groups ready-to-pickup recipients by their assigned
// window for the hall displays. Two display variants share it: the
// single-limit one keeps fetch order with no-shows pushed last and omits
// empty windows, the capacity-aware one fully sorts by status then surname
// and keeps every configured window plus no unassigned bucket.
type WindowPickupOrganizer struct {
	mu       sync.Mutex
	api      WindowAPI
	settings *config.DisplaySettingsStore
	logger   *logrus.Logger
	refresh  *refresher

	capacityAware bool
	windows       []models.Window
	users         []models.WindowUser
}

func NewWindowPickupOrganizer(windowAPI WindowAPI, settings *config.DisplaySettingsStore, capacityAware bool) *WindowPickupOrganizer {
	logger := config.GetLogger()
	return &WindowPickupOrganizer{
		api:           windowAPI,
		settings:      settings,
		logger:        logger,
		refresh:       newRefresher(logger),
		capacityAware: capacityAware,
	}
}

// Load replaces the window configuration and the waiting-user list.
func (o *WindowPickupOrganizer) Load(ctx context.Context) error {
	windows, err := o.api.FetchWindows(ctx)
	if err != nil {
		return err
	}
	users, err := o.api.FetchReadyToPickup(ctx)
	if err != nil {
		return err
	}
	o.mu.Lock()
	o.windows = windows
	o.users = users
	o.mu.Unlock()
	return nil
}

// Buckets derives the per-window display state from the last fetch.
func (o *WindowPickupOrganizer) Buckets() []WindowBucket {
	o.mu.Lock()
	windows := append([]models.Window(nil), o.windows...)
	users := append([]models.WindowUser(nil), o.users...)
	o.mu.Unlock()

	known := make(map[int]int, len(windows)) // windowId -> bucket index
	buckets := make([]WindowBucket, 0, len(windows)+1)
	for _, w := range windows {
		known[w.ID] = len(buckets)
		buckets = append(buckets, WindowBucket{Window: w})
	}

	// The single-limit variant shows users whose windowId matches nothing
	// in an implicit unassigned bucket; the capacity variant drops them.
	unassigned := -1
	if !o.capacityAware {
		unassigned = len(buckets)
		buckets = append(buckets, WindowBucket{Window: models.Window{Name: "Unassigned"}})
	}

	for i := range users {
		user := users[i]
		if user.IsStaff() {
			continue
		}
		idx, ok := known[user.WindowId]
		if !ok {
			if unassigned < 0 {
				continue
			}
			idx = unassigned
		}
		b := &buckets[idx]
		b.Total++
		switch {
		case user.Status.IsNoShow():
			b.NoShow++
		case user.Status.IsAttended():
			b.Attended++
		default:
			b.Ready++
		}
		b.Users = append(b.Users, user)
	}

	out := make([]WindowBucket, 0, len(buckets))
	for i := range buckets {
		b := buckets[i]
		o.orderUsers(b.Users)
		maxUsers := o.settings.MaxUsers(b.Window.ID)
		if b.Total > maxUsers {
			b.Overflow = b.Total - maxUsers
			b.Users = b.Users[:maxUsers]
		}
		// Only the single-limit variant hides windows nobody is waiting at.
		if !o.capacityAware && len(b.Users) == 0 {
			continue
		}
		out = append(out, b)
	}
	return out
}

// orderUsers applies the variant's display order in place. Single-limit:
// stable partition, fetch order kept, no-shows appended last. Capacity:
// full sort by status priority, then surname.
func (o *WindowPickupOrganizer) orderUsers(users []models.WindowUser) {
	if o.capacityAware {
		sort.SliceStable(users, func(i, j int) bool {
			pi, pj := users[i].Status.DisplayPriority(), users[j].Status.DisplayPriority()
			if pi != pj {
				return pi < pj
			}
			return users[i].LastName < users[j].LastName
		})
		return
	}
	sort.SliceStable(users, func(i, j int) bool {
		return !users[i].Status.IsNoShow() && users[j].Status.IsNoShow()
	})
}

// MarkUserStatus requests a server-driven status transition for a waiting
// user and reconciles behind it.
func (o *WindowPickupOrganizer) MarkUserStatus(ctx context.Context, userId int, status models.WindowUserStatus) error {
	if err := o.api.UpdateWindowUserStatus(ctx, userId, status); err != nil {
		return err
	}
	o.mu.Lock()
	for i := range o.users {
		if o.users[i].ID == userId {
			o.users[i].Status = status
			break
		}
	}
	o.mu.Unlock()
	o.refresh.schedule(ctx, "MarkUserStatus", o.Load)
	return nil
}

// WaitForReconciliation blocks until pending background refetches finish.
func (o *WindowPickupOrganizer) WaitForReconciliation() {
	o.refresh.wait()
}

// Run polls the server until the context ends. A faster secondary tick
// rereads the configured interval; when it changed externally the organizer
// does a full reload and restarts its ticker rather than resubscribing
// silently, trading a visible refresh blip for guaranteed consistency.
func (o *WindowPickupOrganizer) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	interval := o.settings.PollingInterval()
	poll := time.NewTicker(interval)
	check := time.NewTicker(settingsCheckInterval)
	defer poll.Stop()
	defer check.Stop()

	o.loadLogged(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			o.loadLogged(ctx)
		case <-check.C:
			current := o.settings.PollingInterval()
			if current != interval {
				interval = current
				poll.Reset(interval)
				o.loadLogged(ctx)
			}
		}
	}
}

func (o *WindowPickupOrganizer) loadLogged(ctx context.Context) {
	if err := o.Load(ctx); err != nil {
		config.LogError(o.logger, "logistics", "WindowPickupOrganizer.Run", "poll", nil, err)
	}
}

// ReadyUserNames is a convenience for the simplest display: who to call
// next, capped by the window's limit.
func (o *WindowPickupOrganizer) ReadyUserNames(windowId int) []string {
	for _, b := range o.Buckets() {
		if b.Window.ID != windowId {
			continue
		}
		names := make([]string, 0, len(b.Users))
		for i := range b.Users {
			if b.Users[i].Status.IsReady() {
				names = append(names, b.Users[i].DisplayName())
			}
		}
		return utils.UniqueSlice(names)
	}
	return nil
}
