package logistics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/fesgura/mathtrade-logistics-sub000/api"
	"github.com/fesgura/mathtrade-logistics-sub000/config"
	"github.com/fesgura/mathtrade-logistics-sub000/models"
	"github.com/fesgura/mathtrade-logistics-sub000/utils"
	"github.com/sirupsen/logrus"
)

// DeliveryMode parameterizes the coordinator for the two desk roles:
// receiving items into the organization versus handing them to recipients.
type DeliveryMode int

const (
	ModeReceive DeliveryMode = iota
	ModeDeliver
)

func (m DeliveryMode) String() string {
	if m == ModeDeliver {
		return "deliver"
	}
	return "receive"
}

// targetStatus is the status a confirmed batch moves items to.
func (m DeliveryMode) targetStatus() models.ItemStatus {
	if m == ModeDeliver {
		return models.StatusDeliveredToRecipient
	}
	return models.StatusReadyAtOrg
}

// pendingStatus is the one status a trade must hold to be actionable.
func (m DeliveryMode) pendingStatus() models.ItemStatus {
	if m == ModeDeliver {
		return models.StatusReadyAtOrg
	}
	return models.StatusInTransit
}

// sortRank orders trades on screen: actionable first, done next,
// everything not actionable in this mode last.
func (m DeliveryMode) sortRank(status models.ItemStatus) int {
	switch {
	case status == m.pendingStatus():
		return 0
	case status >= m.targetStatus():
		return 1
	default:
		return 2
	}
}

// phaseAllows gates bulk actions on the event phase: nothing before the
// event opens, receiving from the reception phase on, delivering only once
// the delivery phase starts.
func (m DeliveryMode) phaseAllows(phase models.EventPhase) bool {
	if m == ModeDeliver {
		return phase == models.PhaseDelivery
	}
	return phase >= models.PhaseReception
}

// TradeAPI is the slice of the server API the coordinator needs.
type TradeAPI interface {
	FetchTrades(ctx context.Context) ([]models.Trade, error)
	BulkUpdateItemStatus(ctx context.Context, assignedTradeCodes []int, status models.ItemStatus) error
}

// BulkDeliveryCoordinator drives the receive/deliver desk: it partitions a
// recipient's trades into pending/completed/unavailable, manages the marked
// set, and executes bulk transitions through a single confirm step. Every
// fetch resets the marked set to exactly the pending trades; selection is a
// per-fetch concept, never cross-session state.
type BulkDeliveryCoordinator struct {
	mu      sync.Mutex
	api     TradeAPI
	mode    DeliveryMode
	phase   PhaseProvider
	session api.SessionProvider
	logger  *logrus.Logger
	notices *NoticeBoard

	trades         []models.Trade
	selected       map[int]bool // assignedTradeCode -> marked
	staged         []int
	stagedAll      bool
	scrollToFinish bool
}

func NewBulkDeliveryCoordinator(tradeAPI TradeAPI, mode DeliveryMode, phase PhaseProvider, session api.SessionProvider) *BulkDeliveryCoordinator {
	return &BulkDeliveryCoordinator{
		api:      tradeAPI,
		mode:     mode,
		phase:    phase,
		session:  session,
		logger:   config.GetLogger(),
		notices:  NewNoticeBoard(),
		selected: make(map[int]bool),
	}
}

func (c *BulkDeliveryCoordinator) Notices() *NoticeBoard { return c.notices }

// Load refetches the trade list, sorts it for display, and resets the marked
// set to exactly the pending trades. Any prior partial marking is discarded
// on purpose.
func (c *BulkDeliveryCoordinator) Load(ctx context.Context) error {
	trades, err := c.api.FetchTrades(ctx)
	if err != nil {
		return err
	}

	sort.SliceStable(trades, func(i, j int) bool {
		si, erri := trades[i].Status()
		sj, errj := trades[j].Status()
		if erri != nil || errj != nil {
			return erri == nil
		}
		return c.mode.sortRank(si) < c.mode.sortRank(sj)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.trades = trades
	c.selected = make(map[int]bool)
	for _, code := range c.pendingCodesLocked() {
		c.selected[code] = true
	}
	c.staged = nil
	c.stagedAll = false
	return nil
}

func (c *BulkDeliveryCoordinator) pendingCodesLocked() []int {
	var codes []int
	for i := range c.trades {
		status, err := c.trades[i].Status()
		if err != nil {
			continue
		}
		if status == c.mode.pendingStatus() {
			codes = append(codes, c.trades[i].Result.AssignedTradeCode)
		}
	}
	return codes
}

// Pending lists the trades still actionable in this mode, in display order.
func (c *BulkDeliveryCoordinator) Pending() []models.Trade {
	return c.filter(func(status models.ItemStatus) bool {
		return status == c.mode.pendingStatus()
	})
}

// Completed lists the trades already at or past this mode's target.
func (c *BulkDeliveryCoordinator) Completed() []models.Trade {
	return c.filter(func(status models.ItemStatus) bool {
		return status >= c.mode.targetStatus()
	})
}

// Unavailable lists trades that cannot be acted on in this mode at all,
// e.g. delivering an item that has not arrived yet.
func (c *BulkDeliveryCoordinator) Unavailable() []models.Trade {
	return c.filter(func(status models.ItemStatus) bool {
		return status != c.mode.pendingStatus() && status < c.mode.targetStatus()
	})
}

func (c *BulkDeliveryCoordinator) filter(keep func(models.ItemStatus) bool) []models.Trade {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Trade
	for i := range c.trades {
		status, err := c.trades[i].Status()
		if err != nil {
			continue
		}
		if keep(status) {
			out = append(out, c.trades[i])
		}
	}
	return out
}

func (c *BulkDeliveryCoordinator) ToggleSelection(assignedTradeCode int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected[assignedTradeCode] {
		delete(c.selected, assignedTradeCode)
	} else {
		c.selected[assignedTradeCode] = true
	}
}

func (c *BulkDeliveryCoordinator) Selected() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	codes := make([]int, 0, len(c.selected))
	for code := range c.selected {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// StageAll stages the full pending list for confirmation and returns it.
// Nothing mutates until ConfirmStaged.
func (c *BulkDeliveryCoordinator) StageAll() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.staged = c.pendingCodesLocked()
	c.stagedAll = true
	return append([]int(nil), c.staged...)
}

// StageSelected stages the intersection of the marked set and the pending
// trades. Marks on trades that stopped being pending are silently dropped.
func (c *BulkDeliveryCoordinator) StageSelected() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	marked := make([]int, 0, len(c.selected))
	for code := range c.selected {
		marked = append(marked, code)
	}
	sort.Ints(marked)
	c.staged = utils.IntersectIntSlices(marked, c.pendingCodesLocked())
	c.stagedAll = false
	return append([]int(nil), c.staged...)
}

var ErrPhaseClosed = errors.New("this action is not enabled in the current event phase")

// ConfirmStaged is the sole path to the bulk status update. It re-filters
// the staged codes against the live pending set, so confirming a batch that
// already ran is a clean no-op with no network call.
func (c *BulkDeliveryCoordinator) ConfirmStaged(ctx context.Context) error {
	if !c.session.IsAuthenticated() {
		c.notices.SetError(api.PublicMessage(utils.ErrorNotAuthenticated))
		return utils.ErrorNotAuthenticated
	}
	if !c.mode.phaseAllows(c.phase.Phase()) {
		c.notices.SetError(ErrPhaseClosed.Error())
		return ErrPhaseClosed
	}

	c.mu.Lock()
	codes := utils.IntersectIntSlices(c.staged, c.pendingCodesLocked())
	wasAll := c.stagedAll
	c.mu.Unlock()

	if len(codes) == 0 {
		c.mu.Lock()
		c.staged = nil
		c.stagedAll = false
		c.mu.Unlock()
		c.notices.SetSuccess("Nothing left to update")
		return nil
	}

	target := c.mode.targetStatus()
	if err := c.api.BulkUpdateItemStatus(ctx, codes, target); err != nil {
		c.notices.SetError(api.PublicMessage(err))
		return err
	}

	c.mu.Lock()
	acted := make(map[int]bool, len(codes))
	for _, code := range codes {
		acted[code] = true
	}
	for i := range c.trades {
		if acted[c.trades[i].Result.AssignedTradeCode] {
			c.trades[i].Result.StatusDisplay = target.Display()
		}
	}
	// Remove only the acted codes from the marked set; a concurrent partial
	// failure elsewhere must not wipe marks the user still needs.
	for code := range acted {
		delete(c.selected, code)
	}
	c.staged = nil
	c.stagedAll = false
	if wasAll {
		c.scrollToFinish = true
	}
	c.mu.Unlock()

	c.notices.SetSuccess(fmt.Sprintf("%d items updated", len(codes)))
	return nil
}

// ConsumeScrollToFinish reports (once) that an act-on-all batch completed,
// the cue for the view to scroll to the finish control.
func (c *BulkDeliveryCoordinator) ConsumeScrollToFinish() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.scrollToFinish
	c.scrollToFinish = false
	return v
}
