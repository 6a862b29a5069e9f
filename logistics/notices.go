package logistics

import (
	"sync"
	"time"
)

const (
	successNoticeTTL = 3 * time.Second
	errorNoticeTTL   = 5 * time.Second
)

// NoticeBoard holds the transient success/error banners a view renders.
// One timer slot per kind: setting a new message always stops the previous
// timer first, so an old expiry can never clear a newer message.
type NoticeBoard struct {
	mu sync.Mutex

	success      string
	err          string
	successTimer *time.Timer
	errTimer     *time.Timer

	successTTL time.Duration
	errTTL     time.Duration
}

func NewNoticeBoard() *NoticeBoard {
	return &NoticeBoard{successTTL: successNoticeTTL, errTTL: errorNoticeTTL}
}

func (n *NoticeBoard) SetSuccess(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.successTimer != nil {
		n.successTimer.Stop()
	}
	n.success = message
	n.successTimer = time.AfterFunc(n.successTTL, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.success = ""
	})
}

func (n *NoticeBoard) SetError(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.errTimer != nil {
		n.errTimer.Stop()
	}
	n.err = message
	n.errTimer = time.AfterFunc(n.errTTL, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.err = ""
	})
}

func (n *NoticeBoard) Snapshot() (success string, errMessage string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.success, n.err
}

// Close stops any pending expiry timers. Called on view teardown.
func (n *NoticeBoard) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.successTimer != nil {
		n.successTimer.Stop()
	}
	if n.errTimer != nil {
		n.errTimer.Stop()
	}
	n.success = ""
	n.err = ""
}
