package logistics

import (
	"testing"
	"time"
)

func TestNoticeBoard_ExpiryClearsOnlyItsOwnMessage(t *testing.T) {
	board := NewNoticeBoard()
	board.successTTL = 20 * time.Millisecond
	board.errTTL = 20 * time.Millisecond
	defer board.Close()

	board.SetSuccess("Box #3 created")
	board.SetError("Item is already boxed")
	if success, errMsg := board.Snapshot(); success != "Box #3 created" || errMsg != "Item is already boxed" {
		t.Fatalf("Snapshot = %q / %q", success, errMsg)
	}

	time.Sleep(60 * time.Millisecond)
	if success, errMsg := board.Snapshot(); success != "" || errMsg != "" {
		t.Errorf("messages survived their TTL: %q / %q", success, errMsg)
	}
}

func TestNoticeBoard_NewMessageOutlivesOldTimer(t *testing.T) {
	board := NewNoticeBoard()
	board.successTTL = 30 * time.Millisecond
	defer board.Close()

	board.SetSuccess("first")
	time.Sleep(15 * time.Millisecond)
	board.SetSuccess("second")

	// Past the first message's deadline, inside the second's.
	time.Sleep(20 * time.Millisecond)
	if success, _ := board.Snapshot(); success != "second" {
		t.Errorf("success = %q, the stale timer cleared the newer message", success)
	}
}

func TestNoticeBoard_CloseClearsEverything(t *testing.T) {
	board := NewNoticeBoard()
	board.SetSuccess("done")
	board.SetError("failed")
	board.Close()
	if success, errMsg := board.Snapshot(); success != "" || errMsg != "" {
		t.Errorf("Close left %q / %q", success, errMsg)
	}
}
