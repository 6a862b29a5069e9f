package models

import (
	"errors"
	"fmt"
)

// ItemStatus uses the server's small integer codes. The codes are ordered:
// a larger code is always further along the delivery pipeline.
type ItemStatus int

const (
	StatusInTransit            ItemStatus = 4
	StatusReadyAtOrg           ItemStatus = 5
	StatusDeliveredToRecipient ItemStatus = 6
)

func (s ItemStatus) Valid() bool {
	return s >= StatusInTransit && s <= StatusDeliveredToRecipient
}

// Display returns the human-facing status string the trade endpoints use.
func (s ItemStatus) Display() string {
	switch s {
	case StatusInTransit:
		return "In Transit"
	case StatusReadyAtOrg:
		return "Received by Org"
	case StatusDeliveredToRecipient:
		return "Delivered"
	}
	return fmt.Sprintf("Unknown (%d)", int(s))
}

// itemStatusDisplays is the closed mapping between the server's display
// strings and the status codes. "In Event" is a legacy alias for code 5 that
// older trade payloads still carry.
var itemStatusDisplays = map[string]ItemStatus{
	"In Transit":      StatusInTransit,
	"In Event":        StatusReadyAtOrg,
	"Received by Org": StatusReadyAtOrg,
	"Delivered":       StatusDeliveredToRecipient,
}

func ParseItemStatusDisplay(display string) (ItemStatus, error) {
	s, ok := itemStatusDisplays[display]
	if !ok {
		return 0, errors.New("invalid item status: " + display)
	}
	return s, nil
}

// WindowUserStatus tracks a recipient through a pickup window. The empty
// string means the user has not been called yet and counts as ready.
type WindowUserStatus string

const (
	WindowUserStatusPresent   WindowUserStatus = "present"
	WindowUserStatusReceiving WindowUserStatus = "receiving"
	WindowUserStatusCompleted WindowUserStatus = "completed"
	WindowUserStatusNoShow    WindowUserStatus = "no_show"
)

func (s WindowUserStatus) IsReady() bool {
	return s == "" || s == WindowUserStatusPresent
}

func (s WindowUserStatus) IsAttended() bool {
	return s == WindowUserStatusReceiving || s == WindowUserStatusCompleted
}

func (s WindowUserStatus) IsNoShow() bool {
	return s == WindowUserStatusNoShow
}

// displayPriority orders users on the capacity-aware pickup display.
func (s WindowUserStatus) DisplayPriority() int {
	switch s {
	case "", WindowUserStatusPresent:
		return 0
	case WindowUserStatusReceiving:
		return 1
	case WindowUserStatusCompleted:
		return 2
	case WindowUserStatusNoShow:
		return 3
	}
	return 4
}

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleVolunteer UserRole = "volunteer"
	RoleAdmin     UserRole = "admin"
)

// EventPhase is the global gate for bulk receive/deliver actions. The phase
// itself is advanced by admin tooling outside this module.
type EventPhase int

const (
	PhaseNotStarted EventPhase = 0
	PhaseReception  EventPhase = 1
	PhaseDelivery   EventPhase = 2
)

func (p EventPhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseReception:
		return "Reception"
	case PhaseDelivery:
		return "Delivery"
	}
	return fmt.Sprintf("EventPhase(%d)", int(p))
}
