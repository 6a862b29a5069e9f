package models

// WindowUser is a recipient waiting to pick up their games, already assigned
// to a pickup window by the server's counter.
type WindowUser struct {
	ID          int              `json:"id"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	WindowId    int              `json:"window_id"`
	Status      WindowUserStatus `json:"status"`
	TableNumber *string          `json:"table_number"`
	Roles       []UserRole       `json:"roles"`
}

func (u *WindowUser) DisplayName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsStaff reports whether the user works the event. Staff pick their games up
// out of band and never appear on the window displays.
func (u *WindowUser) IsStaff() bool {
	for _, r := range u.Roles {
		if r == RoleVolunteer || r == RoleAdmin {
			return true
		}
	}
	return false
}

// Window is a physical pickup counter. Tables lists the table labels assigned
// to it, for the capacity-aware display variant.
type Window struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Tables []string `json:"tables"`
}
