package config

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DisplaySettings drives the pickup-window displays: how many waiting users a
// window shows, and how often the display re-polls the server. Admin tooling
// writes these at runtime; organizers only read them.
type DisplaySettings struct {
	MaxUsers               int `json:"max_users" validate:"gte=1,lte=500"`
	PollingIntervalSeconds int `json:"polling_interval_seconds" validate:"gte=2,lte=3600"`
}

var settingsValidate = validator.New()

// DisplaySettingsStore holds the global settings plus per-window MaxUsers
// overrides. It is the in-process implementation of the display configuration
// collaborator; a deployment backing it with remote config only needs to keep
// these methods.
type DisplaySettingsStore struct {
	mu        sync.RWMutex
	global    DisplaySettings
	perWindow map[int]int // windowId -> MaxUsers override
}

func NewDisplaySettingsStore() *DisplaySettingsStore {
	return &DisplaySettingsStore{
		global: DisplaySettings{
			MaxUsers:               DefaultMaxUsers(),
			PollingIntervalSeconds: DefaultPollingSeconds(),
		},
		perWindow: make(map[int]int),
	}
}

func (s *DisplaySettingsStore) Global() DisplaySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.global
}

// MaxUsers returns the display limit for a window, falling back to the global
// value when the window has no override.
func (s *DisplaySettingsStore) MaxUsers(windowId int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.perWindow[windowId]; ok {
		return n
	}
	return s.global.MaxUsers
}

func (s *DisplaySettingsStore) SetMaxUsers(windowId int, maxUsers int) error {
	candidate := DisplaySettings{MaxUsers: maxUsers, PollingIntervalSeconds: s.Global().PollingIntervalSeconds}
	if err := settingsValidate.Struct(candidate); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.perWindow[windowId] = maxUsers
	return nil
}

func (s *DisplaySettingsStore) PollingInterval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Duration(s.global.PollingIntervalSeconds) * time.Second
}

func (s *DisplaySettingsStore) SetPollingSeconds(seconds int) error {
	candidate := DisplaySettings{MaxUsers: s.Global().MaxUsers, PollingIntervalSeconds: seconds}
	if err := settingsValidate.Struct(candidate); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global.PollingIntervalSeconds = seconds
	return nil
}
