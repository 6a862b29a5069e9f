package logistics

import (
	"os"
	"strconv"
	"strings"

	"github.com/fesgura/mathtrade-logistics-sub000/models"
)

// PhaseProvider exposes the event's global phase gate. The phase transition
// itself belongs to admin tooling outside this module; components only read.
type PhaseProvider interface {
	Phase() models.EventPhase
}

// StaticPhase is a fixed-phase provider, mostly for tests and small tools.
type StaticPhase models.EventPhase

func (p StaticPhase) Phase() models.EventPhase { return models.EventPhase(p) }

// EnvPhase reads the phase from MT_EVENT_PHASE on every call, so an external
// change is observed without restarting.
//
// MT_EVENT_PHASE: 0 = not started, 1 = reception, 2 = delivery.
type EnvPhase struct{}

func (EnvPhase) Phase() models.EventPhase {
	v := strings.TrimSpace(os.Getenv("MT_EVENT_PHASE"))
	if v == "" {
		return models.PhaseNotStarted
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < int(models.PhaseNotStarted) || n > int(models.PhaseDelivery) {
		return models.PhaseNotStarted
	}
	return models.EventPhase(n)
}
