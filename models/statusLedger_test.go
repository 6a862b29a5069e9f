package models_test

import (
	"testing"

	"github.com/fesgura/mathtrade-logistics-sub000/models"
)

func TestCanTransition_ForwardOpenToEveryone(t *testing.T) {
	forward := [][2]models.ItemStatus{
		{models.StatusInTransit, models.StatusReadyAtOrg},
		{models.StatusInTransit, models.StatusDeliveredToRecipient},
		{models.StatusReadyAtOrg, models.StatusDeliveredToRecipient},
	}
	for _, pair := range forward {
		for _, isAdmin := range []bool{false, true} {
			if !models.CanTransition(pair[0], pair[1], isAdmin) {
				t.Errorf("CanTransition(%d, %d, admin=%v) = false, want true", pair[0], pair[1], isAdmin)
			}
		}
	}
}

func TestCanTransition_BackwardIsAdminOnly(t *testing.T) {
	backward := [][2]models.ItemStatus{
		{models.StatusDeliveredToRecipient, models.StatusReadyAtOrg},
		{models.StatusDeliveredToRecipient, models.StatusInTransit},
		{models.StatusReadyAtOrg, models.StatusInTransit},
	}
	for _, pair := range backward {
		if models.CanTransition(pair[0], pair[1], false) {
			t.Errorf("CanTransition(%d, %d, non-admin) = true, want false", pair[0], pair[1])
		}
		if !models.CanTransition(pair[0], pair[1], true) {
			t.Errorf("CanTransition(%d, %d, admin) = false, want true", pair[0], pair[1])
		}
	}
}

func TestCanTransition_InvalidCodes(t *testing.T) {
	if models.CanTransition(3, models.StatusReadyAtOrg, true) {
		t.Error("transition from unknown code must be rejected")
	}
	if models.CanTransition(models.StatusReadyAtOrg, 7, true) {
		t.Error("transition to unknown code must be rejected")
	}
}

func TestApplyBulk_StampsActorAndSkipsSatisfied(t *testing.T) {
	items := []models.Item{
		{ID: 1, Status: models.StatusInTransit},
		{ID: 2, Status: models.StatusReadyAtOrg},
		{ID: 3, Status: models.StatusDeliveredToRecipient},
	}
	actor := models.Actor{UserId: 42}

	result := models.ApplyBulk(items, models.StatusReadyAtOrg, actor)

	if len(result.Updated) != 1 || result.Updated[0].ID != 1 {
		t.Fatalf("Updated = %+v, want only item 1", result.Updated)
	}
	if result.Updated[0].ChangedBy != 42 {
		t.Errorf("ChangedBy = %d, want 42", result.Updated[0].ChangedBy)
	}
	if len(result.Skipped) != 2 {
		t.Errorf("Skipped = %v, want items 2 and 3", result.Skipped)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %+v, want none", result.Errors)
	}
	if items[0].Status != models.StatusInTransit {
		t.Error("ApplyBulk mutated its input")
	}
}

// Re-applying a bulk update to an already transitioned set must be a no-op:
// nothing updated means the caller issues no network call for those ids.
func TestApplyBulk_Idempotent(t *testing.T) {
	items := []models.Item{
		{ID: 1, Status: models.StatusInTransit},
		{ID: 2, Status: models.StatusInTransit},
	}
	actor := models.Actor{UserId: 7}

	first := models.ApplyBulk(items, models.StatusDeliveredToRecipient, actor)
	if len(first.Updated) != 2 {
		t.Fatalf("first pass Updated = %d, want 2", len(first.Updated))
	}

	second := models.ApplyBulk(first.Updated, models.StatusDeliveredToRecipient, actor)
	if len(second.Updated) != 0 {
		t.Fatalf("second pass Updated = %+v, want none", second.Updated)
	}
	if len(second.Skipped) != 2 {
		t.Errorf("second pass Skipped = %v, want both ids", second.Skipped)
	}
}

func TestApplyBulk_BackwardRejectedForNonAdmin(t *testing.T) {
	items := []models.Item{{ID: 9, Status: models.StatusDeliveredToRecipient}}

	// The bulk path treats at-or-past as a skip for forward-only actors...
	result := models.ApplyBulk(items, models.StatusReadyAtOrg, models.Actor{UserId: 1})
	if len(result.Skipped) != 1 || len(result.Errors) != 0 {
		t.Fatalf("non-admin backward bulk: got %+v, want a skip", result)
	}

	// ...while an admin actually rolls the status back.
	result = models.ApplyBulk(items, models.StatusReadyAtOrg, models.Actor{UserId: 1, IsAdmin: true})
	if len(result.Updated) != 1 || result.Updated[0].Status != models.StatusReadyAtOrg {
		t.Fatalf("admin backward bulk: got %+v, want a rollback", result)
	}
}

func TestApplyBulk_InvalidTarget(t *testing.T) {
	items := []models.Item{{ID: 1, Status: models.StatusInTransit}}
	result := models.ApplyBulk(items, 9, models.Actor{UserId: 1, IsAdmin: true})
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %+v, want one per item", result.Errors)
	}
}

func TestParseItemStatusDisplay(t *testing.T) {
	cases := map[string]models.ItemStatus{
		"In Transit":      models.StatusInTransit,
		"In Event":        models.StatusReadyAtOrg,
		"Received by Org": models.StatusReadyAtOrg,
		"Delivered":       models.StatusDeliveredToRecipient,
	}
	for display, want := range cases {
		got, err := models.ParseItemStatusDisplay(display)
		if err != nil || got != want {
			t.Errorf("ParseItemStatusDisplay(%q) = %v, %v; want %v", display, got, err, want)
		}
	}
	if _, err := models.ParseItemStatusDisplay("Arrived"); err == nil {
		t.Error("unknown display string must not parse")
	}
}
