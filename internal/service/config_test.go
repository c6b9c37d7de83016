package service_test

import (
	"testing"

	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
)

func TestConfigSetGetAndList(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	if err := service.SetConfig(db, " Default_Window ", "month"); err != nil {
		t.Fatalf("set config: %v", err)
	}
	value, ok, err := service.GetConfig(db, service.ConfigDefaultWindow)
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if !ok || value != "month" {
		t.Fatalf("expected month, got %q (found=%v)", value, ok)
	}
	all, err := service.ListConfig(db)
	if err != nil {
		t.Fatalf("list config: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 config row, got %d", len(all))
	}
	if _, _, err := service.GetConfig(db, " "); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestActiveUserRoundTrip(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	user, err := service.ActiveUser(db)
	if err != nil {
		t.Fatalf("active user: %v", err)
	}
	if user != "" {
		t.Fatalf("expected no active user, got %q", user)
	}
	if err := service.SetActiveUser(db, "alice"); err != nil {
		t.Fatalf("set active user: %v", err)
	}
	user, err = service.ActiveUser(db)
	if err != nil {
		t.Fatalf("active user: %v", err)
	}
	if user != "alice" {
		t.Fatalf("expected alice, got %q", user)
	}
	if err := service.SetActiveUser(db, "a/b"); err == nil {
		t.Fatalf("expected error for user id with slash")
	}
}
