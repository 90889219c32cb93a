// Package handoff implements the one-shot session slots that carry state
// between the wizard, the viewer and the saved-trips list. A value is written
// exactly once and consumed by the first read; refreshing the consuming page
// finds the slot empty.
package handoff

import (
	"encoding/json"
	"fmt"

	"github.com/gin-contrib/sessions"

	"github.com/FACorreiaa/sanchari/internal/app/models"
)

const (
	// QueryKey carries a pending generation request from the wizard.
	QueryKey = "itineraryQuery"
	// SelectedKey carries a saved itinerary opened from the trips list.
	SelectedKey = "selectedItinerary"
)

// Put serializes value into the named slot, replacing any previous value.
func Put(session sessions.Session, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal handoff value: %w", err)
	}
	session.Set(key, string(payload))
	if err := session.Save(); err != nil {
		return fmt.Errorf("failed to save handoff session: %w", err)
	}
	return nil
}

// Take reads the named slot into dest and clears it in the same session save,
// so a second Take returns ErrHandoffEmpty.
func Take(session sessions.Session, key string, dest any) error {
	raw := session.Get(key)
	if raw == nil {
		return models.ErrHandoffEmpty
	}
	payload, ok := raw.(string)
	if !ok || payload == "" {
		session.Delete(key)
		_ = session.Save()
		return models.ErrHandoffEmpty
	}

	session.Delete(key)
	if err := session.Save(); err != nil {
		return fmt.Errorf("failed to clear handoff slot: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return fmt.Errorf("failed to unmarshal handoff value: %w", err)
	}
	return nil
}

// Clear drops both handoff slots. Used on logout so a stale plan never leaks
// into the next session.
func Clear(session sessions.Session) error {
	session.Delete(QueryKey)
	session.Delete(SelectedKey)
	return session.Save()
}
