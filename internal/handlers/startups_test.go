package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/vjhub/vjhub-backend/internal/models"
)

func TestSetMilestoneCompletion(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	milestones := []models.Milestone{
		{Title: "First customer", Date: date, Description: "Sign the pilot"},
		{Title: "Break even", Date: date.AddDate(0, 6, 0)},
	}

	if err := setMilestoneCompletion(milestones, 0, true); err != nil {
		t.Fatal(err)
	}
	if !milestones[0].Completed {
		t.Error("completed flag not set")
	}

	// Only the flag changes; title, date and description stay intact.
	if milestones[0].Title != "First customer" || milestones[0].Description != "Sign the pilot" {
		t.Errorf("milestone fields altered: %+v", milestones[0])
	}
	if !milestones[0].Date.Equal(date) {
		t.Errorf("milestone date altered: %v", milestones[0].Date)
	}
	if milestones[1].Completed {
		t.Error("neighboring milestone touched")
	}

	if err := setMilestoneCompletion(milestones, 0, false); err != nil {
		t.Fatal(err)
	}
	if milestones[0].Completed {
		t.Error("completed flag not cleared")
	}
}

func TestSetMilestoneCompletionOutOfRange(t *testing.T) {
	milestones := []models.Milestone{{Title: "Launch"}}
	if err := setMilestoneCompletion(milestones, 1, true); err == nil {
		t.Error("index past the end should fail")
	}
	if err := setMilestoneCompletion(milestones, -1, true); err == nil {
		t.Error("negative index should fail")
	}
	if err := setMilestoneCompletion(nil, 0, true); err == nil {
		t.Error("empty milestone list should fail")
	}
}

func TestMilestoneRequestBody(t *testing.T) {
	// The completion endpoint takes just the flag; no other milestone fields
	// are required.
	var req MilestoneRequest
	if err := json.Unmarshal([]byte(`{"completed":true}`), &req); err != nil {
		t.Fatal(err)
	}
	if !req.Completed {
		t.Error("completed flag not decoded")
	}

	milestones := []models.Milestone{{Title: "Launch", Description: "Go live"}}
	if err := setMilestoneCompletion(milestones, 0, req.Completed); err != nil {
		t.Fatal(err)
	}
	if !milestones[0].Completed || milestones[0].Title != "Launch" || milestones[0].Description != "Go live" {
		t.Errorf("flag-only payload mishandled: %+v", milestones[0])
	}
}
