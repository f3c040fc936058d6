package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/vjhub/vjhub-backend/internal/models"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name                  string
		url                   string
		defaultLimit          int
		wantPage, wantLimit   int
		wantSkip              int
	}{
		{"defaults", "/api/problems", 10, 1, 10, 0},
		{"page 2", "/api/problems?page=2&limit=10", 10, 2, 10, 10},
		{"page 3 custom limit", "/api/problems?page=3&limit=5", 10, 3, 5, 10},
		{"limit capped", "/api/problems?limit=500", 10, 1, 100, 0},
		{"garbage page", "/api/problems?page=abc", 10, 1, 10, 0},
		{"zero page", "/api/problems?page=0", 10, 1, 10, 0},
		{"negative limit", "/api/problems?limit=-5", 20, 1, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			page, limit, skip := parsePagination(r, tt.defaultLimit)
			if page != tt.wantPage || limit != tt.wantLimit || skip != tt.wantSkip {
				t.Errorf("got page=%d limit=%d skip=%d, want %d/%d/%d",
					page, limit, skip, tt.wantPage, tt.wantLimit, tt.wantSkip)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{15, 10, 2},
		{100, 10, 10},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := totalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestSplitLowerList(t *testing.T) {
	got := splitLowerList("AI, FinTech , ,edtech")
	want := []string{"ai", "fintech", "edtech"}
	if len(got) != len(want) {
		t.Fatalf("splitLowerList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitLowerList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLowerTags(t *testing.T) {
	got := lowerTags([]string{" Web ", "", "MOBILE"})
	if len(got) != 2 || got[0] != "web" || got[1] != "mobile" {
		t.Errorf("lowerTags = %v", got)
	}
}

func TestCanModify(t *testing.T) {
	owner := &models.User{ID: "u1", Role: models.RoleStudent}
	other := &models.User{ID: "u2", Role: models.RoleFaculty}
	admin := &models.User{ID: "u3", Role: models.RoleAdmin}

	if !canModify("u1", owner) {
		t.Error("owner should be allowed")
	}
	if canModify("u1", other) {
		t.Error("non-owner non-admin should be denied")
	}
	if !canModify("u1", admin) {
		t.Error("admin should be allowed on any entity")
	}
	if canModify("u1", nil) {
		t.Error("anonymous should be denied")
	}
}
