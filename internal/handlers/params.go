package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vjhub/vjhub-backend/internal/models"
)

const maxPageLimit = 100

// parsePagination reads page/limit query params. Page defaults to 1, limit to
// defaultLimit, capped at 100.
func parsePagination(r *http.Request, defaultLimit int) (page, limit, skip int) {
	page = 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}

// totalPages computes the page count for a pagination block.
func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

// paginationBlock is the pagination section of list responses.
func paginationBlock(page, limit int, total int64) map[string]interface{} {
	return map[string]interface{}{
		"current": page,
		"pages":   totalPages(total, limit),
		"total":   total,
		"limit":   limit,
	}
}

// objectIDParam parses a hex ObjectID path or query value.
func objectIDParam(value string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(value)
	return id, err == nil
}

// splitLowerList splits a comma-separated filter value into trimmed,
// lowercased entries (tags, industry).
func splitLowerList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// lowerTags lowercases submitted tag/industry values, dropping empties.
func lowerTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// canModify is the owner-or-admin authorization gate shared by every
// update/delete endpoint.
func canModify(ownerID string, user *models.User) bool {
	return user != nil && (ownerID == user.ID || user.IsAdmin())
}
