package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/vjhub/vjhub-backend/internal/services"
)

// GetStats handles GET /api/stats, the public home-page counters.
func GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats, err := services.GetPlatformStats(ctx)
	if err != nil {
		respondServerError(w, "platform stats", err)
		return
	}

	respondOK(w, "", map[string]interface{}{"stats": stats})
}
