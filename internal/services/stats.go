package services

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/vjhub/vjhub-backend/internal/database"
	"github.com/vjhub/vjhub-backend/internal/models"
)

const (
	// StatsCacheKey is the Redis key for the platform counters.
	StatsCacheKey = "cache:platform_stats"
	// StatsCacheTTL keeps the home-page counters fresh without hammering the stores.
	StatsCacheTTL = 5 * time.Minute
)

// PlatformStats are the home-page counters.
type PlatformStats struct {
	Problems int64 `json:"problems"`
	Ideas    int64 `json:"ideas"`
	Startups int64 `json:"startups"`
	Comments int64 `json:"comments"`
	Users    int64 `json:"users"`
}

// GetPlatformStats returns the counters, served from the Redis cache when
// fresh. A cache miss recounts and repopulates; Redis failures fall through
// to a live count.
func GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	if cached, err := database.RedisClient.Get(ctx, StatsCacheKey).Result(); err == nil {
		var stats PlatformStats
		if json.Unmarshal([]byte(cached), &stats) == nil {
			return &stats, nil
		}
	}

	stats, err := countPlatformStats(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		database.RedisClient.Set(ctx, StatsCacheKey, payload, StatsCacheTTL)
	}
	return stats, nil
}

func countPlatformStats(ctx context.Context) (*PlatformStats, error) {
	var stats PlatformStats
	var err error

	if stats.Problems, err = database.DB.Collection(models.ProblemsCollection).CountDocuments(ctx, bson.M{"status": models.StatusPublished}); err != nil {
		return nil, err
	}
	if stats.Ideas, err = database.DB.Collection(models.IdeasCollection).CountDocuments(ctx, bson.M{"status": models.StatusPublished}); err != nil {
		return nil, err
	}
	if stats.Startups, err = database.DB.Collection(models.StartupsCollection).CountDocuments(ctx, bson.M{"status": models.StartupActive}); err != nil {
		return nil, err
	}
	if stats.Comments, err = database.DB.Collection(models.CommentsCollection).CountDocuments(ctx, bson.M{"status": models.CommentActive}); err != nil {
		return nil, err
	}
	if err = database.PostgresDB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&stats.Users); err != nil {
		return nil, err
	}

	return &stats, nil
}
