package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/buddyapp/buddyd/internal/search/models"
)

const searchCacheKeyPrefix = "search:"

// ResponseCache keeps recent search responses in redis, keyed by a
// fingerprint of the query and preference set. A nil cache is a no-op.
type ResponseCache struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *log.Logger
}

func cacheKey(req models.SearchRequest) string {
	payload, _ := json.Marshal(struct {
		Query       string              `json:"query"`
		Preferences *models.Preferences `json:"preferences"`
	}{req.Query, req.Preferences})
	sum := sha256.Sum256(payload)
	return searchCacheKeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns a cached response and whether one was found. Cache errors
// are logged and treated as misses.
func (rc *ResponseCache) Get(ctx context.Context, req models.SearchRequest) (models.SearchResponse, bool) {
	if rc == nil || rc.Client == nil {
		return models.SearchResponse{}, false
	}
	val, err := rc.Client.Get(ctx, cacheKey(req)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && rc.Logger != nil {
			rc.Logger.Printf("cache get failed: %v", err)
		}
		return models.SearchResponse{}, false
	}
	var resp models.SearchResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		if rc.Logger != nil {
			rc.Logger.Printf("cache decode failed: %v", err)
		}
		return models.SearchResponse{}, false
	}
	return resp, true
}

// Set stores a response. Failures are logged, never surfaced.
func (rc *ResponseCache) Set(ctx context.Context, req models.SearchRequest, resp models.SearchResponse) {
	if rc == nil || rc.Client == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := rc.Client.Set(ctx, cacheKey(req), data, rc.TTL).Err(); err != nil && rc.Logger != nil {
		rc.Logger.Printf("cache set failed: %v", err)
	}
}
