package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"wasteflow/internal/models"
)

type CacheService interface {
	// Tier catalog caching
	GetTier(ctx context.Context, tierID int) (*models.SubscriptionTier, error)
	SetTier(ctx context.Context, tier *models.SubscriptionTier, ttl time.Duration) error
	DeleteTier(ctx context.Context, tierID int) error

	// Usage snapshot caching
	GetUsage(ctx context.Context, orgID uuid.UUID) (map[string]interface{}, error)
	SetUsage(ctx context.Context, orgID uuid.UUID, usage map[string]interface{}, ttl time.Duration) error
	InvalidateUsage(ctx context.Context, orgID uuid.UUID) error

	// Cache invalidation
	InvalidateOrganizationCache(ctx context.Context, orgID uuid.UUID) error

	// Session management
	SetSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
		parsedAddr = hostPort
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetTier(ctx context.Context, tierID int) (*models.SubscriptionTier, error) {
	key := fmt.Sprintf("wasteflow:tier:%d", tierID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var tier models.SubscriptionTier
	if err := json.Unmarshal(data, &tier); err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *redisCacheService) SetTier(ctx context.Context, tier *models.SubscriptionTier, ttl time.Duration) error {
	key := fmt.Sprintf("wasteflow:tier:%d", tier.ID)
	data, err := json.Marshal(tier)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteTier(ctx context.Context, tierID int) error {
	key := fmt.Sprintf("wasteflow:tier:%d", tierID)
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetUsage(ctx context.Context, orgID uuid.UUID) (map[string]interface{}, error) {
	key := fmt.Sprintf("wasteflow:usage:%s", orgID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var usage map[string]interface{}
	if err := json.Unmarshal(data, &usage); err != nil {
		return nil, err
	}
	return usage, nil
}

func (r *redisCacheService) SetUsage(ctx context.Context, orgID uuid.UUID, usage map[string]interface{}, ttl time.Duration) error {
	key := fmt.Sprintf("wasteflow:usage:%s", orgID.String())
	data, err := json.Marshal(usage)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) InvalidateUsage(ctx context.Context, orgID uuid.UUID) error {
	key := fmt.Sprintf("wasteflow:usage:%s", orgID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) InvalidateOrganizationCache(ctx context.Context, orgID uuid.UUID) error {
	pattern := fmt.Sprintf("wasteflow:*:%s*", orgID.String())
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) SetSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	key := fmt.Sprintf("wasteflow:session:%s", sessionID)
	return r.client.Set(ctx, key, userID, ttl).Err()
}

func (r *redisCacheService) GetSession(ctx context.Context, sessionID string) (string, error) {
	key := fmt.Sprintf("wasteflow:session:%s", sessionID)
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // not found
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) DeleteSession(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf("wasteflow:session:%s", sessionID)
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("wasteflow:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
