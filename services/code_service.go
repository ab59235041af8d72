package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-admin/clients"
	"catalog-admin/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	CodeCachePrefix  = "common_code:"
	DefaultCodeTTL   = 10 * time.Minute
	ProductTypeCodes = "PRODUCT_TYPES"
	PackingTypeCodes = "PACKING_TYPES"
)

// CodeService looks up common code tables through GraphQL and caches them in
// Redis. A nil Redis client disables caching.
type CodeService struct {
	client clients.Executor
	redis  *redis.Client
	ttl    time.Duration
}

func NewCodeService(client clients.Executor, rdb *redis.Client, ttl time.Duration) *CodeService {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &CodeService{client: client, redis: rdb, ttl: ttl}
}

type commonCodeResponse struct {
	CommonCode *struct {
		Details []models.Code `json:"details"`
	} `json:"commonCode"`
}

// CodesByName returns the details of the named code table. A missing table
// yields an empty list.
func (s *CodeService) CodesByName(ctx context.Context, name string) ([]models.Code, error) {
	if codes, ok := s.cached(ctx, name); ok {
		return codes, nil
	}

	args, err := clients.BuildArgs(clients.Arg{Name: "name", Value: name})
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`query {
  commonCode(%s) {
    details {
      name
      description
    }
  }
}`, args)

	var out commonCodeResponse
	if err := s.client.Execute(ctx, query, &out); err != nil {
		return nil, err
	}

	codes := []models.Code{}
	if out.CommonCode != nil && out.CommonCode.Details != nil {
		codes = out.CommonCode.Details
	}
	s.store(ctx, name, codes)
	return codes, nil
}

func (s *CodeService) cached(ctx context.Context, name string) ([]models.Code, bool) {
	if s.redis == nil {
		return nil, false
	}
	val, err := s.redis.Get(ctx, CodeCachePrefix+name).Result()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("Failed to read code cache", zap.String("code", name), zap.Error(err))
		}
		return nil, false
	}
	var codes []models.Code
	if err := json.Unmarshal([]byte(val), &codes); err != nil {
		zap.L().Warn("Failed to unmarshal cached codes", zap.String("code", name), zap.Error(err))
		return nil, false
	}
	return codes, true
}

func (s *CodeService) store(ctx context.Context, name string, codes []models.Code) {
	if s.redis == nil {
		return
	}
	b, err := json.Marshal(codes)
	if err != nil {
		zap.L().Warn("Failed to marshal codes for cache", zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, CodeCachePrefix+name, b, s.ttl).Err(); err != nil {
		zap.L().Warn("Failed to cache codes", zap.String("code", name), zap.Error(err))
	}
}

// Invalidate drops a cached code table.
func (s *CodeService) Invalidate(ctx context.Context, name string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, CodeCachePrefix+name).Err()
}
