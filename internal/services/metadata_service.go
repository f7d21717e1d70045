package services

import (
	"context"

	"photoline/internal/redis"
	"photoline/internal/twilio"
	"photoline/pkg/logger"
)

const incomingNumbersCacheKey = "incoming_numbers"
const incomingNumbersLimit = 20

// NumberLister fetches the account's provisioned phone numbers.
type NumberLister interface {
	ListIncomingPhoneNumbers(ctx context.Context, limit int) ([]twilio.IncomingPhoneNumber, error)
}

// MetadataService serves provider account metadata through the shared cache,
// keeping the webhook path free of provider API round-trips.
type MetadataService struct {
	provider NumberLister
	cache    *redis.MetadataCache
	logger   *logger.Logger
}

func NewMetadataService(provider NumberLister, cache *redis.MetadataCache, l *logger.Logger) *MetadataService {
	return &MetadataService{provider: provider, cache: cache, logger: l}
}

// IncomingPhoneNumbers returns the account's numbers, cached with the
// metadata TTL. Cache errors fall through to the provider.
func (s *MetadataService) IncomingPhoneNumbers(ctx context.Context) ([]twilio.IncomingPhoneNumber, error) {
	var cached []twilio.IncomingPhoneNumber
	hit, err := s.cache.Get(ctx, incomingNumbersCacheKey, &cached)
	if err != nil {
		s.logger.Warnf("metadata cache read: %s", err)
	}
	if hit {
		return cached, nil
	}

	numbers, err := s.provider.ListIncomingPhoneNumbers(ctx, incomingNumbersLimit)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, incomingNumbersCacheKey, numbers); err != nil {
		s.logger.Warnf("metadata cache write: %s", err)
	}
	return numbers, nil
}
