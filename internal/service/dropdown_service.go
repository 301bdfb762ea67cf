package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/approval-desk/internal/domain"
	"github.com/spec-kit/approval-desk/internal/repository"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

const dropdownCacheTTL = 5 * time.Minute

// DropdownService manages option lists and resolves cascading selects.
// Reads go through a Redis cache; writes invalidate it.
type DropdownService struct {
	lists  repository.DropdownListRepository
	cache  *redis.Client
	logger *zap.Logger
}

// NewDropdownService constructs the service. The cache client may be nil.
func NewDropdownService(lists repository.DropdownListRepository, cache *redis.Client, logger *zap.Logger) *DropdownService {
	return &DropdownService{lists: lists, cache: cache, logger: logger}
}

// CreateList validates option uniqueness and stores a new list.
func (s *DropdownService) CreateList(ctx context.Context, list *domain.DropdownList) (*domain.DropdownList, error) {
	if dupes := list.DuplicateValues(); len(dupes) > 0 {
		return nil, apperrors.NewDuplicateValue(dupes)
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	return list, nil
}

// UpdateList validates option uniqueness, stores changes and drops the
// cached copy.
func (s *DropdownService) UpdateList(ctx context.Context, list *domain.DropdownList) (*domain.DropdownList, error) {
	if dupes := list.DuplicateValues(); len(dupes) > 0 {
		return nil, apperrors.NewDuplicateValue(dupes)
	}
	if err := s.lists.Update(ctx, list); err != nil {
		return nil, mapRepoErr(err, "dropdown list")
	}
	s.invalidate(ctx, list.ID)
	return list, nil
}

// DeleteList removes a list and its cached copy.
func (s *DropdownService) DeleteList(ctx context.Context, listID string) error {
	if err := s.lists.Delete(ctx, listID); err != nil {
		return mapRepoErr(err, "dropdown list")
	}
	s.invalidate(ctx, listID)
	return nil
}

// GetList fetches a list, preferring the cache.
func (s *DropdownService) GetList(ctx context.Context, listID string) (*domain.DropdownList, error) {
	if cached := s.fromCache(ctx, listID); cached != nil {
		return cached, nil
	}
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, mapRepoErr(err, "dropdown list")
	}
	s.toCache(ctx, list)
	return list, nil
}

// ListLists returns every dropdown list.
func (s *DropdownService) ListLists(ctx context.Context) ([]domain.DropdownList, error) {
	lists, err := s.lists.List(ctx)
	if err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	return lists, nil
}

// OptionsFor resolves the options of a list, filtered by the parent value
// of a dependent relationship when given.
func (s *DropdownService) OptionsFor(ctx context.Context, listID string, parentValue *string) ([]domain.DropdownOption, error) {
	list, err := s.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	return list.OptionsFor(parentValue), nil
}

func cacheKey(listID string) string {
	return "dropdown:" + listID
}

func (s *DropdownService) fromCache(ctx context.Context, listID string) *domain.DropdownList {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey(listID)).Bytes()
	if err != nil {
		return nil
	}
	var list domain.DropdownList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return &list
}

func (s *DropdownService) toCache(ctx context.Context, list *domain.DropdownList) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(list.ID), raw, dropdownCacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Debug("dropdown cache set failed", zap.String("list_id", list.ID), zap.Error(err))
	}
}

func (s *DropdownService) invalidate(ctx context.Context, listID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(listID)).Err(); err != nil && s.logger != nil {
		s.logger.Debug("dropdown cache invalidate failed", zap.String("list_id", listID), zap.Error(err))
	}
}
