package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"imageshare.com/internal/constants"
	"imageshare.com/internal/domain"
	"imageshare.com/internal/model"
)

// ListingServiceImpl implements domain.ListingService. Listings only ever
// contain approved images, ordered by ID ascending (insertion order). The
// first page of each view is cached in Redis; moderation events invalidate
// the cache (see CacheInvalidator).
type ListingServiceImpl struct {
	db  *gorm.DB
	rdb *redis.Client // optional, nil disables caching
}

func NewListingService(db *gorm.DB, rdb *redis.Client) *ListingServiceImpl {
	return &ListingServiceImpl{db: db, rdb: rdb}
}

type cachedListing struct {
	Images []model.Image `json:"images"`
	Total  int64         `json:"total"`
}

// ListAll returns every approved image
func (s *ListingServiceImpl) ListAll(ctx context.Context, page, pageSize int) ([]model.Image, int64, error) {
	return s.list(ctx, constants.RedisKeyListingAll, page, pageSize, s.db.Model(&model.Image{}))
}

// ListByTag returns approved images under one tag
func (s *ListingServiceImpl) ListByTag(ctx context.Context, tagID uint, page, pageSize int) ([]model.Image, int64, error) {
	var tag model.Tag
	if err := s.db.First(&tag, tagID).Error; err != nil {
		return nil, 0, domain.NewNotFoundError("tag not found")
	}

	key := fmt.Sprintf("%s%d", constants.RedisKeyListingTag, tagID)
	return s.list(ctx, key, page, pageSize, s.db.Model(&model.Image{}).Where("tag_id = ?", tagID))
}

// ListByUser returns approved images owned by one user
func (s *ListingServiceImpl) ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]model.Image, int64, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, 0, domain.NewNotFoundError("user not found")
	}

	key := fmt.Sprintf("%s%d", constants.RedisKeyListingUser, userID)
	return s.list(ctx, key, page, pageSize, s.db.Model(&model.Image{}).Where("user_id = ?", userID))
}

// Tags returns the seeded tag set
func (s *ListingServiceImpl) Tags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := s.db.Order("id ASC").Find(&tags).Error; err != nil {
		return nil, domain.NewInternalError("failed to fetch tags", err)
	}
	return tags, nil
}

func (s *ListingServiceImpl) list(ctx context.Context, cacheKey string, page, pageSize int, query *gorm.DB) ([]model.Image, int64, error) {
	cacheable := s.rdb != nil && page == 1

	if cacheable {
		if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached cachedListing
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached.Images, cached.Total, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("ListingService: Cache read failed for %s: %v", cacheKey, err)
		}
	}

	var images []model.Image
	var total int64

	offset := (page - 1) * pageSize
	query = query.Where("approved = ?", true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to count images", err)
	}

	if err := query.Preload("User").Preload("Tag").
		Order("id ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&images).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to fetch images", err)
	}

	if cacheable {
		if raw, err := json.Marshal(cachedListing{Images: images, Total: total}); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, raw, constants.ListingCacheTTL).Err(); err != nil {
				log.Printf("ListingService: Cache write failed for %s: %v", cacheKey, err)
			}
		}
	}

	return images, total, nil
}

// Interface guard
var _ domain.ListingService = (*ListingServiceImpl)(nil)
