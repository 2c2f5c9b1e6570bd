package service

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"imageshare.com/internal/constants"
	"imageshare.com/internal/event"
)

// RegisterCacheInvalidator subscribes a handler that drops the cached
// listing pages whenever an image or account event changes what the
// approved views should contain. The scan is by prefix: the key space is
// small (one key per view) so a wildcard flush is fine.
func RegisterCacheInvalidator(bus *event.Bus, rdb *redis.Client) {
	if rdb == nil {
		return
	}

	invalidate := func(ctx context.Context, ev event.Event) error {
		iter := rdb.Scan(ctx, 0, constants.RedisKeyListingPrefix+"*", 0).Iterator()
		for iter.Next(ctx) {
			if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
				log.Printf("CacheInvalidator: Failed to delete %s: %v", iter.Val(), err)
			}
		}
		return iter.Err()
	}

	for _, t := range []string{
		constants.EventImageEdited,
		constants.EventImageApproved,
		constants.EventImageUnapproved,
		constants.EventImageDeleted,
		constants.EventUserDeactivated,
	} {
		bus.Subscribe(t, invalidate)
	}
}

// RegisterAuditLogger subscribes a handler that writes one log line per
// moderation action, the closest thing this service has to an audit trail.
func RegisterAuditLogger(bus *event.Bus) {
	audit := func(ctx context.Context, ev event.Event) error {
		log.Printf("Audit: %s source=%s data=%v at=%s", ev.Type, ev.Source, ev.Data, ev.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
		return nil
	}

	for _, t := range []string{
		constants.EventImageUploaded,
		constants.EventImageEdited,
		constants.EventImageApproved,
		constants.EventImageUnapproved,
		constants.EventImageDeleted,
		constants.EventUserDeactivated,
		constants.EventUserReactivated,
	} {
		bus.Subscribe(t, audit)
	}
}
