package constants

import "time"

// Redis key prefixes
const (
	// RedisKeyTokenBlacklist prefixes revoked JWT IDs, set on logout
	RedisKeyTokenBlacklist = "auth.blacklist."

	// RedisKeyListingPrefix prefixes cached approved-listing pages
	RedisKeyListingPrefix = "listing."
)

// Cache keys for the first page of each listing view
const (
	RedisKeyListingAll  = RedisKeyListingPrefix + "all"
	RedisKeyListingTag  = RedisKeyListingPrefix + "tag."  // + tag ID
	RedisKeyListingUser = RedisKeyListingPrefix + "user." // + user ID
)

// ListingCacheTTL bounds staleness when an invalidation is missed
const ListingCacheTTL = 5 * time.Minute
