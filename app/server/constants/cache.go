package constants

import "time"

const (
	CacheKeySession        = "evote:session:%s"
	CacheKeySessionRevoked = "evote:session:revoked:%s"
)

const (
	CacheExpireSession = 10 * time.Minute
)
