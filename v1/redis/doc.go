// Package redis provides the Redis connection used to coordinate catalog
// uploads across replicas.
//
// The only primitive exposed is a token-owned lock: SET NX with a TTL to
// take it, and Lua scripts that compare the token before deleting or
// extending the key so an expired owner cannot release a successor's lock.
//
//	lock, err := client.TryLock(ctx, client.Key("upload:"+providerID), 2*time.Minute)
//	if errors.Is(err, redis.ErrLockNotAcquired) {
//		// someone else is ingesting for this provider
//	}
//	defer lock.Release(context.Background())
//
// # Configuration
//
//	REDIS_HOST=localhost
//	REDIS_PORT=6379
//	REDIS_PASSWORD=
//	REDIS_DB=0
//	REDIS_KEY_PREFIX=catalog-ingest:
package redis
