package cache

// Cache is a bounded read-through cache in front of the bbolt buckets.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Add(key K, value V)
	Keys() []K
	Delete(key K)
	Purge()
}
