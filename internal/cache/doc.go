// Package cache provides a sharded, bounded LRU map used to memoize font
// queries that are expensive to recompute, such as shaped pair kerning.
//
//	kern := cache.NewSharded[pairKey, float64](1024, hashPair)
//	v := kern.GetOrCreate(k, func() float64 { return shapePair(k) })
//
// Sharded is safe for concurrent use and must not be copied after creation.
package cache
