// Package cache provides a generic in-process LRU cache with optional TTL
// and stampede protection through singleflight.
//
// The view resolver uses it to remember how request paths map to views:
//
//	c := cache.NewMemory[Resolved](cache.WithMaxEntries(4096))
//	v, err := c.GetOrSet(ctx, path, func(ctx context.Context) (Resolved, error) {
//		return resolve(path)
//	})
package cache
