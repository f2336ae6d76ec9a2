// Package cache stores compiled layouts and rendered artifacts.
//
// # Backends
//
// Every backend implements [Cache]:
//
//   - [FileCache]: JSON files under the user cache directory (CLI default)
//   - [RedisCache]: Redis with native TTLs, for shared server deployments
//   - [MongoCache]: MongoDB documents with a TTL index
//   - [NullCache]: stores nothing (--no-cache)
//
// [Open] builds a backend from [Options], which the config package fills
// from the [cache] table of c4x.toml.
//
// # Keys
//
// A [Keyer] derives keys from the SHA-256 of the diagram source plus every
// option that affects the output. [ScopedKeyer] adds a namespace prefix.
//
//	keyer := cache.NewDefaultKeyer()
//	lk := keyer.LayoutKey(cache.Hash(src), cache.LayoutKeyOpts{Tuning: opts})
//	ak := keyer.ArtifactKey(cache.Hash(src), cache.ArtifactKeyOpts{Format: "svg", Theme: "classic", LayoutKey: lk})
package cache
