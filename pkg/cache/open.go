package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	Dir string // file backend; defaults to DefaultDir()

	RedisAddr string
	RedisDB   int

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open constructs the backend named by opts.Backend. An empty backend
// means file.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		dir := opts.Dir
		if dir == "" {
			dir = DefaultDir()
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	case BackendRedis:
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis backend requires an address")
		}
		c, err := NewRedisCache(ctx, opts.RedisAddr, opts.RedisDB)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		if opts.MongoURI == "" {
			return nil, fmt.Errorf("mongo backend requires a URI")
		}
		db, coll := opts.MongoDatabase, opts.MongoCollection
		if db == "" {
			db = "c4x"
		}
		if coll == "" {
			coll = "cache"
		}
		c, err := NewMongoCache(ctx, opts.MongoURI, db, coll)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
