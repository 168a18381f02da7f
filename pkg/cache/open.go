package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend         string
	Dir             string // file backend; empty uses DefaultDir
	RedisURL        string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	Prefix          string // key prefix for shared backends
}

// Open creates the configured backend, wrapped for instrumentation.
func Open(ctx context.Context, opts Options) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		dir := opts.Dir
		if dir == "" {
			if dir, err = DefaultDir(); err != nil {
				return nil, err
			}
		}
		c, err = NewFileCache(dir)
	case BackendRedis:
		c, err = NewRedisCache(ctx, opts.RedisURL, opts.Prefix)
	case BackendMongo:
		db, coll := opts.MongoDatabase, opts.MongoCollection
		if db == "" {
			db = "stackgraph"
		}
		if coll == "" {
			coll = "cache"
		}
		c, err = NewMongoCache(ctx, opts.MongoURI, db, coll)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return NewInstrumented(c), nil
}
