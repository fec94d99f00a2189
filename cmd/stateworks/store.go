package main

import (
	"context"
	"fmt"

	"github.com/aretw0/stateworks/pkg/adapters/memory"
	"github.com/aretw0/stateworks/pkg/adapters/redis"
	"github.com/aretw0/stateworks/pkg/ports"
	"github.com/spf13/cobra"
)

// storeFlags selects the external data store of a command.
type storeFlags struct {
	kind      string
	redisAddr string
	redisPass string
	redisDB   int
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "store", "memory", "Data store backend (memory, redis)")
	cmd.Flags().StringVar(&f.redisAddr, "redis-addr", "localhost:6379", "Redis address")
	cmd.Flags().StringVar(&f.redisPass, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&f.redisDB, "redis-db", 0, "Redis database")
}

// redisStore connects to Redis and checks the connection.
func (f *storeFlags) redisStore(ctx context.Context, opts ...redis.Option) (*redis.Store, error) {
	s := redis.New(f.redisAddr, f.redisPass, f.redisDB, opts...)
	if err := s.Ping(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", f.redisAddr, err)
	}
	return s, nil
}

// open returns the selected store and a function releasing it.
func (f *storeFlags) open(ctx context.Context) (ports.DataStore, func() error, error) {
	switch f.kind {
	case "", "memory":
		return memory.NewStore(), func() error { return nil }, nil
	case "redis":
		s, err := f.redisStore(ctx)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q (want memory or redis)", f.kind)
	}
}
