package repository

import (
	"context"
	"errors"
	"fmt"
	"storefront/internal/domain"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const redisKeyPrefix = "storefront"

type RedisOptions struct {
	Addr          string
	SentinelAddrs []string
	MasterName    string
	DB            int
	MaxRetries    int
}

// NewRedisClient opens a sentinel failover client when sentinel addresses are given and a
// single-node client otherwise, then pings with exponential backoff until redis answers.
func NewRedisClient(opts RedisOptions, logger *logrus.Logger) (*redis.Client, error) {
	var rdb *redis.Client
	if len(opts.SentinelAddrs) > 0 {
		masterName := opts.MasterName
		if masterName == "" {
			masterName = "mymaster"
		}
		logger.Infof("Repository: Initializing redis in sentinel mode. Master: %s, DB: %d", masterName, opts.DB)
		rdb = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    masterName,
			SentinelAddrs: opts.SentinelAddrs,
			DB:            opts.DB,
		})
	} else {
		logger.Infof("Repository: Initializing redis in single mode. Addr: %s, DB: %d", opts.Addr, opts.DB)
		rdb = redis.NewClient(&redis.Options{
			Addr: opts.Addr,
			DB:   opts.DB,
		})
	}

	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 10
	}
	for i := 0; i < maxRetries; i++ {
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()

		if err == nil {
			logger.Info("Repository: Connected to redis")
			return rdb, nil
		}
		if i == maxRetries-1 {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to redis after %d retries: %w", maxRetries, err)
		}

		backoff := time.Duration(1<<i) * time.Second
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
		logger.Warnf("Repository: Redis not ready, retry in %v (%d/%d)", backoff, i+1, maxRetries)
		time.Sleep(backoff)
	}
	return rdb, nil
}

type redisStorage struct {
	rdb *redis.Client
	ttl time.Duration
	cb  *gobreaker.CircuitBreaker
	log *logrus.Logger
}

// NewRedisStorage stores each session key as a plain redis string with a sliding TTL.
// All commands go through a circuit breaker so an unavailable redis fails fast.
func NewRedisStorage(rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) domain.StorageFactory {
	st := gobreaker.Settings{
		Name:        "SessionStorageBreaker",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warnf("Repository: Circuit breaker %s changed from %s to %s", name, from, to)
		},
	}
	return &redisStorage{
		rdb: rdb,
		ttl: ttl,
		cb:  gobreaker.NewCircuitBreaker(st),
		log: logger,
	}
}

func (r *redisStorage) ForSession(sessionID string) domain.Storage {
	return &redisSession{store: r, sessionID: sessionID}
}

func (r *redisStorage) Close() error {
	if err := r.rdb.Close(); err != nil {
		r.log.Errorf("Repository: Failed to close redis client: %v", err)
		return err
	}
	r.log.Info("Repository: Redis storage closed")
	return nil
}

func sessionKey(sessionID, key string) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, sessionID, key)
}

type redisSession struct {
	store     *redisStorage
	sessionID string
}

type redisReadResult struct {
	value string
	found bool
}

func (s *redisSession) Read(ctx context.Context, key string) (string, bool, error) {
	k := sessionKey(s.sessionID, key)
	res, err := s.store.cb.Execute(func() (interface{}, error) {
		val, err := s.store.rdb.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			return redisReadResult{}, nil
		}
		if err != nil {
			return nil, err
		}
		return redisReadResult{value: val, found: true}, nil
	})
	if err != nil {
		s.store.log.Errorf("Repository: Redis read of %s failed: %v", k, err)
		return "", false, fmt.Errorf("could not read %s: %w", key, err)
	}
	out := res.(redisReadResult)
	return out.value, out.found, nil
}

func (s *redisSession) Write(ctx context.Context, key, value string) error {
	k := sessionKey(s.sessionID, key)
	_, err := s.store.cb.Execute(func() (interface{}, error) {
		return nil, s.store.rdb.Set(ctx, k, value, s.store.ttl).Err()
	})
	if err != nil {
		s.store.log.Errorf("Repository: Redis write of %s failed: %v", k, err)
		return fmt.Errorf("could not write %s: %w", key, err)
	}
	return nil
}
