package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JayJamieson/sports-api/pkg/db"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Redis stores JSON snapshots of parsed tables. Keys embed the file
// modification time, so stale entries simply expire.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

var _ db.TableCache = (*Redis)(nil)

func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func NewRedis(client *redis.Client, ttl time.Duration, log *logrus.Logger) *Redis {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Redis{client: client, ttl: ttl, log: log}
}

func redisKey(key string, modTime time.Time) string {
	return fmt.Sprintf("tables:%s:%d", key, modTime.UnixNano())
}

func (r *Redis) Get(ctx context.Context, key string, modTime time.Time) (*db.Table, bool) {
	raw, err := r.client.Get(ctx, redisKey(key, modTime)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.WithError(err).WithField("key", key).Warn("redis table cache get failed")
		}
		return nil, false
	}

	t, err := decodeTable(raw)
	if err != nil {
		r.log.WithError(err).WithField("key", key).Warn("redis table cache entry is corrupt")
		return nil, false
	}

	return t, true
}

// decodeTable restores a snapshot. Numbers keep their integer or float kind
// instead of all becoming float64.
func decodeTable(raw []byte) (*db.Table, error) {
	var t db.Table
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&t); err != nil {
		return nil, err
	}

	for _, row := range t.Rows {
		for i, v := range row {
			n, ok := v.(json.Number)
			if !ok {
				continue
			}
			if iv, err := n.Int64(); err == nil {
				row[i] = iv
			} else if fv, err := n.Float64(); err == nil {
				row[i] = fv
			} else {
				row[i] = n.String()
			}
		}
	}

	return db.NewTable(t.Columns, t.Rows), nil
}

func (r *Redis) Set(ctx context.Context, key string, modTime time.Time, t *db.Table) {
	raw, err := json.Marshal(t)
	if err != nil {
		r.log.WithError(err).WithField("key", key).Warn("failed to encode table for redis")
		return
	}

	if err := r.client.Set(ctx, redisKey(key, modTime), raw, r.ttl).Err(); err != nil {
		r.log.WithError(err).WithField("key", key).Warn("redis table cache set failed")
	}
}

// Invalidate is a no-op; entries are versioned by modification time and
// expire on their own.
func (r *Redis) Invalidate(context.Context, string) {}

func (r *Redis) Close() error {
	return r.client.Close()
}
