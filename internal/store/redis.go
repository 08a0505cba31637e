package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"vanish.share/internal/models"
)

var (
	_ RecordStore   = (*RedisStore)(nil)
	_ TimerRegistry = (*RedisStore)(nil)
)

// RedisStore persists records as gob blobs and the timer schedule as a
// sorted set scored by due time, with the phase kept in a companion hash.
// Records carry no Redis TTL: their lifetime is owned by the phase timers,
// because storage-level expiry would drop a record without ever writing the
// expired status callers can still query during the retention window.
type RedisStore struct {
	client *redis.Client
}

const (
	recordKeyPrefix = "record:"
	timerSetKey     = "timers"
	timerPhaseKey   = "timers:phase"
)

func NewRedisStore(options *redis.Options) (*RedisStore, error) {
	client := redis.NewClient(options)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Create(ctx context.Context, rec *models.Record) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}

	ok, err := r.client.SetNX(ctx, recordKey(rec.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*models.Record, error) {
	data, err := r.client.Get(ctx, recordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decode(data)
}

func (r *RedisStore) Update(ctx context.Context, rec *models.Record) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}

	ok, err := r.client.SetXX(ctx, recordKey(rec.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, recordKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisStore) Schedule(ctx context.Context, entry models.TimerEntry) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, timerSetKey, redis.Z{
			Score:  float64(entry.DueAt.UnixNano()),
			Member: entry.ID,
		})
		pipe.HSet(ctx, timerPhaseKey, entry.ID, int(entry.Phase))
		return nil
	})
	return err
}

func (r *RedisStore) Next(ctx context.Context, id string) (models.TimerEntry, error) {
	score, err := r.client.ZScore(ctx, timerSetKey, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.TimerEntry{}, ErrNotFound
		}
		return models.TimerEntry{}, err
	}

	phase, err := r.client.HGet(ctx, timerPhaseKey, id).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.TimerEntry{}, ErrNotFound
		}
		return models.TimerEntry{}, err
	}

	return models.TimerEntry{
		ID:    id,
		Phase: models.Phase(phase),
		DueAt: time.Unix(0, int64(score)),
	}, nil
}

func (r *RedisStore) Remove(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, timerSetKey, id)
		pipe.HDel(ctx, timerPhaseKey, id)
		return nil
	})
	return err
}

func (r *RedisStore) Due(ctx context.Context, now time.Time) ([]models.TimerEntry, error) {
	ids, err := r.client.ZRangeByScore(ctx, timerSetKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixNano(), 10),
	}).Result()
	if err != nil {
		return nil, err
	}

	var due []models.TimerEntry
	for _, id := range ids {
		entry, err := r.Next(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// Removed between the range query and the lookup.
			continue
		}
		if err != nil {
			return nil, err
		}
		due = append(due, entry)
	}
	return due, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Helpers

func recordKey(id string) string {
	return recordKeyPrefix + id
}

func encode(rec *models.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (*models.Record, error) {
	var rec models.Record
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
