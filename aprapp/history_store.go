package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

/*
 * HistoryStore keeps the most recent generated APRs in a redis list,
 * newest first, trimmed to history_max entries. Redis being down only
 * disables history, generation itself keeps working.
 */
type HistoryStore struct {
	Redisconfig *RedisConfig
	cli         *redis.Client
}

func (p *HistoryStore) openRedis() error {
	if p.cli != nil {
		return nil
	}
	p.cli = redis.NewClient(&redis.Options{
		Addr:     p.Redisconfig.Addr,
		Password: p.Redisconfig.Password,
		DB:       int(p.Redisconfig.Db),
	})
	return nil
}

func (p *HistoryStore) timeout() time.Duration {
	if p.Redisconfig.Timeout > 0 {
		return time.Duration(p.Redisconfig.Timeout) * time.Second
	}
	return 5 * time.Second
}

func (p *HistoryStore) Push(record any) error {
	if err := p.openRedis(); err != nil {
		return err
	}
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout())
	defer cancel()

	key := p.Redisconfig.HistoryKey
	pipe := p.cli.TxPipeline()
	pipe.LPush(ctx, key, b)
	pipe.LTrim(ctx, key, 0, p.Redisconfig.HistoryMax-1)
	if _, err = pipe.Exec(ctx); err != nil {
		log.Warnf("redis push to '%s' failed: %v", key, err)
		return err
	}
	return nil
}

func (p *HistoryStore) Recent(n int64) ([]json.RawMessage, error) {
	if err := p.openRedis(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout())
	defer cancel()

	vals, err := p.cli.LRange(ctx, p.Redisconfig.HistoryKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]json.RawMessage, 0, len(vals))
	for _, val := range vals {
		records = append(records, json.RawMessage(val))
	}
	return records, nil
}

func (p *HistoryStore) Close() error {
	if p.cli != nil {
		err := p.cli.Close()
		p.cli = nil
		return err
	}
	return nil
}
