/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package jobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"k8s.io/klog/v2"

	commonconfig "github.com/PilotDataPlatform/download/pkg/config"
	"github.com/PilotDataPlatform/download/pkg/errors"
	"github.com/PilotDataPlatform/download/pkg/models"
)

// Interface is the job progress store shared by all workers. Records are
// JSON encoded strings keyed per keys.go.
type Interface interface {
	Set(ctx context.Context, key string, record *models.JobRecord) error
	ScanByPrefix(ctx context.Context, prefix string) ([]models.JobRecord, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
}

// Client is a thin layer over a shared redis connection pool.
type Client struct {
	rdb *redis.Client
}

var (
	once     sync.Once
	instance *Client
)

// NewClient creates the singleton job store client from configuration.
// One logical connection pool serves the whole process.
func NewClient() *Client {
	once.Do(func() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", commonconfig.GetRedisHost(), commonconfig.GetRedisPort()),
			Username: commonconfig.GetRedisUser(),
			Password: commonconfig.GetRedisPassword(),
			DB:       commonconfig.GetRedisDB(),
		})
		instance = &Client{rdb: rdb}
		klog.InfoS("init job store client", "addr", rdb.Options().Addr, "db", rdb.Options().DB)
	})
	return instance
}

// Set overwrites the record stored under key.
func (c *Client) Set(ctx context.Context, key string, record *models.JobRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return errors.NewInternalError(err.Error())
	}
	if err := c.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		return errors.NewUpstreamUnavailable("job store", err.Error())
	}
	klog.V(4).InfoS("job record stored", "key", key, "status", record.Status)
	return nil
}

// ScanByPrefix returns every record whose key begins with prefix. Order
// is not guaranteed.
func (c *Client) ScanByPrefix(ctx context.Context, prefix string) ([]models.JobRecord, error) {
	keys, err := c.rdb.Keys(ctx, prefix+"*").Result()
	if err != nil {
		return nil, errors.NewUpstreamUnavailable("job store", err.Error())
	}
	if len(keys) == 0 {
		return nil, nil
	}
	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.NewUpstreamUnavailable("job store", err.Error())
	}
	records := make([]models.JobRecord, 0, len(values))
	for _, val := range values {
		raw, ok := val.(string)
		if !ok {
			continue
		}
		var record models.JobRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			klog.ErrorS(err, "skip malformed job record", "prefix", prefix)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// DeleteByPrefix enumerates then removes all keys matching prefix.
func (c *Client) DeleteByPrefix(ctx context.Context, prefix string) error {
	keys, err := c.rdb.Keys(ctx, prefix+"*").Result()
	if err != nil {
		return errors.NewUpstreamUnavailable("job store", err.Error())
	}
	for _, key := range keys {
		if err := c.rdb.Del(ctx, key).Err(); err != nil {
			return errors.NewUpstreamUnavailable("job store", err.Error())
		}
	}
	return nil
}

// Ping checks the cache connection.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.NewUpstreamUnavailable("job store", err.Error())
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
