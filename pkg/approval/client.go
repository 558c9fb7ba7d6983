/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package approval

import (
	"context"
	"fmt"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	commonconfig "github.com/PilotDataPlatform/download/pkg/config"
	"github.com/PilotDataPlatform/download/pkg/errors"
)

// Interface reads the approval database shared with the approval
// service. The download flow only ever consults it, never writes.
type Interface interface {
	GetApprovalEntities(ctx context.Context, requestID uuid.UUID) (map[string]ApprovalEntity, error)
	Ping(ctx context.Context) error
}

// Client holds both a sqlx handle for plain queries and a gorm handle
// for model-level access, over one underlying pool.
type Client struct {
	db     *sqlx.DB
	gormDB *gorm.DB
	schema string
}

var (
	once     sync.Once
	instance *Client
	initErr  error
)

// NewClient connects the singleton approval client from configuration.
func NewClient() (*Client, error) {
	once.Do(func() {
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			commonconfig.GetDBHost(), commonconfig.GetDBPort(),
			commonconfig.GetDBUser(), commonconfig.GetDBPassword(),
			commonconfig.GetDBName(), commonconfig.GetDBSSLMode())
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			initErr = errors.NewUpstreamUnavailable("approval db", err.Error())
			return
		}
		db.SetMaxOpenConns(commonconfig.GetDBMaxOpenConns())
		db.SetMaxIdleConns(commonconfig.GetDBMaxIdleConns())
		gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{})
		if err != nil {
			initErr = errors.NewUpstreamUnavailable("approval db", err.Error())
			return
		}
		instance = &Client{db: db, gormDB: gormDB, schema: commonconfig.GetDBSchema()}
		klog.InfoS("init approval db client",
			"host", commonconfig.GetDBHost(), "db", commonconfig.GetDBName(),
			"schema", instance.schema)
	})
	return instance, initErr
}

// NewClientWith wraps an existing connection, used by tests.
func NewClientWith(db *sqlx.DB, schema string) *Client {
	return &Client{db: db, schema: schema}
}

// GetApprovalEntities returns the rows of one approval request keyed by
// the metadata item id they refer to.
func (c *Client) GetApprovalEntities(ctx context.Context, requestID uuid.UUID) (map[string]ApprovalEntity, error) {
	query, args, err := sq.Select("id", "request_id", "entity_id", "entity_type",
		"review_status", "copy_status", "name", "created_at").
		From(c.schema + ".approval_entity").
		Where(sq.Eq{"request_id": requestID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.NewInternalError(err.Error())
	}
	var rows []ApprovalEntity
	if err := c.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.NewUpstreamUnavailable("approval db", err.Error())
	}
	entities := make(map[string]ApprovalEntity, len(rows))
	for _, row := range rows {
		entities[row.EntityID] = row
	}
	klog.V(4).InfoS("approval entities loaded", "request_id", requestID, "entities", len(entities))
	return entities, nil
}

// Ping checks the database connection.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return errors.NewUpstreamUnavailable("approval db", err.Error())
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}
