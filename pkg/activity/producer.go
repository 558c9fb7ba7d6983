/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package activity

import (
	"context"
	_ "embed"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/segmentio/kafka-go"
	"k8s.io/klog/v2"

	commonconfig "github.com/PilotDataPlatform/download/pkg/config"
	"github.com/PilotDataPlatform/download/pkg/errors"
)

//go:embed schemas/metadata.items.activity.avsc
var itemActivitySchemaJSON string

//go:embed schemas/dataset.activity.avsc
var datasetActivitySchemaJSON string

var (
	itemActivitySchema    = avro.MustParse(itemActivitySchemaJSON)
	datasetActivitySchema = avro.MustParse(datasetActivitySchemaJSON)
)

// ActivityTypeDownload labels every message this service publishes.
const ActivityTypeDownload = "download"

// ItemActivity is one download event on a project or dataset item. A
// nil ItemID marks a multi-file archive rather than a single item.
type ItemActivity struct {
	ActivityType   string    `avro:"activity_type"`
	ActivityTime   time.Time `avro:"activity_time"`
	ItemID         *string   `avro:"item_id"`
	ItemType       string    `avro:"item_type"`
	ItemName       string    `avro:"item_name"`
	ItemParentPath string    `avro:"item_parent_path"`
	ContainerCode  string    `avro:"container_code"`
	ContainerType  string    `avro:"container_type"`
	Zone           int       `avro:"zone"`
	User           string    `avro:"user"`
	ImportedFrom   string    `avro:"imported_from"`
	Changes        []string  `avro:"changes"`
}

// DatasetActivity is one download event on a dataset or one of its
// published versions.
type DatasetActivity struct {
	ActivityType  string    `avro:"activity_type"`
	ActivityTime  time.Time `avro:"activity_time"`
	ContainerCode string    `avro:"container_code"`
	Version       *string   `avro:"version"`
	TargetName    *string   `avro:"target_name"`
	User          string    `avro:"user"`
	Changes       []string  `avro:"changes"`
}

// Interface publishes download activity onto the message bus. Delivery
// is fire-and-forget from the caller's point of view; failures are the
// producer's to log.
type Interface interface {
	PublishItemDownload(ctx context.Context, act *ItemActivity) error
	PublishDatasetDownload(ctx context.Context, act *DatasetActivity) error
	Healthy(ctx context.Context) error
	Close() error
}

// Producer writes avro-encoded activity messages through one shared
// kafka writer. The topic is chosen per message.
type Producer struct {
	writer       *kafka.Writer
	brokers      []string
	itemTopic    string
	datasetTopic string
}

// NewProducer builds the process-wide activity producer from
// configuration.
func NewProducer() *Producer {
	brokers := commonconfig.GetKafkaBrokers()
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
		brokers:      brokers,
		itemTopic:    commonconfig.GetItemActivityTopic(),
		datasetTopic: commonconfig.GetDatasetActivityTopic(),
	}
}

// PublishItemDownload emits one item download event.
func (p *Producer) PublishItemDownload(ctx context.Context, act *ItemActivity) error {
	if act.ActivityType == "" {
		act.ActivityType = ActivityTypeDownload
	}
	if act.ActivityTime.IsZero() {
		act.ActivityTime = time.Now().UTC()
	}
	if act.Changes == nil {
		act.Changes = []string{}
	}
	data, err := avro.Marshal(itemActivitySchema, act)
	if err != nil {
		return errors.NewInternalError(err.Error())
	}
	return p.publish(ctx, p.itemTopic, data)
}

// PublishDatasetDownload emits one dataset download event.
func (p *Producer) PublishDatasetDownload(ctx context.Context, act *DatasetActivity) error {
	if act.ActivityType == "" {
		act.ActivityType = ActivityTypeDownload
	}
	if act.ActivityTime.IsZero() {
		act.ActivityTime = time.Now().UTC()
	}
	if act.Changes == nil {
		act.Changes = []string{}
	}
	data, err := avro.Marshal(datasetActivitySchema, act)
	if err != nil {
		return errors.NewInternalError(err.Error())
	}
	return p.publish(ctx, p.datasetTopic, data)
}

func (p *Producer) publish(ctx context.Context, topic string, data []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{Topic: topic, Value: data})
	if err != nil {
		klog.ErrorS(err, "activity publish failed", "topic", topic)
		return errors.NewUpstreamUnavailable("message bus", err.Error())
	}
	klog.V(4).InfoS("activity published", "topic", topic, "bytes", len(data))
	return nil
}

// Healthy dials the first broker to check bus reachability.
func (p *Producer) Healthy(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return errors.NewUpstreamUnavailable("message bus", "no brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return errors.NewUpstreamUnavailable("message bus", err.Error())
	}
	return conn.Close()
}

// Close flushes pending messages and releases the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
