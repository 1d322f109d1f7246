package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gramroute/internal/config"
	"gramroute/internal/logger"
	"gramroute/pkg/mqtt"

	"go.uber.org/zap"
)

const qosAtLeastOnce byte = 1

// MessagePublisher is the subset of the MQTT client the publisher needs.
type MessagePublisher interface {
	Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error
	Disconnect()
}

type MQTTPublisher struct {
	client MessagePublisher
	prefix string
}

func NewMQTTPublisher(client MessagePublisher, topicPrefix string) *MQTTPublisher {
	return &MQTTPublisher{
		client: client,
		prefix: strings.TrimSuffix(topicPrefix, "/"),
	}
}

// NewPublisher connects to the configured broker. Without a broker it returns
// a NopPublisher.
func NewPublisher(ctx context.Context, cfg *config.MQTTConfig) (Publisher, error) {
	if !cfg.Enabled() {
		logger.Info("MQTT broker not configured, report events are disabled")
		return NopPublisher{}, nil
	}

	mqttCfg := mqtt.DefaultConfig(cfg.Broker, cfg.ClientID)
	mqttCfg.Username = cfg.Username
	mqttCfg.Password = cfg.Password

	client := mqtt.NewClient(mqttCfg)
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}

	return NewMQTTPublisher(client, cfg.TopicPrefix), nil
}

// Topic returns the broker topic an event type is published on.
func (p *MQTTPublisher) Topic(t Type) string {
	switch t {
	case TypeReportCreated:
		return p.prefix + "/reports/created"
	case TypeReportStatusChanged:
		return p.prefix + "/reports/status"
	default:
		return p.prefix + "/reports/other"
	}
}

func (p *MQTTPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	topic := p.Topic(event.Type)
	if err := p.client.Publish(ctx, topic, qosAtLeastOnce, false, payload); err != nil {
		return err
	}

	logger.Debug("Event published",
		zap.String("topic", topic),
		zap.String("type", string(event.Type)),
		zap.String("report_id", event.ReportID.String()),
	)
	return nil
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect()
}
