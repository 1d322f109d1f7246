package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gramroute/internal/config"
	"gramroute/internal/domain/report"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic   string
	qos     byte
	payload []byte
}

type fakeClient struct {
	messages     []published
	err          error
	disconnected bool
}

func (f *fakeClient) Publish(_ context.Context, topic string, qos byte, _ bool, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, published{topic: topic, qos: qos, payload: payload})
	return nil
}

func (f *fakeClient) Disconnect() { f.disconnected = true }

func testReport() *report.Report {
	return &report.Report{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Status:   report.StatusInProgress,
		Category: report.CategoryRoad,
	}
}

func TestMQTTPublisherTopics(t *testing.T) {
	p := NewMQTTPublisher(&fakeClient{}, "city/")

	assert.Equal(t, "city/reports/created", p.Topic(TypeReportCreated))
	assert.Equal(t, "city/reports/status", p.Topic(TypeReportStatusChanged))
}

func TestMQTTPublisherPublish(t *testing.T) {
	client := &fakeClient{}
	p := NewMQTTPublisher(client, "gramroute")
	r := testReport()

	require.NoError(t, p.Publish(context.Background(), ReportStatusChanged(r, report.StatusPending)))
	require.Len(t, client.messages, 1)

	msg := client.messages[0]
	assert.Equal(t, "gramroute/reports/status", msg.topic)
	assert.Equal(t, byte(1), msg.qos)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.payload, &body))
	assert.Equal(t, "report.status_changed", body["type"])
	assert.Equal(t, r.ID.String(), body["report_id"])
	assert.Equal(t, "in-progress", body["status"])
	assert.Equal(t, "pending", body["previous_status"])
	assert.Equal(t, "road", body["category"])

	p.Close()
	assert.True(t, client.disconnected)
}

func TestMQTTPublisherCreatedOmitsPreviousStatus(t *testing.T) {
	client := &fakeClient{}
	p := NewMQTTPublisher(client, "gramroute")

	require.NoError(t, p.Publish(context.Background(), ReportCreated(testReport())))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(client.messages[0].payload, &body))
	assert.NotContains(t, body, "previous_status")
	assert.Equal(t, "gramroute/reports/created", client.messages[0].topic)
}

func TestMQTTPublisherPropagatesErrors(t *testing.T) {
	boom := errors.New("broker down")
	p := NewMQTTPublisher(&fakeClient{err: boom}, "gramroute")

	assert.ErrorIs(t, p.Publish(context.Background(), ReportCreated(testReport())), boom)
}

func TestNewPublisherWithoutBroker(t *testing.T) {
	p, err := NewPublisher(context.Background(), &config.MQTTConfig{})
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), Event{}))
}
