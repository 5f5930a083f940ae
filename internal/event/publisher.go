package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/xiaodeng873/CareApp/config"
)

// 事件類型
const (
	TypeCareRecordUpserted = "care_record.upserted"
	TypeCareRecordDeleted  = "care_record.deleted"
)

// CareRecordEvent 照護記錄異動事件
type CareRecordEvent struct {
	Type       string    `json:"type"`
	CareType   string    `json:"care_type"`
	RecordID   string    `json:"record_id"`
	ResidentID int64     `json:"resident_id,omitempty"`
	Date       string    `json:"date,omitempty"`
	Slot       string    `json:"slot,omitempty"`
	Recorder   string    `json:"recorder,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher 照護記錄事件發布介面
type Publisher interface {
	Publish(ctx context.Context, evt CareRecordEvent) error
	Close()
}

// ── 不發布 ──

type nopPublisher struct{}

// NewNopPublisher mqtt 未啟用時使用
func NewNopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, CareRecordEvent) error { return nil }
func (nopPublisher) Close()                                        {}

// ── MQTT ──

// publishClient paho 用戶端中實際用到的部分
type publishClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

type mqttPublisher struct {
	client      publishClient
	topicPrefix string
	qos         byte
	timeout     time.Duration
	logger      *zap.Logger
}

// NewMQTTPublisher 連線 MQTT broker
func NewMQTTPublisher(cfg *config.MQTTConfig, logger *zap.Logger) (Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("MQTT 連線中斷", zap.Error(err))
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("連線 MQTT broker 失敗: %w", token.Error())
	}

	logger.Info("MQTT 連線成功", zap.String("broker", cfg.Broker))
	return newMQTTPublisher(client, cfg.TopicPrefix, cfg.QoS, logger), nil
}

func newMQTTPublisher(client publishClient, topicPrefix string, qos byte, logger *zap.Logger) *mqttPublisher {
	return &mqttPublisher{
		client:      client,
		topicPrefix: topicPrefix,
		qos:         qos,
		timeout:     5 * time.Second,
		logger:      logger,
	}
}

// Topic 例：care/records/patrol/upserted
func (p *mqttPublisher) Topic(evt CareRecordEvent) string {
	action := "upserted"
	if evt.Type == TypeCareRecordDeleted {
		action = "deleted"
	}
	return fmt.Sprintf("%s/%s/%s", p.topicPrefix, evt.CareType, action)
}

func (p *mqttPublisher) Publish(ctx context.Context, evt CareRecordEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("序列化事件失敗: %w", err)
	}

	topic := p.Topic(evt)
	token := p.client.Publish(topic, p.qos, false, payload)

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.timeout):
		return fmt.Errorf("發布至 %s 逾時", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("發布至 %s 失敗: %w", topic, err)
	}
	return nil
}

func (p *mqttPublisher) Close() {
	p.client.Disconnect(250)
}
