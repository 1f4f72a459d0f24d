package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/trace"

	"job-copilot-go/internal/config"
	"job-copilot-go/internal/logger"
	"job-copilot-go/internal/tracing"
)

// RabbitMQ 封装消息队列连接，仅用于在请求内发布投递事件。
// 本服务不消费消息，下游（通知、统计）自行订阅。
type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	timeout    time.Duration
}

// ApplicationEvent 投递事件载荷
type ApplicationEvent struct {
	Event         string `json:"event"` // created / updated / deleted
	UserID        string `json:"user_id"`
	ApplicationID string `json:"application_id"`
	JobID         string `json:"job_id,omitempty"`
	Status        string `json:"status,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// NewRabbitMQ 建立连接并声明投递事件交换机
func NewRabbitMQ(cfg *config.RabbitMQConfig) (*RabbitMQ, error) {
	if cfg == nil {
		return nil, fmt.Errorf("rabbitmq config cannot be nil")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("rabbitmq URL is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	// topic交换机, durable, 非自动删除
	err = ch.ExchangeDeclare(cfg.ApplicationExchange, "topic", true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.ApplicationExchange, err)
	}

	timeout := time.Duration(cfg.PublishTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.ApplicationExchange,
		routingKey: cfg.ApplicationRoutingKey,
		timeout:    timeout,
	}, nil
}

// PublishApplicationEvent 发布投递事件。
// 发布失败只记日志不返回错误：事件是旁路通知，不能阻塞主流程。
func (r *RabbitMQ) PublishApplicationEvent(ctx context.Context, event *ApplicationEvent) {
	if r == nil || r.channel == nil {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.Warn().Err(err).Msg("序列化投递事件失败")
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err = r.channel.PublishWithContext(pubCtx, r.exchange, r.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		tracing.RecordError(trace.SpanFromContext(ctx), err, tracing.ErrorTypeRabbitMQ)
		logger.Warn().
			Err(err).
			Str("event", event.Event).
			Str("application_id", event.ApplicationID).
			Msg("发布投递事件失败")
		return
	}

	logger.Debug().
		Str("event", event.Event).
		Str("application_id", event.ApplicationID).
		Msg("投递事件已发布")
}

// Close 关闭通道和连接
func (r *RabbitMQ) Close() error {
	if r == nil {
		return nil
	}
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭RabbitMQ通道失败")
		}
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
