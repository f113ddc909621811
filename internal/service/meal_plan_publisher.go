package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/healthmeal/internal/db"
	"github.com/segmentio/kafka-go"
)

// MealPlanPublisher 在餐单创建后对外发布事件。
type MealPlanPublisher interface {
	PublishMealPlanCreated(ctx context.Context, plan db.MealPlan, source string) error
}

// NoopMealPlanPublisher 不发布任何事件，未配置消息队列时使用。
type NoopMealPlanPublisher struct{}

// PublishMealPlanCreated 直接返回 nil。
func (NoopMealPlanPublisher) PublishMealPlanCreated(context.Context, db.MealPlan, string) error {
	return nil
}

// MealPlanCreatedEvent 是写入 Kafka 的消息体。
type MealPlanCreatedEvent struct {
	Type       string    `json:"type"`
	MealPlanID string    `json:"meal_plan_id"`
	UserID     string    `json:"user_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaMealPlanPublisher 将餐单创建事件写入 Kafka，消息以用户 ID 为 key。
type KafkaMealPlanPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

// NewKafkaMealPlanPublisher 构造写入指定 topic 的发布器。
func NewKafkaMealPlanPublisher(brokers []string, topic string) *KafkaMealPlanPublisher {
	return &KafkaMealPlanPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			// 每次只写一条事件，不等待凑批
			BatchTimeout: 10 * time.Millisecond,
		},
		timeout: 10 * time.Second,
	}
}

// PublishMealPlanCreated 序列化事件并写入 Kafka。
func (p *KafkaMealPlanPublisher) PublishMealPlanCreated(ctx context.Context, plan db.MealPlan, source string) error {
	event := MealPlanCreatedEvent{
		Type:       "meal_plan.created",
		MealPlanID: plan.ID,
		UserID:     plan.UserID,
		StartDate:  FormatDate(plan.StartDate),
		EndDate:    FormatDate(plan.EndDate),
		Source:     source,
		CreatedAt:  plan.CreatedAt,
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode meal plan event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(plan.UserID), Value: value}); err != nil {
		return fmt.Errorf("write meal plan event: %w", err)
	}
	return nil
}

// Close 关闭底层 writer。
func (p *KafkaMealPlanPublisher) Close() error {
	return p.writer.Close()
}
