package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"reelchat-service/internal/models"
	"reelchat-service/internal/repositories/mongodb"

	"github.com/IBM/sarama"
)

// NotificationService owns the persistence side of the notification path.
// Realtime delivery through the hub's online index is best-effort and
// at-most-once; this service records the signal and publishes it for
// downstream consumers regardless of whether delivery succeeded.
type NotificationService struct {
	repo     *mongodb.NotificationRepository
	producer sarama.SyncProducer
	topic    string
}

func NewNotificationService(repo *mongodb.NotificationRepository, producer sarama.SyncProducer, topic string) *NotificationService {
	return &NotificationService{
		repo:     repo,
		producer: producer,
		topic:    topic,
	}
}

// Record persists the notification and publishes it to Kafka. Both paths are
// best-effort: failures are logged, never propagated to the realtime layer.
func (s *NotificationService) Record(ctx context.Context, n *models.Notification, result models.DeliveryResult) {
	n.Delivered = result == models.DeliveryDelivered
	n.CreatedAt = time.Now()

	if s.repo != nil {
		if err := s.repo.Save(ctx, n); err != nil {
			slog.Error("Failed to persist notification", "receiverID", n.ReceiverID, "error", err)
		}
	}

	if s.producer != nil {
		payload, err := json.Marshal(n)
		if err != nil {
			slog.Error("Failed to marshal notification", "error", err)
			return
		}
		_, _, err = s.producer.SendMessage(&sarama.ProducerMessage{
			Topic: s.topic,
			Key:   sarama.StringEncoder(n.ReceiverID),
			Value: sarama.ByteEncoder(payload),
		})
		if err != nil {
			slog.Error("Failed to publish notification", "topic", s.topic, "error", err)
		}
	}
}

// History returns the persisted notifications for a recipient, newest first.
func (s *NotificationService) History(ctx context.Context, receiverID string, limit int64) ([]models.Notification, error) {
	return s.repo.FindByReceiver(ctx, receiverID, limit)
}

// MarkRead flags every unread notification for a recipient as read.
func (s *NotificationService) MarkRead(ctx context.Context, receiverID string) error {
	return s.repo.MarkRead(ctx, receiverID)
}
