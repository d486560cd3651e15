package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/tahfidz-api/internal/models"
	"github.com/noah-isme/tahfidz-api/pkg/jobs"
)

const notificationJobType = "notification.deliver"

type notificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
}

type notificationPublisher interface {
	Publish(ctx context.Context, channel string, payload interface{}) error
}

// NotificationOptions configures delivery. Workers == 0 delivers inline.
type NotificationOptions struct {
	Enabled       bool
	Workers       int
	Retries       int
	RetryDelay    time.Duration
	ChannelPrefix string
}

// notificationDelivery is the queued unit; persisted survives retries so a
// stored row is never written twice.
type notificationDelivery struct {
	notification models.Notification
	persisted    bool
}

// NotificationService emits review events to users. Delivery is
// fire-and-forget; failures are logged and counted, never returned.
type NotificationService struct {
	store     notificationStore
	publisher notificationPublisher
	metrics   *MetricsService
	opts      NotificationOptions
	queue     *jobs.Queue
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewNotificationService constructs the service and its worker queue.
func NewNotificationService(store notificationStore, publisher notificationPublisher, metrics *MetricsService, opts NotificationOptions, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(opts.ChannelPrefix) == "" {
		opts.ChannelPrefix = "notifications"
	}
	s := &NotificationService{
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	if opts.Workers > 0 {
		s.queue = jobs.NewQueue("notifications", s.handle, jobs.QueueConfig{
			Workers:    opts.Workers,
			MaxRetries: opts.Retries,
			RetryDelay: opts.RetryDelay,
			Logger:     logger,
		})
		if err := metrics.RegisterQueueDepth("notifications", s.queue.Depth); err != nil {
			logger.Warn("notification queue depth gauge not registered", zap.Error(err))
		}
	}
	return s
}

// Start launches the delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	if s.queue != nil && s.opts.Enabled {
		s.queue.Start(ctx)
	}
}

// Stop drains the worker pool.
func (s *NotificationService) Stop() {
	if s.queue != nil {
		s.queue.Stop()
	}
}

// Notify schedules delivery of each notification.
func (s *NotificationService) Notify(ctx context.Context, notifications ...models.Notification) {
	if s == nil || !s.opts.Enabled {
		return
	}
	for _, n := range notifications {
		if n.UserID == "" {
			s.logger.Warn("notification without recipient dropped", zap.String("type", n.Type))
			continue
		}
		if n.ID == "" {
			n.ID = s.newID()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = s.now().UTC()
		}
		delivery := &notificationDelivery{notification: n}

		if s.queue == nil {
			if err := s.deliver(context.WithoutCancel(ctx), delivery); err != nil {
				s.logger.Warn("notification delivery failed", zap.String("notification_id", n.ID), zap.Error(err))
			}
			continue
		}
		if err := s.queue.Enqueue(jobs.Job{ID: n.ID, Type: notificationJobType, Payload: delivery}); err != nil {
			s.metrics.RecordNotification(n.Type, false)
			s.logger.Warn("notification enqueue failed", zap.String("notification_id", n.ID), zap.String("user_id", n.UserID), zap.Error(err))
		}
	}
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	delivery, ok := job.Payload.(*notificationDelivery)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	return s.deliver(ctx, delivery)
}

func (s *NotificationService) deliver(ctx context.Context, delivery *notificationDelivery) error {
	n := &delivery.notification
	if !delivery.persisted && s.store != nil {
		if err := s.store.Create(ctx, n); err != nil {
			s.metrics.RecordNotification(n.Type, false)
			return fmt.Errorf("persist notification: %w", err)
		}
		delivery.persisted = true
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, s.channel(n.UserID), n); err != nil {
			s.metrics.RecordNotification(n.Type, false)
			return fmt.Errorf("publish notification: %w", err)
		}
	}
	s.metrics.RecordNotification(n.Type, true)
	s.logger.Debug("notification delivered", zap.String("notification_id", n.ID), zap.String("user_id", n.UserID), zap.String("type", n.Type))
	return nil
}

func (s *NotificationService) channel(userID string) string {
	return s.opts.ChannelPrefix + ":" + userID
}

// TicketReviewNotifications builds the events emitted after a review decision.
func TicketReviewNotifications(ticket *models.Ticket, studentUserID, teacherUserID string) []models.Notification {
	data := models.NotificationData{
		"ticketId":     ticket.ID,
		"workflowStep": string(ticket.WorkflowStep),
		"status":       string(ticket.Status),
	}
	base := models.Notification{
		RelatedEntityType: models.RelatedEntityTicket,
		RelatedEntityID:   ticket.ID,
		Data:              data,
	}

	step := stepLabel(ticket.WorkflowStep)
	var out []models.Notification
	switch ticket.Status {
	case models.TicketStatusApproved:
		base.Type = models.NotificationTicketApproved
		if studentUserID != "" {
			n := base
			n.UserID = studentUserID
			n.Title = "Recitation approved"
			n.Message = fmt.Sprintf("Your %s recitation has been reviewed and approved.", step)
			out = append(out, n)
		}
		if teacherUserID != "" {
			n := base
			n.UserID = teacherUserID
			n.Title = "Ticket approved"
			n.Message = fmt.Sprintf("The %s ticket you submitted has been approved.", step)
			out = append(out, n)
		}
	case models.TicketStatusRejected:
		base.Type = models.NotificationTicketRejected
		if teacherUserID != "" {
			n := base
			n.UserID = teacherUserID
			n.Title = "Ticket rejected"
			n.Message = fmt.Sprintf("The %s ticket you submitted was rejected.", step)
			if ticket.ReviewNotes != nil && *ticket.ReviewNotes != "" {
				n.Message += " Notes: " + *ticket.ReviewNotes
			}
			out = append(out, n)
		}
	}
	return out
}

func stepLabel(step models.WorkflowStep) string {
	switch step {
	case models.WorkflowStepSabq:
		return "Sabq"
	case models.WorkflowStepSabqi:
		return "Sabqi"
	case models.WorkflowStepManzil:
		return "Manzil"
	default:
		return string(step)
	}
}
