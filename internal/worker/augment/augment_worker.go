package augment

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
	"github.com/developmentseed/ml-tm-utils-pub/internal/domain/repository"
	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
	"github.com/developmentseed/ml-tm-utils-pub/internal/usecase/dto"
	"github.com/developmentseed/ml-tm-utils-pub/internal/worker"
)

const (
	maxBatchSize     = 20                     // максимум сообщений за раз
	defaultIdleSleep = 100 * time.Millisecond // пауза если очередь пуста
	retryBackoff     = 200 * time.Millisecond
)

// Augmenter - обогащение документа проекта площадями зданий
type Augmenter interface {
	AugmentProject(ctx context.Context, document []byte) (*dto.AugmentResponse, error)
}

// GeometrySyncer - синхронизация геометрии проекта в БД
type GeometrySyncer interface {
	SyncGeometry(ctx context.Context, tmIndex int64, document []byte) (*dto.SyncGeometryResponse, error)
}

// ProjectAugmentWorker обрабатывает запросы на обогащение проектов из Redis Stream
type ProjectAugmentWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	augmenter  Augmenter
	syncer     GeometrySyncer
	maxRetries int
	idleSleep  time.Duration
}

// NewProjectAugmentWorker создает новый ProjectAugmentWorker
func NewProjectAugmentWorker(
	streamRepo repository.StreamRepository,
	augmenter Augmenter,
	syncer GeometrySyncer,
	consumerGroup string,
	maxRetries int,
	idleSleep time.Duration,
	logger *zap.Logger,
) *ProjectAugmentWorker {
	if idleSleep <= 0 {
		idleSleep = defaultIdleSleep
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &ProjectAugmentWorker{
		BaseWorker: worker.NewBaseWorker("project-augment", consumerGroup, logger),
		streamRepo: streamRepo,
		augmenter:  augmenter,
		syncer:     syncer,
		maxRetries: maxRetries,
		idleSleep:  idleSleep,
	}
}

// Start запускает воркер
func (w *ProjectAugmentWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ProjectAugmentWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("max_batch_size", maxBatchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamProjectAugment, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.processBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				w.Sleep(ctx, time.Second)
				continue
			}

			if processed == 0 {
				w.Sleep(ctx, w.idleSleep)
			}
		}
	}
}

// processBatch читает и обрабатывает batch сообщений.
// Возвращает количество прочитанных сообщений.
func (w *ProjectAugmentWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamProjectAugment,
		w.ConsumerGroup(),
		w.ConsumerName(),
		maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}

	if len(messages) == 0 {
		return 0, nil
	}

	logger.Info("Processing batch", zap.Int("message_count", len(messages)))

	messageIDs := make([]string, 0, len(messages))
	failed := 0

	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			// ACK битое сообщение чтобы не застревало
			_ = w.streamRepo.AckMessage(ctx, domain.StreamProjectAugment, w.ConsumerGroup(), msg.ID)
			continue
		}

		done := w.handleEvent(ctx, event)
		if done.Error != "" {
			failed++
		}

		if err := w.streamRepo.PublishToStream(ctx, domain.StreamProjectAugmented, done); err != nil {
			logger.Error("Failed to publish done event",
				zap.String("request_id", event.RequestID.String()),
				zap.Error(err))
		}

		messageIDs = append(messageIDs, msg.ID)
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamProjectAugment, w.ConsumerGroup(), messageIDs); err != nil {
		// Не критично - сообщения будут переобработаны
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	logger.Info("Batch processed",
		zap.Int("processed", len(messageIDs)),
		zap.Int("failed", failed))

	return len(messages), nil
}

// handleEvent синхронизирует геометрию (если указан проект) и обогащает документ.
// Ошибка обработки попадает в поле Error события-результата.
func (w *ProjectAugmentWorker) handleEvent(ctx context.Context, event *domain.AugmentRequestEvent) *domain.AugmentDoneEvent {
	done := &domain.AugmentDoneEvent{
		RequestID: event.RequestID,
		TMIndex:   event.TMIndex,
	}

	if event.HasProject() {
		var synced *dto.SyncGeometryResponse
		err := w.retry(ctx, event, func() error {
			var err error
			synced, err = w.syncer.SyncGeometry(ctx, event.TMIndex, event.Document)
			return err
		})
		if err != nil {
			done.Error = err.Error()
			return done
		}
		done.GeometryHash = synced.Hash
		done.GeometryChanged = synced.Changed
	}

	var resp *dto.AugmentResponse
	err := w.retry(ctx, event, func() error {
		var err error
		resp, err = w.augmenter.AugmentProject(ctx, event.Document)
		return err
	})
	if err != nil {
		done.Error = err.Error()
		return done
	}

	done.Document = []byte(resp.Document)
	return done
}

// retry повторяет fn только для ошибок БД и кеша, ошибки входных данных не повторяются
func (w *ProjectAugmentWorker) retry(ctx context.Context, event *domain.AugmentRequestEvent, fn func() error) error {
	var err error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		if err = fn(); err == nil || !isTransient(err) {
			return err
		}

		w.Logger().Warn("Augment attempt failed",
			zap.String("request_id", event.RequestID.String()),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < w.maxRetries {
			w.Sleep(ctx, retryBackoff*time.Duration(attempt))
		}
	}
	return err
}

func isTransient(err error) bool {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.StatusCode >= 500
	}
	return true
}

// parseMessage разбирает JSON из поля data сообщения
func parseMessage(msg domain.StreamMessage) (*domain.AugmentRequestEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("empty message data")
	}

	var event domain.AugmentRequestEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if len(event.Document) == 0 {
		return nil, fmt.Errorf("event %s has no document", event.RequestID)
	}

	return &event, nil
}
