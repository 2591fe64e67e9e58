package augment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
	"github.com/developmentseed/ml-tm-utils-pub/internal/usecase/dto"
)

type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	return m.Called(ctx, stream, group).Error(0)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	return m.Called(ctx, stream, group, messageID).Error(0)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	return m.Called(ctx, stream, group, messageIDs).Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	return m.Called(ctx, stream, data).Error(0)
}

type MockAugmenter struct {
	mock.Mock
}

func (m *MockAugmenter) AugmentProject(ctx context.Context, document []byte) (*dto.AugmentResponse, error) {
	args := m.Called(ctx, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AugmentResponse), args.Error(1)
}

type MockGeometrySyncer struct {
	mock.Mock
}

func (m *MockGeometrySyncer) SyncGeometry(ctx context.Context, tmIndex int64, document []byte) (*dto.SyncGeometryResponse, error) {
	args := m.Called(ctx, tmIndex, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SyncGeometryResponse), args.Error(1)
}

const testDocument = `{"type":"FeatureCollection","features":[]}`

func newTestWorker(maxRetries int) (*ProjectAugmentWorker, *MockStreamRepository, *MockAugmenter, *MockGeometrySyncer) {
	stream := &MockStreamRepository{}
	augmenter := &MockAugmenter{}
	syncer := &MockGeometrySyncer{}

	w := NewProjectAugmentWorker(stream, augmenter, syncer, "test-group", maxRetries, 10*time.Millisecond, zap.NewNop())
	return w, stream, augmenter, syncer
}

func message(t *testing.T, id string, event domain.AugmentRequestEvent) domain.StreamMessage {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return domain.StreamMessage{ID: id, Data: string(data)}
}

func doneFor(requestID uuid.UUID, check func(*domain.AugmentDoneEvent) bool) interface{} {
	return mock.MatchedBy(func(e *domain.AugmentDoneEvent) bool {
		return e.RequestID == requestID && check(e)
	})
}

func TestProjectAugmentWorker_Name(t *testing.T) {
	w, _, _, _ := newTestWorker(3)
	assert.Equal(t, "project-augment", w.Name())
}

func TestProjectAugmentWorker_Stop(t *testing.T) {
	w, _, _, _ := newTestWorker(3)

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
	assert.True(t, w.IsStopped())
}

func TestProjectAugmentWorker_ContextCancellation(t *testing.T) {
	w, stream, _, _ := newTestWorker(3)

	stream.On("CreateConsumerGroup", mock.Anything, domain.StreamProjectAugment, "test-group").Return(nil)
	stream.On("ConsumeBatch", mock.Anything, domain.StreamProjectAugment, "test-group", mock.AnythingOfType("string"), maxBatchSize).
		Return([]domain.StreamMessage{}, nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.Equal(t, context.Canceled, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Worker did not stop on context cancellation")
	}

	stream.AssertExpectations(t)
}

func TestProjectAugmentWorker_ConsumerGroupError(t *testing.T) {
	w, stream, _, _ := newTestWorker(3)

	stream.On("CreateConsumerGroup", mock.Anything, domain.StreamProjectAugment, "test-group").
		Return(fmt.Errorf("connection refused"))

	err := w.Start(context.Background())
	assert.Error(t, err)
}

func TestProjectAugmentWorker_ProcessBatch(t *testing.T) {
	w, stream, augmenter, syncer := newTestWorker(3)
	ctx := context.Background()

	withProject := domain.AugmentRequestEvent{
		RequestID: uuid.New(),
		TMIndex:   26,
		Document:  []byte(testDocument),
	}
	anonymous := domain.AugmentRequestEvent{
		RequestID: uuid.New(),
		Document:  []byte(testDocument),
	}

	messages := []domain.StreamMessage{
		message(t, "1-0", withProject),
		{ID: "1-1", Data: "not json"},
		message(t, "1-2", anonymous),
	}

	stream.On("ConsumeBatch", ctx, domain.StreamProjectAugment, "test-group", mock.AnythingOfType("string"), maxBatchSize).
		Return(messages, nil)
	stream.On("AckMessage", ctx, domain.StreamProjectAugment, "test-group", "1-1").Return(nil)

	syncer.On("SyncGeometry", ctx, int64(26), []byte(testDocument)).
		Return(&dto.SyncGeometryResponse{TMIndex: 26, Hash: "abc", Changed: true}, nil).Once()
	augmenter.On("AugmentProject", ctx, []byte(testDocument)).
		Return(&dto.AugmentResponse{Document: json.RawMessage(`{"augmented":true}`), Tasks: 1}, nil).Twice()

	stream.On("PublishToStream", ctx, domain.StreamProjectAugmented, doneFor(withProject.RequestID, func(e *domain.AugmentDoneEvent) bool {
		return e.TMIndex == 26 && e.GeometryHash == "abc" && e.GeometryChanged && e.Error == "" &&
			string(e.Document) == `{"augmented":true}`
	})).Return(nil).Once()
	stream.On("PublishToStream", ctx, domain.StreamProjectAugmented, doneFor(anonymous.RequestID, func(e *domain.AugmentDoneEvent) bool {
		return e.TMIndex == 0 && e.GeometryHash == "" && e.Error == ""
	})).Return(nil).Once()

	stream.On("AckMessages", ctx, domain.StreamProjectAugment, "test-group", []string{"1-0", "1-2"}).Return(nil)

	processed, err := w.processBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, processed)

	stream.AssertExpectations(t)
	augmenter.AssertExpectations(t)
	syncer.AssertExpectations(t)
}

func TestProjectAugmentWorker_ProcessBatch_Empty(t *testing.T) {
	w, stream, _, _ := newTestWorker(3)
	ctx := context.Background()

	stream.On("ConsumeBatch", ctx, domain.StreamProjectAugment, "test-group", mock.AnythingOfType("string"), maxBatchSize).
		Return([]domain.StreamMessage{}, nil)

	processed, err := w.processBatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, processed)

	stream.AssertNotCalled(t, "AckMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectAugmentWorker_ProcessBatch_ConsumeError(t *testing.T) {
	w, stream, _, _ := newTestWorker(3)
	ctx := context.Background()

	stream.On("ConsumeBatch", ctx, domain.StreamProjectAugment, "test-group", mock.AnythingOfType("string"), maxBatchSize).
		Return(nil, fmt.Errorf("connection reset"))

	_, err := w.processBatch(ctx)
	assert.Error(t, err)
}

func TestProjectAugmentWorker_RetriesTransientErrors(t *testing.T) {
	w, stream, augmenter, _ := newTestWorker(2)
	ctx := context.Background()

	event := domain.AugmentRequestEvent{RequestID: uuid.New(), Document: []byte(testDocument)}

	stream.On("ConsumeBatch", ctx, domain.StreamProjectAugment, "test-group", mock.AnythingOfType("string"), maxBatchSize).
		Return([]domain.StreamMessage{message(t, "2-0", event)}, nil)

	augmenter.On("AugmentProject", ctx, []byte(testDocument)).
		Return(nil, fmt.Errorf("%w: connection reset", apperrors.ErrDatabaseError)).Once()
	augmenter.On("AugmentProject", ctx, []byte(testDocument)).
		Return(&dto.AugmentResponse{Document: json.RawMessage(testDocument)}, nil).Once()

	stream.On("PublishToStream", ctx, domain.StreamProjectAugmented, doneFor(event.RequestID, func(e *domain.AugmentDoneEvent) bool {
		return e.Error == ""
	})).Return(nil).Once()
	stream.On("AckMessages", ctx, domain.StreamProjectAugment, "test-group", []string{"2-0"}).Return(nil)

	_, err := w.processBatch(ctx)
	require.NoError(t, err)

	augmenter.AssertNumberOfCalls(t, "AugmentProject", 2)
	stream.AssertExpectations(t)
}

func TestProjectAugmentWorker_InvalidDocumentNotRetried(t *testing.T) {
	w, stream, augmenter, syncer := newTestWorker(3)
	ctx := context.Background()

	event := domain.AugmentRequestEvent{RequestID: uuid.New(), TMIndex: 7, Document: []byte(`{"type":"Point"}`)}

	stream.On("ConsumeBatch", ctx, domain.StreamProjectAugment, "test-group", mock.AnythingOfType("string"), maxBatchSize).
		Return([]domain.StreamMessage{message(t, "3-0", event)}, nil)

	syncer.On("SyncGeometry", ctx, int64(7), []byte(`{"type":"Point"}`)).
		Return(nil, apperrors.ErrInvalidDocument).Once()

	stream.On("PublishToStream", ctx, domain.StreamProjectAugmented, doneFor(event.RequestID, func(e *domain.AugmentDoneEvent) bool {
		return e.Error != "" && e.Document == nil
	})).Return(nil).Once()
	stream.On("AckMessages", ctx, domain.StreamProjectAugment, "test-group", []string{"3-0"}).Return(nil)

	_, err := w.processBatch(ctx)
	require.NoError(t, err)

	syncer.AssertNumberOfCalls(t, "SyncGeometry", 1)
	augmenter.AssertNotCalled(t, "AugmentProject", mock.Anything, mock.Anything)
	stream.AssertExpectations(t)
}
