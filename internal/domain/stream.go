package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Имена стримов Redis для фонового обогащения проектов
const (
	StreamProjectAugment   = "stream:project:augment"
	StreamProjectAugmented = "stream:project:augmented"
)

// AugmentRequestEvent - входящее событие на обогащение проекта площадями зданий
type AugmentRequestEvent struct {
	RequestID uuid.UUID       `json:"request_id"`
	TMIndex   int64           `json:"tm_index,omitempty"`
	Document  json.RawMessage `json:"document"`
}

// HasProject проверяет, нужно ли синхронизировать геометрию проекта в БД
func (e *AugmentRequestEvent) HasProject() bool {
	return e.TMIndex > 0
}

// AugmentDoneEvent - результат обогащения
type AugmentDoneEvent struct {
	RequestID       uuid.UUID       `json:"request_id"`
	TMIndex         int64           `json:"tm_index,omitempty"`
	Document        json.RawMessage `json:"document,omitempty"`
	GeometryHash    string          `json:"geometry_hash,omitempty"`
	GeometryChanged bool            `json:"geometry_changed"`
	Error           string          `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
