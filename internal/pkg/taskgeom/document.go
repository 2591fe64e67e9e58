// Package taskgeom работает с документом проекта Tasking Manager: разбор задач,
// каноническая сериализация геометрии и хеширование для обнаружения изменений.
package taskgeom

import (
	"github.com/goccy/go-json"
	"github.com/paulmach/orb/geojson"

	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
)

const tasksKey = "tasks"

// Document - документ проекта TM. Задачи хранятся как GeoJSON FeatureCollection
// под ключом "tasks", остальные ключи сохраняются без изменений.
type Document struct {
	members map[string]json.RawMessage
	Tasks   *geojson.FeatureCollection
}

// ParseDocument разбирает документ проекта
func ParseDocument(data []byte) (*Document, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, apperrors.ErrInvalidDocument.WithMessage("project document is not a JSON object: %v", err)
	}

	raw, ok := members[tasksKey]
	if !ok {
		return nil, apperrors.ErrInvalidDocument.WithMessage(`project document missing "tasks"`)
	}

	tasks, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, apperrors.ErrInvalidDocument.WithMessage(`"tasks" is not a feature collection: %v`, err)
	}

	for _, f := range tasks.Features {
		if f.Properties == nil {
			f.Properties = geojson.Properties{}
		}
	}

	return &Document{members: members, Tasks: tasks}, nil
}

// MarshalJSON собирает документ обратно, подставляя текущие задачи
func (d *Document) MarshalJSON() ([]byte, error) {
	tasks, err := d.Tasks.MarshalJSON()
	if err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage, len(d.members))
	for k, v := range d.members {
		out[k] = v
	}
	out[tasksKey] = tasks

	return json.Marshal(out)
}
