package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"todo-app/internal/domain"
	"todo-app/internal/errors"
)

// TasksField is the top-level field holding the task collection.
const TasksField = "tasks"

// Document is the whole backing document: a JSON object whose fields are
// collections. The task collection lives under TasksField; any sibling fields
// belong to the passthrough API and are carried through untouched.
type Document struct {
	fields map[string]json.RawMessage
}

// taskRecord mirrors domain.Task on the wire so a missing id can be told
// apart from a zero id.
type taskRecord struct {
	ID          *int64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// NewDocument returns a document holding an empty task collection.
func NewDocument() *Document {
	return &Document{fields: map[string]json.RawMessage{
		TasksField: json.RawMessage("[]"),
	}}
}

// ParseDocument decodes raw bytes into a Document.
func ParseDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.NewStorageReadError("parse document", fmt.Errorf("document is not a JSON object"))
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, errors.NewStorageReadError("parse document", err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	return &Document{fields: fields}, nil
}

// Tasks extracts the task collection, checking its shape.
func (d *Document) Tasks() (domain.TaskCollection, error) {
	raw, ok := d.fields[TasksField]
	if !ok {
		return nil, errors.NewSchemaError(TasksField, "field is missing")
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, errors.NewSchemaError(TasksField, "field is not an array")
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, errors.NewSchemaError(TasksField, "field is not an array")
	}

	tasks := make(domain.TaskCollection, 0, len(elems))
	for i, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			return nil, errors.NewSchemaError(TasksField, fmt.Sprintf("element %d is not an object", i))
		}
		var rec taskRecord
		if err := json.Unmarshal(elem, &rec); err != nil {
			return nil, errors.NewSchemaError(TasksField, fmt.Sprintf("element %d: %v", i, err)).
				WithContext("index", i)
		}
		if rec.ID == nil {
			return nil, errors.NewSchemaError(TasksField, fmt.Sprintf("element %d has no id", i)).
				WithContext("index", i)
		}
		tasks = append(tasks, domain.Task{
			ID:          *rec.ID,
			Title:       rec.Title,
			Description: rec.Description,
			Status:      rec.Status,
		})
	}
	return tasks, nil
}

// SetTasks replaces the task collection, leaving sibling fields alone.
func (d *Document) SetTasks(tasks domain.TaskCollection) error {
	if tasks == nil {
		tasks = domain.TaskCollection{}
	}
	if id, dup := tasks.DuplicateID(); dup {
		return errors.NewSchemaError(TasksField, fmt.Sprintf("duplicate id %d", id))
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return errors.NewStorageWriteError("encode tasks", err)
	}
	d.fields[TasksField] = raw
	return nil
}

// Field returns the raw value of a top-level field.
func (d *Document) Field(name string) (json.RawMessage, bool) {
	raw, ok := d.fields[name]
	return raw, ok
}

// SetField replaces the raw value of a top-level field.
func (d *Document) SetField(name string, raw json.RawMessage) {
	d.fields[name] = raw
}

// Names lists the top-level fields in sorted order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.fields))
	for name := range d.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Marshal encodes the document the way it is stored on disk.
func (d *Document) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d.fields, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
