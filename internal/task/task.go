// Package task defines the task record and the JSON snapshot format.
package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrEmptyBody is returned when a task body is empty or whitespace-only.
var ErrEmptyBody = errors.New("empty todo is not acceptable")

// Task represents a single todo item. IDs are assigned by the store on
// creation, are monotonic, and are never reused.
type Task struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
	Done bool   `json:"done"`
}

// IsZero returns true if the task is empty (has no ID).
func (t Task) IsZero() bool {
	return t.ID == 0
}

// Filter selects which tasks a listing returns.
type Filter int

const (
	// All returns every task.
	All Filter = iota
	// Incomplete returns only tasks that are not done.
	Incomplete
)

// ValidateBody checks that a body is usable as task text.
func ValidateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrEmptyBody
	}
	return nil
}

// Document is the JSON snapshot format used by export and import.
type Document struct {
	SchemaVersion int    `json:"schema_version"`
	Tasks         []Task `json:"tasks"`
}

// DocumentVersion is the only schema_version this build reads and writes.
const DocumentVersion = 1

// documentSchemaJSON validates snapshots on import. Task ids in a snapshot
// are informational only; the store assigns fresh ids when inserting.
const documentSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["schema_version", "tasks"],
  "additionalProperties": false,
  "properties": {
    "schema_version": {"const": 1},
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["body"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "integer", "minimum": 0},
          "body": {"type": "string", "minLength": 1},
          "done": {"type": "boolean"}
        }
      }
    }
  }
}`

var documentSchema = jsonschema.MustCompileString("tood.schema.json", documentSchemaJSON)

// NewDocument wraps tasks in a versioned snapshot.
func NewDocument(tasks []Task) *Document {
	if tasks == nil {
		tasks = []Task{}
	}
	return &Document{SchemaVersion: DocumentVersion, Tasks: tasks}
}

// Encode renders the document as indented JSON with a trailing newline.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeDocument parses and validates a snapshot. Validation runs against
// the embedded JSON Schema before unmarshaling into the typed document.
func DecodeDocument(data []byte) (*Document, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if err := documentSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	for _, t := range d.Tasks {
		if err := ValidateBody(t.Body); err != nil {
			return nil, fmt.Errorf("task %d: %w", t.ID, err)
		}
	}
	return &d, nil
}
