package ui

import (
	"bytes"
	"testing"

	"github.com/nibzard/tood/internal/task"
)

func TestFormatLinePlain(t *testing.T) {
	tests := []struct {
		task task.Task
		want string
	}{
		{task.Task{ID: 1, Body: "Milk"}, "1. Milk"},
		{task.Task{ID: 42, Body: "Carl", Done: true}, "42. Carl"},
	}

	for _, tt := range tests {
		if got := FormatLine(tt.task, true); got != tt.want {
			t.Errorf("FormatLine(%+v): got %q, want %q", tt.task, got, tt.want)
		}
	}
}

func TestWriteListPlain(t *testing.T) {
	var buf bytes.Buffer
	WriteList(&buf, []task.Task{
		{ID: 1, Body: "Milk"},
		{ID: 3, Body: "Bread", Done: true},
	}, true)

	want := "1. Milk\n3. Bread\n"
	if buf.String() != want {
		t.Errorf("WriteList: got %q, want %q", buf.String(), want)
	}
}

func TestWriteListEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteList(&buf, nil, true)
	if buf.Len() != 0 {
		t.Errorf("empty list should write nothing, got %q", buf.String())
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("a bytes.Buffer is not a TTY")
	}
}
