package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   TaskStatus
		wantOK bool
	}{
		{in: "pending", want: StatusPending, wantOK: true},
		{in: "in_progress", want: StatusInProgress, wantOK: true},
		{in: "completed", want: StatusCompleted, wantOK: true},
		{in: "done", wantOK: false},
		{in: "Pending", wantOK: false},
		{in: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTaskStatus(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdateTaskInput_PresenceTracking(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantSet  [3]bool
		wantNull [3]bool
	}{
		{name: "empty object", body: `{}`},
		{name: "only status", body: `{"status":"completed"}`, wantSet: [3]bool{false, false, true}},
		{name: "null description", body: `{"description":null}`, wantSet: [3]bool{false, true, false}, wantNull: [3]bool{false, true, false}},
		{name: "all fields", body: `{"title":"a","description":"b","status":"pending"}`, wantSet: [3]bool{true, true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in UpdateTaskInput
			require.NoError(t, json.Unmarshal([]byte(tt.body), &in))
			assert.Equal(t, tt.wantSet, [3]bool{in.Title.Set, in.Description.Set, in.Status.Set})
			assert.Equal(t, tt.wantNull, [3]bool{in.Title.Null, in.Description.Null, in.Status.Null})
		})
	}
}

func TestCreateTaskInput_LooseStatus(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantValue string
		wantValid bool
	}{
		{name: "absent", body: `{"title":"x"}`},
		{name: "string", body: `{"title":"x","status":"completed"}`, wantValue: "completed", wantValid: true},
		{name: "number", body: `{"title":"x","status":5}`},
		{name: "bool", body: `{"title":"x","status":true}`},
		{name: "null", body: `{"title":"x","status":null}`},
		{name: "object", body: `{"title":"x","status":{"a":1}}`},
		{name: "array", body: `{"title":"x","status":["completed"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in CreateTaskInput
			require.NoError(t, json.Unmarshal([]byte(tt.body), &in))
			require.NotNil(t, in.Title)
			assert.Equal(t, "x", *in.Title)
			assert.Equal(t, tt.wantValid, in.Status.Valid)
			assert.Equal(t, tt.wantValue, in.Status.Value)
		})
	}
}

func TestOptional_Ptr(t *testing.T) {
	var in UpdateTaskInput
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","description":null}`), &in))

	require.NotNil(t, in.Title.Ptr())
	assert.Equal(t, "x", *in.Title.Ptr())
	assert.Nil(t, in.Description.Ptr())
	assert.Nil(t, in.Status.Ptr())
}

func TestTaskJSONShape(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	task := Task{ID: 7, UserID: 3, Title: "Buy milk", Status: StatusPending, CreatedAt: now, UpdatedAt: now}

	raw, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 7,
		"title": "Buy milk",
		"description": null,
		"status": "pending",
		"created_at": "2026-01-02T03:04:05Z",
		"updated_at": "2026-01-02T03:04:05Z"
	}`, string(raw))
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))
	assert.True(t, s.Expired(now.Add(time.Hour)))
}
