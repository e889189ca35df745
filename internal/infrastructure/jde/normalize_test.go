package jde

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_AliasOrder(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		raw     map[string]any
		want    string
		present bool
	}{
		{
			name:    "message prefers message over jdeSimpleMessage",
			field:   FieldMessage,
			raw:     map[string]any{"message": "first", "jdeSimpleMessage": "second", "userDefinedErrorText": "third"},
			want:    "first",
			present: true,
		},
		{
			name:    "message falls back to jdeSimpleMessage",
			field:   FieldMessage,
			raw:     map[string]any{"jdeSimpleMessage": "second", "userDefinedErrorText": "third"},
			want:    "second",
			present: true,
		},
		{
			name:    "message falls back to userDefinedErrorText",
			field:   FieldMessage,
			raw:     map[string]any{"userDefinedErrorText": "third"},
			want:    "third",
			present: true,
		},
		{
			name:    "jde_status prefers double-underscore spelling",
			field:   FieldJDEStatus,
			raw:     map[string]any{"jde__status": "OK", "jdeStatus": "ERROR", "jde_status": "ERROR"},
			want:    "OK",
			present: true,
		},
		{
			name:    "batch_no checks BatchNo then batchNo then batchno",
			field:   FieldBatchNo,
			raw:     map[string]any{"batchNo": "B2", "batchno": "B3"},
			want:    "B2",
			present: true,
		},
		{
			name:    "log_id prefers jdeLogId",
			field:   FieldLogID,
			raw:     map[string]any{"jdeLogId": "42", "exceptionId": "99"},
			want:    "42",
			present: true,
		},
		{
			name:    "log_id falls back to exceptionId",
			field:   FieldLogID,
			raw:     map[string]any{"exceptionId": "99"},
			want:    "99",
			present: true,
		},
		{
			name:    "absent when no alias is present",
			field:   FieldStartTimestamp,
			raw:     map[string]any{"status": "OK"},
			present: false,
		},
		{
			name:    "empty string is present, not absent",
			field:   FieldMessage,
			raw:     map[string]any{"message": ""},
			want:    "",
			present: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw).Get(tt.field)
			assert.Equal(t, tt.present, ok)
			if tt.present {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalize_ScalarCoercion(t *testing.T) {
	raw := map[string]any{
		"jdeServerExecutionSeconds": json.Number("12"),
		"BatchNo":                   float64(123456),
	}
	fields := Normalize(raw)

	secs, ok := fields.Get(FieldServerExecutionSeconds)
	require.True(t, ok)
	assert.Equal(t, "12", secs)

	batch, ok := fields.Get(FieldBatchNo)
	require.True(t, ok)
	assert.Equal(t, "123456", batch)
}

func TestNormalize_FullResponse(t *testing.T) {
	raw := map[string]any{
		"message":             "Invoice accepted",
		"jde__status":         "OK",
		"jde__startTimestamp": "2026-01-10T08:00:00",
		"jde__endTimestamp":   "2026-01-10T08:00:03",
		"status":              "OK",
		"BatchNo":             "881",
		"jdeLogId":            "77",
	}
	fields := Normalize(raw)

	assert.Equal(t, "Invoice accepted", fields.GetOr(FieldMessage, ""))
	assert.Equal(t, "OK", fields.GetOr(FieldJDEStatus, ""))
	assert.Equal(t, "2026-01-10T08:00:00", fields.GetOr(FieldStartTimestamp, ""))
	assert.Equal(t, "2026-01-10T08:00:03", fields.GetOr(FieldEndTimestamp, ""))
	assert.Equal(t, "OK", fields.GetOr(FieldStatus, ""))
	assert.Equal(t, "881", fields.GetOr(FieldBatchNo, ""))
	assert.Equal(t, "77", fields.GetOr(FieldLogID, "0"))

	_, ok := fields.Get(FieldServerExecutionSeconds)
	assert.False(t, ok)
	assert.Equal(t, "0", NormalizedFields{}.GetOr(FieldLogID, "0"))
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := map[string]any{"message": "m", "status": "ERROR", "jdeLogId": "42"}

	first := Normalize(raw)
	second := Normalize(raw)
	assert.Equal(t, first, second)
}

func TestStringValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{"string", "abc", "abc", true},
		{"json number", json.Number("3.5"), "3.5", true},
		{"float", float64(7), "7", true},
		{"int", 42, "42", true},
		{"bool", true, "true", true},
		{"null", nil, "", false},
		{"object", map[string]any{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StringValue(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
