package jde

import (
	"encoding/json"
	"strconv"
)

// Field is a canonical response field name.
type Field string

// Canonical fields recognized in JDE responses.
const (
	FieldMessage                Field = "message"
	FieldJDEStatus              Field = "jde_status"
	FieldStartTimestamp         Field = "start_timestamp"
	FieldEndTimestamp           Field = "end_timestamp"
	FieldStatus                 Field = "status"
	FieldBatchNo                Field = "batch_no"
	FieldServerExecutionSeconds Field = "server_execution_seconds"
	FieldLogID                  Field = "log_id"
)

// fieldAliases maps each canonical field to the key spellings JDE has used
// across orchestration versions, in resolution order: the first key present
// in the raw response wins. Kept as data so the mapping stays inspectable
// and trivially extendable.
var fieldAliases = []struct {
	Field   Field
	Aliases []string
}{
	{FieldMessage, []string{"message", "jdeSimpleMessage", "userDefinedErrorText"}},
	{FieldJDEStatus, []string{"jde__status", "jdeStatus", "jde_status"}},
	{FieldStartTimestamp, []string{"jde__startTimestamp", "jdeStartTimestamp"}},
	{FieldEndTimestamp, []string{"jde__endTimestamp", "jdeEndTimestamp"}},
	{FieldStatus, []string{"status"}},
	{FieldBatchNo, []string{"BatchNo", "batchNo", "batchno"}},
	{FieldServerExecutionSeconds, []string{"jde__serverExecutionSeconds", "jdeServerExecutionSeconds"}},
	{FieldLogID, []string{"jdeLogId", "jde_log_id", "exceptionId"}},
}

// NormalizedFields is the canonical view of a raw JDE response. Absence of a
// field is distinct from an empty string.
type NormalizedFields struct {
	values map[Field]string
}

// Normalize maps a raw JDE response onto the canonical field set. Pure: it
// never fails, performs no I/O, and missing keys simply map to absence.
func Normalize(raw map[string]any) NormalizedFields {
	values := make(map[Field]string, len(fieldAliases))
	for _, entry := range fieldAliases {
		for _, alias := range entry.Aliases {
			v, present := raw[alias]
			if !present {
				continue
			}
			if s, ok := StringValue(v); ok {
				values[entry.Field] = s
			}
			break
		}
	}
	return NormalizedFields{values: values}
}

// Get returns the canonical field value and whether it was present.
func (n NormalizedFields) Get(f Field) (string, bool) {
	v, ok := n.values[f]
	return v, ok
}

// GetOr returns the canonical field value, or fallback when absent.
func (n NormalizedFields) GetOr(f Field, fallback string) string {
	if v, ok := n.values[f]; ok {
		return v
	}
	return fallback
}

// StringValue renders a decoded JSON scalar as a string. Objects, arrays and
// nulls report false.
func StringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
