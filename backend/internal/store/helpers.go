package store

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"recall/backend/internal/concept"
)

// ============================================================================
// Record Helpers
// ============================================================================

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getOptionalIntFromRecord(record *neo4j.Record, key string) *int {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	switch v := val.(type) {
	case int64:
		i := int(v)
		return &i
	case int:
		return &v
	case float64:
		i := int(v)
		return &i
	}
	return nil
}

func getOptionalFloatFromRecord(record *neo4j.Record, key string) *float64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	switch v := val.(type) {
	case float64:
		return &v
	case int64:
		f := float64(v)
		return &f
	}
	return nil
}

func getStringSliceFromRecord(record *neo4j.Record, key string) []string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	if slice, ok := val.([]interface{}); ok {
		result := make([]string, 0, len(slice))
		for _, v := range slice {
			if str, ok := v.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	return nil
}

// getListFieldFromRecord reads a relationship list. Lists are normally JSON
// text, but nodes written by other tools may hold a native list property.
func getListFieldFromRecord(record *neo4j.Record, key string) concept.ListField {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	switch v := val.(type) {
	case string:
		return concept.ListField(v)
	case []interface{}:
		return concept.ListFieldFrom(v)
	}
	return nil
}

func getTimeFromRecord(record *neo4j.Record, key string) time.Time {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return time.Time{}
	}
	switch v := val.(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ============================================================================
// Parameter Helpers
// ============================================================================

func optionalInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func optionalFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func stringsOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// listText is the persisted form of a relationship list; an absent list stays absent
func listText(field concept.ListField) interface{} {
	if len(field) == 0 {
		return nil
	}
	return string(field)
}

func sortedStrings(values []string) []string {
	sort.Strings(values)
	return values
}

// listFieldJSON validates raw list text before it is written to a JSON column
func listFieldJSON(field concept.ListField) []byte {
	if len(field) == 0 || !json.Valid(field) {
		return nil
	}
	return []byte(field)
}
