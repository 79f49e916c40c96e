package utils

import (
	"encoding/json"
	"strings"
)

// MediaIDsToString converts []string to JSON string (safe for DB)
func MediaIDsToString(ids []string) string {
	if len(ids) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

// StringToMediaIDs converts DB string back to []string
func StringToMediaIDs(s string) []string {
	if s == "" || s == "[]" {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		// Fallback: treat as comma-separated if invalid JSON
		return strings.Split(s, ",")
	}
	return ids
}
