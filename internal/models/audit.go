package models

import (
	"bytes"
	"encoding/json"
	"sort"
)

// AuditLog is one entry of the backend's audit trail.
type AuditLog struct {
	Timestamp string `json:"timestamp"`
	ArticleID ID     `json:"article_id"`
	Action    string `json:"action"`
	Details   Text   `json:"details"`
}

// Text is a free-form field. Strings are kept as is; any other JSON value is
// kept as its compact JSON text.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return err
	}
	*t = Text(buf.String())
	return nil
}

// SortAuditLogsNewestFirst orders logs by timestamp, newest first. Entries
// with unparseable timestamps go last in their original order.
func SortAuditLogsNewestFirst(logs []AuditLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		ti, oki := ParseTimestamp(logs[i].Timestamp)
		tj, okj := ParseTimestamp(logs[j].Timestamp)
		switch {
		case oki && okj:
			return ti.After(tj)
		case oki:
			return true
		default:
			return false
		}
	})
}
