package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Client holds the delivery program state for one household. The
// upcoming_order column is the live configuration, order_history the
// append-only change log of committed configurations.
type Client struct {
	ID                     string     `gorm:"column:id;primaryKey"`
	FullName               string     `gorm:"column:full_name"`
	StatusID               string     `gorm:"column:status_id"`
	ExpirationDate         *time.Time `gorm:"column:expiration_date"`
	ParentClientID         *string    `gorm:"column:parent_client_id"`
	UpcomingOrder          datatypes.JSON `gorm:"column:upcoming_order"`
	UpcomingOrderUpdatedAt *time.Time     `gorm:"column:upcoming_order_updated_at"`
	OrderHistory           datatypes.JSON `gorm:"column:order_history"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Client) TableName() string { return "clients" }

// EffectiveID resolves sub-accounts to the parent household so that
// orders placed under either identity reconcile against the same key.
func (c Client) EffectiveID() string {
	if c.ParentClientID != nil && *c.ParentClientID != "" {
		return *c.ParentClientID
	}
	return c.ID
}

// ChangeLogEntry is one committed configuration snapshot from the
// client's order history.
type ChangeLogEntry struct {
	Timestamp time.Time
	Payload   map[string]any
}

type rawLogEntry struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	CreatedAt string          `json:"created_at"`
	OrderData json.RawMessage `json:"orderData"`
	OrderSnap json.RawMessage `json:"order_data"`
}

// ParseChangeLog decodes the order history column into timestamped
// snapshot entries. Entries that are not configuration commits, carry
// no payload, or have an unparseable timestamp are skipped.
func ParseChangeLog(raw datatypes.JSON) []ChangeLogEntry {
	if len(raw) == 0 {
		return nil
	}

	var rows []rawLogEntry
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil
	}

	entries := make([]ChangeLogEntry, 0, len(rows))
	for _, row := range rows {
		if row.Type != "upcoming" {
			continue
		}

		data := row.OrderData
		if len(data) == 0 {
			data = row.OrderSnap
		}
		if len(data) == 0 {
			continue
		}

		var payload map[string]any
		if err := json.Unmarshal(data, &payload); err != nil || len(payload) == 0 {
			continue
		}

		ts := row.Timestamp
		if ts == "" {
			ts = row.CreatedAt
		}
		at, err := parseLogTime(ts)
		if err != nil {
			continue
		}

		entries = append(entries, ChangeLogEntry{Timestamp: at, Payload: payload})
	}
	return entries
}

func parseLogTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
