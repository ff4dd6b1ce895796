package models

import (
	"encoding/json"
	"time"
)

// Preference is an opaque per-user UI preference blob (fold state, panel
// width). The server never interprets Value; last writer wins.
type Preference struct {
	UserID    int             `json:"user_id"`
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}
