package database

import "time"

// Record statuses.
const (
	StatusOK          = "ok"
	StatusInvalidJSON = "invalid_json"
	StatusError       = "error"
)

// AdviceRecord is one /career-advice exchange. Response holds the advice JSON
// on success or the cleaned raw model output when it failed to parse.
type AdviceRecord struct {
	ID         int64     `db:"id"          json:"id"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	RequestID  string    `db:"request_id"  json:"request_id"`
	Profile    string    `db:"profile"     json:"profile"`
	Status     string    `db:"status"      json:"status"`
	Response   string    `db:"response"    json:"response"`
	Error      string    `db:"error"       json:"error"`
	DurationMS int64     `db:"duration_ms" json:"duration_ms"`
}

// ChatRecord is one /chat exchange.
type ChatRecord struct {
	ID           int64     `db:"id"            json:"id"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	RequestID    string    `db:"request_id"    json:"request_id"`
	HistoryTurns int       `db:"history_turns" json:"history_turns"`
	Message      string    `db:"message"       json:"message"`
	Status       string    `db:"status"        json:"status"`
	Reply        string    `db:"reply"         json:"reply"`
	Error        string    `db:"error"         json:"error"`
	DurationMS   int64     `db:"duration_ms"   json:"duration_ms"`
}
