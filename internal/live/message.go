// Package live fans committed match changes out to websocket viewers and to
// the optional redis stream and webhook sinks.
package live

import "time"

type MessageType string

const (
	TypeStateUpdate    MessageType = "state:update"
	TypeInningsChanged MessageType = "innings:changed"
	TypeOverComplete   MessageType = "over:complete"
	TypeMatchFinished  MessageType = "match:finished"
	TypePresence       MessageType = "presence"
)

type Message struct {
	Type      MessageType `json:"type"`
	MatchID   string      `json:"matchId"`
	Payload   any         `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewMessage(t MessageType, matchID string, payload any) Message {
	return Message{
		Type:      t,
		MatchID:   matchID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Room is the hub room every viewer of a match joins.
func Room(matchID string) string {
	return "match:" + matchID
}

type PresencePayload struct {
	Count int `json:"count"`
}
