package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToPlayer(playerKey string, msgType string, payload interface{})
	DisconnectPlayer(playerKey string)
}

// Push message types
const (
	MsgPlayerSnapshot = "player_snapshot"
	MsgPlayerDeleted  = "player_deleted"
)
