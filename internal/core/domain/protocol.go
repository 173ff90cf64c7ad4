package domain

const (
	EventJoinRoom  = "join_room"
	EventLeaveRoom = "leave_room"
	EventChat      = "chat"
)

// InboundEvent is the single structured frame clients send over the socket.
// A chat event carries no room selector: it fans out over every room the
// sending connection has joined. Known limitation, kept for wire
// compatibility with existing clients.
type InboundEvent struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId,omitempty"`
	Message string `json:"message,omitempty"`
}

// Outbound traffic is plain text: the handshake ack, joined-room
// confirmations, echo fallbacks and relayed chat payloads (verbatim).
const (
	MsgConnected  = "Connected to ws server"
	MsgAuthFailed = "Authentication failed"
)
