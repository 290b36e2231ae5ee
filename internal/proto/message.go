package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the stenographer client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	// InboundTypeLive replaces the live buffer (every keystroke).
	InboundTypeLive = "live"
	// InboundTypeCommit finalizes the given text into a message.
	InboundTypeCommit = "commit"
	// InboundTypeSettings replaces the room settings.
	InboundTypeSettings = "settings"
	// InboundTypeClear wipes the room's messages and live buffer.
	InboundTypeClear = "clear"
)

// TextData carries the buffer text for live and commit frames.
type TextData struct {
	Text string `json:"text"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// ErrorFrame is sent back when an inbound frame cannot be handled.
// Broadcast events go out as-is; this is the only other outbound shape.
type ErrorFrame struct {
	Type  string `json:"type"`
	Error *Error `json:"error"`
}
