package dtos

import (
	"github.com/xdoubleu/essentia/v2/pkg/validate"
)

type ClientMessageType string

const (
	ToggleMessage ClientMessageType = "toggle"
)

type ServerMessageType string

const (
	SessionMessage    ServerMessageType = "session"
	HighlightsMessage ServerMessageType = "highlights"
	ErrorMessage      ServerMessageType = "error"
)

// Phase tells the client how far a highlight state has progressed.
type Phase string

const (
	Tentative Phase = "tentative"
	Confirmed Phase = "confirmed"
	Unsynced  Phase = "unsynced"
	Snapshot  Phase = "snapshot"
	Cleared   Phase = "cleared"
)

type ClientMessageDto struct {
	Type   ClientMessageType `json:"type"`
	CellID string            `json:"cellId"`
}

func (dto ClientMessageDto) Validate() (bool, map[string]string) {
	v := validate.New()

	validate.Check(
		v,
		"type",
		dto.Type,
		validate.IsInSlice([]ClientMessageType{ToggleMessage}),
	)
	validate.Check(v, "cellId", dto.CellID, validate.IsNotEmpty)

	return v.Valid(), v.Errors()
}

type ServerMessageDto struct {
	Type     ServerMessageType `json:"type"`
	SignedIn bool              `json:"signedIn,omitempty"`
	Email    string            `json:"email,omitempty"`
	Name     string            `json:"name,omitempty"`
	CellIDs  []string          `json:"cellIds,omitempty"`
	Phase    Phase             `json:"phase,omitempty"`
	CellID   string            `json:"cellId,omitempty"`
	Error    any               `json:"error,omitempty"`
}
