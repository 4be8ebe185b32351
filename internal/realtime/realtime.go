package realtime

import "github.com/google/uuid"

// Light is one LED instruction: light the hold at HoldID in Color.
type Light struct {
	HoldID string `json:"hold_id"`
	Color  string `json:"color"`
}

// WallFrame is a full lighting state for one board. Frames always carry the
// complete set of lights for a problem; holds not listed are dark.
type WallFrame struct {
	BoardName string    `json:"board_name"`
	ProblemID uuid.UUID `json:"problem_id"`
	Lights    []Light   `json:"lights"`
}
