package service

import (
	"encoding/json"
	"fmt"

	"github.com/chessd/chessd/game/rules"
)

// StatusKind names the four terminal-or-not classifications of a game.
type StatusKind string

const (
	StatusOngoing   StatusKind = "ongoing"
	StatusCheckmate StatusKind = "checkmate"
	StatusStalemate StatusKind = "stalemate"
	StatusDraw      StatusKind = "draw"
)

// Status is the derived classification of a game position. It marshals as a
// single-key JSON object keyed by kind:
//
//	{"ongoing":{"to_move":"white","in_check":false}}
//	{"checkmate":{"winner":"black"}}
//	{"stalemate":{}}
//	{"draw":{}}
type Status struct {
	Kind StatusKind

	// ToMove and InCheck are set only for ongoing games.
	ToMove  rules.Color
	InCheck bool

	// Winner is set only for checkmate.
	Winner rules.Color
}

type ongoingPayload struct {
	ToMove  rules.Color `json:"to_move"`
	InCheck bool        `json:"in_check"`
}

type checkmatePayload struct {
	Winner rules.Color `json:"winner"`
}

// MarshalJSON encodes the single-key tagged form.
func (s Status) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case StatusOngoing:
		return json.Marshal(map[string]ongoingPayload{
			string(StatusOngoing): {ToMove: s.ToMove, InCheck: s.InCheck},
		})
	case StatusCheckmate:
		return json.Marshal(map[string]checkmatePayload{
			string(StatusCheckmate): {Winner: s.Winner},
		})
	case StatusStalemate, StatusDraw:
		return json.Marshal(map[string]struct{}{
			string(s.Kind): {},
		})
	default:
		return nil, fmt.Errorf("unknown status kind %q", s.Kind)
	}
}

// UnmarshalJSON decodes the single-key tagged form.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("status must have exactly one key, got %d", len(raw))
	}
	for key, payload := range raw {
		switch StatusKind(key) {
		case StatusOngoing:
			var p ongoingPayload
			if err := json.Unmarshal(payload, &p); err != nil {
				return err
			}
			*s = Status{Kind: StatusOngoing, ToMove: p.ToMove, InCheck: p.InCheck}
		case StatusCheckmate:
			var p checkmatePayload
			if err := json.Unmarshal(payload, &p); err != nil {
				return err
			}
			*s = Status{Kind: StatusCheckmate, Winner: p.Winner}
		case StatusStalemate:
			*s = Status{Kind: StatusStalemate}
		case StatusDraw:
			*s = Status{Kind: StatusDraw}
		default:
			return fmt.Errorf("unknown status kind %q", key)
		}
	}
	return nil
}

// String renders a short human-readable form for logs.
func (s Status) String() string {
	switch s.Kind {
	case StatusOngoing:
		if s.InCheck {
			return fmt.Sprintf("ongoing (%s to move, in check)", s.ToMove)
		}
		return fmt.Sprintf("ongoing (%s to move)", s.ToMove)
	case StatusCheckmate:
		return fmt.Sprintf("checkmate (%s wins)", s.Winner)
	default:
		return string(s.Kind)
	}
}

// DeriveStatus classifies the game's current position.
func DeriveStatus(g *rules.Game) Status {
	outcome := g.Outcome()
	if !outcome.Concluded {
		return Status{
			Kind:    StatusOngoing,
			ToMove:  g.Turn(),
			InCheck: g.InCheck(),
		}
	}
	if outcome.Decisive {
		return Status{Kind: StatusCheckmate, Winner: outcome.Winner}
	}
	if outcome.Stalemate {
		return Status{Kind: StatusStalemate}
	}
	return Status{Kind: StatusDraw}
}
