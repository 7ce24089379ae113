package service

import (
	"context"

	"github.com/chessd/chessd/game/preset"
	"github.com/chessd/chessd/game/rules"
	"github.com/chessd/chessd/game/session"
)

// GameService is the operation surface every transport speaks to.
type GameService interface {
	// CreateGame starts a new game. Exactly one of req.FEN and req.Preset
	// may be set; when neither is, the game starts from the standard
	// initial position.
	CreateGame(ctx context.Context, req CreateGameRequest) (*GameCreated, error)

	// GetGame returns the full observable state of a game.
	GetGame(ctx context.Context, gameID string) (*GameInfo, error)

	// DeleteGame removes a game. Its id is never valid again.
	DeleteGame(ctx context.Context, gameID string) error

	// LegalMoves returns every legal move in UCI notation, ordered by
	// origin square then destination square. Empty for concluded games.
	LegalMoves(ctx context.Context, gameID string) ([]string, error)

	// ApplyMove applies one UCI move to a game. On any failure the game is
	// left untouched.
	ApplyMove(ctx context.Context, gameID string, req MoveRequest) (*MoveResult, error)

	// ListPresets returns the available starting-position presets.
	ListPresets(ctx context.Context) ([]*preset.Info, error)
}

// GameRegistry abstracts the session store.
type GameRegistry interface {
	Create(game *rules.Game) *session.Session
	Get(id string) (*session.Session, error)
	Delete(id string) error
	Count() int
}

// PresetLibrary abstracts the preset store.
type PresetLibrary interface {
	Load(name string) (*preset.Preset, error)
	List() []*preset.Info
}
