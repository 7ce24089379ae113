package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/chessd/chessd/game/preset"
	"github.com/chessd/chessd/game/rules"
)

// gameServiceImpl is the concrete GameService. One readers-writer lock
// serializes every operation across all games: mutations are exclusive,
// reads are shared. Registry-internal locking still exists underneath but
// this lock is what guarantees atomic read-modify-write on a session.
type gameServiceImpl struct {
	mu       sync.RWMutex
	registry GameRegistry
	presets  PresetLibrary
}

// NewGameService creates a GameService over the given registry. presets may
// be nil, in which case preset creation is rejected and the preset list is
// empty.
func NewGameService(registry GameRegistry, presets PresetLibrary) GameService {
	return &gameServiceImpl{
		registry: registry,
		presets:  presets,
	}
}

func (s *gameServiceImpl) CreateGame(ctx context.Context, req CreateGameRequest) (*GameCreated, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.FEN != "" && req.Preset != "" {
		return nil, ErrCreateConflict
	}

	var game *rules.Game
	switch {
	case req.FEN != "":
		g, err := rules.FromFEN(req.FEN)
		if err != nil {
			return nil, err
		}
		game = g
	case req.Preset != "":
		if s.presets == nil {
			return nil, fmt.Errorf("%w: %s", preset.ErrPresetNotFound, req.Preset)
		}
		p, err := s.presets.Load(req.Preset)
		if err != nil {
			return nil, err
		}
		g, err := rules.FromFEN(p.FEN)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", req.Preset, err)
		}
		game = g
	default:
		game = rules.New()
	}

	sess := s.registry.Create(game)
	log.Printf("[CREATE] game=%s fen=%q total=%d", sess.ID, game.FEN(), s.registry.Count())

	return &GameCreated{
		ID:  sess.ID,
		FEN: game.FEN(),
	}, nil
}

func (s *gameServiceImpl) GetGame(ctx context.Context, gameID string) (*GameInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.registry.Get(gameID)
	if err != nil {
		return nil, err
	}

	return &GameInfo{
		ID:         sess.ID,
		FEN:        sess.Game.FEN(),
		LegalMoves: legalMoveUCIs(sess.Game),
		MovesUCI:   copyStrings(sess.MovesUCI),
		MovesSAN:   copyStrings(sess.MovesSAN),
		Status:     DeriveStatus(sess.Game),
	}, nil
}

func (s *gameServiceImpl) DeleteGame(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.Delete(gameID); err != nil {
		return err
	}
	log.Printf("[DELETE] game=%s total=%d", gameID, s.registry.Count())
	return nil
}

func (s *gameServiceImpl) LegalMoves(ctx context.Context, gameID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.registry.Get(gameID)
	if err != nil {
		return nil, err
	}

	return legalMoveUCIs(sess.Game), nil
}

// legalMoveUCIs lists the legal moves in UCI text, sorted so responses are
// deterministic.
func legalMoveUCIs(g *rules.Game) []string {
	moves := g.LegalMoves()
	ucis := make([]string, 0, len(moves))
	for _, m := range moves {
		ucis = append(ucis, m.UCI())
	}
	sort.Strings(ucis)
	return ucis
}

func (s *gameServiceImpl) ApplyMove(ctx context.Context, gameID string, req MoveRequest) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.registry.Get(gameID)
	if err != nil {
		return nil, err
	}

	uci, err := rules.ParseUCI(req.UCI)
	if err != nil {
		return nil, err
	}

	move, err := sess.Game.Resolve(uci)
	if err != nil {
		return nil, err
	}

	// SAN must be encoded against the pre-move position, before the game
	// state changes.
	san := sess.Game.SAN(move)

	if err := sess.Game.Apply(move); err != nil {
		// Resolve already proved legality, so a rejection here is a bug.
		return nil, fmt.Errorf("%w: applying resolved move %s: %v", ErrInternal, uci, err)
	}

	sess.MovesUCI = append(sess.MovesUCI, uci)
	sess.MovesSAN = append(sess.MovesSAN, san)
	sess.Touch()

	status := DeriveStatus(sess.Game)
	log.Printf("[MOVE] game=%s uci=%s san=%s status=%s", gameID, uci, san, status)

	return &MoveResult{
		ID:         sess.ID,
		AppliedUCI: uci,
		AppliedSAN: san,
		FEN:        sess.Game.FEN(),
		LegalMoves: legalMoveUCIs(sess.Game),
		Status:     status,
	}, nil
}

func (s *gameServiceImpl) ListPresets(ctx context.Context) ([]*preset.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.presets == nil {
		return []*preset.Info{}, nil
	}
	return s.presets.List(), nil
}
