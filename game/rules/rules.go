package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/corentings/chess/v2"
)

var (
	ErrBadNotation = errors.New("malformed UCI move")
	ErrBadFEN      = errors.New("invalid FEN")
	ErrIllegalMove = errors.New("illegal move")
)

// Color identifies a side. The string form is what appears on the wire.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// UCI moves are origin square, destination square, optional promotion piece.
var uciPattern = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][nbrq]?$`)

// ParseUCI checks s against UCI move grammar and returns the normalized
// (lowercase, trimmed) form. It says nothing about legality; a well-formed
// move can still be rejected by Resolve.
func ParseUCI(s string) (string, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if !uciPattern.MatchString(norm) {
		return "", fmt.Errorf("%w: %q", ErrBadNotation, s)
	}
	return norm, nil
}

// Move is a concrete legal move resolved against a specific position. It is
// only valid for the position it was resolved from.
type Move struct {
	inner chess.Move
	uci   string
}

// UCI returns the move in UCI notation.
func (m Move) UCI() string { return m.uci }

// Game is an opaque chess position plus the engine state needed for draw
// detection (repetition counts, halfmove clock).
type Game struct {
	inner *chess.Game
}

// New returns a game at the standard starting position.
func New() *Game {
	g := &Game{inner: chess.NewGame()}
	g.warmMoveCache()
	return g
}

// FromFEN returns a game at the position encoded by fen.
func FromFEN(fen string) (*Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFEN, err)
	}
	g := &Game{inner: chess.NewGame(opt)}
	g.warmMoveCache()
	return g, nil
}

// warmMoveCache forces the engine to materialize the legal-move list for
// the current position. The engine memoizes it lazily on first use, so
// without this a position shared by concurrent readers would race on the
// cache write. Every constructor and Apply warms the position it leaves
// behind; after that, reads are reads.
func (g *Game) warmMoveCache() {
	g.inner.ValidMoves()
}

// FEN encodes the current position. The en-passant field is disclosed only
// when the capture is actually playable, so a double pawn push that cannot
// legally be taken en passant reports "-" instead of a phantom square.
func (g *Game) FEN() string {
	fen := g.inner.FEN()
	fields := strings.Fields(fen)
	if len(fields) == 6 && fields[3] != "-" && !g.enPassantCapturable() {
		fields[3] = "-"
		fen = strings.Join(fields, " ")
	}
	return fen
}

func (g *Game) enPassantCapturable() bool {
	for _, m := range g.inner.ValidMoves() {
		if m.HasTag(chess.EnPassant) {
			return true
		}
	}
	return false
}

// Turn returns the side to move.
func (g *Game) Turn() Color {
	if g.inner.Position().Turn() == chess.White {
		return White
	}
	return Black
}

// LegalMoves enumerates every legal move in the current position. A
// concluded game has none.
func (g *Game) LegalMoves() []Move {
	if g.Concluded() {
		return nil
	}
	valid := g.inner.ValidMoves()
	moves := make([]Move, 0, len(valid))
	for _, m := range valid {
		moves = append(moves, Move{inner: m, uci: m.String()})
	}
	return moves
}

// Resolve matches a normalized UCI move against the legal moves of the
// current position. The engine's move list is the sole authority: a move
// that does not appear there is illegal, whatever the reason.
func (g *Game) Resolve(uci string) (Move, error) {
	for _, m := range g.LegalMoves() {
		if m.uci == uci {
			return m, nil
		}
	}
	return Move{}, fmt.Errorf("%w: %s", ErrIllegalMove, uci)
}

// SAN encodes m in standard algebraic notation. It must be called before the
// move is applied; disambiguation and check/mate suffixes need the pre-move
// position.
func (g *Game) SAN(m Move) string {
	return chess.AlgebraicNotation{}.Encode(g.inner.Position(), &m.inner)
}

// Apply plays a move previously resolved against this game's current
// position, then claims any automatic draw (threefold repetition, fifty-move
// rule) the resulting position is eligible for.
func (g *Game) Apply(m Move) error {
	if err := g.inner.Move(&m.inner, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	g.claimEligibleDraws()
	g.warmMoveCache()
	return nil
}

func (g *Game) claimEligibleDraws() {
	for _, method := range g.inner.EligibleDraws() {
		if method == chess.ThreefoldRepetition || method == chess.FiftyMoveRule {
			// Draw only fails for methods the position is not eligible
			// for, and we just asked.
			_ = g.inner.Draw(method)
			return
		}
	}
}

// Outcome classifies how, if at all, the game has ended.
type Outcome struct {
	Concluded bool
	Decisive  bool  // checkmate; Winner holds the mating side
	Winner    Color // valid only when Decisive
	Stalemate bool  // drawn specifically by stalemate
}

// Outcome reports the engine's classification of the current position.
func (g *Game) Outcome() Outcome {
	switch g.inner.Outcome() {
	case chess.WhiteWon:
		return Outcome{Concluded: true, Decisive: true, Winner: White}
	case chess.BlackWon:
		return Outcome{Concluded: true, Decisive: true, Winner: Black}
	case chess.Draw:
		return Outcome{Concluded: true, Stalemate: g.inner.Method() == chess.Stalemate}
	default:
		return Outcome{}
	}
}

// Concluded reports whether the game has ended.
func (g *Game) Concluded() bool {
	return g.inner.Outcome() != chess.NoOutcome
}

// InCheck reports whether the side to move's king is attacked.
func (g *Game) InCheck() bool {
	pos := g.inner.Position()
	return sideInCheck(pos.Board().SquareMap(), pos.Turn())
}
