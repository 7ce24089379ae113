package service

// CreateGameRequest carries the optional starting position for a new game.
// At most one of FEN and Preset may be set; when both are empty the game
// starts from the standard initial position.
type CreateGameRequest struct {
	FEN    string `json:"fen,omitempty"`
	Preset string `json:"preset,omitempty"`
}

// GameCreated is the response to a successful create.
type GameCreated struct {
	ID  string `json:"id"`
	FEN string `json:"fen"`
}

// GameInfo is the full observable state of a game.
type GameInfo struct {
	ID         string   `json:"id"`
	FEN        string   `json:"fen"`
	LegalMoves []string `json:"legal_moves"`
	MovesUCI   []string `json:"moves_uci"`
	MovesSAN   []string `json:"moves_san"`
	Status     Status   `json:"status"`
}

// MoveRequest carries one move in UCI notation.
type MoveRequest struct {
	UCI string `json:"uci"`
}

// MoveResult reports a successfully applied move together with the updated
// game state.
type MoveResult struct {
	ID         string   `json:"id"`
	AppliedUCI string   `json:"applied_uci"`
	AppliedSAN string   `json:"applied_san"`
	FEN        string   `json:"fen"`
	LegalMoves []string `json:"legal_moves"`
	Status     Status   `json:"status"`
}

// copyStrings returns a fresh non-nil copy so response slices marshal as
// [] rather than null and callers cannot alias session history.
func copyStrings(src []string) []string {
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}
