// Package rules wraps the chess rules engine used by the game service.
//
// The rules package implements:
//   - UCI move text parsing and normalization
//   - Legal-move enumeration for a position
//   - Resolution of a UCI move against the current position
//   - SAN encoding of a resolved move (against the pre-move position)
//   - FEN encoding/decoding with legal en-passant disclosure
//   - Outcome classification and in-check detection
//
// The underlying engine (github.com/corentings/chess/v2) is the sole
// authority on move legality. This package never second-guesses it; it only
// adapts its API to the shape the rest of the server needs.
//
// A Game is the opaque position handle the session layer stores. It is not
// safe for concurrent use; callers serialize access (the service layer holds
// a readers-writer lock around every operation).
//
// Terminal states:
//
// Once a game has concluded (checkmate, stalemate, or any draw), LegalMoves
// returns an empty set and Resolve rejects every move. Draws by threefold
// repetition and the fifty-move rule are claimed automatically as part of
// Apply, so shuffling pieces forever always terminates in a draw.
package rules
