package rules

import "github.com/corentings/chess/v2"

// The engine does not export an in-check query on positions, so this file
// answers "is this king attacked" directly from the board map. Squares are
// ordered A1=0 .. H8=63, so file and rank fall out of integer arithmetic.

var (
	knightDeltas = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingDeltas   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookDirs     = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs   = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func fileOf(sq chess.Square) int { return int(sq) % 8 }
func rankOf(sq chess.Square) int { return int(sq) / 8 }

func squareAt(file, rank int) chess.Square { return chess.Square(rank*8 + file) }

// sideInCheck reports whether side's king is attacked by the opposing color.
func sideInCheck(board map[chess.Square]chess.Piece, side chess.Color) bool {
	var king chess.Square
	found := false
	for sq, p := range board {
		if p.Type() == chess.King && p.Color() == side {
			king = sq
			found = true
			break
		}
	}
	if !found {
		return false
	}
	return squareAttacked(board, king, side.Other())
}

// squareAttacked reports whether any piece of color by attacks target.
func squareAttacked(board map[chess.Square]chess.Piece, target chess.Square, by chess.Color) bool {
	tf, tr := fileOf(target), rankOf(target)

	// Pawns attack one rank toward the enemy side.
	pawnRank := tr - 1
	if by == chess.Black {
		pawnRank = tr + 1
	}
	for _, df := range [2]int{-1, 1} {
		if p, ok := pieceAt(board, tf+df, pawnRank); ok && p.Color() == by && p.Type() == chess.Pawn {
			return true
		}
	}

	for _, d := range knightDeltas {
		if p, ok := pieceAt(board, tf+d[0], tr+d[1]); ok && p.Color() == by && p.Type() == chess.Knight {
			return true
		}
	}

	for _, d := range kingDeltas {
		if p, ok := pieceAt(board, tf+d[0], tr+d[1]); ok && p.Color() == by && p.Type() == chess.King {
			return true
		}
	}

	if slideAttacked(board, tf, tr, rookDirs, by, chess.Rook) {
		return true
	}
	return slideAttacked(board, tf, tr, bishopDirs, by, chess.Bishop)
}

// slideAttacked scans outward along dirs until the first piece on each ray.
// A rider of the given type (or a queen) belonging to by attacks the origin.
func slideAttacked(board map[chess.Square]chess.Piece, tf, tr int, dirs [4][2]int, by chess.Color, rider chess.PieceType) bool {
	for _, d := range dirs {
		f, r := tf+d[0], tr+d[1]
		for f >= 0 && f < 8 && r >= 0 && r < 8 {
			if p, ok := board[squareAt(f, r)]; ok {
				if p.Color() == by && (p.Type() == rider || p.Type() == chess.Queen) {
					return true
				}
				break
			}
			f += d[0]
			r += d[1]
		}
	}
	return false
}

func pieceAt(board map[chess.Square]chess.Piece, f, r int) (chess.Piece, bool) {
	if f < 0 || f > 7 || r < 0 || r > 7 {
		var none chess.Piece
		return none, false
	}
	p, ok := board[squareAt(f, r)]
	return p, ok
}
