// Package preset provides named starting positions for new games.
//
// A preset is a JSON file in the presets directory:
//
//	{
//	  "title": "Italian Game",
//	  "description": "1.e4 e5 2.Nf3 Nc6 3.Bc4 Bc5",
//	  "fen": "r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4"
//	}
//
// The file name (without extension) is the preset name clients refer to in
// create requests. FENs are validated against the rules engine at load time,
// so a listed preset is always playable. Loaded presets are cached; the
// manager is safe for concurrent use.
package preset
