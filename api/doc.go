// Package api exposes the game service over HTTP.
//
// Routes:
//
//	GET    /                 service banner
//	GET    /health           liveness probe
//	GET    /presets          list starting-position presets
//	POST   /games            create a game (optional fen or preset)
//	GET    /games/{id}       full game state
//	DELETE /games/{id}       delete a game
//	GET    /games/{id}/moves legal moves in UCI notation
//	POST   /games/{id}/moves apply one UCI move
//	GET    /ws               spectate a game over WebSocket
//
// Every error body is {"error": "..."}. Unknown game ids map to 404, bad
// input (malformed FEN or UCI, unknown preset, conflicting create options)
// to 400, and well-formed but illegal moves to 422.
package api
