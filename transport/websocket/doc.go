// Package websocket lets clients spectate games in real time.
//
// A client connects to /ws?game=<id> and receives a JSON message for every
// event on that game: each applied move and the game's deletion. The Hub
// fans events out to the subscribers of the affected game; clients never
// send game traffic upstream, the read side exists only to detect
// disconnects.
package websocket
