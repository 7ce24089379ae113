// Package mcp exposes the game server to MCP clients.
//
// The MCP server is a thin proxy: every tool call turns into an HTTP
// request against the REST API, so MCP clients and HTTP clients always see
// the same games. Tools cover the whole surface: creating, inspecting and
// deleting games, listing legal moves and presets, and playing moves.
package mcp
