package mcp

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/chessd/chessd/api"
	"github.com/chessd/chessd/game/service"
	"github.com/chessd/chessd/game/session"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	svc := service.NewGameService(session.NewManager(), nil)
	srv := httptest.NewServer(api.NewServer(svc, nil))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func callTool(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(result.Content))
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return tc.Text
}

func TestCreateGameTool(t *testing.T) {
	c := newTestClient(t)

	result, err := c.handleCreateGame(context.Background(), callTool(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textContent(t, result))
	}

	var created struct {
		ID  string `json:"id"`
		FEN string `json:"fen"`
	}
	if err := json.Unmarshal([]byte(textContent(t, result)), &created); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a game id")
	}
}

func TestCreateGameToolBadFEN(t *testing.T) {
	c := newTestClient(t)

	result, err := c.handleCreateGame(context.Background(), callTool(map[string]interface{}{
		"fen": "not a position",
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected a tool error for a bad FEN")
	}
}

func TestPlayMoveTool(t *testing.T) {
	c := newTestClient(t)

	created, err := c.handleCreateGame(context.Background(), callTool(nil))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	var game struct {
		ID string `json:"id"`
	}
	json.Unmarshal([]byte(textContent(t, created)), &game)

	result, err := c.handlePlayMove(context.Background(), callTool(map[string]interface{}{
		"game_id": game.ID,
		"uci":     "e2e4",
	}))
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textContent(t, result))
	}

	var move struct {
		SAN string `json:"applied_san"`
	}
	if err := json.Unmarshal([]byte(textContent(t, result)), &move); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if move.SAN != "e4" {
		t.Errorf("got san %q, want %q", move.SAN, "e4")
	}

	// Illegal move surfaces the API error as a tool error.
	result, err = c.handlePlayMove(context.Background(), callTool(map[string]interface{}{
		"game_id": game.ID,
		"uci":     "e2e4",
	}))
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected a tool error for an illegal move")
	}
}

func TestPlayMoveToolRequiresArguments(t *testing.T) {
	c := newTestClient(t)

	result, err := c.handlePlayMove(context.Background(), callTool(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected a tool error for missing game_id")
	}
}

func TestLegalMovesTool(t *testing.T) {
	c := newTestClient(t)

	created, _ := c.handleCreateGame(context.Background(), callTool(nil))
	var game struct {
		ID string `json:"id"`
	}
	json.Unmarshal([]byte(textContent(t, created)), &game)

	result, err := c.handleLegalMoves(context.Background(), callTool(map[string]interface{}{
		"game_id": game.ID,
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	var moves []string
	if err := json.Unmarshal([]byte(textContent(t, result)), &moves); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(moves) != 20 {
		t.Errorf("expected 20 legal moves, got %d", len(moves))
	}
}

func TestDeleteGameTool(t *testing.T) {
	c := newTestClient(t)

	created, _ := c.handleCreateGame(context.Background(), callTool(nil))
	var game struct {
		ID string `json:"id"`
	}
	json.Unmarshal([]byte(textContent(t, created)), &game)

	result, err := c.handleDeleteGame(context.Background(), callTool(map[string]interface{}{
		"game_id": game.ID,
	}))
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textContent(t, result))
	}

	result, err = c.handleGetGame(context.Background(), callTool(map[string]interface{}{
		"game_id": game.ID,
	}))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected a tool error for a deleted game")
	}
}

func TestListPresetsTool(t *testing.T) {
	c := newTestClient(t)

	result, err := c.handleListPresets(context.Background(), callTool(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textContent(t, result))
	}

	var infos []map[string]interface{}
	if err := json.Unmarshal([]byte(textContent(t, result)), &infos); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("expected no presets, got %d", len(infos))
	}
}
