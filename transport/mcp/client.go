package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const serverInstructions = `This server hosts chess games.

Workflow:
1. create_game starts a game, optionally from a FEN position or a named
   preset (list_presets shows what is available). It returns the game id.
2. play_move applies one move in UCI notation (e.g. "e2e4", "e7e8q").
   The response includes the move in SAN, the new FEN and the game status.
3. legal_moves lists every legal move for the side to move.
4. get_game returns the full state: FEN, move history and status.
5. delete_game removes a game when you are done with it.

The status is one of: ongoing (says whose turn it is and whether that side
is in check), checkmate (says who won), stalemate, or draw.`

// Client proxies MCP tool calls to the REST API at baseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the given REST base URL, without a
// trailing slash.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewServer builds the MCP server with every tool registered.
func NewServer(c *Client) *server.MCPServer {
	s := server.NewMCPServer(
		"chessd",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithInstructions(serverInstructions),
	)

	s.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Start a new chess game. Optionally pass a starting FEN position or the name of a preset (not both).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"fen": map[string]interface{}{
					"type":        "string",
					"description": "Starting position in FEN notation. Omit for the standard initial position.",
				},
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Name of a starting-position preset. See list_presets.",
				},
			},
		},
	}, c.handleCreateGame)

	s.AddTool(mcp.Tool{
		Name:        "get_game",
		Description: "Get the full state of a game: FEN, move history in UCI and SAN, and status.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "The game id returned by create_game.",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleGetGame)

	s.AddTool(mcp.Tool{
		Name:        "legal_moves",
		Description: "List every legal move for the side to move, in UCI notation. Empty when the game is over.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "The game id returned by create_game.",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleLegalMoves)

	s.AddTool(mcp.Tool{
		Name:        "play_move",
		Description: "Apply one move in UCI notation, e.g. e2e4 or e7e8q for a promotion.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "The game id returned by create_game.",
				},
				"uci": map[string]interface{}{
					"type":        "string",
					"description": "The move in UCI notation.",
				},
			},
			Required: []string{"game_id", "uci"},
		},
	}, c.handlePlayMove)

	s.AddTool(mcp.Tool{
		Name:        "delete_game",
		Description: "Delete a game. Its id becomes invalid.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "The game id returned by create_game.",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleDeleteGame)

	s.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List the available starting-position presets.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPresets)

	return s
}

// ServeStdio runs the MCP server over stdin/stdout until EOF.
func ServeStdio(c *Client) error {
	return server.ServeStdio(NewServer(c))
}

// apiCall performs one HTTP request against the REST API and returns the
// response body and status code.
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return data, resp.StatusCode, nil
}

// toolError extracts the API error message for a tool error result.
func toolError(data []byte, status int) *mcp.CallToolResult {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return mcp.NewToolResultError(body.Error)
	}
	return mcp.NewToolResultError(fmt.Sprintf("request failed with status %d", status))
}

func stringArg(request mcp.CallToolRequest, key string) string {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return ""
	}
	value, _ := args[key].(string)
	return value
}

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload := map[string]string{}
	if fen := stringArg(request, "fen"); fen != "" {
		payload["fen"] = fen
	}
	if preset := stringArg(request, "preset"); preset != "" {
		payload["preset"] = preset
	}

	data, status, err := c.apiCall(ctx, http.MethodPost, "/games", payload)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if status != http.StatusOK {
		return toolError(data, status), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (c *Client) handleGetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID := stringArg(request, "game_id")
	if gameID == "" {
		return mcp.NewToolResultError("game_id is required"), nil
	}

	data, status, err := c.apiCall(ctx, http.MethodGet, "/games/"+gameID, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if status != http.StatusOK {
		return toolError(data, status), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (c *Client) handleLegalMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID := stringArg(request, "game_id")
	if gameID == "" {
		return mcp.NewToolResultError("game_id is required"), nil
	}

	data, status, err := c.apiCall(ctx, http.MethodGet, "/games/"+gameID+"/moves", nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if status != http.StatusOK {
		return toolError(data, status), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (c *Client) handlePlayMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID := stringArg(request, "game_id")
	uci := stringArg(request, "uci")
	if gameID == "" {
		return mcp.NewToolResultError("game_id is required"), nil
	}
	if uci == "" {
		return mcp.NewToolResultError("uci is required"), nil
	}

	data, status, err := c.apiCall(ctx, http.MethodPost, "/games/"+gameID+"/moves", map[string]string{"uci": uci})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if status != http.StatusOK {
		return toolError(data, status), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (c *Client) handleDeleteGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID := stringArg(request, "game_id")
	if gameID == "" {
		return mcp.NewToolResultError("game_id is required"), nil
	}

	data, status, err := c.apiCall(ctx, http.MethodDelete, "/games/"+gameID, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if status != http.StatusNoContent {
		return toolError(data, status), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("game %s deleted", gameID)), nil
}

func (c *Client) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, status, err := c.apiCall(ctx, http.MethodGet, "/presets", nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if status != http.StatusOK {
		return toolError(data, status), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
