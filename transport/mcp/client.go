package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/wricardo/skirmish/game/engine"
	"github.com/wricardo/skirmish/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Skirmish",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Skirmish - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Two players (1 and 2) take turns moving on a square board. Pick up items to
grow stronger, then step next to your opponent to start combat. Combat runs
until one player's health reaches zero.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions: Manage game sessions
- game_state: Board, stats, phase and matchup for a session
- move_range: Cells the active player may move to
- move: Move the active player to (row, col) - requires intent explanation
- combat_tick: Resolve one combat exchange when the server does not run a timer
- restart_game: Start a new round after game over
- move_history: View past moves
- list_configs: List available configurations
- game_instructions: Full rules
- describe_cell: Detailed info about a specific board cell

NOTE: The 'intent' parameter on the move tool serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the config to use (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_range",
		Description: "List the cells the active player may move to this turn",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveRange)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the active player to a cell within range",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Target row (0-based, top to bottom)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Target column (0-based, left to right)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "combat_tick",
		Description: "Resolve one combat exchange (only for configs with combat_interval_ms 0)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleCombatTick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_game",
		Description: "Start a new round once the game is over",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get paginated move history",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Moves per page (default 20, max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete game rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe the contents of a single board cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row (0-based)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column (0-based)",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for stdio or HTTP serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

// do sends a request and returns the status code and raw body
func (c *Client) do(method, path string, body interface{}) (int, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

func apiError(status int, data []byte) error {
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
		return fmt.Errorf("%s", errResp.Error)
	}
	return fmt.Errorf("API error: %d", status)
}

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	status, data, err := c.do(method, path, body)
	if err != nil {
		return err
	}

	if status >= 400 {
		return apiError(status, data)
	}

	if result != nil {
		return json.Unmarshal(data, result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// position reads row and col arguments, accepting numbers or numeric strings
func position(args map[string]interface{}) (engine.Position, error) {
	row, err := cast.ToIntE(args["row"])
	if err != nil || args["row"] == nil {
		return engine.Position{}, fmt.Errorf("row must be an integer")
	}
	col, err := cast.ToIntE(args["col"])
	if err != nil || args["col"] == nil {
		return engine.Position{}, fmt.Errorf("col must be an integer")
	}
	return engine.Position{Row: row, Col: col}, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configName := cast.ToString(args["config_name"])

	body := map[string]string{}
	if configName != "" {
		body["config_id"] = configName
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		phase := engine.Phase("unknown")
		if s.GameState != nil && s.GameState.GameSnapshot != nil {
			phase = s.GameState.Phase
		}
		result += fmt.Sprintf("- %s (Config: %s, Phase: %s, Created: %s)\n",
			s.ID, s.ConfigName, phase, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := cast.ToString(arguments(request)["session_id"])

	var session service.SessionInfo
	err := c.apiCall("GET", sessionPath(sessionID, ""), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := cast.ToString(arguments(request)["session_id"])

	var state service.GameState
	err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMoveRange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := cast.ToString(arguments(request)["session_id"])

	var info service.RangeInfo
	err := c.apiCall("GET", sessionPath(sessionID, "/range"), nil, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRange(&info)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := cast.ToString(args["session_id"])

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = args["intent"]

	target, err := position(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	status, data, err := c.do("POST", sessionPath(sessionID, "/move"), target)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Rejected moves come back as 409 with a full MoveResult
	if status != http.StatusOK && status != http.StatusConflict {
		return mcp.NewToolResultError(apiError(status, data).Error()), nil
	}
	var result service.MoveResult
	if err := json.Unmarshal(data, &result); err != nil || (status == http.StatusConflict && result.ErrorCode == "") {
		return mcp.NewToolResultError(apiError(status, data).Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleCombatTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := cast.ToString(arguments(request)["session_id"])

	var result service.TickResult
	err := c.apiCall("POST", sessionPath(sessionID, "/tick"), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTickResult(&result)), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := cast.ToString(arguments(request)["session_id"])

	var response struct {
		Message string             `json:"message"`
		State   *service.GameState `json:"state"`
	}

	err := c.apiCall("POST", sessionPath(sessionID, "/restart"), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := cast.ToString(args["session_id"])

	params := url.Values{}
	if page := cast.ToInt(args["page"]); page > 0 {
		params.Set("page", cast.ToString(page))
	}
	if limit := cast.ToInt(args["limit"]); limit > 0 {
		params.Set("limit", cast.ToString(limit))
	}
	if order := cast.ToString(args["order"]); order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", path, nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Board: %dx%d, Obstacles: %d, Items: %d\n\n",
			config.ConfigID, config.Name, config.Description,
			config.BoardSize, config.BoardSize, config.Obstacles, config.Items)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

const gameInstructions = `Skirmish - Complete Instructions

GAME OBJECTIVE:
Reduce your opponent's health to zero.

TURNS:
• Player 1 moves first, then turns alternate
• On your turn, move to any highlighted cell (see move_range)
• Range is every cell within Manhattan distance <= your speed
• Obstacles block range: a cell is reachable only along a path of
  non-obstacle cells, each one step closer to the target
• Players may not move onto the opponent's cell

ITEMS (picked up by moving onto them):
• a - attack_boost: sets attack to the item's effect
• A - attack_super_boost: sets attack to the item's effect
• d - defense_boost: adds the effect to shield
• h - health_boost: adds the effect to health
• s - speed_boost: sets speed to the item's effect
Items are consumed on pickup and stay gone for the round.

COMBAT:
• Ending a move orthogonally next to the opponent starts combat
• The player who moved strikes first, then strikes alternate
• Damage per strike is attack reduced by the defender's shield percent:
  damage = attack - attack*shield/100
• Combat ends when a player's health reaches zero; the other player wins
• Once combat starts nobody can move

BOARD LEGEND:
• 1 / 2 - players
• # - obstacle
• * - highlighted (in range of the active player)
• . - empty cell
• a A d h s - items

STRATEGY:
• Compare exchanges-to-defeat before engaging: the matchup line in
  game_state does this for you
• Striking first wins an even fight, so close the distance on your turn
• A shield of 100 or more makes a player immune; grab defense boosts
  when the opponent has the stronger attack

After game over, use restart_game to play another round.`

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := cast.ToString(args["session_id"])

	pos, err := position(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state service.GameState
	err = c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if state.GameSnapshot == nil {
		return mcp.NewToolResultError("no game state available"), nil
	}

	size := len(state.Cells)
	if pos.Row < 0 || pos.Row >= size || pos.Col < 0 || pos.Col >= len(state.Cells[pos.Row]) {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates %s are out of bounds. Board size is %dx%d (0-%d for row and col)",
			pos, size, size, size-1)), nil
	}

	cell := state.Cells[pos.Row][pos.Col]
	result := engine.DescribeCell(cell, state.Players)

	if active := activePlayer(&state); active != nil && active.Position != pos {
		result += fmt.Sprintf("\nDistance from %s (active): %d, speed %d", active.Name,
			engine.ManhattanDistance(active.Position, pos), active.Stats.Speed)
	}

	return mcp.NewToolResultText(result), nil
}

// Formatting helpers

func activePlayer(state *service.GameState) *engine.PlayerView {
	for i := range state.Players {
		if state.Players[i].ID == state.ActivePlayer {
			return &state.Players[i]
		}
	}
	return nil
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *service.GameState) string {
	if state == nil || state.GameSnapshot == nil {
		return "No game state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Round %d | Phase: %s | Moves: %d (this round: %d)\n",
		state.Round, state.Phase, state.TotalMoves, state.CurrentMoves))

	for _, p := range state.Players {
		marker := " "
		if p.ID == state.ActivePlayer && state.Phase == engine.PhaseAwaitingMove {
			marker = ">"
		}
		s := p.Stats.Display()
		result.WriteString(fmt.Sprintf("%s %d %s at %s | HP %d ATK %d SHD %d SPD %d\n",
			marker, p.ID+1, p.Name, p.Position, s.Health, s.Attack, s.Shield, s.Speed))
	}

	if state.Matchup != "" {
		result.WriteString(fmt.Sprintf("Matchup: %s\n", state.Matchup))
	}
	if state.NearestItem != nil {
		result.WriteString(fmt.Sprintf("Nearest item: %s\n", *state.NearestItem))
	}
	if len(state.ItemsLeft) > 0 {
		kinds := make([]string, 0, len(state.ItemsLeft))
		for kind, n := range state.ItemsLeft {
			kinds = append(kinds, fmt.Sprintf("%s x%d", kind, n))
		}
		sort.Strings(kinds)
		result.WriteString(fmt.Sprintf("Items left: %s\n", strings.Join(kinds, ", ")))
	}
	result.WriteString("\n")

	rows := state.BoardView
	if len(rows) == 0 {
		rows = engine.RenderCells(state.Cells)
	}
	for _, row := range rows {
		result.WriteString(row + "\n")
	}

	if state.Phase == engine.PhaseGameOver {
		result.WriteString(fmt.Sprintf("\nGAME OVER - %s wins", state.Winner))
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

func formatMoveResult(result *service.MoveResult) string {
	response := ""
	if result.Success {
		response = fmt.Sprintf("✓ Moved %s→%s", result.From, result.To)
		if dir := engine.Direction(result.From, result.To); dir != "" {
			response += fmt.Sprintf(" (%s %d)", dir, engine.ManhattanDistance(result.From, result.To))
		}
		response += "\n"

	} else {
		response = fmt.Sprintf("✗ Move rejected (%s)\n", result.ErrorCode)
	}

	if result.Pickup != nil {
		response += fmt.Sprintf("Picked up %s (effect %d)\n", result.Pickup.Kind, result.Pickup.Effect)
	}
	if result.CombatStarted {
		response += "Combat started!\n"
	}
	if result.Message != "" {
		response += result.Message + "\n"
	}

	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatTickResult(result *service.TickResult) string {
	response := ""
	if t := result.Tick; t != nil {
		response = fmt.Sprintf("Player %d hit player %d for %d (health now %d)\n",
			t.Attacker+1, t.Defender+1, t.Damage, t.Stats.Display().Health)
		if t.GameOver {
			response += fmt.Sprintf("%s wins!\n", t.Winner)
		}
	}
	if result.Message != "" {
		response += result.Message + "\n"
	}
	return response + "\n" + formatGameState(result.GameState)
}

func formatRange(info *service.RangeInfo) string {
	if info.Phase != engine.PhaseAwaitingMove {
		return fmt.Sprintf("No moves available: game is %s", info.Phase)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s (player %d) at %s, speed %d, can reach %d cells:\n",
		info.Name, info.Player+1, info.From, info.Speed, len(info.Cells)))
	for i, pos := range info.Cells {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(pos.String())
		if pos == info.Opponent {
			b.WriteString("[opponent]")
		}
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Move History (Page %d/%d) - Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		line := fmt.Sprintf("%d. [round %d] %s %s→%s",
			move.MoveNumber, move.Round, move.PlayerName, move.FromPosition, move.ToPosition)
		if move.Item != engine.NoItem {
			line += fmt.Sprintf(" picked up %s", move.Item)
		}
		if move.CombatStarted {
			line += " (combat)"
		}
		result += line + "\n"
	}

	return result
}
