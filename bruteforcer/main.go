// Command bruteforcer plays skirmish rounds against a running server,
// driving both players through the REST API with a greedy strategy and
// reporting who won each round.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/skirmish/game/engine"
	"github.com/wricardo/skirmish/game/service"
)

// errRejected is returned when the server refuses a move, tick or restart
var errRejected = errors.New("rejected")

type Client struct {
	baseURL   string
	sessionID string
	manual    bool
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) call(method, path string, body interface{}, result interface{}) (int, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusConflict && result != nil {
		// Rejected moves still carry a body worth decoding
		json.Unmarshal(data, result)
		return resp.StatusCode, fmt.Errorf("%w: %s", errRejected, string(data))
	}
	if resp.StatusCode >= 400 {
		return resp.StatusCode, fmt.Errorf("%s %s failed: %d - %s", method, path, resp.StatusCode, string(data))
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return resp.StatusCode, fmt.Errorf("parse response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + c.sessionID + suffix
}

func (c *Client) CreateSession(configName string) (*service.GameState, error) {
	body := map[string]string{}
	if configName != "" {
		body["config_id"] = configName
	}

	var session service.SessionInfo
	if _, err := c.call("POST", "/api/sessions", body, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = session.ID
	c.manual = session.GameConfig != nil && session.GameConfig.CombatIntervalMs == 0
	return session.GameState, nil
}

// Resume attaches to an existing session
func (c *Client) Resume(sessionID string) (*service.GameState, error) {
	c.sessionID = sessionID

	var session service.SessionInfo
	if _, err := c.call("GET", c.sessionPath(""), nil, &session); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	c.manual = session.GameConfig != nil && session.GameConfig.CombatIntervalMs == 0
	return session.GameState, nil
}

func (c *Client) GetState() (*service.GameState, error) {
	var state service.GameState
	if _, err := c.call("GET", c.sessionPath("/state"), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) Move(target engine.Position) (*service.MoveResult, error) {
	var result service.MoveResult
	_, err := c.call("POST", c.sessionPath("/move"), target, &result)
	return &result, err
}

func (c *Client) Tick() (*service.TickResult, error) {
	var result service.TickResult
	_, err := c.call("POST", c.sessionPath("/tick"), nil, &result)
	return &result, err
}

func (c *Client) Restart() (*service.GameState, error) {
	var response struct {
		State *service.GameState `json:"state"`
	}
	if _, err := c.call("POST", c.sessionPath("/restart"), nil, &response); err != nil {
		return nil, err
	}
	return response.State, nil
}

// RoundResult is the outcome of one played round
type RoundResult struct {
	Winner string
	Moves  int
	Ticks  int
}

// Player drives a session to game over
type Player struct {
	client   *Client
	strategy GreedyStrategy
	maxMoves int
	poll     time.Duration
	delay    time.Duration
}

// PlayRound plays from state until game over or the move budget runs out
func (p *Player) PlayRound(ctx context.Context, state *service.GameState) (*RoundResult, error) {
	result := &RoundResult{}

	for state.Phase != engine.PhaseGameOver {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		switch state.Phase {
		case engine.PhaseAwaitingMove:
			if result.Moves >= p.maxMoves {
				return result, fmt.Errorf("no winner after %d moves", result.Moves)
			}
			target, ok := p.strategy.NextMove(state)
			if !ok {
				return result, fmt.Errorf("player %d is boxed in", state.ActivePlayer+1)
			}

			moved, err := p.client.Move(target)
			if err != nil {
				return result, fmt.Errorf("move to %s: %w", target, err)
			}
			log.WithFields(log.Fields{
				"move":   result.Moves + 1,
				"to":     target.String(),
				"combat": moved.CombatStarted,
			}).Debug(moved.Message)
			result.Moves++
			state = moved.GameState

			if p.delay > 0 {
				time.Sleep(p.delay)
			}

		case engine.PhaseCombat:
			if p.client.manual {
				if result.Ticks >= p.maxMoves {
					return result, fmt.Errorf("combat did not end after %d ticks", result.Ticks)
				}
				tick, err := p.client.Tick()
				if err != nil {
					return result, fmt.Errorf("tick: %w", err)
				}
				result.Ticks++
				state = tick.GameState
				continue
			}

			time.Sleep(p.poll)
			next, err := p.client.GetState()
			if err != nil {
				return result, err
			}
			state = next

		default:
			return result, fmt.Errorf("unexpected phase %s", state.Phase)
		}
	}

	result.Winner = state.Winner
	return result, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "bruteforcer",
		Usage: "Play skirmish rounds against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
			&cli.StringFlag{Name: "config", Usage: "Game configuration name (classic, blitz, duel)"},
			&cli.StringFlag{Name: "continue", Usage: "Resume playing an existing session by ID"},
			&cli.IntFlag{Name: "rounds", Value: 10, Usage: "Rounds to play"},
			&cli.IntFlag{Name: "max-moves", Value: 500, Usage: "Maximum moves per round"},
			&cli.IntFlag{Name: "delay", Usage: "Delay between moves in milliseconds (0 = no delay)"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("v") {
		log.SetLevel(log.DebugLevel)
	}

	serverURL := cmd.String("url")
	log.Infof("Connecting to game server at %s", serverURL)
	client := NewClient(serverURL)

	var state *service.GameState
	var err error
	if id := cmd.String("continue"); id != "" {
		state, err = client.Resume(id)
		if err != nil {
			return fmt.Errorf("failed to resume session %s: %w", id, err)
		}
		log.Infof("Resumed session: %s", client.sessionID)
	} else {
		state, err = client.CreateSession(cmd.String("config"))
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		log.Infof("Session created: %s", client.sessionID)
	}

	player := &Player{
		client:   client,
		maxMoves: int(cmd.Int("max-moves")),
		poll:     100 * time.Millisecond,
		delay:    time.Duration(cmd.Int("delay")) * time.Millisecond,
	}

	wins := map[string]int{}
	rounds := int(cmd.Int("rounds"))
	for round := 1; round <= rounds; round++ {
		if state.Phase == engine.PhaseGameOver {
			if state, err = client.Restart(); err != nil {
				return fmt.Errorf("restart: %w", err)
			}
		}

		result, err := player.PlayRound(ctx, state)
		if err != nil {
			log.WithField("round", round).Warnf("Round abandoned: %v", err)
			return err
		}
		wins[result.Winner]++
		log.WithFields(log.Fields{
			"round": round,
			"moves": result.Moves,
			"ticks": result.Ticks,
		}).Infof("%s wins", result.Winner)

		if state, err = client.GetState(); err != nil {
			return err
		}
	}

	for name, n := range wins {
		log.Infof("%s: %d/%d rounds", name, n, rounds)
	}
	log.Infof("Session: %s", client.sessionID)
	return nil
}
