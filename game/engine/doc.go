// Package engine provides the core game logic for the grid skirmish game.
//
// The engine package implements the game mechanics including:
//   - Board cells with typed tags and an occupied-position index
//   - Constrained random placement of obstacles, players and items
//   - Movement range computation along four independent rays
//   - The turn and combat state machine with a timed damage exchange
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by Game. Board holds the grid, Placer seeds it, and Range
// computes where the active player may move. GameConfig defines the rules
// and is loaded from JSON or YAML files.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game, err := engine.NewGame(config, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	game.AddListener(engine.EventSink(func(ev engine.Event) {
//		fmt.Println(ev.Type)
//	}))
//	if err := game.Start(); err != nil {
//		log.Fatal(err)
//	}
//
//	// Move the active player to a highlighted cell
//	outcome, err := game.SubmitMove(game.Range()[0])
//	state := game.Snapshot()
//
// Game Rules:
//
// Two players start in opposite bands of the board and alternate single
// moves within their speed. Landing on an item picks it up: attack and
// speed boosts replace the stat, defense and health boosts add to it.
// Ending a move next to the opponent starts combat, an automatic exchange
// where each tick the defender loses the attacker's attack reduced by the
// defender's shield percentage. The mover strikes first. The first player
// whose health drops to zero loses; only then may the game be restarted.
package engine
