package engine

import "fmt"

// Damage is what attacker deals to defender in one exchange. Shield is a
// percentage reduction of the attacker's attack, truncated to whole points,
// so 10 attack against 15 shield deals 9. A shield above 100 yields
// negative damage.
func Damage(attacker, defender Stats) int {
	return attacker.Attack - attacker.Attack*defender.Shield/100
}

// startCombat hands the first exchange to the mover: the active player
// becomes the defender, who takes the first hit.
func (g *Game) startCombat() {
	g.phase = PhaseCombat
	g.active = g.active.Opponent()
	g.clearRange()
	g.events.turnChanged(g.active, g.phase)

	interval := g.config.CombatInterval()
	if interval <= 0 {
		return
	}
	g.combatGen++
	gen := g.combatGen
	g.combat = StartRepeating(interval, func() {
		g.scheduledTick(gen)
	})
}

func (g *Game) stopCombat() {
	if g.combat != nil {
		g.combat.Stop()
		g.combat = nil
	}
	g.combatGen++
}

// scheduledTick is the timer callback. Ticks from a cancelled timer are dropped.
func (g *Game) scheduledTick(gen int) {
	g.mu.Lock()
	if gen != g.combatGen || g.phase != PhaseCombat {
		g.mu.Unlock()
		return
	}
	g.tick()
	g.commit()
}

// CombatTick runs one exchange immediately
func (g *Game) CombatTick() (*TickOutcome, error) {
	g.mu.Lock()
	if g.phase != PhaseCombat {
		phase := g.phase
		g.mu.Unlock()
		return nil, fmt.Errorf("%w: no combat in progress (%s)", ErrIllegalMove, phase)
	}
	outcome := g.tick()
	g.commit()
	return outcome, nil
}

// tick damages the active player with the other player's attack, then
// either ends the game or passes the exchange on.
func (g *Game) tick() *TickOutcome {
	current := g.players[g.active]
	next := g.players[g.active.Opponent()]

	damage := Damage(next.Stats, current.Stats)
	current.Stats.Health -= damage
	g.events.combatTick(current.ID, current.Stats)

	outcome := &TickOutcome{
		Attacker: next.ID,
		Defender: current.ID,
		Damage:   damage,
		Stats:    current.Stats.Display(),
	}

	if current.Stats.Health <= 0 {
		g.phase = PhaseGameOver
		g.winner = next.ID
		g.stopCombat()
		outcome.GameOver = true
		outcome.Winner = next.Name
		g.events.gameOver(next.Name)
		g.events.turnChanged(g.active, g.phase)
		return outcome
	}

	g.active = next.ID
	return outcome
}
