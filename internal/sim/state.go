package sim

import (
	"errors"
	"sort"
)

var (
	// ErrBattleOver is returned when an operation is attempted on a
	// finished battle. OVER is terminal.
	ErrBattleOver = errors.New("battle is over")
	// ErrSkillNotOwned is returned when the acting character does not own
	// the given skill.
	ErrSkillNotOwned = errors.New("skill not owned by actor")
)

// TurnAction records one applied skill for the action log.
type TurnAction struct {
	Actor          *Character
	Skill          *Skill
	Target         *Character
	DamageDealt    int
	HealingDone    int
	EffectsApplied []string
}

// ActionLog is the append-only record of every applied skill.
type ActionLog struct {
	actions []*TurnAction
}

// Add appends an action to the log.
func (l *ActionLog) Add(a *TurnAction) { l.actions = append(l.actions, a) }

// Recent returns the most recent n actions, oldest first.
func (l *ActionLog) Recent(n int) []*TurnAction {
	if n <= 0 || len(l.actions) == 0 {
		return nil
	}
	if n > len(l.actions) {
		n = len(l.actions)
	}
	return l.actions[len(l.actions)-n:]
}

// Len returns the total number of logged actions.
func (l *ActionLog) Len() int { return len(l.actions) }

// GameState owns one battle: the roster, turn order, current actor pointer,
// action log and the victory condition. All operations are sequential and
// lock-free; a host that shares a state across callers must serialize
// access per session.
type GameState struct {
	Characters []*Character
	TurnNumber int
	Log        ActionLog

	// turnOrder is fixed for the current round; actorIndex points into it.
	turnOrder  []*Character
	actorIndex int

	over   bool
	winner Team
}

// NewGameState returns an empty, uninitialized battle state.
func NewGameState() *GameState { return &GameState{} }

// AddCharacter adds a character to the roster. Insertion order breaks
// speed ties in the turn order.
func (g *GameState) AddCharacter(c *Character) {
	g.Characters = append(g.Characters, c)
}

// InitializeBattle computes the first round's turn order and starts turn 1.
func (g *GameState) InitializeBattle() {
	g.turnOrder = g.computeTurnOrder()
	g.TurnNumber = 1
	g.actorIndex = 0
}

// computeTurnOrder sorts living characters by speed descending; ties keep
// insertion order.
func (g *GameState) computeTurnOrder() []*Character {
	order := make([]*Character, 0, len(g.Characters))
	for _, c := range g.Characters {
		if c.IsAlive {
			order = append(order, c)
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].Speed > order[j].Speed })
	return order
}

// TurnOrder returns the fixed-for-this-round acting order.
func (g *GameState) TurnOrder() []*Character { return g.turnOrder }

// CurrentActor returns the next living character at or after the round
// pointer, or nil when every remaining slot is dead. It never mutates
// state, so repeated calls without an intervening apply/advance return the
// same character.
func (g *GameState) CurrentActor() *Character {
	for i := g.actorIndex; i < len(g.turnOrder); i++ {
		if g.turnOrder[i].IsAlive {
			return g.turnOrder[i]
		}
	}
	return nil
}

// IsOver reports whether the battle has ended.
func (g *GameState) IsOver() bool { return g.over }

// Winner returns the winning side; valid only when IsOver.
func (g *GameState) Winner() Team { return g.winner }

// TeamCharacters returns every roster member of a side, dead or alive.
func (g *GameState) TeamCharacters(team Team) []*Character {
	var out []*Character
	for _, c := range g.Characters {
		if c.Team == team {
			out = append(out, c)
		}
	}
	return out
}

// AliveCharacters returns a side's living members.
func (g *GameState) AliveCharacters(team Team) []*Character {
	var out []*Character
	for _, c := range g.Characters {
		if c.Team == team && c.IsAlive {
			out = append(out, c)
		}
	}
	return out
}

// AlliesOf returns the living teammates of a character, excluding itself.
func (g *GameState) AlliesOf(actor *Character) []*Character {
	var out []*Character
	for _, c := range g.Characters {
		if c.Team == actor.Team && c != actor && c.IsAlive {
			out = append(out, c)
		}
	}
	return out
}

// EnemiesOf returns the living enemies of a character.
func (g *GameState) EnemiesOf(actor *Character) []*Character {
	return g.AliveCharacters(actor.Team.Opponent())
}

// FindCharacter returns the roster member with the given id, or nil.
func (g *GameState) FindCharacter(id string) *Character {
	for _, c := range g.Characters {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ValidTargets returns the target pool for a skill. Taunting enemies narrow
// the pool for single-target skills only; area skills always strike the
// full living enemy roster.
func (g *GameState) ValidTargets(actor *Character, skill *Skill) []*Character {
	switch skill.Type {
	case Self:
		return []*Character{actor}
	case Ally:
		return g.AlliesOf(actor)
	case AllAllies:
		return append([]*Character{actor}, g.AlliesOf(actor)...)
	default:
		enemies := g.EnemiesOf(actor)
		if skill.Type == SingleTarget {
			var taunters []*Character
			for _, e := range enemies {
				if e.HasTaunt {
					taunters = append(taunters, e)
				}
			}
			if len(taunters) > 0 {
				return taunters
			}
		}
		return enemies
	}
}

// ApplySkill applies one of the actor's skills, dealing damage or healing
// and attaching listed effects, then puts the skill on cooldown and appends
// the action to the log. An empty or dead target pool still consumes the
// skill and logs a zero-effect action; callers wanting to skip instead must
// check targets beforehand.
func (g *GameState) ApplySkill(actor *Character, skill *Skill, target *Character) (*TurnAction, error) {
	if g.over {
		return nil, ErrBattleOver
	}
	owned := false
	for _, s := range actor.Skills {
		if s == skill {
			owned = true
			break
		}
	}
	if !owned {
		return nil, ErrSkillNotOwned
	}

	action := &TurnAction{Actor: actor, Skill: skill, Target: target}

	if skill.Type.IsOffensive() {
		targets := []*Character{target}
		if skill.Type == AOE {
			targets = g.EnemiesOf(actor)
		}
		for _, t := range targets {
			if t == nil || !t.IsAlive {
				continue
			}
			base := actor.Attack * skill.Power / 100
			action.DamageDealt += t.TakeDamage(base)
			for _, name := range skill.Effects {
				if debuffEffects[name] {
					t.AddStatus(StatusEffect{Name: name, Duration: effectDuration, IsBuff: false})
					action.EffectsApplied = append(action.EffectsApplied, name+" on "+t.Name)
				}
			}
		}
	} else {
		for _, t := range g.ValidTargets(actor, skill) {
			if t == nil || !t.IsAlive {
				continue
			}
			amount := t.MaxHP * skill.Power / 100
			action.HealingDone += t.Heal(amount)
			for _, name := range skill.Effects {
				if buffEffects[name] {
					t.AddStatus(StatusEffect{Name: name, Duration: effectDuration, IsBuff: true})
					action.EffectsApplied = append(action.EffectsApplied, name+" on "+t.Name)
				}
			}
		}
	}

	// Cooldown is set unconditionally, even when the configured max is 0.
	skill.Cooldown = skill.MaxCooldown

	g.Log.Add(action)
	return action, nil
}

// AdvanceTurn ends the current character's turn: its cooldowns and status
// durations tick down, the round pointer advances, a finished round
// recomputes turn order from the living, and the victory condition is
// evaluated.
func (g *GameState) AdvanceTurn() error {
	if g.over {
		return ErrBattleOver
	}

	// Resolve the acting slot; ticks apply to the character who just acted.
	for g.actorIndex < len(g.turnOrder) {
		if g.turnOrder[g.actorIndex].IsAlive {
			actor := g.turnOrder[g.actorIndex]
			actor.tickCooldowns()
			actor.tickStatusEffects()
			break
		}
		g.actorIndex++
	}
	g.actorIndex++

	if g.actorIndex >= len(g.turnOrder) {
		g.TurnNumber++
		g.actorIndex = 0
		g.turnOrder = g.computeTurnOrder()
	}

	g.checkBattleEnd()
	return nil
}

// checkBattleEnd sets the winner exactly once, when one side has no living
// members. When both sides are wiped on the same advance the player side is
// checked first, so the enemy wins the tie; kept from the observed rules.
func (g *GameState) checkBattleEnd() {
	if g.over {
		return
	}
	if len(g.AliveCharacters(TeamPlayer)) == 0 {
		g.over = true
		g.winner = TeamEnemy
	} else if len(g.AliveCharacters(TeamEnemy)) == 0 {
		g.over = true
		g.winner = TeamPlayer
	}
}
