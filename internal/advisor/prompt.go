package advisor

import (
	"fmt"
	"strings"

	"github.com/toonforge/battlelab/internal/sim"
)

// defaultSystemPrompt frames the model as a tactician and pins the strict
// JSON answer shape.
const defaultSystemPrompt = `You are an expert tactician for a turn-based toon battle game.

Strategy principles:
1. Kill priority: finish off low-HP enemies to reduce incoming damage.
2. Threat assessment: prioritize high-attack enemies and healers.
3. Survival: prefer defensive or healing skills when the actor is low.
4. Crowd control: stuns and silences are valuable against dangerous enemies.
5. Buffs before big hits; debuff the highest threat.
6. Use area skills when several enemies are low, single target for focus.
7. Do not waste long cooldowns on nearly-dead enemies.

ALWAYS respond with valid JSON in this exact format:
{
    "recommended_skill_id": "skill_id_here",
    "recommended_target_id": "target_character_id_here",
    "reason": "Brief 1-2 sentence explanation of why this is the best move"
}

If the skill is self-targeted or hits all enemies, set recommended_target_id to null.`

// systemPrompt can be overridden at startup from configuration.
var systemPrompt = defaultSystemPrompt

// SetSystemPrompt replaces the advisor system prompt. Call from main after
// loading configuration; an empty value keeps the default.
func SetSystemPrompt(p string) {
	if s := strings.TrimSpace(p); s != "" {
		systemPrompt = s
	}
}

func statusNames(effects []sim.StatusEffect) string {
	if len(effects) == 0 {
		return "None"
	}
	names := make([]string, 0, len(effects))
	for _, e := range effects {
		names = append(names, e.Name)
	}
	return strings.Join(names, ", ")
}

// buildUserPrompt renders the battle from the acting character's point of
// view: the actor, its usable skills, the enemy roster with threat notes
// and the ally roster.
func buildUserPrompt(gs *sim.GameState, actor *sim.Character) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Current Turn: %d\n\n", gs.TurnNumber)
	fmt.Fprintf(&b, "### Acting Character: %s\n", actor.Name)
	fmt.Fprintf(&b, "- HP: %d/%d (%.0f%%)\n", actor.CurrentHP, actor.MaxHP, actor.HPPercent())
	fmt.Fprintf(&b, "- Attack: %d | Defense: %d | Speed: %d\n", actor.Attack, actor.Defense, actor.Speed)
	fmt.Fprintf(&b, "- Archetype: %s\n", actor.Archetype)
	fmt.Fprintf(&b, "- Status: %s\n\n", statusNames(actor.StatusEffects))

	b.WriteString("### Available Skills:\n")
	for _, s := range actor.AvailableSkills() {
		effects := strings.Join(s.Effects, ", ")
		if effects == "" {
			effects = "none"
		}
		fmt.Fprintf(&b, "- **%s** (ID: %s): Type: %s, Power: %d%%, Effects: %s\n",
			s.Name, s.ID, s.Type, s.Power, effects)
		if s.Description != "" {
			desc := s.Description
			if len(desc) > 150 {
				desc = desc[:150]
			}
			fmt.Fprintf(&b, "  Description: %s\n", desc)
		}
	}

	b.WriteString("\n### Enemies:\n")
	for _, e := range gs.EnemiesOf(actor) {
		notes := ""
		if e.Attack > actor.Attack {
			notes += " HIGH THREAT"
		}
		if e.HPPercent() < 40 {
			notes += " LOW HP"
		}
		fmt.Fprintf(&b, "- **%s** (ID: %s): HP: %d/%d (%.0f%%) | ATK: %d | Archetype: %s | Status: %s%s\n",
			e.Name, e.ID, e.CurrentHP, e.MaxHP, e.HPPercent(), e.Attack, e.Archetype, statusNames(e.StatusEffects), notes)
	}

	allies := gs.AlliesOf(actor)
	if len(allies) > 0 {
		b.WriteString("\n### Allies:\n")
		for _, a := range allies {
			fmt.Fprintf(&b, "- %s: HP: %d/%d (%.0f%%) | Status: %s\n",
				a.Name, a.CurrentHP, a.MaxHP, a.HPPercent(), statusNames(a.StatusEffects))
		}
	}

	fmt.Fprintf(&b, "\n### Battle Context:\n- Player characters alive: %d\n- Enemy characters alive: %d\n\n",
		len(gs.AliveCharacters(sim.TeamPlayer)), len(gs.AliveCharacters(sim.TeamEnemy)))
	b.WriteString("What is the BEST skill to use and who should be the target? Respond in JSON format.")

	return b.String()
}
