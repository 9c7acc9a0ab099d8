// Package advisor produces turn recommendations for the acting character,
// either through the OpenAI chat API or a deterministic fallback.
package advisor

import (
	"context"
	"fmt"

	"github.com/toonforge/battlelab/internal/sim"
)

// Recommendation is one suggested move for the acting character.
type Recommendation struct {
	SkillID  string `json:"recommended_skill_id"`
	TargetID string `json:"recommended_target_id,omitempty"`
	Reason   string `json:"reason"`
	Source   string `json:"source"` // "openai" or "fallback"
}

// Advisor recommends a move for the current actor of a battle. The game
// state is read, never mutated; cancellation is honored through ctx.
type Advisor interface {
	Recommend(ctx context.Context, sessionID string, gs *sim.GameState) (Recommendation, error)
}

// Fallback is the deterministic recommendation used whenever the remote
// advisor is unavailable: the actor's first available skill against the
// lowest-HP-percent living enemy.
func Fallback(gs *sim.GameState) (Recommendation, error) {
	actor := gs.CurrentActor()
	if actor == nil {
		return Recommendation{}, fmt.Errorf("no acting character")
	}

	skills := actor.AvailableSkills()
	if len(skills) == 0 {
		return Recommendation{}, fmt.Errorf("%s has no available skills", actor.ID)
	}
	rec := Recommendation{
		SkillID: skills[0].ID,
		Reason:  "Fallback: using first available skill on the lowest HP enemy.",
		Source:  "fallback",
	}

	var target *sim.Character
	for _, e := range gs.EnemiesOf(actor) {
		if target == nil || e.HPPercent() < target.HPPercent() {
			target = e
		}
	}
	if target != nil {
		rec.TargetID = target.ID
	}
	return rec, nil
}
