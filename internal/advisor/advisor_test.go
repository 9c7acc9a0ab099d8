package advisor

import (
	"strings"
	"testing"

	"github.com/toonforge/battlelab/internal/sim"
)

func fallbackState() *sim.GameState {
	strike := &sim.Skill{ID: "skill_strike", Name: "Strike", Type: sim.SingleTarget, Power: 100, IsBasic: true}
	blast := &sim.Skill{ID: "skill_blast", Name: "Blast", Type: sim.AOE, Power: 80, Cooldown: 2, MaxCooldown: 2}
	hero := &sim.Character{
		ID: "hero", Name: "Hero", Team: sim.TeamPlayer,
		CurrentHP: 100, MaxHP: 100, Attack: 50, Speed: 60, IsAlive: true,
		Skills: []*sim.Skill{strike, blast},
	}
	healthy := &sim.Character{
		ID: "healthy", Name: "Healthy", Team: sim.TeamEnemy,
		CurrentHP: 90, MaxHP: 100, Attack: 40, Speed: 30, IsAlive: true,
		Skills: []*sim.Skill{{ID: "skill_claw", Name: "Claw", Type: sim.SingleTarget, Power: 100, IsBasic: true}},
	}
	wounded := &sim.Character{
		ID: "wounded", Name: "Wounded", Team: sim.TeamEnemy,
		CurrentHP: 20, MaxHP: 100, Attack: 70, Speed: 20, IsAlive: true,
		Skills: []*sim.Skill{{ID: "skill_bite", Name: "Bite", Type: sim.SingleTarget, Power: 100, IsBasic: true}},
	}
	gs := sim.NewGameState()
	gs.AddCharacter(hero)
	gs.AddCharacter(healthy)
	gs.AddCharacter(wounded)
	gs.InitializeBattle()
	return gs
}

func TestFallbackPicksFirstSkillAndLowestEnemy(t *testing.T) {
	rec, err := Fallback(fallbackState())
	if err != nil {
		t.Fatalf("Fallback: %v", err)
	}
	if rec.SkillID != "skill_strike" {
		t.Fatalf("skill = %q, want the first available", rec.SkillID)
	}
	if rec.TargetID != "wounded" {
		t.Fatalf("target = %q, want the lowest HP enemy", rec.TargetID)
	}
	if rec.Source != "fallback" {
		t.Fatalf("source = %q", rec.Source)
	}
}

func TestFallbackNoSkills(t *testing.T) {
	gs := sim.NewGameState()
	gs.AddCharacter(&sim.Character{
		ID: "mute", Name: "Mute", Team: sim.TeamPlayer,
		CurrentHP: 10, MaxHP: 10, Speed: 10, IsAlive: true,
		Skills: []*sim.Skill{{ID: "skill_aura", Name: "Aura", IsPassive: true}},
	})
	gs.AddCharacter(&sim.Character{
		ID: "foe", Name: "Foe", Team: sim.TeamEnemy,
		CurrentHP: 10, MaxHP: 10, Speed: 5, IsAlive: true,
		Skills: []*sim.Skill{{ID: "skill_poke", Name: "Poke", Type: sim.SingleTarget, Power: 100}},
	})
	gs.InitializeBattle()
	if _, err := Fallback(gs); err == nil {
		t.Fatal("expected an error when the actor has no usable skills")
	}
}

func TestBuildUserPromptSections(t *testing.T) {
	gs := fallbackState()
	prompt := buildUserPrompt(gs, gs.CurrentActor())

	for _, want := range []string{
		"## Current Turn: 1",
		"### Acting Character: Hero",
		"### Available Skills:",
		"skill_strike",
		"### Enemies:",
		"Wounded",
		"LOW HP",
		"HIGH THREAT",
		"Respond in JSON format",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	// Blast is on cooldown and must not be offered.
	if strings.Contains(prompt, "skill_blast") {
		t.Fatal("unavailable skills must not appear in the prompt")
	}
}
