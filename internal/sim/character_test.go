package sim

import "testing"

func TestTakeDamageMinimumOne(t *testing.T) {
	tests := []struct {
		name    string
		defense int
		amount  int
		want    int
	}{
		{"no defense", 0, 50, 50},
		{"partial reduction", 40, 50, 46},
		{"heavy reduction floors at one", 100, 5, 1},
		{"zero amount still lands one", 30, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Character{ID: "dummy", Name: "Dummy", CurrentHP: 200, MaxHP: 200, Defense: tt.defense, IsAlive: true}
			got := c.TakeDamage(tt.amount)
			if got != tt.want {
				t.Fatalf("TakeDamage(%d) with defense %d = %d, want %d", tt.amount, tt.defense, got, tt.want)
			}
		})
	}
}

func TestTakeDamageKills(t *testing.T) {
	c := &Character{ID: "frail", Name: "Frail", CurrentHP: 10, MaxHP: 100, IsAlive: true}
	c.TakeDamage(50)
	if c.CurrentHP != 0 {
		t.Fatalf("HP = %d, want 0", c.CurrentHP)
	}
	if c.IsAlive {
		t.Fatal("character should be dead")
	}
}

func TestHealClampsToMax(t *testing.T) {
	c := &Character{ID: "tank", Name: "Tank", CurrentHP: 90, MaxHP: 100, IsAlive: true}
	applied := c.Heal(30)
	if applied != 10 {
		t.Fatalf("applied = %d, want 10", applied)
	}
	if c.CurrentHP != 100 {
		t.Fatalf("HP = %d, want 100", c.CurrentHP)
	}
}

func TestAddStatusStacksAndRefreshes(t *testing.T) {
	c := &Character{ID: "x", Name: "X", CurrentHP: 100, MaxHP: 100, IsAlive: true}
	c.AddStatus(StatusEffect{Name: EffectStun, Duration: 2})
	c.AddStatus(StatusEffect{Name: EffectStun, Duration: 1})
	if len(c.StatusEffects) != 1 {
		t.Fatalf("effects = %d, want 1", len(c.StatusEffects))
	}
	eff := c.StatusEffects[0]
	if eff.Duration != 2 {
		t.Fatalf("duration = %d, want 2 (re-apply keeps the longer)", eff.Duration)
	}
	if eff.Stacks != 2 {
		t.Fatalf("stacks = %d, want 2", eff.Stacks)
	}
	if !c.IsStunned {
		t.Fatal("stun flag should be set")
	}
}

func TestStatusExpiresAfterTicks(t *testing.T) {
	c := &Character{ID: "x", Name: "X", CurrentHP: 100, MaxHP: 100, IsAlive: true}
	c.AddStatus(StatusEffect{Name: EffectSilence, Duration: 2})
	c.tickStatusEffects()
	if !c.IsSilenced {
		t.Fatal("silence should survive the first tick")
	}
	c.tickStatusEffects()
	if c.IsSilenced {
		t.Fatal("silence should expire after two ticks")
	}
	if len(c.StatusEffects) != 0 {
		t.Fatalf("effects = %d, want 0", len(c.StatusEffects))
	}
}

func TestAvailableSkillsWhenStunned(t *testing.T) {
	basic := &Skill{ID: "skill_jab", Name: "Jab", Type: SingleTarget, Power: 20, IsBasic: true}
	heavy := &Skill{ID: "skill_smash", Name: "Smash", Type: SingleTarget, Power: 80}
	c := &Character{ID: "x", Name: "X", CurrentHP: 100, MaxHP: 100, IsAlive: true, Skills: []*Skill{basic, heavy}}
	if got := len(c.AvailableSkills()); got != 2 {
		t.Fatalf("available = %d, want 2", got)
	}
	c.AddStatus(StatusEffect{Name: EffectStun, Duration: 2})
	avail := c.AvailableSkills()
	if len(avail) != 1 || avail[0] != basic {
		t.Fatalf("stunned character should only use basic skills, got %v", avail)
	}
}
