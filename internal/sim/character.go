package sim

import "strings"

// Team identifies a character's side of the battle.
type Team string

const (
	TeamPlayer Team = "player"
	TeamEnemy  Team = "enemy"
)

// Opponent returns the other side.
func (t Team) Opponent() Team {
	if t == TeamPlayer {
		return TeamEnemy
	}
	return TeamPlayer
}

// StatusEffect is a timed buff or debuff on a character.
type StatusEffect struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"` // owner turns remaining
	Stacks   int    `json:"stacks"`
	IsBuff   bool   `json:"is_buff"`
}

// Character is one combatant's mutable battle state.
type Character struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Team Team   `json:"team"`

	MaxHP     int `json:"max_hp"`
	CurrentHP int `json:"hp"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	Speed     int `json:"speed"`

	Archetype string `json:"archetype"`
	Rarity    string `json:"rarity"`
	Level     int    `json:"level"`

	Skills        []*Skill       `json:"skills"`
	StatusEffects []StatusEffect `json:"status_effects"`
	IsAlive       bool           `json:"is_alive"`
	HasTaunt      bool           `json:"has_taunt"`
	IsStunned     bool           `json:"is_stunned"`
	IsSilenced    bool           `json:"is_silenced"`
}

// TakeDamage applies raw damage reduced by the defense factor and returns
// the actual amount dealt. HP is clamped at 0 and a character reaching 0 HP
// is marked dead.
func (c *Character) TakeDamage(amount int) int {
	actual := amount - c.Defense/10
	if actual < 1 {
		actual = 1
	}
	c.CurrentHP -= actual
	if c.CurrentHP <= 0 {
		c.CurrentHP = 0
		c.IsAlive = false
	}
	return actual
}

// Heal restores HP clamped at MaxHP and returns the amount actually healed.
func (c *Character) Heal(amount int) int {
	old := c.CurrentHP
	c.CurrentHP += amount
	if c.CurrentHP > c.MaxHP {
		c.CurrentHP = c.MaxHP
	}
	return c.CurrentHP - old
}

// AddStatus adds a status effect. Re-applying an effect already present by
// name extends its duration to the larger of the two and increments its
// stack count instead of duplicating the entry.
func (c *Character) AddStatus(effect StatusEffect) {
	if effect.Stacks == 0 {
		effect.Stacks = 1
	}
	for i := range c.StatusEffects {
		if c.StatusEffects[i].Name == effect.Name {
			if effect.Duration > c.StatusEffects[i].Duration {
				c.StatusEffects[i].Duration = effect.Duration
			}
			c.StatusEffects[i].Stacks += effect.Stacks
			return
		}
	}
	c.StatusEffects = append(c.StatusEffects, effect)

	switch strings.ToLower(effect.Name) {
	case EffectTaunt:
		c.HasTaunt = true
	case EffectStun:
		c.IsStunned = true
	case EffectSilence:
		c.IsSilenced = true
	}
}

// tickStatusEffects decrements every effect's duration by one and removes
// expired effects, clearing the matching flag.
func (c *Character) tickStatusEffects() {
	remaining := c.StatusEffects[:0]
	for _, effect := range c.StatusEffects {
		effect.Duration--
		if effect.Duration > 0 {
			remaining = append(remaining, effect)
			continue
		}
		switch strings.ToLower(effect.Name) {
		case EffectTaunt:
			c.HasTaunt = false
		case EffectStun:
			c.IsStunned = false
		case EffectSilence:
			c.IsSilenced = false
		}
	}
	c.StatusEffects = remaining
}

// tickCooldowns decrements every skill cooldown by one, floored at zero.
func (c *Character) tickCooldowns() {
	for _, s := range c.Skills {
		if s.Cooldown > 0 {
			s.Cooldown--
		}
	}
}

// AvailableSkills returns the skills the character may use this turn. A
// stunned or silenced character may use only its designated basic skill;
// without one the returned set is empty. The engine reports that, it never
// skips the turn on its own.
func (c *Character) AvailableSkills() []*Skill {
	var out []*Skill
	if c.IsStunned || c.IsSilenced {
		for _, s := range c.Skills {
			if s.IsBasic {
				out = append(out, s)
			}
		}
		return out
	}
	for _, s := range c.Skills {
		if s.Available() {
			out = append(out, s)
		}
	}
	return out
}

// FindSkill returns the owned skill with the given id, or nil.
func (c *Character) FindSkill(skillID string) *Skill {
	for _, s := range c.Skills {
		if s.ID == skillID {
			return s
		}
	}
	return nil
}

// HPPercent returns current HP as a percentage of max, 0 when max is 0.
func (c *Character) HPPercent() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.CurrentHP) / float64(c.MaxHP) * 100
}

// CharacterView is the serializable form of a character for turn snapshots.
type CharacterView struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Team          string         `json:"team"`
	HP            int            `json:"hp"`
	MaxHP         int            `json:"max_hp"`
	HPPercent     float64        `json:"hp_percent"`
	Attack        int            `json:"attack"`
	Defense       int            `json:"defense"`
	Speed         int            `json:"speed"`
	Archetype     string         `json:"archetype"`
	Rarity        string         `json:"rarity"`
	Level         int            `json:"level"`
	IsAlive       bool           `json:"is_alive"`
	Skills        []SkillView    `json:"skills"`
	StatusEffects []StatusEffect `json:"status_effects"`
	IsStunned     bool           `json:"is_stunned"`
	IsSilenced    bool           `json:"is_silenced"`
	HasTaunt      bool           `json:"has_taunt"`
}

// View builds the serializable snapshot of the character.
func (c *Character) View() CharacterView {
	effects := c.StatusEffects
	if effects == nil {
		effects = []StatusEffect{}
	}
	skills := make([]SkillView, 0, len(c.Skills))
	for _, s := range c.Skills {
		skills = append(skills, s.View())
	}
	return CharacterView{
		ID:            c.ID,
		Name:          c.Name,
		Team:          string(c.Team),
		HP:            c.CurrentHP,
		MaxHP:         c.MaxHP,
		HPPercent:     c.HPPercent(),
		Attack:        c.Attack,
		Defense:       c.Defense,
		Speed:         c.Speed,
		Archetype:     c.Archetype,
		Rarity:        c.Rarity,
		Level:         c.Level,
		IsAlive:       c.IsAlive,
		Skills:        skills,
		StatusEffects: effects,
		IsStunned:     c.IsStunned,
		IsSilenced:    c.IsSilenced,
		HasTaunt:      c.HasTaunt,
	}
}
