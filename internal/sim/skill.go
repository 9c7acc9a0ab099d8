package sim

// SkillType determines a skill's target pool.
type SkillType string

const (
	SingleTarget SkillType = "single_target"
	AOE          SkillType = "aoe"
	Self         SkillType = "self"
	Ally         SkillType = "ally"
	AllAllies    SkillType = "all_allies"
)

// IsOffensive reports whether the skill type targets enemies.
func (t SkillType) IsOffensive() bool {
	return t == SingleTarget || t == AOE
}

// Effect tags understood by the engine.
const (
	EffectStun        = "stun"
	EffectSilence     = "silence"
	EffectTaunt       = "taunt"
	EffectAttackUp    = "attack_up"
	EffectAttackDown  = "attack_down"
	EffectDefenseUp   = "defense_up"
	EffectDefenseDown = "defense_down"
	EffectSpeedUp     = "speed_up"
	EffectSpeedDown   = "speed_down"
	EffectHeal        = "heal"
	EffectDot         = "dot"
	EffectHot         = "hot"
)

// debuffEffects are the effect tags a damage skill may inflict on its
// targets; buffEffects are the tags a support skill may grant allies.
// Tags outside these sets are descriptive only and never applied.
var debuffEffects = map[string]bool{
	EffectStun:        true,
	EffectSilence:     true,
	EffectAttackDown:  true,
	EffectDefenseDown: true,
	EffectSpeedDown:   true,
}

var buffEffects = map[string]bool{
	EffectAttackUp:  true,
	EffectDefenseUp: true,
	EffectSpeedUp:   true,
	EffectTaunt:     true,
}

// effectDuration is the fixed number of owner turns an applied status lasts.
const effectDuration = 2

// Skill is one usable (or passive) character ability.
type Skill struct {
	ID          string    `json:"skill_id"`
	Name        string    `json:"name"`
	Type        SkillType `json:"type"`
	Power       int       `json:"power"` // damage/heal percentage
	Cooldown    int       `json:"cooldown"`
	MaxCooldown int       `json:"max_cooldown"`
	Description string    `json:"description"`
	Effects     []string  `json:"effects"`
	IsPassive   bool      `json:"is_passive"`
	// IsBasic marks the character's designated fallback skill, the only one
	// usable while stunned or silenced.
	IsBasic bool `json:"is_basic"`
}

// Available reports whether the skill can be used this turn.
func (s *Skill) Available() bool {
	return s.Cooldown == 0 && !s.IsPassive
}

// SkillView is the serializable form of a skill for turn snapshots.
type SkillView struct {
	SkillID     string   `json:"skill_id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Power       int      `json:"power"`
	Cooldown    int      `json:"cooldown"`
	MaxCooldown int      `json:"max_cooldown"`
	Description string   `json:"description"`
	Effects     []string `json:"effects"`
	IsAvailable bool     `json:"is_available"`
}

// View builds the serializable snapshot of the skill.
func (s *Skill) View() SkillView {
	effects := s.Effects
	if effects == nil {
		effects = []string{}
	}
	return SkillView{
		SkillID:     s.ID,
		Name:        s.Name,
		Type:        string(s.Type),
		Power:       s.Power,
		Cooldown:    s.Cooldown,
		MaxCooldown: s.MaxCooldown,
		Description: s.Description,
		Effects:     effects,
		IsAvailable: s.Available(),
	}
}
