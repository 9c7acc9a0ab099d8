package battlelog

// Extracted battle data. Everything in this file is produced once by the
// parser and read-only afterwards.

// HealthSnapshot records a character's current/max HP at some point of the
// battle, keyed by the raw (team-suffixed) identifier.
type HealthSnapshot struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// CharacterStats holds a character's stats as printed at battle start.
type CharacterStats struct {
	Name      string `json:"name"`
	Team      string `json:"team"` // LEFT or RIGHT
	Level     int    `json:"level"`
	Quality   int    `json:"quality"`
	Evolution int    `json:"evolution"`

	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	Speed     int `json:"speed"`

	CriticalChance float64 `json:"critical_chance"`
	DodgeChance    float64 `json:"dodge_chance"`
	CounterChance  float64 `json:"counter_chance"`
	Lifesteal      float64 `json:"lifesteal"`
	Piercing       float64 `json:"piercing"`

	Archetype string       `json:"archetype"`
	Skills    []SkillEntry `json:"skills"`
	Tags      []string     `json:"tags"`
}

// SkillEntry is a skill reference found inside a character block.
type SkillEntry struct {
	Type string `json:"type"` // active, passive, ...
	ID   string `json:"id"`
}

// DamageEvent is one resolved hit.
type DamageEvent struct {
	Turn           int    `json:"turn"`
	Attacker       string `json:"attacker"`
	Target         string `json:"target"`
	SkillID        string `json:"skill_id"`
	Damage         int    `json:"damage"`
	AttackerAttack int    `json:"attacker_attack"`
	TargetDefense  int    `json:"target_defense"`
	SkillPower     string `json:"skill_power"`
	IsCritical     bool   `json:"is_critical"`
}

// HealEvent is one resolved heal. The healer is not printed on heal lines,
// so it stays empty unless future log formats add it.
type HealEvent struct {
	Turn   int    `json:"turn"`
	Healer string `json:"healer"`
	Target string `json:"target"`
	Amount int    `json:"amount"`
}

// KOEvent marks a character knockout.
type KOEvent struct {
	Turn      int    `json:"turn"`
	Character string `json:"character"`
}

// BuffDebuffEvent is a status application or a stat change. Stat-change
// lines carry the change kind (mult or flat) and, when the log prints an
// "(old -> new)" tail, the resulting stat value.
type BuffDebuffEvent struct {
	Turn          int     `json:"turn"`
	Source        string  `json:"source"`
	Target        string  `json:"target"`
	Stat          string  `json:"stat"`
	Amount        float64 `json:"amount"`
	IsBuff        bool    `json:"is_buff"`
	StatusName    string  `json:"status_name"`
	Kind          string  `json:"kind,omitempty"`
	FinalValue    float64 `json:"final_value,omitempty"`
	HasFinalValue bool    `json:"has_final_value,omitempty"`
}

// TurnEvent is a turn-start marker together with the HP snapshot printed
// just before it.
type TurnEvent struct {
	TurnNumber int                       `json:"turn_number"`
	Owner      string                    `json:"owner"`
	TeamHealth map[string]HealthSnapshot `json:"team_health"`
}

// BattleResult is the terminal outcome block.
type BattleResult struct {
	Won         bool                      `json:"won"`
	WinnerTeam  string                    `json:"winner_team"`
	TotalTurns  int                       `json:"total_turns"`
	Stars       int                       `json:"stars"`
	FinalHealth map[string]HealthSnapshot `json:"final_health"`
}

// ParsedBattle is the complete structured record of one battle log.
type ParsedBattle struct {
	Seed     int    `json:"seed"`
	GameMode string `json:"game_mode"`

	LeftTeam  []CharacterStats `json:"left_team"`
	RightTeam []CharacterStats `json:"right_team"`

	Turns            []TurnEvent       `json:"turns"`
	DamageEvents     []DamageEvent     `json:"damage_events"`
	HealEvents       []HealEvent       `json:"heal_events"`
	KOEvents         []KOEvent         `json:"ko_events"`
	BuffDebuffEvents []BuffDebuffEvent `json:"buff_debuff_events"`

	Result BattleResult `json:"result"`
}
