package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/toonforge/battlelab/internal/keys"
	"github.com/toonforge/battlelab/internal/sim"
)

// BattleDefinition is a synthetic battle description, loadable from YAML.
type BattleDefinition struct {
	Name       string                `yaml:"name" json:"name"`
	Characters []CharacterDefinition `yaml:"characters" json:"characters"`
}

// CharacterDefinition describes one combatant of a synthetic battle.
type CharacterDefinition struct {
	ID        string            `yaml:"id" json:"id"`
	Name      string            `yaml:"name" json:"name"`
	Team      string            `yaml:"team" json:"team"` // player or enemy
	MaxHP     int               `yaml:"max_hp" json:"max_hp"`
	Attack    int               `yaml:"attack" json:"attack"`
	Defense   int               `yaml:"defense" json:"defense"`
	Speed     int               `yaml:"speed" json:"speed"`
	Archetype string            `yaml:"archetype" json:"archetype"`
	Rarity    string            `yaml:"rarity" json:"rarity"`
	Level     int               `yaml:"level" json:"level"`
	Skills    []SkillDefinition `yaml:"skills" json:"skills"`
}

// SkillDefinition describes one skill of a synthetic battle character.
type SkillDefinition struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Type        string   `yaml:"type" json:"type"`
	Power       int      `yaml:"power" json:"power"`
	MaxCooldown int      `yaml:"max_cooldown" json:"max_cooldown"`
	Description string   `yaml:"description" json:"description"`
	Effects     []string `yaml:"effects" json:"effects"`
	IsPassive   bool     `yaml:"is_passive" json:"is_passive"`
	IsBasic     bool     `yaml:"is_basic" json:"is_basic"`
}

// LoadDefinitionFile reads a YAML battle definition from disk.
func LoadDefinitionFile(path string) (*BattleDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read battle definition: %w", err)
	}
	var def BattleDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse battle definition: %w", err)
	}
	return &def, nil
}

// FromDefinition builds a battle state from a synthetic description. Field
// defaults follow the log path: missing names format the id, missing skill
// types classify from the description, and a character without a usable
// skill gets the basic attack.
func (l *Loader) FromDefinition(def *BattleDefinition) *sim.GameState {
	gs := sim.NewGameState()
	for _, cd := range def.Characters {
		gs.AddCharacter(l.buildFromDefinition(cd))
	}
	gs.InitializeBattle()
	return gs
}

func (l *Loader) buildFromDefinition(cd CharacterDefinition) *sim.Character {
	name := cd.Name
	rarity := cd.Rarity
	if name == "" || rarity == "" {
		if l.lookup != nil {
			if rec, ok := l.lookup.Character(cd.ID); ok {
				if name == "" {
					name = rec.DisplayName
				}
				if rarity == "" {
					rarity = rec.Rarity
				}
			}
		}
		if name == "" {
			name = keys.DisplayNameFromID(cd.ID)
		}
		if rarity == "" {
			rarity = defaultRarity
		}
	}

	team := sim.TeamPlayer
	if cd.Team == string(sim.TeamEnemy) {
		team = sim.TeamEnemy
	}

	archetype := cd.Archetype
	if archetype == "" {
		archetype = defaultArchetype
	}

	c := &sim.Character{
		ID:        cd.ID,
		Name:      name,
		Team:      team,
		MaxHP:     cd.MaxHP,
		CurrentHP: cd.MaxHP,
		Attack:    cd.Attack,
		Defense:   cd.Defense,
		Speed:     cd.Speed,
		Archetype: archetype,
		Rarity:    rarity,
		Level:     cd.Level,
		IsAlive:   true,
	}

	for _, sd := range cd.Skills {
		skillType := sim.SkillType(sd.Type)
		if sd.Type == "" {
			skillType = ClassifySkillType(sd.Description)
		}
		power := sd.Power
		if power == 0 {
			power = ExtractPower(sd.Description)
		}
		c.Skills = append(c.Skills, &sim.Skill{
			ID:          sd.ID,
			Name:        sd.Name,
			Type:        skillType,
			Power:       power,
			MaxCooldown: sd.MaxCooldown,
			Description: sd.Description,
			Effects:     sd.Effects,
			IsPassive:   sd.IsPassive,
			IsBasic:     sd.IsBasic,
		})
	}

	usable := false
	for _, s := range c.Skills {
		if !s.IsPassive {
			usable = true
			break
		}
	}
	if !usable {
		c.Skills = append([]*sim.Skill{basicAttack(c.ID)}, c.Skills...)
	}
	if len(c.Skills) > maxSkillsPerCharacter {
		c.Skills = c.Skills[:maxSkillsPerCharacter]
	}
	return c
}

// SampleBattle returns the built-in two-on-two demo battle.
func (l *Loader) SampleBattle() *sim.GameState {
	return l.FromDefinition(sampleDefinition())
}

func sampleDefinition() *BattleDefinition {
	return &BattleDefinition{
		Name: "sample",
		Characters: []CharacterDefinition{
			{
				ID: "bugs_bunny", Name: "Bugs Bunny", Team: "player",
				MaxHP: 156, Attack: 57, Defense: 51, Speed: 34,
				Archetype: "Attacker", Rarity: "Epic", Level: 30,
				Skills: []SkillDefinition{
					{ID: "skill_safe_landing", Name: "Safe Landing", Type: string(sim.SingleTarget), Power: 100,
						Description: "Deal 100% damage to target enemy, gaining Attack Up for 2 turns.",
						Effects:     []string{sim.EffectAttackUp}, IsBasic: true},
					{ID: "skill_befuddle", Name: "Befuddle", Type: string(sim.SingleTarget), Power: 130, MaxCooldown: 2,
						Description: "Deal 130% damage to target enemy, inflicting Defense Down and Silence.",
						Effects:     []string{sim.EffectDefenseDown, sim.EffectSilence}},
					{ID: "skill_explosive_surprise", Name: "Explosive Surprise", Type: string(sim.AOE), Power: 90, MaxCooldown: 3,
						Description: "Deal 90% damage to all enemies, inflicting Defense Down to each.",
						Effects:     []string{sim.EffectDefenseDown}},
				},
			},
			{
				ID: "lola_bunny", Name: "Lola Bunny", Team: "player",
				MaxHP: 120, Attack: 62, Defense: 38, Speed: 42,
				Archetype: "Attacker", Rarity: "Epic", Level: 28,
				Skills: []SkillDefinition{
					{ID: "skill_basketball_toss", Name: "Basketball Toss", Type: string(sim.SingleTarget), Power: 110,
						Description: "Deal 110% damage to target enemy.", IsBasic: true},
					{ID: "skill_team_spirit", Name: "Team Spirit", Type: string(sim.AllAllies), Power: 20, MaxCooldown: 2,
						Description: "Grant all allies Attack Up and Speed Up for 2 turns.",
						Effects:     []string{sim.EffectAttackUp, sim.EffectSpeedUp}},
				},
			},
			{
				ID: "wile_e_coyote", Name: "Wile E. Coyote", Team: "enemy",
				MaxHP: 140, Attack: 70, Defense: 45, Speed: 38,
				Archetype: "Attacker", Rarity: "Rare", Level: 32,
				Skills: []SkillDefinition{
					{ID: "skill_anvil_drop", Name: "Anvil Drop", Type: string(sim.SingleTarget), Power: 120,
						Description: "Deal 120% damage to target enemy.", IsBasic: true},
				},
			},
			{
				ID: "road_runner", Name: "Road Runner", Team: "enemy",
				MaxHP: 100, Attack: 55, Defense: 35, Speed: 65,
				Archetype: "Support", Rarity: "Rare", Level: 30,
				Skills: []SkillDefinition{
					{ID: "skill_meep_meep", Name: "Meep Meep", Type: string(sim.SingleTarget), Power: 80,
						Description: "Deal 80% damage and gain Speed Up.",
						Effects:     []string{sim.EffectSpeedUp}, IsBasic: true},
				},
			},
		},
	}
}
