// Package loader builds initialized simulation states from parsed battle
// logs or synthetic battle definitions, enriching names and skills through
// the lookup layer. Every lookup miss degrades to a documented default;
// construction never fails on missing metadata.
package loader

import (
	"strings"

	"github.com/toonforge/battlelab/internal/battlelog"
	"github.com/toonforge/battlelab/internal/enrich"
	"github.com/toonforge/battlelab/internal/keys"
	"github.com/toonforge/battlelab/internal/sim"
)

// maxSkillsPerCharacter caps how many skills survive discovery order.
const maxSkillsPerCharacter = 5

const (
	defaultRarity    = "Common"
	defaultArchetype = "Attacker"
)

// Loader turns battle descriptions into simulation states.
type Loader struct {
	lookup enrich.Lookup
}

// New returns a loader backed by the given enrichment lookup. A nil lookup
// is allowed; every resolution then falls back to formatted identifiers.
func New(lookup enrich.Lookup) *Loader {
	return &Loader{lookup: lookup}
}

// FromParsedBattle builds a battle state from a parsed log's rosters.
// LEFT is the player side, RIGHT the enemy side. The battle-start block
// prints pre-onboarding numbers; the game then applies onboarding
// modifications that change stats significantly, so the roster is corrected
// from the first turn's HP snapshot and the flat stat-change results before
// the turn order is computed.
func (l *Loader) FromParsedBattle(battle *battlelog.ParsedBattle) *sim.GameState {
	var chars []*sim.Character
	for _, stats := range battle.LeftTeam {
		chars = append(chars, l.buildCharacter(stats, sim.TeamPlayer))
	}
	for _, stats := range battle.RightTeam {
		chars = append(chars, l.buildCharacter(stats, sim.TeamEnemy))
	}
	if len(battle.Turns) > 0 {
		applyTurnStartStats(chars, battle.Turns[0])
		applyStatCorrections(chars, battle.BuffDebuffEvents)
	}

	gs := sim.NewGameState()
	for _, c := range chars {
		gs.AddCharacter(c)
	}
	gs.InitializeBattle()
	return gs
}

// applyTurnStartStats takes each character's real max HP from the first
// turn's snapshot.
func applyTurnStartStats(chars []*sim.Character, first battlelog.TurnEvent) {
	byID := characterIndex(chars)
	for rawName, snap := range first.TeamHealth {
		c, ok := byID[keys.NormalizeCharacterID(rawName)]
		if !ok || snap.Max <= 0 {
			continue
		}
		c.MaxHP = snap.Max
		c.CurrentHP = snap.Max
	}
}

// applyStatCorrections takes final attack/defense/speed/max-HP values from
// flat stat-change lines that carry an "(old -> new)" tail. Later lines
// overwrite earlier ones.
func applyStatCorrections(chars []*sim.Character, events []battlelog.BuffDebuffEvent) {
	byID := characterIndex(chars)
	for _, ev := range events {
		if ev.Kind != "flat" || !ev.HasFinalValue {
			continue
		}
		c, ok := byID[keys.NormalizeCharacterID(ev.Target)]
		if !ok {
			continue
		}
		v := int(ev.FinalValue)
		switch strings.ToLower(ev.Stat) {
		case "attack":
			c.Attack = v
		case "defense":
			c.Defense = v
		case "speed":
			c.Speed = v
		case "maxhealth":
			c.MaxHP = v
			c.CurrentHP = v
		}
	}
}

func characterIndex(chars []*sim.Character) map[string]*sim.Character {
	byID := make(map[string]*sim.Character, len(chars))
	for _, c := range chars {
		byID[c.ID] = c
	}
	return byID
}

func (l *Loader) buildCharacter(stats battlelog.CharacterStats, team sim.Team) *sim.Character {
	id := keys.NormalizeCharacterID(stats.Name)

	name := keys.DisplayNameFromID(id)
	rarity := defaultRarity
	if l.lookup != nil {
		if rec, ok := l.lookup.Character(id); ok {
			if rec.DisplayName != "" {
				name = rec.DisplayName
			}
			if rec.Rarity != "" {
				rarity = rec.Rarity
			}
		}
	}

	archetype := defaultArchetype
	if stats.Archetype != "" {
		archetype = keys.DisplayNameFromID(stats.Archetype)
	}

	c := &sim.Character{
		ID:        id,
		Name:      name,
		Team:      team,
		MaxHP:     stats.MaxHealth,
		CurrentHP: stats.MaxHealth,
		Attack:    stats.Attack,
		Defense:   stats.Defense,
		Speed:     stats.Speed,
		Archetype: archetype,
		Rarity:    rarity,
		Level:     stats.Level,
		IsAlive:   true,
	}

	var skillIDs []string
	var passiveFromLog = map[string]bool{}
	for _, entry := range stats.Skills {
		skillIDs = append(skillIDs, entry.ID)
		if strings.EqualFold(entry.Type, "passive") {
			passiveFromLog[entry.ID] = true
		}
	}
	c.Skills = l.buildSkills(id, skillIDs, passiveFromLog)
	return c
}

// buildSkills resolves each discovered skill id through the lookup, caps
// the list at five in discovery order and guarantees at least one usable
// skill by inserting a basic attack in front when everything else is
// passive or unresolved to nothing.
func (l *Loader) buildSkills(charID string, skillIDs []string, passiveFromLog map[string]bool) []*sim.Skill {
	var skills []*sim.Skill
	for _, skillID := range skillIDs {
		skills = append(skills, l.resolveSkill(skillID, passiveFromLog[skillID]))
	}

	usable := false
	for _, s := range skills {
		if !s.IsPassive {
			usable = true
			break
		}
	}
	if !usable {
		skills = append([]*sim.Skill{basicAttack(charID)}, skills...)
	}

	if len(skills) > maxSkillsPerCharacter {
		skills = skills[:maxSkillsPerCharacter]
	}
	return skills
}

func (l *Loader) resolveSkill(skillID string, passiveFromLog bool) *sim.Skill {
	if l.lookup != nil {
		if rec, ok := l.lookup.Skill(skillID); ok {
			desc := rec.Description
			if len(desc) > 200 {
				desc = desc[:200]
			}
			return &sim.Skill{
				ID:          skillID,
				Name:        rec.SkillName,
				Type:        ClassifySkillType(rec.Description),
				Power:       ExtractPower(rec.Description),
				MaxCooldown: ExtractCooldown(rec.SkillType),
				Description: desc,
				Effects:     ExtractEffects(rec.Description),
				IsPassive:   strings.EqualFold(rec.SkillType, "passive") || passiveFromLog,
			}
		}
	}
	return &sim.Skill{
		ID:          skillID,
		Name:        keys.SkillNameFromID(skillID),
		Type:        sim.SingleTarget,
		Power:       100,
		Description: "Skill: " + skillID,
		IsPassive:   passiveFromLog,
	}
}

func basicAttack(charID string) *sim.Skill {
	return &sim.Skill{
		ID:          charID + "_basic",
		Name:        "Basic Attack",
		Type:        sim.SingleTarget,
		Power:       100,
		Description: "Deal 100% damage to target enemy.",
		IsBasic:     true,
	}
}
