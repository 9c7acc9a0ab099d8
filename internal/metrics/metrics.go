// Package metrics turns a parsed battle into per-character and per-team
// aggregates, stat-advantage labels and a curated list of key moments.
package metrics

import (
	"fmt"
	"sort"

	"github.com/toonforge/battlelab/internal/battlelog"
	"github.com/toonforge/battlelab/internal/constants"
	"github.com/toonforge/battlelab/internal/keys"
)

// Advantage labels.
const (
	AdvantagePlayer = "player"
	AdvantageEnemy  = "enemy"
	AdvantageEven   = "even"
)

// advantageThreshold is the relative difference, in percent, below which
// two team averages count as even.
const advantageThreshold = 10.0

// bigHitThreshold is the minimum damage for a single hit to qualify as a
// key moment. Configurable through SetBigHitThreshold.
var bigHitThreshold = 50

// SetBigHitThreshold overrides the key-moment damage cutoff. Non-positive
// values are ignored.
func SetBigHitThreshold(v int) {
	if v > 0 {
		bigHitThreshold = v
	}
}

// CharacterMetrics is everything computed for a single character.
type CharacterMetrics struct {
	Name      string `json:"name"`
	Team      string `json:"team"`
	Archetype string `json:"archetype"`
	Level     int    `json:"level"`

	TotalDamageDealt     int `json:"total_damage_dealt"`
	TotalDamageTaken     int `json:"total_damage_taken"`
	TotalHealingDone     int `json:"total_healing_done"`
	TotalHealingReceived int `json:"total_healing_received"`

	TurnsTaken      int  `json:"turns_taken"`
	FirstTurnNumber int  `json:"first_turn_number"`
	TookTurn        bool `json:"took_turn"`

	WasKO  bool `json:"was_ko"`
	KOTurn int  `json:"ko_turn"`

	BuffsReceived   int `json:"buffs_received"`
	DebuffsReceived int `json:"debuffs_received"`
	BuffsApplied    int `json:"buffs_applied"`
	DebuffsApplied  int `json:"debuffs_applied"`

	StartingHealth  int `json:"starting_health"`
	StartingAttack  int `json:"starting_attack"`
	StartingDefense int `json:"starting_defense"`
	StartingSpeed   int `json:"starting_speed"`

	FinalHealth        int     `json:"final_health"`
	FinalHealthPercent float64 `json:"final_health_percent"`
}

// TeamMetrics is a side's aggregate view.
type TeamMetrics struct {
	TeamName string `json:"team_name"`

	TotalDamageDealt int `json:"total_damage_dealt"`
	TotalDamageTaken int `json:"total_damage_taken"`
	TotalHealing     int `json:"total_healing"`

	AvgAttack  float64 `json:"avg_attack"`
	AvgDefense float64 `json:"avg_defense"`
	AvgSpeed   float64 `json:"avg_speed"`
	AvgHealth  float64 `json:"avg_health"`

	CharacterCount int      `json:"character_count"`
	Archetypes     []string `json:"archetypes"`

	TotalTurns int  `json:"total_turns"`
	FirstTurn  bool `json:"first_turn"`

	CharactersKO    int `json:"characters_ko"`
	CharactersAlive int `json:"characters_alive"`

	TotalBuffs           int `json:"total_buffs"`
	TotalDebuffsReceived int `json:"total_debuffs_received"`
}

// FirstKO describes the earliest knockout of the battle.
type FirstKO struct {
	Character string `json:"character"`
	Turn      int    `json:"turn"`
	Team      string `json:"team"`
}

// BiggestHit is the single highest-damage event.
type BiggestHit struct {
	Attacker string `json:"attacker"`
	Target   string `json:"target"`
	Damage   int    `json:"damage"`
	Turn     int    `json:"turn"`
	Skill    string `json:"skill"`
}

// KeyMoment is one curated highlight, ordered by turn.
type KeyMoment struct {
	Turn        int    `json:"turn"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// FirstTurnEntry records a character's first acted turn, in acting order.
type FirstTurnEntry struct {
	Character string `json:"character"`
	Turn      int    `json:"turn"`
	Team      string `json:"team"`
}

// BattleMetrics is the complete computed report for one battle.
type BattleMetrics struct {
	Result     string `json:"result"`
	WinnerTeam string `json:"winner_team"`
	TotalTurns int    `json:"total_turns"`
	Stars      int    `json:"stars"`

	PlayerTeam TeamMetrics `json:"player_team"`
	EnemyTeam  TeamMetrics `json:"enemy_team"`

	PlayerCharacters []*CharacterMetrics `json:"player_characters"`
	EnemyCharacters  []*CharacterMetrics `json:"enemy_characters"`

	FirstKO    *FirstKO         `json:"first_ko,omitempty"`
	BiggestHit *BiggestHit      `json:"biggest_hit,omitempty"`
	TurnOrder  []FirstTurnEntry `json:"turn_order"`

	SpeedAdvantage   string `json:"speed_advantage"`
	AttackAdvantage  string `json:"attack_advantage"`
	DefenseAdvantage string `json:"defense_advantage"`
	HealthAdvantage  string `json:"health_advantage"`

	KeyMoments []KeyMoment `json:"key_moments"`
}

// Compute produces the full metrics report for a parsed battle.
func Compute(battle *battlelog.ParsedBattle) *BattleMetrics {
	playerChars := initCharacterMetrics(battle.LeftTeam)
	enemyChars := initCharacterMetrics(battle.RightTeam)

	byName := make(map[string]*CharacterMetrics, len(playerChars)+len(enemyChars))
	for _, c := range playerChars {
		byName[keys.NormalizeCharacterID(c.Name)] = c
	}
	for _, c := range enemyChars {
		byName[keys.NormalizeCharacterID(c.Name)] = c
	}

	for _, ev := range battle.DamageEvents {
		if c, ok := byName[keys.NormalizeCharacterID(ev.Attacker)]; ok {
			c.TotalDamageDealt += ev.Damage
		}
		if c, ok := byName[keys.NormalizeCharacterID(ev.Target)]; ok {
			c.TotalDamageTaken += ev.Damage
		}
	}

	for _, ev := range battle.HealEvents {
		if c, ok := byName[keys.NormalizeCharacterID(ev.Target)]; ok {
			c.TotalHealingReceived += ev.Amount
		}
		if ev.Healer != "" {
			if c, ok := byName[keys.NormalizeCharacterID(ev.Healer)]; ok {
				c.TotalHealingDone += ev.Amount
			}
		}
	}

	for _, ev := range battle.KOEvents {
		if c, ok := byName[keys.NormalizeCharacterID(ev.Character)]; ok {
			c.WasKO = true
			c.KOTurn = ev.Turn
		}
	}

	var turnOrder []FirstTurnEntry
	for _, turn := range battle.Turns {
		c, ok := byName[keys.NormalizeCharacterID(turn.Owner)]
		if !ok {
			continue
		}
		c.TurnsTaken++
		if !c.TookTurn {
			c.TookTurn = true
			c.FirstTurnNumber = turn.TurnNumber
			turnOrder = append(turnOrder, FirstTurnEntry{
				Character: c.Name,
				Turn:      turn.TurnNumber,
				Team:      c.Team,
			})
		}
	}

	for _, ev := range battle.BuffDebuffEvents {
		if c, ok := byName[keys.NormalizeCharacterID(ev.Target)]; ok {
			if ev.IsBuff {
				c.BuffsReceived++
			} else {
				c.DebuffsReceived++
			}
		}
		if ev.Source == "" {
			continue
		}
		if c, ok := byName[keys.NormalizeCharacterID(ev.Source)]; ok {
			if ev.IsBuff {
				c.BuffsApplied++
			} else {
				c.DebuffsApplied++
			}
		}
	}

	for rawName, snap := range battle.Result.FinalHealth {
		c, ok := byName[keys.NormalizeCharacterID(rawName)]
		if !ok {
			continue
		}
		c.FinalHealth = snap.Current
		if snap.Max > 0 {
			c.FinalHealthPercent = float64(snap.Current) / float64(snap.Max) * 100
		}
	}

	playerTeam := computeTeamMetrics(constants.TeamSideLeft, playerChars)
	enemyTeam := computeTeamMetrics(constants.TeamSideRight, enemyChars)
	if len(turnOrder) > 0 {
		playerTeam.FirstTurn = turnOrder[0].Team == constants.TeamSideLeft
		enemyTeam.FirstTurn = turnOrder[0].Team == constants.TeamSideRight
	}

	firstKO := findFirstKO(battle)
	biggestHit := findBiggestHit(battle)

	result := "LOSS"
	if battle.Result.WinnerTeam == constants.PlayerWinnerLabel {
		result = "WIN"
	}

	if len(turnOrder) > 5 {
		turnOrder = turnOrder[:5]
	}

	return &BattleMetrics{
		Result:           result,
		WinnerTeam:       battle.Result.WinnerTeam,
		TotalTurns:       battle.Result.TotalTurns,
		Stars:            battle.Result.Stars,
		PlayerTeam:       playerTeam,
		EnemyTeam:        enemyTeam,
		PlayerCharacters: playerChars,
		EnemyCharacters:  enemyChars,
		FirstKO:          firstKO,
		BiggestHit:       biggestHit,
		TurnOrder:        turnOrder,
		SpeedAdvantage:   computeAdvantage(playerTeam.AvgSpeed, enemyTeam.AvgSpeed),
		AttackAdvantage:  computeAdvantage(playerTeam.AvgAttack, enemyTeam.AvgAttack),
		DefenseAdvantage: computeAdvantage(playerTeam.AvgDefense, enemyTeam.AvgDefense),
		HealthAdvantage:  computeAdvantage(playerTeam.AvgHealth, enemyTeam.AvgHealth),
		KeyMoments:       generateKeyMoments(battle, firstKO, biggestHit),
	}
}

func initCharacterMetrics(team []battlelog.CharacterStats) []*CharacterMetrics {
	out := make([]*CharacterMetrics, 0, len(team))
	for _, c := range team {
		out = append(out, &CharacterMetrics{
			Name:            c.Name,
			Team:            c.Team,
			Archetype:       c.Archetype,
			Level:           c.Level,
			StartingHealth:  c.MaxHealth,
			StartingAttack:  c.Attack,
			StartingDefense: c.Defense,
			StartingSpeed:   c.Speed,
		})
	}
	return out
}

func computeTeamMetrics(teamName string, chars []*CharacterMetrics) TeamMetrics {
	tm := TeamMetrics{TeamName: teamName}
	if len(chars) == 0 {
		return tm
	}

	var attack, defense, speed, health int
	for _, c := range chars {
		tm.TotalDamageDealt += c.TotalDamageDealt
		tm.TotalDamageTaken += c.TotalDamageTaken
		tm.TotalHealing += c.TotalHealingReceived
		tm.TotalTurns += c.TurnsTaken
		tm.TotalBuffs += c.BuffsReceived
		tm.TotalDebuffsReceived += c.DebuffsReceived
		attack += c.StartingAttack
		defense += c.StartingDefense
		speed += c.StartingSpeed
		health += c.StartingHealth
		if c.WasKO {
			tm.CharactersKO++
		}
		if c.Archetype != "" {
			tm.Archetypes = append(tm.Archetypes, c.Archetype)
		}
	}

	n := float64(len(chars))
	tm.AvgAttack = float64(attack) / n
	tm.AvgDefense = float64(defense) / n
	tm.AvgSpeed = float64(speed) / n
	tm.AvgHealth = float64(health) / n
	tm.CharacterCount = len(chars)
	tm.CharactersAlive = len(chars) - tm.CharactersKO
	return tm
}

// computeAdvantage labels which side's average is meaningfully higher.
func computeAdvantage(playerVal, enemyVal float64) string {
	if playerVal == 0 && enemyVal == 0 {
		return AdvantageEven
	}
	max := playerVal
	if enemyVal > max {
		max = enemyVal
	}
	diffPercent := (playerVal - enemyVal) / max * 100
	switch {
	case diffPercent > advantageThreshold:
		return AdvantagePlayer
	case diffPercent < -advantageThreshold:
		return AdvantageEnemy
	default:
		return AdvantageEven
	}
}

// findFirstKO picks the earliest knockout; parse order already breaks turn
// ties.
func findFirstKO(battle *battlelog.ParsedBattle) *FirstKO {
	if len(battle.KOEvents) == 0 {
		return nil
	}
	ko := battle.KOEvents[0]
	return &FirstKO{
		Character: keys.NormalizeCharacterID(ko.Character),
		Turn:      ko.Turn,
		Team:      keys.TeamSuffix(ko.Character),
	}
}

func findBiggestHit(battle *battlelog.ParsedBattle) *BiggestHit {
	if len(battle.DamageEvents) == 0 {
		return nil
	}
	best := battle.DamageEvents[0]
	for _, ev := range battle.DamageEvents[1:] {
		if ev.Damage > best.Damage {
			best = ev
		}
	}
	return &BiggestHit{
		Attacker: keys.NormalizeCharacterID(best.Attacker),
		Target:   keys.NormalizeCharacterID(best.Target),
		Damage:   best.Damage,
		Turn:     best.Turn,
		Skill:    best.SkillID,
	}
}

func generateKeyMoments(battle *battlelog.ParsedBattle, firstKO *FirstKO, biggestHit *BiggestHit) []KeyMoment {
	var moments []KeyMoment

	if firstKO != nil {
		side := AdvantageEnemy
		if firstKO.Team == constants.TeamSideLeft {
			side = AdvantagePlayer
		}
		moments = append(moments, KeyMoment{
			Turn: firstKO.Turn,
			Type: "first_ko",
			Description: fmt.Sprintf("%s (%s) was knocked out on turn %d",
				firstKO.Character, side, firstKO.Turn),
		})
	}

	if biggestHit != nil && biggestHit.Damage > bigHitThreshold {
		moments = append(moments, KeyMoment{
			Turn: biggestHit.Turn,
			Type: "big_damage",
			Description: fmt.Sprintf("%s dealt %d damage to %s using %s",
				biggestHit.Attacker, biggestHit.Damage, biggestHit.Target, biggestHit.Skill),
		})
	}

	for _, ko := range battle.KOEvents {
		if ko.Turn <= 2 {
			moments = append(moments, KeyMoment{
				Turn: ko.Turn,
				Type: "early_death",
				Description: fmt.Sprintf("%s died very early on turn %d",
					keys.NormalizeCharacterID(ko.Character), ko.Turn),
			})
		}
	}

	sort.SliceStable(moments, func(i, j int) bool { return moments[i].Turn < moments[j].Turn })
	return moments
}
