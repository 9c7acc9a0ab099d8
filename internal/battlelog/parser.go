package battlelog

import (
	"regexp"
	"strconv"
	"strings"
)

// The battle log is a stream of tagged blocks. Every pattern here is
// best-effort: a missing marker yields zero values for that part of the
// record, never a parse failure.
var (
	seedRe     = regexp.MustCompile(`Seed:\s*(\d+)`)
	gameModeRe = regexp.MustCompile(`--- Game Mode ---\s*\n(\w+)`)

	charHeaderRe = regexp.MustCompile(`<(\w+)>\s*\(L:(\d+)\|Q:(\d+)\|E:(\d+)\)`)
	teamRe       = regexp.MustCompile(`Team:\s*(\w+)`)
	healthRe     = regexp.MustCompile(`Health:\s*(\d+)/(\d+)`)
	attackRe     = regexp.MustCompile(`Attack:\s*(\d+)/(\d+)`)
	defenseRe    = regexp.MustCompile(`Defense:\s*(\d+)/(\d+)`)
	speedRe      = regexp.MustCompile(`Speed:\s*(\d+)/(\d+)`)
	critRe       = regexp.MustCompile(`Critical Chance:\s*([\d.]+)%`)
	dodgeRe      = regexp.MustCompile(`Dodge Chance:\s*([\d.]+)%`)
	counterRe    = regexp.MustCompile(`Counter Chance:\s*([\d.]+)%`)
	lifestealRe  = regexp.MustCompile(`Lifesteal:\s*([\d.]+)%`)
	piercingRe   = regexp.MustCompile(`Piercing:\s*([\d.]+)%`)
	archetypeRe  = regexp.MustCompile(`tag_archetype_(\w+):`)
	skillLineRe  = regexp.MustCompile(`\*\s*\((\w+)\)\s*(skill_\w+)`)
	tagLineRe    = regexp.MustCompile(`\*\s*([\w_]+):\s*\d+\s*-\s*Age:`)

	turnStartRe  = regexp.MustCompile(`\[TurnStartFlowEvent\]\s*Turn owner:\s*(\w+)\s*\|\s*Turn:\s*(\d+)`)
	turnOnLineRe = regexp.MustCompile(`\[TurnStartFlowEvent\].*Turn:\s*(\d+)`)
	teamLinesRe  = regexp.MustCompile(`Left Team:\s*([^\n]+)\s*\nRight Team:\s*([^\n]+)`)
	hpPairRe     = regexp.MustCompile(`(\w+)\s*\((\d+)/(\d+)\)`)

	damageLineRe = regexp.MustCompile(`Damage:\s*\((\w+)\)\s*->\s*\((\w+)\s*\((\d+)/(\d+)\)\);\s*Attack\s*\(Base\)\s*(\d+)\s*\(Current\)\s*([\d.]+);\s*SkillPower\s*([\d.]+)%.*?Defense\s*([\d.]+);\s*Total Damage\s*(\d+)`)
	criticalRe   = regexp.MustCompile(`(?i)\bcritical\b`)
	skillUseRe   = regexp.MustCompile(`\[CharacterSkillPrankFlowEvent\].*\(active\)\s*(skill_\w+)`)
	healLineRe   = regexp.MustCompile(`Heal:\s*(\w+)\s*-\s*Amount:\s*(\d+)`)
	koRe         = regexp.MustCompile(`\[KOPrankFlowEvent\]\s*KO\s*=>\s*(\w+)\s*\|\s*Turn:\s*(\d+)`)

	statusAddRe  = regexp.MustCompile(`Added:\s*(\w+)\s*\(\d+\)\s*\((\w+)\)\s*->\s*\((\w+)\)`)
	statChangeRe = regexp.MustCompile(`Change stat \((\w+)\):\s*(\w+)\s*-\s*Stat:\s*(\w+)\s*-\s*Amount:\s*([-\d.]+)(?:\s*\([-\d.]+\s*->\s*([-\d.]+)\))?`)

	battleWonRe   = regexp.MustCompile(`"BattleWon":\s*"(\w+)"`)
	winnerRe      = regexp.MustCompile(`Battle Winner:\s*(\w+)`)
	totalTurnsRe  = regexp.MustCompile(`Total Battle Turns:\s*(\d+)`)
	starsRe       = regexp.MustCompile(`Battle Stars:\s*(\d+)`)
	battleEndRe   = regexp.MustCompile(`\[StateChangePrankFlowEvent\].*\(BattleEnd\).*\nLeft Team:\s*([^\n]+)\s*\nRight Team:\s*([^\n]+)`)
	sectionEndRes = []string{"[CharacterToggleSkillFlowEvent]", "[StateChangePrankFlowEvent]", "[TurnStartFlowEvent]"}
)

// skillUseWindow bounds how far above a damage line the matching skill-use
// marker may sit. Hits past the window keep the "unknown" skill id.
const skillUseWindow = 10

// healthLookback bounds the backward search for the team HP lines that
// precede a turn-start marker.
const healthLookback = 500

// Parse extracts the structured battle record from raw log text. It never
// returns an error: malformed or missing blocks degrade to zero values.
func Parse(content string) *ParsedBattle {
	b := &ParsedBattle{
		Seed:     atoiGroup(seedRe, content),
		GameMode: "Unknown",
	}
	if m := gameModeRe.FindStringSubmatch(content); m != nil {
		b.GameMode = m[1]
	}

	b.LeftTeam = extractTeam(content, "LEFT")
	b.RightTeam = extractTeam(content, "RIGHT")

	b.Turns = extractTurns(content)
	extractLineEvents(content, b)
	b.KOEvents = extractKOs(content)
	b.Result = extractResult(content)
	return b
}

func atoiGroup(re *regexp.Regexp, s string) int {
	if m := re.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

// battleStartSection slices the character roster section out of the log:
// from the [BattleStartFlowEvent] marker up to the next section marker.
func battleStartSection(content string) string {
	start := strings.Index(content, "[BattleStartFlowEvent]")
	if start < 0 {
		return ""
	}
	section := content[start+len("[BattleStartFlowEvent]"):]
	end := len(section)
	for _, marker := range sectionEndRes {
		if i := strings.Index(section, marker); i >= 0 && i < end {
			end = i
		}
	}
	return section[:end]
}

func extractTeam(content, side string) []CharacterStats {
	section := battleStartSection(content)
	if section == "" {
		return nil
	}

	// Split into per-character blocks at every "<id> (L:..|Q:..|E:..)" header.
	headers := charHeaderRe.FindAllStringIndex(section, -1)
	var chars []CharacterStats
	for i, h := range headers {
		end := len(section)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		block := section[h[0]:end]
		if m := teamRe.FindStringSubmatch(block); m == nil || m[1] != side {
			continue
		}
		if c, ok := parseCharacterBlock(block); ok {
			chars = append(chars, c)
		}
	}
	return chars
}

func parseCharacterBlock(block string) (CharacterStats, bool) {
	m := charHeaderRe.FindStringSubmatch(block)
	if m == nil {
		return CharacterStats{}, false
	}
	c := CharacterStats{Name: m[1]}
	c.Level, _ = strconv.Atoi(m[2])
	c.Quality, _ = strconv.Atoi(m[3])
	c.Evolution, _ = strconv.Atoi(m[4])

	c.Team = "UNKNOWN"
	if t := teamRe.FindStringSubmatch(block); t != nil {
		c.Team = t[1]
	}

	c.Health, c.MaxHealth = intPair(healthRe, block)
	c.Attack, _ = intPair(attackRe, block)
	c.Defense, _ = intPair(defenseRe, block)
	c.Speed, _ = intPair(speedRe, block)

	c.CriticalChance = percentFraction(critRe, block)
	c.DodgeChance = percentFraction(dodgeRe, block)
	c.CounterChance = percentFraction(counterRe, block)
	c.Lifesteal = percentFraction(lifestealRe, block)
	c.Piercing = percentFraction(piercingRe, block)

	// Archetype and tags are best-effort; their absence leaves the defaults.
	if a := archetypeRe.FindStringSubmatch(block); a != nil {
		c.Archetype = a[1]
	}
	for _, sm := range skillLineRe.FindAllStringSubmatch(block, -1) {
		c.Skills = append(c.Skills, SkillEntry{Type: sm[1], ID: sm[2]})
	}
	for _, tm := range tagLineRe.FindAllStringSubmatch(block, -1) {
		c.Tags = append(c.Tags, tm[1])
	}
	return c, true
}

func intPair(re *regexp.Regexp, s string) (int, int) {
	if m := re.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		return a, b
	}
	return 0, 0
}

func percentFraction(re *regexp.Regexp, s string) float64 {
	if m := re.FindStringSubmatch(s); m != nil {
		f, _ := strconv.ParseFloat(m[1], 64)
		return f / 100
	}
	return 0
}

func extractTurns(content string) []TurnEvent {
	var turns []TurnEvent
	for _, loc := range turnStartRe.FindAllStringSubmatchIndex(content, -1) {
		owner := content[loc[2]:loc[3]]
		turnNum, _ := strconv.Atoi(content[loc[4]:loc[5]])

		// The HP snapshot lines are printed shortly before the marker.
		start := loc[0] - healthLookback
		if start < 0 {
			start = 0
		}
		health := parseTeamHealth(content[start:loc[0]])

		turns = append(turns, TurnEvent{TurnNumber: turnNum, Owner: owner, TeamHealth: health})
	}
	return turns
}

func parseTeamHealth(window string) map[string]HealthSnapshot {
	health := map[string]HealthSnapshot{}
	// The window may span several snapshots; the one printed right before
	// the turn marker is the last.
	all := teamLinesRe.FindAllStringSubmatch(window, -1)
	if len(all) == 0 {
		return health
	}
	m := all[len(all)-1]
	for _, line := range m[1:] {
		for _, h := range hpPairRe.FindAllStringSubmatch(line, -1) {
			cur, _ := strconv.Atoi(h[2])
			max, _ := strconv.Atoi(h[3])
			health[h[1]] = HealthSnapshot{Current: cur, Max: max}
		}
	}
	return health
}

// extractLineEvents does one ordered pass over the log lines, tracking the
// running turn counter and the most recent skill-use marker so each damage
// line can be joined to its skill without re-scanning preceding text.
func extractLineEvents(content string, b *ParsedBattle) {
	lines := strings.Split(content, "\n")
	currentTurn := 0
	lastSkillLine := -1
	lastSkillID := ""

	for i, line := range lines {
		if m := turnOnLineRe.FindStringSubmatch(line); m != nil {
			currentTurn, _ = strconv.Atoi(m[1])
		}
		if m := skillUseRe.FindStringSubmatch(line); m != nil {
			lastSkillLine = i
			lastSkillID = m[1]
		}

		if m := damageLineRe.FindStringSubmatch(line); m != nil {
			skillID := "unknown"
			if lastSkillLine >= 0 && i-lastSkillLine <= skillUseWindow {
				skillID = lastSkillID
			}
			damage, _ := strconv.Atoi(m[9])
			attack, _ := strconv.ParseFloat(m[6], 64)
			defense, _ := strconv.ParseFloat(m[8], 64)
			b.DamageEvents = append(b.DamageEvents, DamageEvent{
				Turn:           currentTurn,
				Attacker:       m[1],
				Target:         m[2],
				SkillID:        skillID,
				Damage:         damage,
				AttackerAttack: int(attack),
				TargetDefense:  int(defense),
				SkillPower:     m[7] + "%",
				IsCritical:     criticalRe.MatchString(line),
			})
		}

		if m := healLineRe.FindStringSubmatch(line); m != nil {
			amount, _ := strconv.Atoi(m[2])
			b.HealEvents = append(b.HealEvents, HealEvent{
				Turn:   currentTurn,
				Target: m[1],
				Amount: amount,
			})
		}

		if m := statusAddRe.FindStringSubmatch(line); m != nil {
			name := m[1]
			b.BuffDebuffEvents = append(b.BuffDebuffEvents, BuffDebuffEvent{
				Turn:       currentTurn,
				Source:     m[2],
				Target:     m[3],
				Stat:       name,
				IsBuff:     strings.Contains(name, "Up") || strings.Contains(name, "Buff"),
				StatusName: name,
			})
		}
		if m := statChangeRe.FindStringSubmatch(line); m != nil {
			amount, _ := strconv.ParseFloat(m[4], 64)
			ev := BuffDebuffEvent{
				Turn:   currentTurn,
				Kind:   m[1],
				Target: m[2],
				Stat:   m[3],
				Amount: amount,
				IsBuff: amount > 0,
			}
			// Lines of the form "Amount: 57 (8 -> 57)" also carry the
			// resulting stat value; the loader uses it to correct
			// onboarding-modified rosters.
			if m[5] != "" {
				ev.FinalValue, _ = strconv.ParseFloat(m[5], 64)
				ev.HasFinalValue = true
			}
			b.BuffDebuffEvents = append(b.BuffDebuffEvents, ev)
		}
	}
}

func extractKOs(content string) []KOEvent {
	var events []KOEvent
	for _, m := range koRe.FindAllStringSubmatch(content, -1) {
		turn, _ := strconv.Atoi(m[2])
		events = append(events, KOEvent{Turn: turn, Character: m[1]})
	}
	return events
}

func extractResult(content string) BattleResult {
	r := BattleResult{
		WinnerTeam:  "Unknown",
		TotalTurns:  atoiGroup(totalTurnsRe, content),
		Stars:       atoiGroup(starsRe, content),
		FinalHealth: map[string]HealthSnapshot{},
	}
	if m := battleWonRe.FindStringSubmatch(content); m != nil {
		r.Won = strings.EqualFold(m[1], "true")
	}
	if m := winnerRe.FindStringSubmatch(content); m != nil {
		r.WinnerTeam = m[1]
	}
	if m := battleEndRe.FindStringSubmatch(content); m != nil {
		for _, line := range m[1:] {
			for _, h := range hpPairRe.FindAllStringSubmatch(line, -1) {
				cur, _ := strconv.Atoi(h[2])
				max, _ := strconv.Atoi(h[3])
				r.FinalHealth[h[1]] = HealthSnapshot{Current: cur, Max: max}
			}
		}
	}
	return r
}
