package loader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/toonforge/battlelab/internal/sim"
)

var (
	powerRe    = regexp.MustCompile(`\[?(\d+)%\]?`)
	cooldownRe = regexp.MustCompile(`Active\s*(\d+)`)
)

// effectKeywords maps description phrasing to engine effect tags. Iteration
// must be deterministic, hence the slice.
var effectKeywords = []struct {
	keyword string
	effect  string
}{
	{"stun", sim.EffectStun},
	{"silence", sim.EffectSilence},
	{"attack up", sim.EffectAttackUp},
	{"attack down", sim.EffectAttackDown},
	{"defense up", sim.EffectDefenseUp},
	{"defense down", sim.EffectDefenseDown},
	{"speed up", sim.EffectSpeedUp},
	{"speed down", sim.EffectSpeedDown},
	{"taunt", sim.EffectTaunt},
	{"heal", sim.EffectHeal},
	{"damage over time", sim.EffectDot},
	{"heal over time", sim.EffectHot},
}

// ClassifySkillType derives a skill's targeting type from its free-text
// description. The rule order is fixed: area phrasing wins over heal
// phrasing, heal-all over self, self over single-ally, and anything else is
// a single enemy target.
func ClassifySkillType(description string) sim.SkillType {
	desc := strings.ToLower(description)
	switch {
	case strings.Contains(desc, "all enemies") || strings.Contains(desc, "all team"):
		return sim.AOE
	case strings.Contains(desc, "heal") && strings.Contains(desc, "all"):
		return sim.AllAllies
	case strings.Contains(desc, "heal") || strings.Contains(desc, "grant"):
		if strings.Contains(desc, "self") || strings.Contains(desc, "this toon") {
			return sim.Self
		}
		return sim.Ally
	default:
		return sim.SingleTarget
	}
}

// ExtractPower pulls the first percent literal out of a description,
// defaulting to 100.
func ExtractPower(description string) int {
	if m := powerRe.FindStringSubmatch(description); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 100
}

// ExtractEffects matches the effect vocabulary against a description,
// case-insensitive, in fixed order.
func ExtractEffects(description string) []string {
	desc := strings.ToLower(description)
	var effects []string
	for _, e := range effectKeywords {
		if strings.Contains(desc, e.keyword) {
			effects = append(effects, e.effect)
		}
	}
	return effects
}

// ExtractCooldown reads a cooldown from an "Active N" style type label,
// defaulting to 0.
func ExtractCooldown(typeLabel string) int {
	if m := cooldownRe.FindStringSubmatch(typeLabel); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}
