package keys

import "strings"

// NormalizeCharacterID strips the team-side suffix ("_l"/"_r") the battle
// client appends to character identifiers and lowercases the rest. Events on
// both sides of a battle reference the same character through this canonical
// form.
func NormalizeCharacterID(id string) string {
	s := strings.ToLower(strings.TrimSpace(id))
	s = strings.TrimSuffix(s, "_l")
	s = strings.TrimSuffix(s, "_r")
	return s
}

// TeamSuffix reports which side a raw identifier belongs to: "LEFT" for a
// "_l" suffix, "RIGHT" for "_r", empty otherwise.
func TeamSuffix(id string) string {
	switch {
	case strings.HasSuffix(id, "_l"):
		return "LEFT"
	case strings.HasSuffix(id, "_r"):
		return "RIGHT"
	}
	return ""
}

// DisplayNameFromID builds a presentable fallback name from a raw character
// identifier, e.g. "bugs_bunny" -> "Bugs Bunny". Used when the enrichment
// lookup has no record for the id.
func DisplayNameFromID(id string) string {
	parts := strings.Split(NormalizeCharacterID(id), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// SkillNameFromID builds a presentable fallback name from a skill id,
// e.g. "skill_safe_landing" -> "Safe Landing".
func SkillNameFromID(id string) string {
	s := strings.TrimPrefix(strings.TrimSpace(id), "skill_")
	return DisplayNameFromID(s)
}
