// Package enrich resolves character and skill display metadata from the
// toon-kit database. Lookups degrade to misses, never to errors: callers
// keep their own fallbacks.
package enrich

import (
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/toonforge/battlelab/internal/keys"
)

// Lookup resolves enrichment metadata. A false second return value means no
// record matched.
type Lookup interface {
	Character(characterID string) (CharacterRecord, bool)
	Skill(skillID string) (SkillRecord, bool)
	CharacterSkills(characterID string) []SkillRecord
}

var (
	markupRe      = regexp.MustCompile(`<[A-Z]*>`)
	spacesRe      = regexp.MustCompile(`\s+`)
	levelSuffixRe = regexp.MustCompile(`_\d+$`)
)

// CleanDescription strips the kit markup tags (<OFF>, <DEF>, <>, ...) and
// collapses whitespace.
func CleanDescription(desc string) string {
	cleaned := markupRe.ReplaceAllString(desc, "")
	return strings.TrimSpace(spacesRe.ReplaceAllString(cleaned, " "))
}

// Repository serves lookups from in-memory maps loaded once at startup.
// Reads are cheap and safe to share; nothing is mutated after Load. The
// ordered id slices keep fallback scans deterministic: partial matches
// resolve to the first record in load order, not to a random map key.
type Repository struct {
	characters     map[string]CharacterRecord
	characterOrder []string
	skills         map[string]SkillRecord
	skillOrder     []string
	skillsByOwner  map[string][]SkillRecord
	ownerOrder     []string
}

// NewRepository builds a lookup repository from already-loaded records.
// Descriptions are cleaned on the way in.
func NewRepository(characters []CharacterRecord, skills []SkillRecord) *Repository {
	r := &Repository{
		characters:    make(map[string]CharacterRecord, len(characters)),
		skills:        make(map[string]SkillRecord, len(skills)),
		skillsByOwner: make(map[string][]SkillRecord),
	}
	for _, c := range characters {
		id := strings.ToLower(c.CharacterID)
		if _, seen := r.characters[id]; !seen {
			r.characterOrder = append(r.characterOrder, id)
		}
		r.characters[id] = c
	}
	for _, s := range skills {
		s.Description = CleanDescription(s.Description)
		if _, seen := r.skills[s.SkillID]; !seen {
			r.skillOrder = append(r.skillOrder, s.SkillID)
		}
		r.skills[s.SkillID] = s
		if s.OwnerID != "" {
			owner := strings.ToLower(s.OwnerID)
			if _, seen := r.skillsByOwner[owner]; !seen {
				r.ownerOrder = append(r.ownerOrder, owner)
			}
			r.skillsByOwner[owner] = append(r.skillsByOwner[owner], s)
		}
	}
	return r
}

// Load fetches every enrichment record from the database into a Repository.
func Load(db *gorm.DB) (*Repository, error) {
	var characters []CharacterRecord
	if err := db.Find(&characters).Error; err != nil {
		return nil, err
	}
	var skills []SkillRecord
	if err := db.Find(&skills).Error; err != nil {
		return nil, err
	}
	return NewRepository(characters, skills), nil
}

// Character resolves a character id to its record. Matching order: exact id
// after side-suffix stripping, substring match on id, then display-name
// match.
func (r *Repository) Character(characterID string) (CharacterRecord, bool) {
	normalized := keys.NormalizeCharacterID(characterID)
	if c, ok := r.characters[normalized]; ok {
		return c, true
	}
	for _, id := range r.characterOrder {
		if strings.Contains(id, normalized) || strings.Contains(normalized, id) {
			return r.characters[id], true
		}
	}
	for _, id := range r.characterOrder {
		c := r.characters[id]
		display := strings.ReplaceAll(strings.ToLower(c.DisplayName), " ", "_")
		if display == "" {
			continue
		}
		if strings.Contains(display, normalized) || strings.Contains(normalized, display) {
			return c, true
		}
	}
	return CharacterRecord{}, false
}

// Skill resolves a skill id, retrying without a trailing level suffix
// (skill_xyz_2 also matches skill_xyz).
func (r *Repository) Skill(skillID string) (SkillRecord, bool) {
	if s, ok := r.skills[skillID]; ok {
		return s, true
	}
	base := levelSuffixRe.ReplaceAllString(skillID, "")
	for _, id := range r.skillOrder {
		if strings.HasPrefix(id, base) {
			return r.skills[id], true
		}
	}
	return SkillRecord{}, false
}

// CharacterSkills returns every known skill owned by a character, matching
// the owner id the same way Character matches.
func (r *Repository) CharacterSkills(characterID string) []SkillRecord {
	normalized := keys.NormalizeCharacterID(characterID)
	if skills, ok := r.skillsByOwner[normalized]; ok {
		return skills
	}
	for _, owner := range r.ownerOrder {
		if strings.Contains(owner, normalized) || strings.Contains(normalized, owner) {
			return r.skillsByOwner[owner]
		}
	}
	return nil
}
