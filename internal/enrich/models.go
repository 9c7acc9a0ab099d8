package enrich

// CharacterRecord is the persisted enrichment row for one character.
type CharacterRecord struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CharacterID string `gorm:"uniqueIndex" json:"character_id"`
	DisplayName string `json:"display_name"`
	Rarity      string `json:"rarity"`
	Archetype   string `json:"archetype"`
	Theme       string `json:"theme"`
	Region      string `json:"region"`

	BaseAttack  int `json:"base_attack"`
	BaseDefense int `json:"base_defense"`
	BaseHealth  int `json:"base_health"`
	BaseSpeed   int `json:"base_speed"`
	TotalPower  int `json:"total_power"`
}

// SkillRecord is the persisted enrichment row for one skill.
type SkillRecord struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	SkillID     string `gorm:"uniqueIndex" json:"skill_id"`
	SkillName   string `json:"skill_name"`
	SkillType   string `json:"skill_type"` // e.g. "Active 3", "Passive"
	Cost        string `json:"cost"`
	Description string `json:"description"`
	OwnerID     string `gorm:"index" json:"owner_id"`
}
