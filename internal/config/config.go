package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/toonforge/battlelab/internal/enrich"
)

type skillEntry struct {
	SkillID     string `json:"skill_id"`
	SkillName   string `json:"skill_name"`
	SkillType   string `json:"skill_type"`
	Cost        string `json:"cost"`
	Description string `json:"description"`
}

type characterEntry struct {
	CharacterID string `json:"character_id"`
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

	Skills []skillEntry `json:"skills"`
}

type rawConfig struct {
	CharacterList []characterEntry `json:"character_list"`
	Server        *struct {
		Address string `json:"address"`
	} `json:"server"`
	Database *struct {
		Path string `json:"path"`
	} `json:"database"`
	Advisor *struct {
		Model        string `json:"model"`
		SystemPrompt string `json:"system_prompt"`
	} `json:"advisor"`
	// Optional minimum damage for a single hit to count as a key moment.
	BigHitThreshold int `json:"big_hit_threshold"`
}

// LoadedConfig carries the enrichment roster to seed plus server, database
// and advisor settings.
type LoadedConfig struct {
	Characters []enrich.CharacterRecord
	Skills     []enrich.SkillRecord

	ServerAddress string
	DatabasePath  string

	AdvisorModel         string
	SystemPromptTemplate string

	BigHitThreshold int
}

// LoadConfig reads the configuration file at path. The roster seed is
// optional; an empty character_list just leaves the enrichment database as
// it is.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	var characters []enrich.CharacterRecord
	var skills []enrich.SkillRecord
	idSet := make(map[string]struct{}, len(rc.CharacterList))
	for _, ce := range rc.CharacterList {
		if ce.CharacterID == "" {
			return nil, fmt.Errorf("config file %s: character entry missing 'character_id'", path)
		}
		lid := strings.ToLower(strings.TrimSpace(ce.CharacterID))
		if _, exists := idSet[lid]; exists {
			return nil, fmt.Errorf("config file %s: duplicate character_id '%s'", path, ce.CharacterID)
		}
		idSet[lid] = struct{}{}

		characters = append(characters, enrich.CharacterRecord{
			CharacterID: ce.CharacterID,
			DisplayName: ce.DisplayName,
			Rarity:      ce.Rarity,
			Archetype:   ce.Archetype,
			Theme:       ce.Theme,
			Region:      ce.Region,
			BaseAttack:  ce.BaseAttack,
			BaseDefense: ce.BaseDefense,
			BaseHealth:  ce.BaseHealth,
			BaseSpeed:   ce.BaseSpeed,
			TotalPower:  ce.TotalPower,
		})
		for _, se := range ce.Skills {
			if se.SkillID == "" {
				return nil, fmt.Errorf("config file %s: character '%s' has a skill missing 'skill_id'", path, ce.CharacterID)
			}
			skills = append(skills, enrich.SkillRecord{
				SkillID:     se.SkillID,
				SkillName:   se.SkillName,
				SkillType:   se.SkillType,
				Cost:        se.Cost,
				Description: se.Description,
				OwnerID:     ce.CharacterID,
			})
		}
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}
	dbPath := ""
	if rc.Database != nil {
		dbPath = rc.Database.Path
	}

	cfg := &LoadedConfig{
		Characters:      characters,
		Skills:          skills,
		ServerAddress:   addr,
		DatabasePath:    dbPath,
		BigHitThreshold: rc.BigHitThreshold,
	}
	if rc.Advisor != nil {
		cfg.AdvisorModel = strings.TrimSpace(rc.Advisor.Model)
		cfg.SystemPromptTemplate = strings.TrimSpace(rc.Advisor.SystemPrompt)
	}
	return cfg, nil
}
