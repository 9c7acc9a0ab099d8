package enrich

import "testing"

func testRepository() *Repository {
	characters := []CharacterRecord{
		{CharacterID: "bugs_bunny", DisplayName: "Bugs Bunny", Rarity: "Legendary", Archetype: "Trickster"},
		{CharacterID: "daffy_duck_pirate", DisplayName: "Pirate Daffy", Rarity: "Epic"},
		{CharacterID: "tweety", DisplayName: "Tweety", Rarity: "Rare"},
	}
	skills := []SkillRecord{
		{SkillID: "skill_carrot_toss", SkillName: "Carrot Toss", SkillType: "Active 3", OwnerID: "bugs_bunny",
			Description: "<OFF>Deals 120% damage to one enemy<>"},
		{SkillID: "skill_feather_mend_1", SkillName: "Feather Mend", SkillType: "Active 2", OwnerID: "tweety",
			Description: "Heals   all allies for 30%"},
	}
	return NewRepository(characters, skills)
}

func TestCharacterExactMatch(t *testing.T) {
	r := testRepository()
	c, ok := r.Character("bugs_bunny_l")
	if !ok {
		t.Fatal("expected a match after suffix stripping")
	}
	if c.DisplayName != "Bugs Bunny" || c.Rarity != "Legendary" {
		t.Fatalf("record = %+v", c)
	}
}

func TestCharacterPartialMatch(t *testing.T) {
	r := testRepository()
	c, ok := r.Character("daffy_duck")
	if !ok {
		t.Fatal("expected a partial id match")
	}
	if c.CharacterID != "daffy_duck_pirate" {
		t.Fatalf("matched %q", c.CharacterID)
	}
}

func TestCharacterPartialMatchIsStable(t *testing.T) {
	characters := []CharacterRecord{
		{CharacterID: "daffy_duck", DisplayName: "Daffy Duck"},
		{CharacterID: "daffy_duck_pirate", DisplayName: "Pirate Daffy"},
	}
	// Several records contain the query; the first in load order must win,
	// on every run.
	for i := 0; i < 20; i++ {
		r := NewRepository(characters, nil)
		c, ok := r.Character("daffy")
		if !ok {
			t.Fatal("expected a partial id match")
		}
		if c.CharacterID != "daffy_duck" {
			t.Fatalf("matched %q, want daffy_duck", c.CharacterID)
		}
	}
}

func TestCharacterMiss(t *testing.T) {
	r := testRepository()
	if _, ok := r.Character("marvin_martian"); ok {
		t.Fatal("expected a miss")
	}
}

func TestSkillLevelSuffixRetry(t *testing.T) {
	r := testRepository()
	s, ok := r.Skill("skill_feather_mend_2")
	if !ok {
		t.Fatal("expected a match without the level suffix")
	}
	if s.SkillName != "Feather Mend" {
		t.Fatalf("skill = %+v", s)
	}
}

func TestSkillDescriptionCleaned(t *testing.T) {
	r := testRepository()
	s, ok := r.Skill("skill_carrot_toss")
	if !ok {
		t.Fatal("expected a match")
	}
	want := "Deals 120% damage to one enemy"
	if s.Description != want {
		t.Fatalf("description = %q, want %q", s.Description, want)
	}
}

func TestCharacterSkillsByOwner(t *testing.T) {
	r := testRepository()
	skills := r.CharacterSkills("tweety_l")
	if len(skills) != 1 || skills[0].SkillID != "skill_feather_mend_1" {
		t.Fatalf("skills = %+v", skills)
	}
	if r.CharacterSkills("marvin_martian") != nil {
		t.Fatal("expected no skills for unknown owner")
	}
}

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<OFF>Deal damage<>", "Deal damage"},
		{"  spaced   out  ", "spaced out"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanDescription(tt.in); got != tt.want {
			t.Fatalf("CleanDescription(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
