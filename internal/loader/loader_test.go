package loader

import (
	"testing"

	"github.com/toonforge/battlelab/internal/battlelog"
	"github.com/toonforge/battlelab/internal/enrich"
	"github.com/toonforge/battlelab/internal/sim"
)

func testLookup() enrich.Lookup {
	characters := []enrich.CharacterRecord{
		{CharacterID: "bugs_bunny", DisplayName: "Bugs Bunny", Rarity: "Legendary"},
	}
	skills := []enrich.SkillRecord{
		{SkillID: "skill_carrot_toss", SkillName: "Carrot Toss", SkillType: "Active 3",
			Description: "Deal 120% damage to target enemy, inflicting Stun."},
		{SkillID: "skill_burrow", SkillName: "Burrow", SkillType: "Passive",
			Description: "Passively increases dodge."},
	}
	return enrich.NewRepository(characters, skills)
}

func parsedRoster() *battlelog.ParsedBattle {
	return &battlelog.ParsedBattle{
		LeftTeam: []battlelog.CharacterStats{
			{
				Name: "bugs_bunny", Team: "LEFT", Level: 12,
				MaxHealth: 200, Attack: 60, Defense: 30, Speed: 55,
				Archetype: "trickster",
				Skills: []battlelog.SkillEntry{
					{Type: "active", ID: "skill_carrot_toss"},
					{Type: "passive", ID: "skill_burrow"},
				},
			},
		},
		RightTeam: []battlelog.CharacterStats{
			{
				Name: "marvin_martian", Team: "RIGHT", Level: 11,
				MaxHealth: 150, Attack: 50, Defense: 20, Speed: 40,
				Skills: []battlelog.SkillEntry{
					{Type: "passive", ID: "skill_space_armor"},
				},
			},
		},
	}
}

func TestFromParsedBattleEnrichedCharacter(t *testing.T) {
	gs := New(testLookup()).FromParsedBattle(parsedRoster())

	bugs := gs.FindCharacter("bugs_bunny")
	if bugs == nil {
		t.Fatal("bugs_bunny not loaded")
	}
	if bugs.Name != "Bugs Bunny" || bugs.Rarity != "Legendary" {
		t.Fatalf("enrichment = %q/%q", bugs.Name, bugs.Rarity)
	}
	if bugs.Team != sim.TeamPlayer {
		t.Fatalf("team = %q, want player", bugs.Team)
	}
	if bugs.Archetype != "Trickster" {
		t.Fatalf("archetype = %q", bugs.Archetype)
	}
	if bugs.MaxHP != 200 || bugs.CurrentHP != 200 {
		t.Fatalf("hp = %d/%d", bugs.CurrentHP, bugs.MaxHP)
	}

	carrot := bugs.FindSkill("skill_carrot_toss")
	if carrot == nil {
		t.Fatal("carrot toss not resolved")
	}
	if carrot.Power != 120 || carrot.MaxCooldown != 3 || carrot.Type != sim.SingleTarget {
		t.Fatalf("carrot toss = %+v", carrot)
	}
	if len(carrot.Effects) != 1 || carrot.Effects[0] != sim.EffectStun {
		t.Fatalf("carrot effects = %v", carrot.Effects)
	}
	burrow := bugs.FindSkill("skill_burrow")
	if burrow == nil || !burrow.IsPassive {
		t.Fatalf("burrow = %+v", burrow)
	}
}

func TestFromParsedBattleFallbacks(t *testing.T) {
	gs := New(testLookup()).FromParsedBattle(parsedRoster())

	marvin := gs.FindCharacter("marvin_martian")
	if marvin == nil {
		t.Fatal("marvin_martian not loaded")
	}
	if marvin.Name != "Marvin Martian" {
		t.Fatalf("fallback name = %q", marvin.Name)
	}
	if marvin.Rarity != "Common" {
		t.Fatalf("fallback rarity = %q", marvin.Rarity)
	}
	if marvin.Archetype != "Attacker" {
		t.Fatalf("fallback archetype = %q", marvin.Archetype)
	}

	// Only a passive skill was discovered, so a basic attack is inserted
	// in front.
	if len(marvin.Skills) != 2 {
		t.Fatalf("skills = %d, want 2", len(marvin.Skills))
	}
	basic := marvin.Skills[0]
	if !basic.IsBasic || basic.Type != sim.SingleTarget || basic.Power != 100 {
		t.Fatalf("basic = %+v", basic)
	}
}

func TestFromParsedBattleAppliesOnboardingStats(t *testing.T) {
	battle := parsedRoster()
	// The battle-start block prints pre-onboarding numbers: 111 max HP and
	// a speed of 5. The first turn snapshot and the flat stat-change
	// results carry the corrected values.
	battle.LeftTeam[0].MaxHealth = 111
	battle.LeftTeam[0].Attack = 8
	battle.LeftTeam[0].Speed = 5
	battle.Turns = []battlelog.TurnEvent{
		{
			TurnNumber: 1,
			Owner:      "bugs_bunny_l",
			TeamHealth: map[string]battlelog.HealthSnapshot{
				"bugs_bunny_l":     {Current: 156, Max: 156},
				"marvin_martian_r": {Current: 150, Max: 150},
			},
		},
	}
	battle.BuffDebuffEvents = []battlelog.BuffDebuffEvent{
		{Kind: "flat", Target: "bugs_bunny_l", Stat: "Attack", Amount: 49, FinalValue: 57, HasFinalValue: true},
		{Kind: "flat", Target: "bugs_bunny_l", Stat: "Speed", Amount: 29, FinalValue: 34, HasFinalValue: true},
		// Multiplicative lines and lines without a result are ignored.
		{Kind: "mult", Target: "bugs_bunny_l", Stat: "Defense", Amount: 2, FinalValue: 99, HasFinalValue: true},
		{Kind: "flat", Target: "bugs_bunny_l", Stat: "Defense", Amount: 10},
	}

	gs := New(testLookup()).FromParsedBattle(battle)

	bugs := gs.FindCharacter("bugs_bunny")
	if bugs == nil {
		t.Fatal("bugs_bunny not loaded")
	}
	if bugs.MaxHP != 156 || bugs.CurrentHP != 156 {
		t.Fatalf("hp = %d/%d, want 156/156", bugs.CurrentHP, bugs.MaxHP)
	}
	if bugs.Attack != 57 {
		t.Fatalf("attack = %d, want 57", bugs.Attack)
	}
	if bugs.Speed != 34 {
		t.Fatalf("speed = %d, want 34", bugs.Speed)
	}
	if bugs.Defense != 30 {
		t.Fatalf("defense = %d, want 30 (uncorrected)", bugs.Defense)
	}

	// Speed corrections land before the turn order is computed: marvin
	// (40) now outruns bugs (34).
	actor := gs.CurrentActor()
	if actor == nil || actor.ID != "marvin_martian" {
		t.Fatalf("first actor = %+v, want marvin_martian", actor)
	}
}

func TestFromParsedBattleWithoutTurnSnapshotKeepsStartStats(t *testing.T) {
	battle := parsedRoster()
	battle.BuffDebuffEvents = []battlelog.BuffDebuffEvent{
		{Kind: "flat", Target: "bugs_bunny_l", Stat: "Attack", Amount: 49, FinalValue: 57, HasFinalValue: true},
	}

	gs := New(testLookup()).FromParsedBattle(battle)

	// Without a first-turn snapshot no correction pass runs at all.
	bugs := gs.FindCharacter("bugs_bunny")
	if bugs.Attack != 60 {
		t.Fatalf("attack = %d, want 60", bugs.Attack)
	}
	if bugs.MaxHP != 200 {
		t.Fatalf("max hp = %d, want 200", bugs.MaxHP)
	}
}

func TestBuildSkillsCapsAtFive(t *testing.T) {
	l := New(nil)
	ids := []string{"skill_a", "skill_b", "skill_c", "skill_d", "skill_e", "skill_f", "skill_g"}
	skills := l.buildSkills("toon", ids, nil)
	if len(skills) != 5 {
		t.Fatalf("skills = %d, want 5", len(skills))
	}
	if skills[0].ID != "skill_a" || skills[4].ID != "skill_e" {
		t.Fatal("discovery order must be kept")
	}
}

func TestFromDefinition(t *testing.T) {
	def := &BattleDefinition{
		Characters: []CharacterDefinition{
			{
				ID: "tweety", Team: "player", MaxHP: 100, Attack: 40, Defense: 20, Speed: 70,
				Skills: []SkillDefinition{
					{ID: "skill_feather_mend", Name: "Feather Mend",
						Description: "Heal all allies for 30%."},
				},
			},
			{
				ID: "sylvester", Team: "enemy", MaxHP: 150, Attack: 50, Defense: 25, Speed: 45,
			},
		},
	}
	gs := New(nil).FromDefinition(def)

	tweety := gs.FindCharacter("tweety")
	if tweety == nil || tweety.Name != "Tweety" {
		t.Fatalf("tweety = %+v", tweety)
	}
	mend := tweety.FindSkill("skill_feather_mend")
	if mend == nil || mend.Type != sim.AllAllies || mend.Power != 30 {
		t.Fatalf("mend = %+v", mend)
	}

	sylvester := gs.FindCharacter("sylvester")
	if sylvester == nil || len(sylvester.Skills) != 1 || !sylvester.Skills[0].IsBasic {
		t.Fatal("skill-less characters get a basic attack")
	}
	if sylvester.Team != sim.TeamEnemy {
		t.Fatalf("team = %q", sylvester.Team)
	}
}

func TestSampleBattle(t *testing.T) {
	gs := New(nil).SampleBattle()
	if len(gs.AliveCharacters(sim.TeamPlayer)) != 2 || len(gs.AliveCharacters(sim.TeamEnemy)) != 2 {
		t.Fatal("sample battle is two on two")
	}
	// Road Runner is the fastest and acts first.
	actor := gs.CurrentActor()
	if actor == nil || actor.ID != "road_runner" {
		t.Fatalf("first actor = %+v", actor)
	}
	if gs.IsOver() {
		t.Fatal("sample battle starts active")
	}
}
