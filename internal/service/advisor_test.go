package service

import (
	"context"
	"errors"
	"testing"

	"github.com/toonforge/battlelab/internal/loader"
)

func duelDefinition(playerSpeed, enemySpeed int) *loader.BattleDefinition {
	return &loader.BattleDefinition{
		Name: "duel",
		Characters: []loader.CharacterDefinition{
			{
				ID: "hero", Name: "Hero", Team: "player",
				MaxHP: 200, Attack: 50, Speed: playerSpeed,
				Skills: []loader.SkillDefinition{
					{ID: "skill_punch", Name: "Punch", Type: "single_target", Power: 100, IsBasic: true},
				},
			},
			{
				ID: "grunt", Name: "Grunt", Team: "enemy",
				MaxHP: 500, Attack: 30, Speed: enemySpeed,
				Skills: []loader.SkillDefinition{
					{ID: "skill_bonk", Name: "Bonk", Type: "single_target", Power: 100, IsBasic: true},
				},
			},
		},
	}
}

func newTestService() *AdvisorService {
	return NewAdvisorService(loader.New(nil), nil)
}

func TestStartSampleCreatesSession(t *testing.T) {
	svc := newTestService()
	view, err := svc.StartSample(context.Background())
	if err != nil {
		t.Fatalf("StartSample: %v", err)
	}
	if len(view.SessionID) != 8 {
		t.Fatalf("session id = %q, want 8 characters", view.SessionID)
	}
	if view.TurnNumber != 1 {
		t.Fatalf("turn = %d, want 1", view.TurnNumber)
	}
	if view.CurrentActor == nil {
		t.Fatal("expected a current actor")
	}
	if len(svc.ListSessions()) != 1 {
		t.Fatalf("sessions = %d, want 1", len(svc.ListSessions()))
	}
}

func TestStartFromLogRejectsEmptyText(t *testing.T) {
	svc := newTestService()
	if _, err := svc.StartFromLog(context.Background(), ""); !errors.Is(err, ErrEmptyLog) {
		t.Fatalf("err = %v, want ErrEmptyLog", err)
	}
}

func TestTurnStateUnknownSession(t *testing.T) {
	svc := newTestService()
	if _, err := svc.TurnState(context.Background(), "nope1234"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestTurnStateIncludesFallbackRecommendation(t *testing.T) {
	svc := newTestService()
	view, err := svc.StartFromDefinition(context.Background(), duelDefinition(90, 10))
	if err != nil {
		t.Fatalf("StartFromDefinition: %v", err)
	}
	if !view.IsPlayerTurn {
		t.Fatal("expected a player turn")
	}
	if view.Recommendation == nil {
		t.Fatal("expected a recommendation on a player turn")
	}
	if view.Recommendation.Source != "fallback" {
		t.Fatalf("source = %q, want fallback", view.Recommendation.Source)
	}
	if view.Recommendation.SkillID != "skill_punch" {
		t.Fatalf("recommended skill = %q, want skill_punch", view.Recommendation.SkillID)
	}
	if len(view.AvailableSkills) != 1 || view.AvailableSkills[0].SkillID != "skill_punch" {
		t.Fatalf("available skills = %+v, want skill_punch", view.AvailableSkills)
	}
}

func TestApplyActionDealsDamage(t *testing.T) {
	svc := newTestService()
	view, err := svc.StartFromDefinition(context.Background(), duelDefinition(90, 10))
	if err != nil {
		t.Fatalf("StartFromDefinition: %v", err)
	}

	res, err := svc.ApplyAction(view.SessionID, "skill_punch", "grunt")
	if err != nil {
		t.Fatalf("ApplyAction: %v", err)
	}
	if res.Actor != "Hero" || res.Skill != "Punch" || res.Target != "Grunt" {
		t.Fatalf("action = %+v", res)
	}
	if res.DamageDealt != 50 {
		t.Fatalf("damage = %d, want 50", res.DamageDealt)
	}
	if res.TargetKO {
		t.Fatal("grunt should survive")
	}
	if res.BattleOver {
		t.Fatal("battle should not be over")
	}
}

func TestApplyActionUnknownSkill(t *testing.T) {
	svc := newTestService()
	view, err := svc.StartFromDefinition(context.Background(), duelDefinition(90, 10))
	if err != nil {
		t.Fatalf("StartFromDefinition: %v", err)
	}
	if _, err := svc.ApplyAction(view.SessionID, "skill_missing", "grunt"); !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("err = %v, want ErrSkillNotFound", err)
	}
}

func TestAdvanceTurnAutoPlaysEnemies(t *testing.T) {
	svc := newTestService()
	view, err := svc.StartFromDefinition(context.Background(), duelDefinition(90, 10))
	if err != nil {
		t.Fatalf("StartFromDefinition: %v", err)
	}
	if _, err := svc.ApplyAction(view.SessionID, "skill_punch", "grunt"); err != nil {
		t.Fatalf("ApplyAction: %v", err)
	}

	next, err := svc.AdvanceTurn(context.Background(), view.SessionID)
	if err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}
	if !next.IsPlayerTurn {
		t.Fatal("expected control back on the player turn")
	}
	if next.TurnNumber != 2 {
		t.Fatalf("turn = %d, want 2", next.TurnNumber)
	}
	// Grunt attacks during the automatic phase: 30 attack at 100% power.
	hero := next.CurrentActor
	if hero.ID != "hero" {
		t.Fatalf("actor = %q, want hero", hero.ID)
	}
	if hero.HP != 170 {
		t.Fatalf("hero hp = %d, want 170", hero.HP)
	}
}

func TestPlayTurnRunsFullRound(t *testing.T) {
	svc := newTestService()
	view, err := svc.StartFromDefinition(context.Background(), duelDefinition(90, 10))
	if err != nil {
		t.Fatalf("StartFromDefinition: %v", err)
	}

	action, next, err := svc.PlayTurn(context.Background(), view.SessionID, "skill_punch", "grunt")
	if err != nil {
		t.Fatalf("PlayTurn: %v", err)
	}
	if action.DamageDealt != 50 {
		t.Fatalf("damage = %d, want 50", action.DamageDealt)
	}
	if !next.IsPlayerTurn {
		t.Fatal("expected control back on the player turn")
	}
	if next.TurnNumber != 2 {
		t.Fatalf("turn = %d, want 2", next.TurnNumber)
	}
}

func TestAcceptRecommendationAppliesFallback(t *testing.T) {
	svc := newTestService()
	view, err := svc.StartFromDefinition(context.Background(), duelDefinition(90, 10))
	if err != nil {
		t.Fatalf("StartFromDefinition: %v", err)
	}

	res, err := svc.AcceptRecommendation(context.Background(), view.SessionID)
	if err != nil {
		t.Fatalf("AcceptRecommendation: %v", err)
	}
	if res.Recommendation == nil || res.Recommendation.Source != "fallback" {
		t.Fatalf("recommendation = %+v, want fallback source", res.Recommendation)
	}
	if res.Skill != "Punch" || res.Target != "Grunt" {
		t.Fatalf("action = %+v, want Punch on Grunt", res)
	}
}

func TestAcceptRecommendationRequiresPlayerTurn(t *testing.T) {
	svc := newTestService()
	view, err := svc.StartFromDefinition(context.Background(), duelDefinition(10, 90))
	if err != nil {
		t.Fatalf("StartFromDefinition: %v", err)
	}
	if view.IsPlayerTurn {
		t.Fatal("expected an enemy turn")
	}
	if _, err := svc.AcceptRecommendation(context.Background(), view.SessionID); !errors.Is(err, ErrNotPlayerTurn) {
		t.Fatalf("err = %v, want ErrNotPlayerTurn", err)
	}
}

func TestEndSessionRemovesIt(t *testing.T) {
	svc := newTestService()
	view, err := svc.StartSample(context.Background())
	if err != nil {
		t.Fatalf("StartSample: %v", err)
	}
	if !svc.EndSession(view.SessionID) {
		t.Fatal("expected EndSession to report removal")
	}
	if svc.EndSession(view.SessionID) {
		t.Fatal("second EndSession should report miss")
	}
	if len(svc.ListSessions()) != 0 {
		t.Fatal("expected no sessions after removal")
	}
}
