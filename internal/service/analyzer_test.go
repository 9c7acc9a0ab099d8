package service

import (
	"errors"
	"strings"
	"testing"
)

func TestAnalyzeRejectsEmptyLog(t *testing.T) {
	svc := NewAnalyzerService()
	if _, err := svc.Analyze(""); !errors.Is(err, ErrEmptyLog) {
		t.Fatalf("err = %v, want ErrEmptyLog", err)
	}
}

func TestAnalyzeProducesMetrics(t *testing.T) {
	log := strings.Join([]string{
		"Seed: 99",
		"GameMode: Campaign",
		"[TurnStartFlowEvent] Turn owner: bugs_bunny | Turn: 1",
		"[StateChangePrankFlowEvent] (Battle) -> (BattleEnd)",
		"Battle Winner: Team1",
		"Total Battle Turns: 1",
	}, "\n")

	svc := NewAnalyzerService()
	res, err := svc.Analyze(log)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Battle == nil || res.Metrics == nil {
		t.Fatal("expected battle and metrics")
	}
	if res.Battle.Seed != 99 {
		t.Fatalf("seed = %d, want 99", res.Battle.Seed)
	}
	if res.Metrics.Result != "WIN" {
		t.Fatalf("result = %q, want WIN", res.Metrics.Result)
	}
}
