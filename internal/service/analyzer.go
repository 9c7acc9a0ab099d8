package service

import (
	"errors"

	"github.com/toonforge/battlelab/internal/battlelog"
	"github.com/toonforge/battlelab/internal/logging"
	"github.com/toonforge/battlelab/internal/metrics"
)

var ErrEmptyLog = errors.New("log text is empty")

// AnalysisResult bundles the structured record and the computed metrics of
// one analyzed battle log.
type AnalysisResult struct {
	Battle  *battlelog.ParsedBattle `json:"battle"`
	Metrics *metrics.BattleMetrics  `json:"metrics"`
}

// AnalyzerService turns raw battle logs into analysis results. Parsing is
// pure and stateless, so a single service instance is safe for concurrent
// use.
type AnalyzerService struct{}

// NewAnalyzerService returns the analyzer front end.
func NewAnalyzerService() *AnalyzerService {
	return &AnalyzerService{}
}

// Analyze parses a raw log and computes its battle metrics. The only hard
// failure is an empty input; malformed content still yields a best-effort
// record.
func (s *AnalyzerService) Analyze(logText string) (*AnalysisResult, error) {
	if logText == "" {
		return nil, ErrEmptyLog
	}

	battle := battlelog.Parse(logText)
	m := metrics.Compute(battle)
	logging.Info("battle analyzed", logging.Fields{
		"turns":  m.TotalTurns,
		"result": m.Result,
		"events": len(battle.DamageEvents),
	})
	return &AnalysisResult{Battle: battle, Metrics: m}, nil
}
