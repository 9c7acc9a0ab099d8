package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/toonforge/battlelab/internal/advisor"
	"github.com/toonforge/battlelab/internal/battlelog"
	"github.com/toonforge/battlelab/internal/constants"
	"github.com/toonforge/battlelab/internal/loader"
	"github.com/toonforge/battlelab/internal/logging"
	"github.com/toonforge/battlelab/internal/sim"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoActor         = errors.New("no current actor")
	ErrSkillNotFound   = errors.New("skill not found on actor")
	ErrNotPlayerTurn   = errors.New("not a player turn")
)

// Session is one live battle owned by the advisor service. Engine state has
// no internal locking, so every access goes through the service mutex.
type Session struct {
	ID        string
	State     *sim.GameState
	CreatedAt time.Time
}

// SessionSummary is the list-view projection of a session.
type SessionSummary struct {
	SessionID  string    `json:"session_id"`
	CreatedAt  time.Time `json:"created_at"`
	TurnNumber int       `json:"turn_number"`
	BattleOver bool      `json:"battle_over"`
}

// TurnView is the full response for one turn of an advised battle.
type TurnView struct {
	SessionID       string                  `json:"session_id"`
	TurnNumber      int                     `json:"turn_number"`
	CurrentActor    *sim.CharacterView      `json:"current_actor,omitempty"`
	IsPlayerTurn    bool                    `json:"is_player_turn"`
	AvailableSkills []sim.SkillView         `json:"available_skills"`
	Enemies         []sim.CharacterView     `json:"enemies"`
	Allies          []sim.CharacterView     `json:"allies"`
	State           *sim.TurnState          `json:"state"`
	BattleOver      bool                    `json:"battle_over"`
	Winner          string                  `json:"winner,omitempty"`
	Recommendation  *advisor.Recommendation `json:"recommendation,omitempty"`
}

// ActionView reports the outcome of one applied action.
type ActionView struct {
	SessionID      string                  `json:"session_id"`
	Actor          string                  `json:"actor"`
	Skill          string                  `json:"skill"`
	Target         string                  `json:"target,omitempty"`
	DamageDealt    int                     `json:"damage_dealt"`
	HealingDone    int                     `json:"healing_done"`
	EffectsApplied []string                `json:"effects_applied,omitempty"`
	TargetKO       bool                    `json:"target_ko"`
	BattleOver     bool                    `json:"battle_over"`
	Winner         string                  `json:"winner,omitempty"`
	Recommendation *advisor.Recommendation `json:"recommendation_used,omitempty"`
}

// AdvisorService owns the battle sessions and drives them through the
// loader, the engine and the recommendation advisor.
type AdvisorService struct {
	mu       sync.Mutex
	sessions map[string]*Session

	loader  *loader.Loader
	advisor advisor.Advisor
}

// NewAdvisorService builds the session registry. The advisor may be nil;
// recommendations then always come from the deterministic fallback.
func NewAdvisorService(l *loader.Loader, adv advisor.Advisor) *AdvisorService {
	return &AdvisorService{
		sessions: make(map[string]*Session),
		loader:   l,
		advisor:  adv,
	}
}

func (s *AdvisorService) createSession(gs *sim.GameState) *Session {
	sess := &Session{
		ID:        uuid.NewString()[:8],
		State:     gs,
		CreatedAt: time.Now(),
	}
	s.sessions[sess.ID] = sess
	logging.Info("session created", logging.Fields{
		constants.LogFieldSessionID: sess.ID,
		constants.LogFieldTurn:      gs.TurnNumber,
	})
	return sess
}

// StartSample starts the built-in sample battle and returns its first turn.
func (s *AdvisorService) StartSample(ctx context.Context) (*TurnView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.createSession(s.loader.SampleBattle())
	return s.turnView(ctx, sess), nil
}

// StartFromLog parses a raw battle log and starts a session from its
// rosters.
func (s *AdvisorService) StartFromLog(ctx context.Context, logText string) (*TurnView, error) {
	if logText == "" {
		return nil, ErrEmptyLog
	}
	battle := battlelog.Parse(logText)

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.createSession(s.loader.FromParsedBattle(battle))
	return s.turnView(ctx, sess), nil
}

// StartFromDefinition starts a session from a synthetic battle definition.
func (s *AdvisorService) StartFromDefinition(ctx context.Context, def *loader.BattleDefinition) (*TurnView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.createSession(s.loader.FromDefinition(def))
	return s.turnView(ctx, sess), nil
}

// TurnState returns the current turn of a session, including a
// recommendation on player turns.
func (s *AdvisorService) TurnState(ctx context.Context, sessionID string) (*TurnView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.turnView(ctx, sess), nil
}

// ApplyAction applies one of the current actor's skills.
func (s *AdvisorService) ApplyAction(sessionID, skillID, targetID string) (*ActionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.applyAction(sess, skillID, targetID, nil)
}

func (s *AdvisorService) applyAction(sess *Session, skillID, targetID string, rec *advisor.Recommendation) (*ActionView, error) {
	gs := sess.State
	actor := gs.CurrentActor()
	if actor == nil {
		return nil, ErrNoActor
	}
	skill := actor.FindSkill(skillID)
	if skill == nil {
		return nil, ErrSkillNotFound
	}
	var target *sim.Character
	if targetID != "" {
		target = gs.FindCharacter(targetID)
	}

	action, err := gs.ApplySkill(actor, skill, target)
	if err != nil {
		return nil, err
	}

	out := &ActionView{
		SessionID:      sess.ID,
		Actor:          actor.Name,
		Skill:          skill.Name,
		DamageDealt:    action.DamageDealt,
		HealingDone:    action.HealingDone,
		EffectsApplied: action.EffectsApplied,
		BattleOver:     gs.IsOver(),
		Recommendation: rec,
	}
	if target != nil {
		out.Target = target.Name
		out.TargetKO = !target.IsAlive
	}
	if gs.IsOver() {
		out.Winner = string(gs.Winner())
	}
	logging.Info("action applied", logging.Fields{
		constants.LogFieldSessionID: sess.ID,
		constants.LogFieldTurn:      gs.TurnNumber,
		constants.LogFieldCharacter: actor.ID,
		constants.LogFieldSkillID:   skillID,
	})
	return out, nil
}

// AcceptRecommendation fetches a recommendation for the acting player
// character and applies it in one step.
func (s *AdvisorService) AcceptRecommendation(ctx context.Context, sessionID string) (*ActionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	actor := sess.State.CurrentActor()
	if actor == nil {
		return nil, ErrNoActor
	}
	if actor.Team != sim.TeamPlayer {
		return nil, ErrNotPlayerTurn
	}

	rec := s.recommend(ctx, sess)
	if rec == nil {
		return nil, ErrNoActor
	}
	return s.applyAction(sess, rec.SkillID, rec.TargetID, rec)
}

// PlayTurn applies the player's action and immediately runs the turn
// forward through the enemy phase, returning both the action outcome and
// the next player-facing turn.
func (s *AdvisorService) PlayTurn(ctx context.Context, sessionID, skillID, targetID string) (*ActionView, *TurnView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil, ErrSessionNotFound
	}
	action, err := s.applyAction(sess, skillID, targetID, nil)
	if err != nil {
		return nil, nil, err
	}
	if !sess.State.IsOver() {
		if err := sess.State.AdvanceTurn(); err == nil {
			s.runEnemyPhase(sess.State)
		}
	}
	return action, s.turnView(ctx, sess), nil
}

// AdvanceTurn ends the current turn, auto-plays every enemy actor and
// returns the next player-facing turn (or the battle-over view).
func (s *AdvisorService) AdvanceTurn(ctx context.Context, sessionID string) (*TurnView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	gs := sess.State

	if err := gs.AdvanceTurn(); err != nil {
		return nil, err
	}
	s.runEnemyPhase(gs)
	return s.turnView(ctx, sess), nil
}

// runEnemyPhase auto-plays enemy actors until control returns to a player
// character or the battle ends.
func (s *AdvisorService) runEnemyPhase(gs *sim.GameState) {
	for !gs.IsOver() {
		actor := gs.CurrentActor()
		if actor == nil || actor.Team == sim.TeamPlayer {
			return
		}
		s.playEnemyActor(gs, actor)
		if err := gs.AdvanceTurn(); err != nil {
			return
		}
	}
}

// playEnemyActor picks the enemy's first available skill against its
// lowest-HP-percent valid target. Stunned actors and empty target pools
// skip the action entirely rather than burning the skill.
func (s *AdvisorService) playEnemyActor(gs *sim.GameState, actor *sim.Character) {
	if actor.IsStunned {
		return
	}
	skills := actor.AvailableSkills()
	if len(skills) == 0 {
		return
	}
	skill := skills[0]
	targets := gs.ValidTargets(actor, skill)
	if len(targets) == 0 {
		return
	}
	target := targets[0]
	for _, t := range targets[1:] {
		if t.HPPercent() < target.HPPercent() {
			target = t
		}
	}
	if _, err := gs.ApplySkill(actor, skill, target); err != nil {
		logging.Error("enemy action failed", err, logging.Fields{
			constants.LogFieldCharacter: actor.ID,
			constants.LogFieldSkillID:   skill.ID,
		})
	}
}

// EndSession removes a session; removing an unknown id is not an error.
func (s *AdvisorService) EndSession(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	delete(s.sessions, sessionID)
	logging.Info("session ended", logging.Fields{constants.LogFieldSessionID: sessionID})
	return true
}

// ListSessions returns a summary of every live session.
func (s *AdvisorService) ListSessions() []SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SessionSummary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, SessionSummary{
			SessionID:  sess.ID,
			CreatedAt:  sess.CreatedAt,
			TurnNumber: sess.State.TurnNumber,
			BattleOver: sess.State.IsOver(),
		})
	}
	return out
}

// recommend asks the configured advisor and falls back on any failure. A
// nil result means even the fallback had nothing to offer.
func (s *AdvisorService) recommend(ctx context.Context, sess *Session) *advisor.Recommendation {
	if s.advisor != nil {
		rec, err := s.advisor.Recommend(ctx, sess.ID, sess.State)
		if err == nil {
			return &rec
		}
		logging.Error("advisor recommendation failed", err, logging.Fields{
			constants.LogFieldSessionID: sess.ID,
		})
	}
	rec, err := advisor.Fallback(sess.State)
	if err != nil {
		return nil
	}
	return &rec
}

// turnView renders the current turn. Callers hold the service mutex.
func (s *AdvisorService) turnView(ctx context.Context, sess *Session) *TurnView {
	gs := sess.State
	view := &TurnView{
		SessionID:  sess.ID,
		TurnNumber: gs.TurnNumber,
		State:      gs.BuildTurnState(),
		BattleOver: gs.IsOver(),
	}
	if gs.IsOver() {
		view.Winner = string(gs.Winner())
		view.AvailableSkills = []sim.SkillView{}
		view.Enemies = []sim.CharacterView{}
		view.Allies = []sim.CharacterView{}
		return view
	}

	actor := gs.CurrentActor()
	if actor == nil {
		view.AvailableSkills = []sim.SkillView{}
		view.Enemies = []sim.CharacterView{}
		view.Allies = []sim.CharacterView{}
		return view
	}

	av := actor.View()
	view.CurrentActor = &av
	view.IsPlayerTurn = actor.Team == sim.TeamPlayer

	view.AvailableSkills = make([]sim.SkillView, 0, len(actor.Skills))
	for _, sk := range actor.AvailableSkills() {
		view.AvailableSkills = append(view.AvailableSkills, sk.View())
	}
	view.Enemies = make([]sim.CharacterView, 0)
	for _, e := range gs.EnemiesOf(actor) {
		view.Enemies = append(view.Enemies, e.View())
	}
	view.Allies = make([]sim.CharacterView, 0)
	for _, a := range gs.AlliesOf(actor) {
		view.Allies = append(view.Allies, a.View())
	}

	if view.IsPlayerTurn {
		view.Recommendation = s.recommend(ctx, sess)
	}
	return view
}
