package sim

// ActionView is a log entry rendered for transport.
type ActionView struct {
	Actor          string   `json:"actor"`
	Skill          string   `json:"skill"`
	Target         string   `json:"target,omitempty"`
	DamageDealt    int      `json:"damage_dealt"`
	HealingDone    int      `json:"healing_done"`
	EffectsApplied []string `json:"effects_applied,omitempty"`
}

// TurnState is a full snapshot of a battle at one point in time. It is the
// payload shown to API clients and to the recommendation prompt builder.
type TurnState struct {
	TurnNumber     int             `json:"turn_number"`
	CurrentActorID string          `json:"current_actor_id,omitempty"`
	PlayerTeam     []CharacterView `json:"player_team"`
	EnemyTeam      []CharacterView `json:"enemy_team"`
	TurnOrder      []string        `json:"turn_order"`
	RecentActions  []ActionView    `json:"recent_actions,omitempty"`
	BattleOver     bool            `json:"battle_over"`
	Winner         string          `json:"winner,omitempty"`
}

// BuildTurnState renders the current battle into a TurnState snapshot.
// It is read-only with respect to the game state.
func (g *GameState) BuildTurnState() *TurnState {
	ts := &TurnState{
		TurnNumber: g.TurnNumber,
		BattleOver: g.over,
	}
	if g.over {
		ts.Winner = string(g.winner)
	}
	if actor := g.CurrentActor(); actor != nil {
		ts.CurrentActorID = actor.ID
	}
	for _, c := range g.TeamCharacters(TeamPlayer) {
		ts.PlayerTeam = append(ts.PlayerTeam, c.View())
	}
	for _, c := range g.TeamCharacters(TeamEnemy) {
		ts.EnemyTeam = append(ts.EnemyTeam, c.View())
	}
	for _, c := range g.turnOrder {
		if c.IsAlive {
			ts.TurnOrder = append(ts.TurnOrder, c.ID)
		}
	}
	for _, a := range g.Log.Recent(5) {
		av := ActionView{
			Actor:          a.Actor.Name,
			Skill:          a.Skill.Name,
			DamageDealt:    a.DamageDealt,
			HealingDone:    a.HealingDone,
			EffectsApplied: a.EffectsApplied,
		}
		if a.Target != nil {
			av.Target = a.Target.Name
		}
		ts.RecentActions = append(ts.RecentActions, av)
	}
	return ts
}
