package constants

// Centralized constants for env keys, OpenAI integration, routes and logging.
const (
	// Environment variable keys
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvConfigPath   = "BATTLELAB_CONFIG"
	EnvDatabasePath = "BATTLELAB_DB"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// OpenAI API endpoints and base URL
	OpenAIBaseURL             = "https://api.openai.com"
	OpenAIChatCompletionsPath = "/v1/chat/completions"

	// Default chat model used for turn recommendations.
	OpenAIChatModel = "gpt-4o-mini"
)

// Team side labels as they appear in battle logs.
const (
	TeamSideLeft  = "LEFT"
	TeamSideRight = "RIGHT"

	// Winner label the game client writes for the player's team.
	PlayerWinnerLabel = "Team1"
)

// Routes used by the backend router
const (
	RouteAPIPrefix = "/api"

	RouteHealth = "/health"

	RouteAnalyze = "/analyzer/analyze"

	RouteAdvisorStart        = "/advisor/start"
	RouteAdvisorAction       = "/advisor/action"
	RouteAdvisorPlayTurn     = "/advisor/play-turn"
	RouteAdvisorNextTurn     = "/advisor/next-turn"
	RouteAdvisorAcceptRecomm = "/advisor/accept-recommendation"
	RouteAdvisorSessions     = "/advisor/sessions"
	RouteAdvisorSessionByID  = "/advisor/sessions/:sessionID"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest            = "Invalid request"
	ErrLogTextRequired           = "log text is required"
	ErrSessionIDRequired         = "session_id is required"
	ErrSessionNotFound           = "Session not found"
	ErrAnalysisFailed            = "Analysis failed"
	ErrFailedStartBattle         = "Failed to start battle"
	ErrFailedApplyAction         = "Failed to apply action"
	ErrFailedAdvanceTurn         = "Failed to advance turn"
	ErrRecommendationUnavailable = "Recommendation unavailable"
)

// Logging field names
const (
	LogFieldSessionID = "session_id"
	LogFieldTurn      = "turn"
	LogFieldSkillID   = "skill_id"
	LogFieldCharacter = "character"
	LogFieldSource    = "source"
	LogFieldAddr      = "addr"
	LogFieldPath      = "path"
)
