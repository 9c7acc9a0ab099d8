package api

import (
	"github.com/gin-gonic/gin"

	"github.com/toonforge/battlelab/internal/constants"
)

// NewRouter wires every handler under the /api prefix.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteHealth, h.Health)
		apiRoutes.POST(constants.RouteAnalyze, h.Analyze)

		apiRoutes.POST(constants.RouteAdvisorStart, h.StartBattle)
		apiRoutes.POST(constants.RouteAdvisorAction, h.ApplyAction)
		apiRoutes.POST(constants.RouteAdvisorPlayTurn, h.PlayTurn)
		apiRoutes.POST(constants.RouteAdvisorNextTurn, h.NextTurn)
		apiRoutes.POST(constants.RouteAdvisorAcceptRecomm, h.AcceptRecommendation)
		apiRoutes.GET(constants.RouteAdvisorSessions, h.ListSessions)
		apiRoutes.GET(constants.RouteAdvisorSessionByID, h.GetSession)
		apiRoutes.DELETE(constants.RouteAdvisorSessionByID, h.EndSession)
	}

	return router
}
