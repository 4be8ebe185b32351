package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/boardside/kilterboard-backend/internal/http/response"
	"github.com/boardside/kilterboard-backend/internal/services"
)

type UserHandler struct {
	userService  services.UserService
	statsService services.StatsService
}

func NewUserHandler(userService services.UserService, statsService services.StatsService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		statsService: statsService,
	}
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// GET /api/me/statistics
func (uh *UserHandler) GetStatistics(c *gin.Context) {
	stats, err := uh.statsService.GetStatistics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"statistics":         stats,
		"grade_distribution": stats.Distribution(),
	})
}

// POST /api/me/avatar
func (uh *UserHandler) RegenerateAvatar(c *gin.Context) {
	me, err := uh.userService.RegenerateAvatar(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}
