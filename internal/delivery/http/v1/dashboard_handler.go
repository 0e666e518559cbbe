package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
)

type DashboardHandler struct {
	statsUC domain.StatsUsecase
}

// NewDashboardHandler registers dashboard routes
func NewDashboardHandler(r *gin.RouterGroup, statsUC domain.StatsUsecase) {
	handler := &DashboardHandler{statsUC: statsUC}
	r.GET("/dashboard/stats", handler.GetStats)
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	stats, err := h.statsUC.GetDashboardStats(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Dashboard stats retrieved", stats)
}
