package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/drcvmx/school-system/internal/service"
	"github.com/drcvmx/school-system/pkg/response"
)

// CalendarHandler 校历订阅 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// ICSFeed 输出学年与评估阶段的 iCalendar 订阅源
// GET /api/v1/calendar/ics
func (h *CalendarHandler) ICSFeed(c *gin.Context) {
	feed, err := h.calendarSvc.ICSFeed(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Data(200, "text/calendar; charset=utf-8", []byte(feed))
}
