// File: internal/handler/ping.go
package handler

import (
	"net/http"
	"time"

	"devcamper/internal/cache"
	"devcamper/internal/database"
	"devcamper/internal/dto"

	"github.com/labstack/echo/v4"
)

// PingResponse 健康檢查回應模型
// swagger:model PingResponse
type PingResponse struct {
	// 回應訊息
	Message string `json:"message" example:"pong"`
}

// PingHandler 健康檢查
// @Summary     Health Check
// @Description 回傳 pong，並檢查 MongoDB 與 Redis 連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} PingResponse
// @Failure     503 {object} dto.HTTPError
// @Router      /ping [get]
func PingHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			c.Logger().Errorf("ping mongo: %v", err)
			return c.JSON(http.StatusServiceUnavailable, dto.HTTPError{Error: "database unhealthy"})
		}
		if err := cch.Set(ctx, "ping", time.Now().Unix(), time.Minute).Err(); err != nil {
			c.Logger().Errorf("ping redis: %v", err)
			return c.JSON(http.StatusServiceUnavailable, dto.HTTPError{Error: "cache unhealthy"})
		}
		return c.JSON(http.StatusOK, PingResponse{Message: "pong"})
	}
}
