package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

func (h *HealthHandler) Health(c *gin.Context) {
	estado := gin.H{"status": "ok"}
	code := http.StatusOK

	if h.db != nil {
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			estado["database"] = "down"
			code = http.StatusServiceUnavailable
		} else {
			estado["database"] = "up"
		}
	}
	if h.rdb != nil {
		if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
			estado["redis"] = "down"
			code = http.StatusServiceUnavailable
		} else {
			estado["redis"] = "up"
		}
	}
	if code != http.StatusOK {
		estado["status"] = "degraded"
	}
	c.JSON(code, estado)
}
