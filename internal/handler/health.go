package handler

import (
	"net/http"
	"time"

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

// Check reports liveness of the process and its backing stores.
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}

	if h.db != nil {
		if sqlDB, err := h.db.DB(); err == nil && sqlDB.Ping() == nil {
			checks["database"] = "ok"
		} else {
			checks["database"] = "down"
			status = http.StatusServiceUnavailable
		}
	}
	if h.rdb != nil {
		if err := h.rdb.Ping(c.Request.Context()).Err(); err == nil {
			checks["redis"] = "ok"
		} else {
			checks["redis"] = "down"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, gin.H{
		"status": http.StatusText(status),
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
	})
}
