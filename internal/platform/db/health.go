package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// poolSnapshot is the pool pressure reported by the database health check.
type poolSnapshot struct {
	Total        int32  `json:"total"`
	Idle         int32  `json:"idle"`
	InUse        int32  `json:"in_use"`
	Max          int32  `json:"max"`
	AcquireCount int64  `json:"acquire_count"`
	AcquireWait  string `json:"acquire_wait"`
}

func snapshotPool(pool *pgxpool.Pool) poolSnapshot {
	st := pool.Stat()
	return poolSnapshot{
		Total:        st.TotalConns(),
		Idle:         st.IdleConns(),
		InUse:        st.AcquiredConns(),
		Max:          st.MaxConns(),
		AcquireCount: st.AcquireCount(),
		AcquireWait:  st.AcquireDuration().String(),
	}
}

// HealthHandler reports database reachability plus pool pressure. The ping
// runs under a short deadline so a stuck database becomes a fast 503 instead
// of a hung probe.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status": "down",
				"error":  err.Error(),
				"pool":   snapshotPool(pool),
			})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "up",
			"pool":   snapshotPool(pool),
		})
	}
}
