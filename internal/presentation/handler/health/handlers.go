package health

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dmelnic/teamchat/internal/infrastructure/json"
)

var (
	startTime       = time.Now()
	healthy   int32 = 1 // 1 = healthy, 0 = unhealthy
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// SetHealthy flips the readiness flag, for shutdown draining.
func SetHealthy(ok bool) {
	if ok {
		atomic.StoreInt32(&healthy, 1)
	} else {
		atomic.StoreInt32(&healthy, 0)
	}
}

// GetHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API, including uptime and current timestamp
// @Tags         health
// @Produce      json
// @Success      200 {object} healthResponse "Service is healthy"
// @Failure      503 {object} healthResponse "Service is unhealthy"
// @Router       /health [get]
// @Router       /healthz [get]
// @Router       /ready [get]
// @Router       /live [get]
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK

	if atomic.LoadInt32(&healthy) == 0 {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	json.Write(w, code, healthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
	})
}
