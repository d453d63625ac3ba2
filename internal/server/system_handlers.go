package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"gwplanner/internal/database"
)

// SystemHandlers serves process and cache diagnostics
type SystemHandlers struct {
	log       zerolog.Logger
	cacheDB   *database.DB
	startedAt time.Time
}

// NewSystemHandlers creates the system diagnostics handlers
func NewSystemHandlers(log zerolog.Logger, cacheDB *database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("component", "system_handlers").Logger(),
		cacheDB:   cacheDB,
		startedAt: time.Now(),
	}
}

type cacheDBHealth struct {
	SizeBytes    int64 `json:"size_bytes"`
	WALSizeBytes int64 `json:"wal_size_bytes"`
	PageCount    int64 `json:"page_count"`
}

type systemHealth struct {
	Status        string         `json:"status"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	CPUPercent    float64        `json:"cpu_percent"`
	RAMPercent    float64        `json:"ram_percent"`
	CacheDB       *cacheDBHealth `json:"cache_db,omitempty"`
}

// HandleSystemHealth handles GET /api/system/health
func (h *SystemHandlers) HandleSystemHealth(w http.ResponseWriter, r *http.Request) {
	cpuPct, ramPct := h.systemStats()

	health := systemHealth{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		CPUPercent:    cpuPct,
		RAMPercent:    ramPct,
	}
	if h.cacheDB != nil {
		if stats, err := h.cacheDB.GetStats(); err == nil {
			health.CacheDB = &cacheDBHealth{
				SizeBytes:    stats.SizeBytes,
				WALSizeBytes: stats.WALSizeBytes,
				PageCount:    stats.PageCount,
			}
		} else {
			h.log.Warn().Err(err).Msg("Failed to read cache DB stats")
		}
	}
	writeJSON(h.log, w, http.StatusOK, health)
}

// systemStats samples CPU over a short interval to keep the endpoint fast
func (h *SystemHandlers) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil || len(cpuPercent) == 0 {
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return cpuPercent[0], 0
	}
	return cpuPercent[0], memStat.UsedPercent
}

func writeJSON(log zerolog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
