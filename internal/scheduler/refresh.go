package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gwplanner/internal/cache"
	"gwplanner/internal/clients/fpl"
)

const refreshTimeout = 30 * time.Second

// RefreshJob re-fetches the bootstrap and fixture snapshots so interactive
// requests hit a warm cache, then sweeps expired rows.
type RefreshJob struct {
	client *fpl.Client
	store  *cache.Store
	log    zerolog.Logger
}

// NewRefreshJob creates the warm-refresh job
func NewRefreshJob(client *fpl.Client, store *cache.Store, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		client: client,
		store:  store,
		log:    log.With().Str("job", "warm_refresh").Logger(),
	}
}

// Name implements Job
func (j *RefreshJob) Name() string {
	return "warm_refresh"
}

// Run implements Job
func (j *RefreshJob) Run() error {
	runID := uuid.New().String()
	start := time.Now()
	log := j.log.With().Str("run_id", runID).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	boot, err := j.client.Bootstrap(ctx)
	if err != nil {
		return err
	}
	fixtures, err := j.client.Fixtures(ctx)
	if err != nil {
		return err
	}

	swept := int64(0)
	if j.store != nil {
		if swept, err = j.store.Sweep(); err != nil {
			log.Warn().Err(err).Msg("Cache sweep failed")
		}
	}

	log.Info().
		Int("elements", len(boot.Elements)).
		Int("fixtures", len(fixtures)).
		Int64("swept", swept).
		Dur("took", time.Since(start)).
		Msg("Warmed upstream snapshots")
	return nil
}
