package archive

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/R3E-Network/consciousness-core/internal/apitypes"
	"github.com/R3E-Network/consciousness-core/internal/logger"
)

// Query is one precomputed hot query the populator refreshes on schedule
// (spec §4.2 "e.g., daily Panchanga for well-known coordinates").
type Query struct {
	Key     string
	Compute func(ctx context.Context) (apitypes.EngineOutput, error)
}

// Populator runs a scheduled background job that recomputes a fixed list
// of hot queries and appends their results to the archive (spec §4.2 "L3
// ... populated offline or by a background task").
type Populator struct {
	archive *Archive
	queries []Query
	cron    *cron.Cron
	log     *logger.Logger
}

// NewPopulator builds a populator over the given archive and query list.
func NewPopulator(archive *Archive, queries []Query, log *logger.Logger) *Populator {
	return &Populator{
		archive: archive,
		queries: queries,
		cron:    cron.New(),
		log:     log,
	}
}

// Start schedules RunOnce on the given cron expression (e.g. "0 3 * * *"
// for daily off-peak population) and begins running it in the background.
func (p *Populator) Start(spec string) error {
	_, err := p.cron.AddFunc(spec, func() {
		p.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}
	p.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for any in-flight run to finish.
func (p *Populator) Stop() {
	ctx := p.cron.Stop()
	<-ctx.Done()
}

// RunOnce recomputes every registered query and appends successes to the
// archive, logging (not failing on) individual query errors.
func (p *Populator) RunOnce(ctx context.Context) {
	for _, q := range p.queries {
		output, err := q.Compute(ctx)
		if err != nil {
			p.log.WithField("key", q.Key).WithField("error", err).Warn("archive populator query failed")
			continue
		}
		if err := p.archive.Append(q.Key, output); err != nil {
			p.log.WithField("key", q.Key).WithField("error", err).Warn("archive populator append failed")
		}
	}
}
