// Package importer replays archived channel messages into the inventory.
// One-time use: it exists so a freshly deployed engine is not blind to the
// listings posted before it went live.
package importer

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"core/internal/logger"
	"core/internal/service"
	"core/internal/utils"
)

// ArchivedMessage is one historical channel message.
type ArchivedMessage struct {
	ID           int64
	ChatID       int64
	ChatUsername string
	Date         time.Time
	Text         string
}

// ArchiveSource reads channel history. The Bot API cannot do this, so the
// implementation lives outside the engine (a user-session export, a dump
// file, a test fixture).
type ArchiveSource interface {
	History(ctx context.Context, channel string, limit int) ([]ArchivedMessage, error)
}

// Importer runs the backfill: normalize channel refs, pull history, ingest
// with dedup, pacing each write to respect the store's rate limit. The
// pacing is a courtesy throttle, not a correctness mechanism.
type Importer struct {
	source  ArchiveSource
	engine  *service.Engine
	limiter *rate.Limiter
	log     logger.Logger
}

// NewImporter wires the backfill with its pacing limiter.
func NewImporter(source ArchiveSource, engine *service.Engine, perSec float64, burst int, log logger.Logger) *Importer {
	return &Importer{
		source:  source,
		engine:  engine,
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
		log:     log,
	}
}

// Run imports up to limit messages from every referenced channel. A failing
// channel is logged and skipped; the rest keep importing. Returns the number
// of stored listings.
func (i *Importer) Run(ctx context.Context, channelsRaw string, limit int) (int, error) {
	channels := utils.NormalizeChannelRefs(channelsRaw)
	total := 0

	for _, ch := range channels {
		log := i.log.WithField("channel", ch)
		log.Info("backfill started")

		messages, err := i.source.History(ctx, ch, limit)
		if err != nil {
			log.WithError(err).Error("history fetch failed, skipping channel")
			continue
		}

		added := 0
		for _, msg := range messages {
			if err := i.limiter.Wait(ctx); err != nil {
				return total, err
			}
			stored, err := i.engine.IngestArchived(ctx, msg.ID, msg.Date, msg.Text, msg.ChatID, msg.ChatUsername)
			if err != nil {
				log.WithError(err).WithField("source_id", msg.ID).Warn("archived message skipped")
				continue
			}
			if stored {
				added++
			}
		}

		total += added
		log.WithField("added", added).Info("backfill finished for channel")
	}

	return total, nil
}
