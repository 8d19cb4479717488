package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"markettakip/pkg/logger"
)

// pollInterval is the snapshot refresh cadence used when change streams are
// unavailable (standalone Mongo deployments).
const pollInterval = 3 * time.Second

// Subscribe delivers full ordered snapshots of a collection for as long as
// ctx lives. The initial snapshot is published immediately; afterwards a new
// one is fetched and published on every change-stream event, falling back to
// interval polling when the deployment does not support change streams.
//
// Each published slice is a complete replacement of the previous state —
// consumers must never treat it as a delta.
func Subscribe[T any](ctx context.Context, m *Mongo, collection, sortField string, descending bool, publish func([]T)) {
	fetch := func() {
		var snapshot []T
		if err := m.FindAll(ctx, collection, sortField, descending, &snapshot); err != nil {
			if ctx.Err() == nil {
				logger.Error("store: snapshot fetch failed", "collection", collection, "error", err)
			}
			return
		}
		publish(snapshot)
	}

	fetch()

	stream, err := m.db.Collection(collection).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		logger.Warn("store: change streams unavailable, polling",
			"collection", collection, "interval", pollInterval.String(), "error", err)
		poll(ctx, fetch)
		return
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		// The event payload is irrelevant: any change triggers a full
		// ordered re-fetch so ordering and deletes come out right.
		fetch()
	}

	if ctx.Err() == nil && stream.Err() != nil {
		logger.Warn("store: change stream closed, polling",
			"collection", collection, "error", stream.Err())
		poll(ctx, fetch)
	}
}

func poll(ctx context.Context, fetch func()) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fetch()
		}
	}
}
