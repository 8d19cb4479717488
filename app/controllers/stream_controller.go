package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"markettakip/pkg/live"
	"markettakip/pkg/logger"
	"markettakip/pkg/metrics"
	"markettakip/pkg/sse"
	"markettakip/pkg/store"
	"markettakip/pkg/ws"
)

// heartbeat keeps idle SSE connections from being reaped by proxies.
const heartbeat = 25 * time.Second

// StreamController pushes full collection snapshots to connected clients,
// over SSE or WebSocket, whichever the UI picked.
type StreamController struct {
	state *live.State
	hub   *ws.Hub
}

func NewStreamController(state *live.State, hub *ws.Hub) *StreamController {
	return &StreamController{state: state, hub: hub}
}

// SSE streams snapshot events. Each event is named after its collection and
// carries the complete new list; the connection opens with the current state
// of all four collections.
func (c *StreamController) SSE(w http.ResponseWriter, r *http.Request) {
	stream := sse.New(w, r)
	if stream == nil {
		return
	}

	metrics.StreamClients.WithLabelValues("sse").Inc()
	defer metrics.StreamClients.WithLabelValues("sse").Dec()

	events, cancel := c.state.Subscribe()
	defer cancel()

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := stream.Send(ev.Collection, ev.Data); err != nil {
				logger.WithCtx(r.Context()).Warn("sse send failed", "error", err)
				return
			}
		case <-ticker.C:
			stream.Comment("keepalive")
		case <-r.Context().Done():
			return
		}
		if stream.IsClosed() {
			return
		}
	}
}

// WS upgrades to a WebSocket subscriber. The client immediately receives the
// current snapshot of every collection, then every future one via the hub
// broadcast.
func (c *StreamController) WS(w http.ResponseWriter, r *http.Request) {
	initial := make([][]byte, 0, 4)
	for _, ev := range []live.Event{
		{Collection: store.Products, Data: c.state.Products()},
		{Collection: store.Returns, Data: c.state.Returns()},
		{Collection: store.SupplierPhotos, Data: c.state.Photos()},
		{Collection: store.Suppliers, Data: c.state.Suppliers()},
	} {
		msg, err := json.Marshal(ev)
		if err != nil {
			logger.WithCtx(r.Context()).Error("ws initial snapshot marshal failed", "error", err)
			continue
		}
		initial = append(initial, msg)
	}

	ws.Upgrade(w, r, c.hub, initial...)
}
