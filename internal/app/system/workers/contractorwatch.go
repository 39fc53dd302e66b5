// Package workers runs the change-stream consumers that feed the trigger
// handlers. Each worker owns one stream, handles events strictly in
// arrival order, and reopens the stream after transient errors. Events for
// different documents may still interleave across workers; there is no
// cross-worker coordination.
package workers

import (
	"context"
	"sync"
	"time"

	contractorstore "github.com/dalemusser/fixit/internal/app/store/contractors"
	"github.com/dalemusser/fixit/internal/app/system/timeouts"
	"github.com/dalemusser/fixit/internal/app/triggers/contractorapproval"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// reopenDelay is how long a watcher waits before reopening a failed stream.
const reopenDelay = 5 * time.Second

// ContractorWatch consumes contractor update events and feeds the
// approval handler.
type ContractorWatch struct {
	contractors *contractorstore.Store
	handler     *contractorapproval.Handler
	log         *zap.Logger
	stopCh      chan struct{}
	wg          sync.WaitGroup

	// resume is the token of the last consumed event, carried across
	// stream reopens so events from the downtime window are not lost.
	resume bson.Raw
}

// NewContractorWatch creates the contractor update watcher.
func NewContractorWatch(contractors *contractorstore.Store, handler *contractorapproval.Handler, logger *zap.Logger) *ContractorWatch {
	return &ContractorWatch{
		contractors: contractors,
		handler:     handler,
		log:         logger,
		stopCh:      make(chan struct{}),
	}
}

// Start begins consuming the change stream in the background.
func (w *ContractorWatch) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("contractor watch started")
}

// Stop signals the worker to stop and waits for it to finish.
func (w *ContractorWatch) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("contractor watch stopped")
}

func (w *ContractorWatch) run() {
	defer w.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-w.stopCh
		cancel()
	}()

	for {
		stream, err := w.contractors.WatchUpdates(ctx, w.resume)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Error("contractor watch: open change stream failed", zap.Error(err))
			if w.resume != nil {
				// The token may have aged out of the oplog; fall back to a
				// fresh stream on the next attempt.
				w.log.Warn("contractor watch: dropping resume token")
				w.resume = nil
			}
		} else {
			w.consume(ctx, stream)
		}

		select {
		case <-w.stopCh:
			return
		case <-time.After(reopenDelay):
		}
	}
}

func (w *ContractorWatch) consume(ctx context.Context, stream *contractorstore.UpdateStream) {
	defer stream.Close(context.Background())

	for {
		ev, ok := stream.Next(ctx)
		if !ok {
			if err := stream.Err(); err != nil && ctx.Err() == nil {
				w.log.Error("contractor watch: stream error", zap.Error(err))
			}
			return
		}

		hctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
		if err := w.handler.HandleUpdate(hctx, ev); err != nil {
			w.log.Error("contractor approval handler failed",
				zap.String("contractor_id", ev.After.ID.Hex()),
				zap.Error(err))
		}
		cancel()
		w.resume = stream.ResumeToken()
	}
}
