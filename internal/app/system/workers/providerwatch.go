package workers

import (
	"context"
	"sync"
	"time"

	providerstore "github.com/dalemusser/fixit/internal/app/store/providers"
	"github.com/dalemusser/fixit/internal/app/system/timeouts"
	"github.com/dalemusser/fixit/internal/app/triggers/providerprovision"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ProviderWatch consumes provider insert events and feeds the
// provisioning handler.
type ProviderWatch struct {
	providers *providerstore.Store
	handler   *providerprovision.Handler
	log       *zap.Logger
	stopCh    chan struct{}
	wg        sync.WaitGroup

	// resume is the token of the last consumed event, carried across
	// stream reopens so inserts from the downtime window are not lost.
	resume bson.Raw
}

// NewProviderWatch creates the provider creation watcher.
func NewProviderWatch(providers *providerstore.Store, handler *providerprovision.Handler, logger *zap.Logger) *ProviderWatch {
	return &ProviderWatch{
		providers: providers,
		handler:   handler,
		log:       logger,
		stopCh:    make(chan struct{}),
	}
}

// Start begins consuming the change stream in the background.
func (w *ProviderWatch) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("provider watch started")
}

// Stop signals the worker to stop and waits for it to finish.
func (w *ProviderWatch) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("provider watch stopped")
}

func (w *ProviderWatch) run() {
	defer w.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-w.stopCh
		cancel()
	}()

	for {
		stream, err := w.providers.WatchCreated(ctx, w.resume)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Error("provider watch: open change stream failed", zap.Error(err))
			if w.resume != nil {
				// The token may have aged out of the oplog; fall back to a
				// fresh stream on the next attempt.
				w.log.Warn("provider watch: dropping resume token")
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

func (w *ProviderWatch) consume(ctx context.Context, stream *providerstore.CreateStream) {
	defer stream.Close(context.Background())

	for {
		p, ok := stream.Next(ctx)
		if !ok {
			if err := stream.Err(); err != nil && ctx.Err() == nil {
				w.log.Error("provider watch: stream error", zap.Error(err))
			}
			return
		}

		hctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
		if err := w.handler.HandleCreated(hctx, p); err != nil {
			w.log.Error("provider provisioning handler failed",
				zap.String("provider_id", p.ID.Hex()),
				zap.Error(err))
		}
		cancel()
		w.resume = stream.ResumeToken()
	}
}
