package events

import (
	"context"
	"sync"
	"time"

	"milk-admin/src/interfaces"
	"milk-admin/src/inventory"
	"milk-admin/src/logger"
	"milk-admin/src/models"
	"milk-admin/src/utils"
)

// Routing keys, one per state stream.
const (
	KeyInventory = "inventory.updated"
	KeyStock     = "stock.updated"
	KeyEarnings  = "earnings.updated"
)

const publishTimeout = 5 * time.Second

// MEvent is the message body.
type MEvent struct {
	Stream    string      `json:"stream"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// Forwarder publishes every inventory, stock and earnings value. The current
// value of each stream goes out first. Publish failures are logged and dropped.
type Forwarder struct {
	Publisher interfaces.IEventPublisher
	Inventory *inventory.InventoryManager
	Logger    *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	failed int
}

func NewForwarder(pub interfaces.IEventPublisher, inv *inventory.InventoryManager, log *logger.Logger) *Forwarder {
	return &Forwarder{Publisher: pub, Inventory: inv, Logger: log}
}

// Start subscribes to the inventory signals until ctx ends or Stop is called.
func (f *Forwarder) Start(parentCtx context.Context, wg *sync.WaitGroup) {
	ctx, cancel := context.WithCancel(parentCtx)
	f.mu.Lock()
	f.cancel = cancel
	f.mu.Unlock()

	run(ctx, wg, f, models.StreamInventory, KeyInventory, f.Inventory.SubscribeInventory())
	run(ctx, wg, f, models.StreamStock, KeyStock, f.Inventory.SubscribeStock())
	run(ctx, wg, f, models.StreamEarnings, KeyEarnings, f.Inventory.SubscribeEarnings())
}

func (f *Forwarder) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// Failures returns how many publishes have failed.
func (f *Forwarder) Failures() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failed
}

func run[T any](ctx context.Context, wg *sync.WaitGroup, f *Forwarder, stream, key string, sub *utils.Subscription[T]) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-sub.C():
				if !ok {
					return
				}
				f.publish(ctx, stream, key, v)
			}
		}
	}()
}

func (f *Forwarder) publish(ctx context.Context, stream, key string, v interface{}) {
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := f.Publisher.Publish(pctx, key, MEvent{Stream: stream, Data: v, Timestamp: time.Now().Unix()})
	if err != nil {
		f.mu.Lock()
		f.failed++
		f.mu.Unlock()
		f.Logger.Warning("Failed to publish %s: %v", key, err)
	}
}
