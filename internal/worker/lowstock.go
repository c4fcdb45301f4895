package worker

import (
    "context"
    "sync"
    "time"

    "github.com/jackc/pgx/v5/pgxpool"
    "go.uber.org/zap"
)

// StockWatcher periodically scans the inventory and logs items whose
// quantity dropped to or below the configured threshold. It never
// writes; restocking stays a human decision.
type StockWatcher struct {
    pool      *pgxpool.Pool
    logger    *zap.Logger
    threshold int
    interval  time.Duration
    wg        sync.WaitGroup
    stop      chan struct{}
}

type lowStockItem struct {
    ID       string
    Name     string
    Quantity int
}

func NewStockWatcher(pool *pgxpool.Pool, logger *zap.Logger, threshold int, interval time.Duration) *StockWatcher {
    return &StockWatcher{
        pool:      pool,
        logger:    logger,
        threshold: threshold,
        interval:  interval,
        stop:      make(chan struct{}),
    }
}

func (w *StockWatcher) Start(ctx context.Context) {
    w.logger.Info("Starting stock watcher",
        zap.Int("threshold", w.threshold),
        zap.Duration("interval", w.interval),
    )

    w.wg.Add(1)
    go w.run(ctx)
}

func (w *StockWatcher) Stop() {
    w.logger.Info("Stopping stock watcher...")
    close(w.stop)
    w.wg.Wait()
    w.logger.Info("Stock watcher stopped")
}

func (w *StockWatcher) run(ctx context.Context) {
    defer w.wg.Done()

    ticker := time.NewTicker(w.interval)
    defer ticker.Stop()

    for {
        select {
        case <-w.stop:
            return
        case <-ctx.Done():
            return
        case <-ticker.C:
            items, err := w.lowStockItems(ctx)
            if err != nil {
                w.logger.Error("stock check failed", zap.Error(err))
                continue
            }
            for _, it := range items {
                w.logger.Warn("Low stock",
                    zap.String("item_id", it.ID),
                    zap.String("name", it.Name),
                    zap.Int("quantity", it.Quantity),
                )
            }
        }
    }
}

func (w *StockWatcher) lowStockItems(ctx context.Context) ([]lowStockItem, error) {
    rows, err := w.pool.Query(ctx, `
        SELECT id, name, quantity
        FROM inventory_items
        WHERE quantity <= $1
        ORDER BY quantity, name
    `, w.threshold)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var items []lowStockItem
    for rows.Next() {
        var it lowStockItem
        if err := rows.Scan(&it.ID, &it.Name, &it.Quantity); err != nil {
            return nil, err
        }
        items = append(items, it)
    }
    return items, rows.Err()
}
