package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
)

// Generator 提供演示用的订单和采购单
type Generator interface {
	Orders(n int) []domain.Order
	PurchaseOrders(n int, now time.Time) []domain.PurchaseOrder
}

// Catalog 保存所有已加载的订单，订单只会被追加，不会被删除
type Catalog struct {
	gen      Generator
	delay    time.Duration
	pageSize int
	logger   *slog.Logger

	mu      sync.RWMutex
	orders  []domain.Order
	index   map[string]int
	pos     []domain.PurchaseOrder
	poIndex map[string]int
}

type Option func(*Catalog)

// WithLoadMoreDelay 模拟加载更多时的后端延迟
func WithLoadMoreDelay(d time.Duration) Option {
	return func(c *Catalog) {
		c.delay = d
	}
}

func WithPageSize(n int) Option {
	return func(c *Catalog) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(gen Generator, initialOrders, initialPurchaseOrders int, now time.Time, opts ...Option) *Catalog {
	c := &Catalog{
		gen:      gen,
		delay:    time.Second,
		pageSize: 10,
		logger:   slog.Default(),
		index:    make(map[string]int),
		poIndex:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.append(gen.Orders(initialOrders))
	for _, po := range gen.PurchaseOrders(initialPurchaseOrders, now) {
		c.poIndex[po.ID] = len(c.pos)
		c.pos = append(c.pos, po)
	}
	return c
}

// append 返回实际追加的订单，已存在的 ID 会被跳过
// 调用方需持有写锁，或者处于构造阶段
func (c *Catalog) append(orders []domain.Order) []domain.Order {
	added := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if _, ok := c.index[o.ID]; ok {
			continue
		}
		c.index[o.ID] = len(c.orders)
		c.orders = append(c.orders, o)
		added = append(added, o)
	}
	return added
}

func (c *Catalog) Get(id string) (domain.Order, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return c.orders[i].Clone(), nil
}

// List 按加载顺序分页返回订单以及订单总数
func (c *Catalog) List(offset, limit int) ([]domain.Order, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := len(c.orders)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = total
	}
	if offset >= total {
		return []domain.Order{}, total
	}
	end := min(offset+limit, total)

	out := make([]domain.Order, 0, end-offset)
	for _, o := range c.orders[offset:end] {
		out = append(out, o.Clone())
	}
	return out, total
}

// LoadMore 等待模拟延迟后追加一页新订单，ctx 取消时立即返回
func (c *Catalog) LoadMore(ctx context.Context) ([]domain.Order, error) {
	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	page := c.gen.Orders(c.pageSize)

	c.mu.Lock()
	added := c.append(page)
	total := len(c.orders)
	c.mu.Unlock()

	c.logger.Info("已加载更多订单", "count", len(added), "total", total)

	out := make([]domain.Order, 0, len(added))
	for _, o := range added {
		out = append(out, o.Clone())
	}
	return out, nil
}

func (c *Catalog) SetItemComplete(id string, item int, complete bool) (domain.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if item < 0 || item >= len(c.orders[i].Items) {
		return domain.Order{}, domain.ErrItemNotFound
	}

	// 子项切片可能被之前返回的副本引用，先复制再修改
	o := c.orders[i].Clone()
	o.Items[item].Complete = complete
	c.orders[i] = o
	return o.Clone(), nil
}

func (c *Catalog) SetStatus(id string, status domain.OrderStatus) (domain.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	c.orders[i].Status = status
	return c.orders[i].Clone(), nil
}

func (c *Catalog) PurchaseOrders() []domain.PurchaseOrder {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.PurchaseOrder, len(c.pos))
	copy(out, c.pos)
	return out
}

func (c *Catalog) PurchaseOrder(id string) (domain.PurchaseOrder, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.poIndex[id]
	if !ok {
		return domain.PurchaseOrder{}, domain.ErrPurchaseNotFound
	}
	return c.pos[i], nil
}
