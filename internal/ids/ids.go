package ids

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator 生成实体 ID，由调用方注入，方便测试时得到确定的结果
type Generator interface {
	NewID() string
}

type uuidGenerator struct{}

func NewUUID() Generator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

// Counter 是带前缀的单调递增 ID 生成器，并发安全
type Counter struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func NewCounter(prefix string, start int) *Counter {
	return &Counter{prefix: prefix, next: start}
}

func (c *Counter) NewID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := fmt.Sprintf("%s%d", c.prefix, c.next)
	c.next++
	return id
}
