package ids

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestCounter(t *testing.T) {
	t.Parallel()

	c := NewCounter("ORD-", 1001)
	if got := c.NewID(); got != "ORD-1001" {
		t.Fatalf("expected ORD-1001, got %s", got)
	}
	if got := c.NewID(); got != "ORD-1002" {
		t.Fatalf("expected ORD-1002, got %s", got)
	}
}

func TestCounter_Concurrent(t *testing.T) {
	t.Parallel()

	c := NewCounter("b", 0)
	seen := sync.Map{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, dup := seen.LoadOrStore(c.NewID(), true); dup {
				t.Errorf("duplicate id generated")
			}
		}()
	}
	wg.Wait()
}

func TestUUID(t *testing.T) {
	t.Parallel()

	id := NewUUID().NewID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected valid uuid, got %q (%v)", id, err)
	}
}
