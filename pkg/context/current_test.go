package context

import (
	"context"
	"sync"
	"testing"

	. "github.com/onsi/gomega"
)

func TestCurrent_SetGet(t *testing.T) {
	RegisterTestingT(t)

	current := NewCurrent()
	current.Set(RequestIDKey, "abc")
	current.Set("count", 3)

	Expect(current.RequestID()).To(Equal("abc"))
	Expect(current.Exists("count")).To(BeTrue())

	_, ok := current.GetString("count")
	Expect(ok).To(BeFalse())

	_, ok = current.GetString("missing")
	Expect(ok).To(BeFalse())

	all := current.All()
	all["count"] = 4
	Expect(current.Get("count")).To(Equal(3))
}

func TestCurrent_Context(t *testing.T) {
	RegisterTestingT(t)

	_, ok := FromContext(context.Background())
	Expect(ok).To(BeFalse())
	Expect(GetCurrent(context.Background())).ToNot(BeNil())

	current := NewCurrent()
	ctx := WithCurrent(context.Background(), current)

	Expect(GetCurrent(ctx)).To(BeIdenticalTo(current))
}

func TestCurrent_ConcurrentAccess(t *testing.T) {
	RegisterTestingT(t)

	current := NewCurrent()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			current.Set(RequestIDKey, "id")
			current.Get(RequestIDKey)
		}(i)
	}

	wg.Wait()
	Expect(current.RequestID()).To(Equal("id"))
}
