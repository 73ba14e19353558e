package pool

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolResetsOnPut(t *testing.T) {
	p := New(
		func() *bytes.Buffer { return new(bytes.Buffer) },
		func(b *bytes.Buffer) { b.Reset() },
	)

	buf := p.Get()
	buf.WriteString("dirty")
	p.Put(buf)

	again := p.Get()
	assert.Zero(t, again.Len())
	p.Put(again)
}

func TestPoolStats(t *testing.T) {
	p := New(func() []int { return make([]int, 0, 8) }, nil)

	a := p.Get()
	b := p.Get()
	stats := p.Stats()
	assert.Equal(t, int64(2), stats.Allocated)
	assert.Equal(t, int64(2), stats.InUse)
	assert.Equal(t, int64(2), stats.Misses)

	p.Put(a)
	p.Put(b)
	assert.Equal(t, int64(0), p.Stats().InUse)
}

func TestPoolConcurrentUse(t *testing.T) {
	p := New(func() *bytes.Buffer { return new(bytes.Buffer) }, func(b *bytes.Buffer) { b.Reset() })

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buf := p.Get()
				buf.WriteByte('x')
				p.Put(buf)
			}
		}()
	}
	wg.Wait()

	stats := p.Stats()
	assert.Equal(t, int64(0), stats.InUse)
	assert.Equal(t, int64(1600), stats.Hits+stats.Misses)
}
