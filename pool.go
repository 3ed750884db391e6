package mdpages

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps converters, each of which may own a browser.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ConverterPool hands out Converter instances for parallel conversions.
// Converters are created lazily on first acquire, all with the same options.
type ConverterPool struct {
	size       int
	opts       []Option
	converters []*Converter
	sem        chan *Converter
	mu         sync.Mutex
	created    int
	closed     bool
}

// NewConverterPool creates a pool with capacity for n converters.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	if n < 1 {
		n = 1
	}
	return &ConverterPool{
		size:       n,
		opts:       opts,
		converters: make([]*Converter, 0, n),
		sem:        make(chan *Converter, n),
	}
}

// Acquire gets a converter, creating one if capacity allows. It blocks while
// all converters are in use. A creation failure gives the slot back.
// Acquiring from a closed pool fails with ErrPoolClosed.
func (p *ConverterPool) Acquire() (*Converter, error) {
	select {
	case c, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return c, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		c, err := NewConverter(p.opts...)

		p.mu.Lock()
		defer p.mu.Unlock()
		if err != nil {
			p.created--
			return nil, err
		}
		p.converters = append(p.converters, c)
		return c, nil
	}
	p.mu.Unlock()

	c, ok := <-p.sem
	if !ok {
		return nil, ErrPoolClosed
	}
	return c, nil
}

// Release returns a converter to the pool. Releasing after Close is a no-op.
func (p *ConverterPool) Release(c *Converter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || c == nil {
		return
	}
	p.sem <- c
}

// Close releases every converter. Errors are joined.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	converters := p.converters
	p.mu.Unlock()

	var errs []error
	for _, c := range converters {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize picks the worker count: an explicit value wins, otherwise
// half of GOMAXPROCS clamped to [MinPoolSize, MaxPoolSize].
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
