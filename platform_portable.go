//go:build !linux

package stk

import (
	"sync"
	"sync/atomic"
	"time"
)

// MinTickResolution is the smallest tick resolution the portable platform
// driver honors; requests below it are raised to it, mirroring the
// original Win32 backend's own minimum-resolution clamp
// (_STK_ARCH_X86_WIN32_MIN_RESOLUTION, 10ms — see
// _examples/original_source/stk/src/arch/x86/win32/stk_arch_x86-win32.cpp,
// whose comment notes Windows timer jitter as the reason).
const MinTickResolution = 10 * time.Millisecond

// PortablePlatform drives the kernel's tick source from a time.Ticker. It
// backs every GOOS without a dedicated driver (Darwin, Windows, and
// everything else), the way the original project's single Win32 backend
// stood in for all non-embedded targets.
type PortablePlatform struct {
	mu         sync.Mutex
	ticker     *time.Ticker
	resolution time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}
	running    atomic.Bool
	accessMode atomic.Uint32
}

// NewPortablePlatform constructs a time.Ticker-backed Platform.
func NewPortablePlatform() *PortablePlatform { return &PortablePlatform{} }

func newDefaultPlatform() Platform { return NewPortablePlatform() }

// Start implements Platform.
func (p *PortablePlatform) Start(resolution time.Duration, onTick func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running.Load() {
		return kerr("platform.Start", ErrAlreadyRunning)
	}
	if resolution < MinTickResolution {
		resolution = MinTickResolution
	}

	p.resolution = resolution
	p.ticker = time.NewTicker(resolution)
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.running.Store(true)

	go func(ticker *time.Ticker, stop, done chan struct{}) {
		defer close(done)
		for {
			select {
			case <-ticker.C:
				onTick()
			case <-stop:
				return
			}
		}
	}(p.ticker, p.stopCh, p.doneCh)
	return nil
}

// Stop implements Platform.
func (p *PortablePlatform) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running.Load() {
		return nil
	}
	p.ticker.Stop()
	close(p.stopCh)
	<-p.doneCh
	p.running.Store(false)
	return nil
}

// SwitchContext implements Platform; see platform.go for why this is a
// no-op on simulated backends.
func (p *PortablePlatform) SwitchContext() {}

// TickResolution implements Platform.
func (p *PortablePlatform) TickResolution() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resolution
}

// SetAccessMode implements Platform.
func (p *PortablePlatform) SetAccessMode(mode AccessMode) {
	p.accessMode.Store(uint32(mode))
}
