package pinapi

import (
	"sync"
	"time"

	"simpi/internal/wpilog"
	"simpi/shm"
)

// Core is the process-wide PinApi singleton (spec.md "Global state"):
// DefaultCore constructs it lazily, guarded by a one-time initializer,
// matching the HAL repo's single `service` built once in hal.Run.
type Core struct {
	bank *shm.SharedBank

	startOnce sync.Once
	startTime time.Time

	isrMu    sync.RWMutex
	isrTable [32]func()

	engine *InterruptEngine
}

var (
	defaultCore     *Core
	defaultCoreOnce sync.Once
	defaultCoreErr  error
)

// DefaultCore returns the process-wide Core, constructing it (and calling
// Setup) on first use.
func DefaultCore() (*Core, error) {
	defaultCoreOnce.Do(func() {
		c := &Core{}
		if err := c.Setup(); err != nil {
			defaultCoreErr = err
			return
		}
		defaultCore = c
	})
	return defaultCore, defaultCoreErr
}

// NewCore constructs an unstarted Core. Exported for tests and for
// programs that want explicit lifecycle control instead of DefaultCore's
// implicit singleton.
func NewCore() *Core {
	return &Core{}
}

// Setup initializes the SharedBank (idempotent across re-entry: calling
// Setup twice on the same Core keeps the bank, the engine, and the start
// instant recorded by the first call), records a monotonic start instant,
// and spawns the InterruptEngine worker. Returns nil on success (the FFI
// surface in cmd/simpi-capi maps this to 0, per spec.md §4.4).
func (c *Core) Setup() error {
	wpilog.Init("wpisim")
	wpilog.Info("Init wpisim module...")

	if c.bank == nil {
		bank, err := shm.Open()
		if err != nil {
			return err
		}
		c.bank = bank
	}

	c.startOnce.Do(func() {
		c.startTime = time.Now()
	})
	if c.engine == nil {
		c.engine = newInterruptEngine(c.bank, c.isrCallback)
		c.engine.Start()
	}
	return nil
}

// isrCallback returns the callback registered for pin, if any.
func (c *Core) isrCallback(pin uint8) func() {
	c.isrMu.RLock()
	defer c.isrMu.RUnlock()
	return c.isrTable[pin]
}

// Close releases the underlying shared mapping and stops the interrupt
// engine. Not part of the original wiringPi-style API; provided for tests
// and long-running broker-side tooling that wants deterministic teardown.
func (c *Core) Close() error {
	if c.engine != nil {
		c.engine.Stop()
	}
	if c.bank != nil {
		return c.bank.Close()
	}
	return nil
}
