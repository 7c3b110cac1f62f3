package sessions

import (
	"time"

	"deliverytracker/internal/pkg/errs"
)

const (
	DefaultTickInterval   = 3 * time.Second
	DefaultPersistTimeout = 5 * time.Second
)

// Config controls the pacing of streaming loops.
type Config struct {
	// TickInterval is the time between two emitted updates.
	TickInterval time.Duration
	// PersistTimeout bounds the DeliverySink call made on completion.
	PersistTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		TickInterval:   DefaultTickInterval,
		PersistTimeout: DefaultPersistTimeout,
	}
}

func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return errs.NewValueIsInvalidError("tickInterval")
	}
	if c.PersistTimeout <= 0 {
		return errs.NewValueIsInvalidError("persistTimeout")
	}
	return nil
}
