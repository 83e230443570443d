package locator

import (
	"sync"

	"github.com/tphakala/urbansound-go/internal/logger"
)

var (
	serviceLogger logger.Logger
	initOnce      sync.Once
)

// GetLogger returns the locator module logger
func GetLogger() logger.Logger {
	initOnce.Do(func() {
		serviceLogger = logger.Global().Module("locator")
	})
	return serviceLogger
}
