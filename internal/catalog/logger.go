package catalog

import (
	"sync"

	"github.com/tphakala/urbansound-go/internal/logger"
)

var (
	serviceLogger logger.Logger
	initOnce      sync.Once
)

// GetLogger returns the catalog module logger
func GetLogger() logger.Logger {
	initOnce.Do(func() {
		serviceLogger = logger.Global().Module("catalog")
	})
	return serviceLogger
}
