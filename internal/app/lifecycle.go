package app

import (
	"github.com/openleadr/openleadr-go/internal/pkg/logger"
)

// Shutdown releases all application resources.
func (a *Application) Shutdown() {
	if a.Pools != nil {
		a.Pools.Shutdown()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
	logger.Info("Application resources released")
}
