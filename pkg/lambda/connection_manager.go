package lambda

import (
	"context"
	"sync"
	"time"

	"product-catalog-api/internal/config"
	"product-catalog-api/pkg/server"
)

// ConnectionManager keeps the service container warm across Lambda
// invocations in the same execution context. The container is built lazily
// once per process; only the sessions checked out per request are
// request-scoped.
type ConnectionManager struct {
	container   *server.Container
	lastUsed    time.Time
	mu          sync.RWMutex
	initialized bool
	initOnce    sync.Once
	config      *config.Config
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = &ConnectionManager{}
	})
	return globalConnectionManager
}

// Initialize initializes the connection manager with configuration
func (cm *ConnectionManager) Initialize(ctx context.Context, cfg *config.Config) error {
	var initErr error
	cm.initOnce.Do(func() {
		cm.mu.Lock()
		defer cm.mu.Unlock()

		cm.config = cfg
		container, err := server.NewContainer(ctx, cfg)
		if err != nil {
			initErr = err
			return
		}

		cm.container = container
		cm.lastUsed = time.Now()
		cm.initialized = true
	})

	return initErr
}

// GetContainer returns the service container, initializing if necessary
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.RLock()
	if cm.initialized && cm.container != nil {
		cm.lastUsed = time.Now()
		container := cm.container
		cm.mu.RUnlock()
		return container, nil
	}
	cm.mu.RUnlock()

	if cm.config == nil {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		if err := cm.Initialize(ctx, cfg); err != nil {
			return nil, err
		}
	}

	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.container, nil
}

// Cleanup performs cleanup operations
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		if err := cm.container.Close(); err != nil {
			return err
		}
		cm.container = nil
	}

	cm.initialized = false
	return nil
}
