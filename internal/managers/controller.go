package managers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chrissnell/moondash/internal/controllers/grpcserver"
	"github.com/chrissnell/moondash/internal/controllers/restserver"
	"github.com/chrissnell/moondash/pkg/config"
	"go.uber.org/zap"
)

// ControllerManager interface for the controller manager
type ControllerManager interface {
	StartControllers() error
}

// Controller is an interface that provides standard methods for various controller backends
type Controller interface {
	StartController() error
}

// NewControllerManager creates a new controller manager. now is handed to
// every controller as its clock; nil uses time.Now.
func NewControllerManager(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, logger *zap.SugaredLogger, now func() time.Time) (ControllerManager, error) {
	cm := &controllerManager{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		logger:         logger,
		now:            now,
		controllers:    make([]Controller, 0),
	}

	controllerConfigs, err := configProvider.GetControllers()
	if err != nil {
		return nil, fmt.Errorf("error loading controller configuration: %v", err)
	}
	if len(controllerConfigs) == 0 {
		return nil, config.ErrNoControllers
	}

	// Create controllers based on configuration
	for _, con := range controllerConfigs {
		controller, err := cm.createController(con)
		if err != nil {
			return nil, fmt.Errorf("error creating controller: %v", err)
		}
		cm.controllers = append(cm.controllers, controller)
	}

	return cm, nil
}

type controllerManager struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
	now            func() time.Time
	controllers    []Controller
}

func (c *controllerManager) StartControllers() error {
	c.logger.Info("Starting controller manager...")

	for _, controller := range c.controllers {
		err := controller.StartController()
		if err != nil {
			return fmt.Errorf("error starting controller: %v", err)
		}
	}

	c.logger.Infof("Started %d controllers successfully", len(c.controllers))
	return nil
}

// createController creates a controller based on the controller configuration
func (cm *controllerManager) createController(cc config.ControllerData) (Controller, error) {
	switch cc.Type {
	case config.ControllerREST, "restserver":
		if cc.RESTServer == nil {
			cc.RESTServer = &config.RESTServerData{}
		}
		return restserver.NewController(cm.ctx, cm.wg, cm.configProvider, *cc.RESTServer, cm.logger, cm.now)
	case config.ControllerGRPC, "grpcserver":
		if cc.GRPCServer == nil {
			cc.GRPCServer = &config.GRPCServerData{}
		}
		return grpcserver.NewController(cm.ctx, cm.wg, *cc.GRPCServer, cm.logger, cm.now)
	default:
		return nil, fmt.Errorf("unknown controller type: %s", cc.Type)
	}
}
