// Package srv runs the long-lived transports of the start command.
package srv

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/guata/pkg/log"
)

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices launches every service in its own goroutine. Start
// failures are delivered on the returned channel.
func StartServices(ctx context.Context, services []Service) <-chan error {
	errs := make(chan error, len(services))
	for _, service := range services {
		go func() {
			if err := service.Start(ctx); err != nil {
				errs <- fmt.Errorf("%T failed to start: %w", service, err)
			}
		}()
	}
	return errs
}

// Wait blocks until ctx is done or a service fails to start.
func Wait(ctx context.Context, errs <-chan error) error {
	select {
	case <-ctx.Done():
		return nil
	case err := <-errs:
		return err
	}
}

// ShutdownServices stops services in order and returns every failure.
func ShutdownServices(ctx context.Context, services []Service) error {
	var errs []error
	for _, service := range services {
		if err := service.Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", service)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
