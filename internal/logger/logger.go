// Package logger builds the service's zap loggers.
package logger

import "go.uber.org/zap"

// NewNamed returns a named logger configured for the given environment.
// Production uses JSON output; everything else gets the development console
// encoder.
func NewNamed(env, name string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return l.Named(name), nil
}
