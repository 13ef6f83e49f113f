package primemover

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// config holds resolved Kernel construction options (§6 "Configuration
// surface"). Mirrors eventloop's loopOptions/resolveLoopOptions shape.
type config struct {
	trackSpectrum     bool
	trackEventSources bool
	debugEvents       bool
	endTime           *T
	logger            *logiface.Logger[*stumpy.Event]
}

func defaultConfig() *config {
	return &config{
		trackSpectrum:     true,  // default on, per §6
		trackEventSources: false, // default off, per §6
		debugEvents:       false, // default off, per §6
	}
}

// Option configures a Kernel at construction time, mirroring
// eventloop.LoopOption's applyLoop-closure pattern.
type Option interface {
	apply(*config) error
}

type optionFunc func(*config) error

func (f optionFunc) apply(c *config) error { return f(c) }

// WithTrackSpectrum controls whether the method-signature histogram
// (§3 "Spectrum map") is maintained. Default true.
func WithTrackSpectrum(enabled bool) Option {
	return optionFunc(func(c *config) error {
		c.trackSpectrum = enabled
		return nil
	})
}

// WithTrackEventSources controls whether events keep a weak caller
// back-link for event-source tracing (§4.5). Default false.
func WithTrackEventSources(enabled bool) Option {
	return optionFunc(func(c *config) error {
		c.trackEventSources = enabled
		return nil
	})
}

// WithDebugEvents controls whether the posting site is captured for
// each event (§4.6). Default false; costly (stack walk per post).
func WithDebugEvents(enabled bool) Option {
	return optionFunc(func(c *config) error {
		c.debugEvents = enabled
		return nil
	})
}

// WithEndTime sets an optional terminal clock value (§6 "end_time").
// RunLoop exits once the next event's time would exceed it. end must be
// >= 0, matching clock.go's rule that negative values are never valid
// scheduling targets.
func WithEndTime(end T) Option {
	return optionFunc(func(c *config) error {
		if end < 0 {
			return newArgumentError("options", "with_end_time", 0, errNegativeEndTime)
		}
		t := end
		c.endTime = &t
		return nil
	})
}

// WithLogger attaches a structured logger used for dispatch tracing,
// continuation-error reporting, and end-of-simulation reporting. Purely
// observational: logging never participates in scheduling decisions.
// Nil-safe no-op logging is used when no logger is supplied.
func WithLogger(logger *logiface.Logger[*stumpy.Event]) Option {
	return optionFunc(func(c *config) error {
		c.logger = logger
		return nil
	})
}

// resolveConfig applies every Option to a default config, collecting all
// validation failures rather than stopping at the first (§6): a caller
// who passes several bad options at once sees every problem in one
// error, via AggregateError's Go 1.20+ Unwrap() []error.
func resolveConfig(opts []Option) (*config, error) {
	c := defaultConfig()
	var errs []error
	for _, opt := range opts {
		if err := opt.apply(c); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Message: "invalid kernel options", Errors: errs}
	}
	return c, nil
}
