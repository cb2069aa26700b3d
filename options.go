// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package reactor

import (
	"time"
)

// loopOptions holds configuration options for Loop creation.
type loopOptions struct {
	logger        *Logger
	clock         func() time.Time
	timers        TimerStore
	fatalReporter FatalReporter
	batchPolling  *bool
}

// --- Loop Options ---

// LoopOption configures a Loop instance.
type LoopOption interface {
	applyLoop(*loopOptions) error
}

// loopOptionImpl implements LoopOption.
type loopOptionImpl struct {
	applyLoopFunc func(*loopOptions) error
}

func (l *loopOptionImpl) applyLoop(opts *loopOptions) error {
	return l.applyLoopFunc(opts)
}

// WithLogger attaches a structured logger to the loop, overriding the
// package logger configured via [SetLogger].
func WithLogger(logger *Logger) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithClock sets the monotonic clock source sampled once at the start of
// each tick. The default is [time.Now]. Intended for collaborators that
// need virtual time, e.g. tests.
func WithClock(now func() time.Time) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.clock = now
		return nil
	}}
}

// WithTimerStore replaces the loop's deadline-ordered timer structure. The
// loop only ever asks the store to expire entries due at the tick snapshot
// and for its earliest deadline; iteration order within a deadline is the
// store's concern. The default store also implements [TimerScheduler],
// which [Loop.ScheduleTimer] requires.
func WithTimerStore(store TimerStore) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.timers = store
		return nil
	}}
}

// WithFatalReporter replaces the process-terminating diagnostic path for
// unrecoverable substrate failures. See [FatalReporter] for the contract:
// the reporter must not return control to the loop.
func WithFatalReporter(report FatalReporter) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.fatalReporter = report
		return nil
	}}
}

// WithBatchPolling overrides completion-retrieval strategy selection.
// Passing false forces the single-retrieval strategy even when the batch
// primitive is available; passing true selects batch retrieval only if the
// platform capability probe succeeded. The default follows the probe.
func WithBatchPolling(enabled bool) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.batchPolling = &enabled
		return nil
	}}
}

// resolveLoopOptions applies LoopOption instances to loopOptions.
func resolveLoopOptions(opts []LoopOption) (*loopOptions, error) {
	cfg := &loopOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyLoop(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = getPackageLogger()
	}
	if cfg.clock == nil {
		cfg.clock = time.Now
	}
	if cfg.timers == nil {
		cfg.timers = NewTimerHeap()
	}
	return cfg, nil
}
