package gamemetrics

import (
	"context"
	"time"
)

type noop struct{}

// NewNoop returns metrics that discard everything.
func NewNoop() GameMetrics { return noop{} }

func (noop) RecordOperationAttempt(context.Context, string, string)                 {}
func (noop) RecordOperationSuccess(context.Context, string, string)                 {}
func (noop) RecordOperationFailure(context.Context, string, string)                 {}
func (noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (noop) RecordOutcome(context.Context, string)                                  {}
func (noop) RecordPollCycle(context.Context, int, int, time.Duration)               {}
func (noop) RecordNotificationFailure(context.Context, string)                      {}
