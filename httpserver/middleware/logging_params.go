/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package middleware

import (
	"time"

	"github.com/ssgreg/logf"

	"github.com/acronis/go-hrsearch/log"
)

const timeSlotsLogFieldKey = "time_slots"

// timeSlotsMs maps a stage of request handling (e.g. "search_ms") to the milliseconds spent in it.
type timeSlotsMs map[string]int64

func (ts timeSlotsMs) EncodeLogfObject(e logf.FieldEncoder) error {
	for name, ms := range ts {
		e.EncodeFieldInt64(name, ms)
	}
	return nil
}

// LoggingParams is put into the request context by the Logging middleware.
// Handlers and inner middlewares use it to enrich the "response completed" log line,
// e.g. the rate limiter adds the client key and the search handler adds the store lookup time.
type LoggingParams struct {
	fields    []log.Field
	timeSlots timeSlotsMs
}

// ExtendFields appends fields to the "response completed" log line.
func (lp *LoggingParams) ExtendFields(fields ...log.Field) {
	lp.fields = append(lp.fields, fields...)
}

// AddTimeSlot accumulates dur (in milliseconds) under name.
// Time slots are logged only for requests slower than LoggingOpts.SlowRequestThreshold.
func (lp *LoggingParams) AddTimeSlot(name string, dur time.Duration) {
	if lp.timeSlots == nil {
		lp.timeSlots = make(timeSlotsMs, 1)
	}
	lp.timeSlots[name] += dur.Milliseconds()
}

func (lp *LoggingParams) completionFields(slow bool) []log.Field {
	if !slow || len(lp.timeSlots) == 0 {
		return lp.fields
	}
	return append(lp.fields, log.Field{Key: timeSlotsLogFieldKey, Type: logf.FieldTypeObject, Any: lp.timeSlots})
}
