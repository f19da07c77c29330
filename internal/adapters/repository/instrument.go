package repository

import (
	"errors"
	"time"

	"github.com/okian/vstrike/pkg/metrics"
)

func observe(backend, op string, start time.Time, err error) {
	status := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
		metrics.RecordErrorByComponent("repository", backend+"_"+op)
	}
	metrics.RecordStoreOperation(backend, op, status)
	metrics.RecordStoreLatency(backend, op, float64(time.Since(start).Microseconds())/1000.0)
}
