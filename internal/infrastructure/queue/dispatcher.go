package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/psiconecta/booking-system/internal/api/metrics"
	"github.com/psiconecta/booking-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes payment callbacks to a fixed set of workers using
// consistent hashing on the processor payment id, so retries of the same
// callback are processed in order. The webhook handler acknowledges the
// processor before processing happens here.
type Dispatcher struct {
	workers []chan ports.CallbackInput
	service ports.ReconciliationService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ReconciliationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.CallbackInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.CallbackInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a callback to the worker responsible for its payment id.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(input ports.CallbackInput) {
	d.workers[d.shardIndex(input.ProcessorPaymentID)] <- input
}

// shardIndex maps a processor payment id deterministically to a worker index.
func (d *Dispatcher) shardIndex(processorPaymentID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(processorPaymentID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.CallbackInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case input, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, input); err != nil {
				// Failures are logged only; the callback was already
				// acknowledged to avoid external retry amplification.
				metrics.CallbacksTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("processor_payment_id", input.ProcessorPaymentID).
					Int("worker_id", id).
					Msg("callback processing failed")
				continue
			}
			metrics.CallbacksTotal.WithLabelValues("ok").Inc()
		}
	}
}
