package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hvacops-backend/models"
)

// Dispatcher is the production Notifier: a bounded in-process queue drained
// by a single worker. Delivery is best effort and never retried.
type Dispatcher struct {
	db       *gorm.DB
	renderer *Renderer
	channels []Channel
	log      *logrus.Logger
	now      func() time.Time

	queue  chan Notification
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

func NewDispatcher(db *gorm.DB, renderer *Renderer, channels []Channel, queueSize int, log *logrus.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 100
	}
	d := &Dispatcher{
		db:       db,
		renderer: renderer,
		channels: channels,
		log:      log,
		now:      time.Now,
		queue:    make(chan Notification, queueSize),
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

// Notify enqueues n without blocking. A full or closed queue drops it.
func (d *Dispatcher) Notify(n Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.log.WithField("job_id", n.JobID).Warn("notification dropped: dispatcher closed")
		return
	}
	select {
	case d.queue <- n:
	default:
		d.log.WithFields(logrus.Fields{"job_id": n.JobID, "kind": n.Kind}).
			Warn("notification dropped: queue full")
	}
}

// Close stops accepting notifications and waits for the queue to drain
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *Dispatcher) deliver(n Notification) {
	entry := d.log.WithFields(logrus.Fields{"job_id": n.JobID, "kind": n.Kind})
	defer func() {
		if r := recover(); r != nil {
			entry.Errorf("notification delivery panicked: %v", r)
		}
	}()

	msg, err := d.renderer.Render(n)
	if err != nil {
		entry.WithError(err).Error("failed to render notification")
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		entry.WithError(err).Error("failed to encode notification payload")
		return
	}

	for _, ch := range d.channels {
		to := ch.Recipient(n)
		if to == "" {
			continue
		}

		status, errMsg := "sent", ""
		if err := send(ch, to, msg); err != nil {
			entry.WithError(err).WithField("channel", ch.Name()).Error("notification delivery failed")
			status, errMsg = "failed", err.Error()
		}

		record := models.NotificationLog{
			JobID:        n.JobID,
			Kind:         string(n.Kind),
			Channel:      ch.Name(),
			Recipient:    to,
			Subject:      msg.Subject,
			Status:       status,
			ErrorMessage: errMsg,
			Payload:      datatypes.JSON(payload),
			SentAt:       d.now(),
		}
		if err := d.db.Create(&record).Error; err != nil {
			entry.WithError(err).Error("failed to log notification")
		}
	}
}

// send turns a panicking channel into a failed attempt so the worker survives
func send(ch Channel, to string, msg RenderedMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s channel panicked: %v", ch.Name(), r)
		}
	}()
	return ch.Send(to, msg)
}
