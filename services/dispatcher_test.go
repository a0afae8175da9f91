package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hvacops-backend/models"
)

type fakeChannel struct {
	name string
	fail error
	gate chan struct{}

	mu   sync.Mutex
	sent []RenderedMessage
}

func (f *fakeChannel) Name() string                    { return f.name }
func (f *fakeChannel) Recipient(n Notification) string { return n.CustomerEmail }

func (f *fakeChannel) Send(to string, msg RenderedMessage) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.fail
}

func sampleNotification(kind NotificationKind) Notification {
	return Notification{
		Kind:          kind,
		JobID:         uuid.New(),
		JobType:       models.JobTypeInstallation,
		PhaseName:     "Copper piping (payment)",
		CustomerName:  "Asha <b>Mehta</b>",
		CustomerEmail: "asha@example.com",
		PaymentStatus: models.PaymentPending,
		AmountDue:     dec(1000),
	}
}

func TestDispatcherDeliversAndLogs(t *testing.T) {
	db := newTestDB(t)
	ok := &fakeChannel{name: "email"}
	broken := &fakeChannel{name: "sms", fail: errors.New("gateway down")}
	d := NewDispatcher(db, NewRenderer("Satguru Engineers"), []Channel{ok, broken}, 10, quietLogger())

	n := sampleNotification(KindPaymentRequest)
	d.Notify(n)
	require.NoError(t, d.Close(context.Background()))

	require.Len(t, ok.sent, 1)
	msg := ok.sent[0]
	assert.Equal(t, "Update: Job #"+n.JobID.String()+" - Copper piping (payment) Completed", msg.Subject)
	assert.Contains(t, msg.HTML, "Payment Request: Copper piping (payment)")
	assert.Contains(t, msg.HTML, "Rs. 1000.00")
	assert.Contains(t, msg.HTML, "Asha &lt;b&gt;Mehta&lt;/b&gt;")
	assert.Contains(t, msg.Text, "Amount due: Rs. 1000.00")

	var logs []models.NotificationLog
	require.NoError(t, db.Order("channel ASC").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, "email", logs[0].Channel)
	assert.Equal(t, "sent", logs[0].Status)
	assert.Equal(t, "sms", logs[1].Channel)
	assert.Equal(t, "failed", logs[1].Status)
	assert.Equal(t, "gateway down", logs[1].ErrorMessage)
	assert.Equal(t, string(KindPaymentRequest), logs[0].Kind)
	assert.True(t, strings.Contains(string(logs[0].Payload), n.JobID.String()))
}

type panickingChannel struct{}

func (panickingChannel) Name() string                    { return "sms" }
func (panickingChannel) Recipient(n Notification) string { return n.CustomerEmail }
func (panickingChannel) Send(string, RenderedMessage) error {
	panic("nil client")
}

func TestDispatcherSurvivesPanickingChannel(t *testing.T) {
	db := newTestDB(t)
	ok := &fakeChannel{name: "email"}
	d := NewDispatcher(db, NewRenderer("Satguru Engineers"), []Channel{panickingChannel{}, ok}, 10, quietLogger())

	d.Notify(sampleNotification(KindPhaseProgress))
	d.Notify(sampleNotification(KindPhaseProgress))
	require.NoError(t, d.Close(context.Background()))

	// the worker kept going and the healthy channel still got both
	assert.Len(t, ok.sent, 2)

	var failed []models.NotificationLog
	require.NoError(t, db.Where("channel = ?", "sms").Find(&failed).Error)
	require.Len(t, failed, 2)
	assert.Equal(t, "failed", failed[0].Status)
	assert.Contains(t, failed[0].ErrorMessage, "panicked: nil client")
}

func TestDispatcherNotifyNeverBlocks(t *testing.T) {
	db := newTestDB(t)
	gate := make(chan struct{})
	slow := &fakeChannel{name: "email", gate: gate}
	d := NewDispatcher(db, NewRenderer("Satguru Engineers"), []Channel{slow}, 1, quietLogger())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			d.Notify(sampleNotification(KindPhaseProgress))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a stalled channel")
	}

	close(gate)
	require.NoError(t, d.Close(context.Background()))
	// one in flight plus one queued; the rest were dropped
	assert.LessOrEqual(t, len(slow.sent), 2)
	assert.GreaterOrEqual(t, len(slow.sent), 1)

	d.Notify(sampleNotification(KindPhaseProgress))
}

func TestSubjectLines(t *testing.T) {
	n := sampleNotification(KindPhaseProgress)
	n.PhaseName = "Vacuum"
	assert.Equal(t, "Update: Job #"+n.JobID.String()+" - Vacuum Completed", Subject(n))

	n.JobCompleted = true
	assert.Equal(t, "Final Project Completion: Job #"+n.JobID.String(), Subject(n))

	n.Kind = KindBalanceReminder
	assert.Equal(t, "Payment Reminder: Job #"+n.JobID.String(), Subject(n))
}

func TestRenderFinalMessage(t *testing.T) {
	r := NewRenderer("Satguru Engineers")

	n := sampleNotification(KindProjectCompleted)
	n.JobCompleted = true
	n.PaymentStatus = models.PaymentFullyReceived
	msg, err := r.Render(n)
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "Project Successfully Completed!")
	assert.Contains(t, msg.HTML, "Thank you for your prompt payment!")
	assert.NotContains(t, msg.HTML, "Payment Request:")

	n.PaymentStatus = models.PaymentTwoThirds
	msg, err = r.Render(n)
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "Please arrange for the final payment")
}
