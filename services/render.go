package services

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"hvacops-backend/models"
)

// RenderedMessage is a notification ready for any channel
type RenderedMessage struct {
	Subject string
	HTML    string
	Text    string
}

const emailLayout = `<div style="font-family: sans-serif; max-width: 600px; margin: auto; border: 1px solid #e2e8f0; border-radius: 12px; overflow: hidden;">
  <div style="background-color: #2563eb; color: white; padding: 24px; text-align: center;">
    <h1 style="margin: 0; font-size: 20px;">{{.Company}} Service Update</h1>
  </div>
  <div style="padding: 24px; color: #1e293b; line-height: 1.6;">
    <p>Hello <strong>{{.N.CustomerName}}</strong>,</p>
{{- if eq .N.Kind "balance_reminder"}}
    <p>Our records show an outstanding balance on your completed <strong>{{.N.JobType}}</strong> job #{{.N.JobID}}.</p>
    <p style="font-size: 24px; font-weight: bold; color: #c2410c;">Balance Due: {{.Amount}}</p>
{{- else}}
    <p>We're writing to let you know that a key milestone in your <strong>{{.N.JobType}}</strong> has been successfully completed:</p>
    <div style="background-color: #f8fafc; border-left: 4px solid #2563eb; padding: 16px; margin: 20px 0;">
      <p style="margin: 0; font-weight: bold; color: #2563eb;">Completed: {{.N.PhaseName}}</p>
      <p style="margin: 4px 0 0 0; font-size: 12px; color: #64748b;">Job ID: #{{.N.JobID}} | Technician: {{.N.Technician}}</p>
    </div>
{{- end}}
{{- if eq .N.Kind "payment_request"}}
    <div style="margin-top: 30px; padding: 20px; background-color: #fff7ed; border: 2px dashed #f97316; border-radius: 12px; text-align: center;">
      <h2 style="color: #9a3412; font-size: 18px;">Payment Request: {{.N.PhaseName}}</h2>
      <p style="font-size: 14px; color: #334155;">This phase is now complete. Please arrange the payment for this milestone.</p>
      <p style="font-size: 24px; font-weight: bold; color: #c2410c;">Amount Due: {{.Amount}}</p>
      <p style="font-size: 13px; color: #475569;">Current Payment Status: <strong>{{.N.PaymentStatus}}</strong></p>
      <p style="font-size: 12px; color: #64748b;">You can pay via bank transfer or directly to the onsite technician.</p>
    </div>
{{- end}}
{{- if .N.JobCompleted}}
    <div style="margin-top: 30px; padding: 20px; background-color: #f0f9ff; border: 2px dashed #2563eb; border-radius: 12px; text-align: center;">
      <h2 style="color: #1e3a8a; font-size: 18px;">Project Successfully Completed!</h2>
      <p style="font-size: 14px; color: #334155;">The final phase is complete. Your system is now fully operational.</p>
      <p style="font-weight: bold;">Payment Status: {{.N.PaymentStatus}}</p>
    {{- if .Paid}}
      <p style="font-size: 13px; color: #065f46;">Thank you for your prompt payment!</p>
    {{- else}}
      <p style="font-size: 13px; color: #475569;">Please arrange for the final payment at your earliest convenience.</p>
    {{- end}}
    </div>
{{- end}}
    <p style="margin-top: 32px; font-size: 14px; color: #64748b;">Thank you for choosing {{.Company}}.</p>
  </div>
  <div style="background-color: #f1f5f9; padding: 16px; text-align: center; font-size: 11px; color: #94a3b8;">
    &copy; {{.Year}} {{.Company}}.
  </div>
</div>`

// Renderer turns notifications into subject, HTML body and SMS text
type Renderer struct {
	company string
	email   *template.Template
}

func NewRenderer(company string) *Renderer {
	return &Renderer{
		company: company,
		email:   template.Must(template.New("email").Parse(emailLayout)),
	}
}

func (r *Renderer) Render(n Notification) (RenderedMessage, error) {
	amount := "Rs. " + n.AmountDue.StringFixed(2)

	var body bytes.Buffer
	err := r.email.Execute(&body, map[string]any{
		"N":       n,
		"Company": r.company,
		"Amount":  amount,
		"Paid":    n.PaymentStatus == models.PaymentFullyReceived,
		"Year":    time.Now().Year(),
	})
	if err != nil {
		return RenderedMessage{}, fmt.Errorf("render %s: %w", n.Kind, err)
	}

	return RenderedMessage{
		Subject: Subject(n),
		HTML:    body.String(),
		Text:    r.smsText(n, amount),
	}, nil
}

// Subject follows the customer-facing subject line format
func Subject(n Notification) string {
	switch {
	case n.Kind == KindBalanceReminder:
		return fmt.Sprintf("Payment Reminder: Job #%s", n.JobID)
	case n.JobCompleted:
		return fmt.Sprintf("Final Project Completion: Job #%s", n.JobID)
	}
	return fmt.Sprintf("Update: Job #%s - %s Completed", n.JobID, n.PhaseName)
}

func (r *Renderer) smsText(n Notification, amount string) string {
	switch n.Kind {
	case KindPaymentRequest:
		return fmt.Sprintf("%s: %s is complete for your %s job. Amount due: %s.", r.company, n.PhaseName, n.JobType, amount)
	case KindProjectCompleted:
		return fmt.Sprintf("%s: your %s job is complete. Payment status: %s.", r.company, n.JobType, n.PaymentStatus)
	case KindBalanceReminder:
		return fmt.Sprintf("%s: a balance of %s is outstanding on your %s job.", r.company, amount, n.JobType)
	}
	return fmt.Sprintf("%s: %s is complete for your %s job.", r.company, n.PhaseName, n.JobType)
}
