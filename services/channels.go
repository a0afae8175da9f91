package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gopkg.in/gomail.v2"

	"hvacops-backend/utils"
)

// Channel delivers a rendered message to one kind of address
type Channel interface {
	Name() string
	// Recipient picks the address for n; empty means the channel is skipped
	Recipient(n Notification) string
	Send(to string, msg RenderedMessage) error
}

type EmailChannel struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewEmailChannel(host string, port int, username, password, from, fromName string) *EmailChannel {
	if from == "" {
		from = username
	}
	return &EmailChannel{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		fromName: fromName,
	}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Recipient(n Notification) string { return n.CustomerEmail }

func (c *EmailChannel) Send(to string, msg RenderedMessage) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", c.from, c.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)
	return c.dialer.DialAndSend(m)
}

type SMSChannel struct {
	client *twilio.RestClient
	from   string
}

func NewSMSChannel(accountSID, authToken, from string) *SMSChannel {
	return &SMSChannel{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (c *SMSChannel) Name() string { return "sms" }

// Recipient only accepts numbers that pass phone validation
func (c *SMSChannel) Recipient(n Notification) string {
	phone := utils.CleanPhone(n.CustomerPhone)
	if phone == "" || !utils.ValidatePhone(phone) {
		return ""
	}
	return phone
}

func (c *SMSChannel) Send(to string, msg RenderedMessage) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(msg.Text)

	resp, err := c.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	if resp.Sid == nil {
		return fmt.Errorf("twilio: no message SID returned")
	}
	return nil
}

// LogChannel stands in when no real channel is configured
type LogChannel struct {
	log *logrus.Logger
}

func NewLogChannel(log *logrus.Logger) *LogChannel {
	return &LogChannel{log: log}
}

func (c *LogChannel) Name() string { return "log" }

func (c *LogChannel) Recipient(n Notification) string { return n.CustomerEmail }

func (c *LogChannel) Send(to string, msg RenderedMessage) error {
	c.log.WithFields(logrus.Fields{
		"to":      to,
		"subject": msg.Subject,
	}).Info("mock notification")
	return nil
}
