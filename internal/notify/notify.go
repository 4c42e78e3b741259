// Package notify sends SMS alerts to forum moderators when an
// announcement is published. Disabled unless the TWILIO_* environment
// variables are set.
package notify

import (
	"log"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

type Notifier struct {
	client     *twilio.RestClient
	from       string
	recipients []string
}

// New reads TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_FROM and
// TWILIO_RECIPIENTS (comma separated). Returns nil when any is unset;
// a nil Notifier is safe to call and does nothing.
func New() *Notifier {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	from := os.Getenv("TWILIO_FROM")
	recipients := os.Getenv("TWILIO_RECIPIENTS")
	if sid == "" || from == "" || recipients == "" {
		return nil
	}

	return &Notifier{
		client:     twilio.NewRestClient(),
		from:       from,
		recipients: strings.Split(recipients, ","),
	}
}

// AnnouncementPublished sends the announcement title to every
// configured recipient. Delivery failures are logged, never fatal.
func (n *Notifier) AnnouncementPublished(title string) {
	if n == nil {
		return
	}

	body := "New CircleSync announcement: " + title
	for _, to := range n.recipients {
		params := &api.CreateMessageParams{}
		params.SetTo(strings.TrimSpace(to))
		params.SetFrom(n.from)
		params.SetBody(body)

		if _, err := n.client.Api.CreateMessage(params); err != nil {
			log.Printf("Failed to send announcement SMS to %s: %v", to, err)
		}
	}
}
