package twilio

import (
	"regexp"
	"strings"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

var nonDigits = regexp.MustCompile(`\D`)

type Sms struct {
	kind          string
	from          string
	countryPrefix string
	client        *twilio.RestClient
}

func InitClient(accountSid, authToken string) *twilio.RestClient {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})
	return client
}

// NewSMS builds a sender. countryPrefix is prepended to numbers given
// without a leading "+", e.g. "7" for local Russian numbers.
func NewSMS(from, countryPrefix string, client *twilio.RestClient) *Sms {
	return &Sms{
		kind:          "sms",
		from:          from,
		countryPrefix: nonDigits.ReplaceAllString(countryPrefix, ""),
		client:        client,
	}
}

func (s *Sms) Send(to, msg string) error {
	params := &api.CreateMessageParams{}
	params.SetBody(msg)
	params.SetFrom(s.from)
	params.SetTo(s.formatNumber(to))

	_, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	return nil
}

func (s *Sms) formatNumber(phone string) string {
	phone = strings.TrimSpace(phone)
	digits := nonDigits.ReplaceAllString(phone, "")
	if strings.HasPrefix(phone, "+") {
		return "+" + digits
	}
	return "+" + s.countryPrefix + digits
}
