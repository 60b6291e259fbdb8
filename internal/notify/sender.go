// internal/notify/sender.go
package notify

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"remotehire/internal/common/errors"
)

// EmailSender delivers one rendered email.
type EmailSender interface {
	Send(ctx context.Context, email Email) error
}

// SESAPI is the slice of the SES client used by SESSender.
type SESAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender delivers email through Amazon SES.
type SESSender struct {
	client SESAPI
	from   string
}

func NewSESSender(client SESAPI, fromEmail string) *SESSender {
	return &SESSender{client: client, from: fromEmail}
}

func (s *SESSender) Send(ctx context.Context, email Email) error {
	input := &ses.SendEmailInput{
		Source: awssdk.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{email.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(email.Subject)},
			Body: &types.Body{
				Text: &types.Content{Data: awssdk.String(email.Body)},
			},
		},
	}
	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return errors.NewUpstreamFailureError("sendEmail", err)
	}
	return nil
}
