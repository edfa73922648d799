// Package email sends reminder notifications through Amazon SES.
package email

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// ErrDisabled is returned by sends when the service was constructed without
// a sender address or a working SES client. Callers log and move on.
var ErrDisabled = fmt.Errorf("email service disabled")

// sesAPI is the slice of the SES client the service uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Service sends email through Amazon SES. A missing sender address disables
// the service rather than failing construction.
type Service struct {
	client sesAPI
	sender string
	logger *log.Logger
}

// NewService initializes the SES client. Credential or region problems are
// logged as warnings; the returned service then refuses sends with
// ErrDisabled instead of the process aborting.
func NewService(ctx context.Context, region, sender string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	s := &Service{sender: sender, logger: logger}

	if sender == "" {
		logger.Printf("warning: sender email not configured; email sending disabled (set EMAIL_SENDER or email.sender)")
		return s
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Printf("warning: could not initialize Amazon SES client: %v (email sending disabled)", err)
		return s
	}
	s.client = sesv2.NewFromConfig(cfg)
	logger.Printf("initialized Amazon SES client in region %s", region)
	return s
}

// Enabled reports whether sends can succeed.
func (s *Service) Enabled() bool {
	return s.client != nil && s.sender != ""
}

// Send delivers one HTML email with a derived plain-text fallback and
// returns the provider message ID.
func (s *Service) Send(ctx context.Context, recipient, subject, htmlBody string) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}
	if recipient == "" {
		return "", fmt.Errorf("no recipient email specified")
	}

	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(htmlToText(htmlBody)),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}

	messageID := aws.ToString(out.MessageId)
	s.logger.Printf("email sent to %s: %s (message ID: %s)", recipient, subject, messageID)
	return messageID, nil
}

// SendReminder builds and delivers the reminder email for one task.
func (s *Service) SendReminder(ctx context.Context, recipient, subject, taskDescription, duePhrase string, estimatedHours float64, funMessage string) error {
	body := buildReminderHTML(subject, taskDescription, duePhrase, estimatedHours, funMessage)
	_, err := s.Send(ctx, recipient, subject, body)
	return err
}
