// Package notify holds the outbound-delivery collaborators: email and
// push transports live behind small interfaces so the backend never
// depends on a concrete provider.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Mailer delivers account emails.
type Mailer interface {
	SendVerification(ctx context.Context, to, verifyURL string) error
}

// SESMailer sends through Amazon SES v2.
type SESMailer struct {
	client *sesv2.Client
	from   string
}

func NewSESMailer(ctx context.Context, from string) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &SESMailer{client: sesv2.NewFromConfig(cfg), from: from}, nil
}

func (m *SESMailer) SendVerification(ctx context.Context, to, verifyURL string) error {
	subject := "Verify your email"
	body := fmt.Sprintf(
		"Welcome! Confirm your email to join the daily challenges:\n\n%s\n\nIf you did not sign up, ignore this message.",
		verifyURL,
	)

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sending verification email to %s: %w", to, err)
	}
	return nil
}

// LogMailer is the no-credentials fallback: it logs the link instead
// of delivering it. Used in development and tests.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) SendVerification(_ context.Context, to, verifyURL string) error {
	m.Logger.Info("verification email (not sent)", "to", to, "url", verifyURL)
	return nil
}
