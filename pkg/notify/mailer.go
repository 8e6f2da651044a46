// Package notify sends customer-facing delivery notifications over SES.
package notify

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Mailer sends transactional email through Amazon SES.
type Mailer struct {
	client *sesv2.Client
	sender string
}

// NewMailer builds an SES mailer using the default AWS credential chain.
func NewMailer(ctx context.Context, region, sender string) (*Mailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("notify: load aws config: %w", err)
	}
	return &Mailer{client: sesv2.NewFromConfig(cfg), sender: sender}, nil
}

// DeliveredNotice emails the customer that their package has arrived.
func (m *Mailer) DeliveredNotice(ctx context.Context, toEmail, customerName, trackingNumber string) error {
	subject := "Your package " + trackingNumber + " has been delivered"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour package with tracking number %s has been delivered.\n\nThank you for shipping with LogiTrack.",
		customerName, trackingNumber,
	)

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &m.sender,
		Destination:      &types.Destination{ToAddresses: []string{toEmail}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body:    &types.Body{Text: &types.Content{Data: &body}},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("notify: send email: %w", err)
	}
	return nil
}
