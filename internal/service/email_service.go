package service

import (
	"context"
	"fmt"
	"html"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends operator notifications via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	adminEmail string
	enabled    bool
}

// NewEmailService creates a new email service. With no from address
// configured the service is disabled and every send becomes a no-op.
func NewEmailService(awsRegion, fromEmail, fromName, adminEmail string) (*EmailService, error) {
	if fromEmail == "" || adminEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL or ADMIN_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		adminEmail: adminEmail,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendContactNotification notifies the site operator about a new
// contact form message
func (s *EmailService) SendContactNotification(ctx context.Context, senderName, body string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): contact message from %s", senderName)
		return nil
	}

	if senderName == "" {
		senderName = "anonymous"
	}

	subject := fmt.Sprintf("New contact message from %s", senderName)
	textBody := fmt.Sprintf("From: %s\n\n%s\n", senderName, body)
	htmlBody := fmt.Sprintf(
		"<p><strong>From:</strong> %s</p><p>%s</p>",
		html.EscapeString(senderName),
		html.EscapeString(body),
	)

	return s.sendEmail(ctx, s.adminEmail, subject, htmlBody, textBody)
}

func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
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
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
