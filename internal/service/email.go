package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"driveshare-backend/internal/domain"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendBookingNotification(ctx context.Context, ownerEmail, ownerName, carTitle string, rental *domain.Rental) error {
	subject := fmt.Sprintf("New Booking: %s", carTitle)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour car %s has been booked from %s to %s (%d days).\n\nTotal: $%s\nYour payout: $%s\n\nLog in to approve the booking.",
		ownerName, carTitle,
		rental.StartDate.Format("Jan 2, 2006"), rental.EndDate.Format("Jan 2, 2006"), rental.TotalDays,
		rental.TotalAmount.StringFixed(2), rental.OwnerPayout.StringFixed(2))
	return s.send(ownerEmail, ownerName, subject, body)
}

func (s *emailService) SendReviewNotification(ctx context.Context, ownerEmail, ownerName, carTitle string, rating int32) error {
	subject := fmt.Sprintf("New Review: %s", carTitle)
	body := fmt.Sprintf("Hello %s,\n\nYour car %s received a new %d-star review.",
		ownerName, carTitle, rating)
	return s.send(ownerEmail, ownerName, subject, body)
}

func (s *emailService) SendWithdrawalReceipt(ctx context.Context, email, name string, withdrawal *domain.Withdrawal) error {
	subject := "Withdrawal Confirmation"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour withdrawal of $%s has been processed.\n\nReference: %s",
		name, withdrawal.Amount.StringFixed(2), withdrawal.StripeReference)
	return s.send(email, name, subject, body)
}
