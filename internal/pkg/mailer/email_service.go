package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendShareInvite(toEmail, ownerName, noteTitle string, noteId string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendShareInvite(toEmail, ownerName, noteTitle string, noteId string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("%s shared a note with you", ownerName))

	noteLink := fmt.Sprintf("%s/notes/%s", s.frontendURL, noteId)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>A note was shared with you</h2>
			<p><strong>%s</strong> invited you to collaborate on <strong>%s</strong>.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open Note</a>
			<p>Or copy this link:</p>
			<p>%s</p>
		</div>
	`, ownerName, noteTitle, noteLink, noteLink)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send share invite to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Share invite sent to %s\n", toEmail)
	return nil
}
