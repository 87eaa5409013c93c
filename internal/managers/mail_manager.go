// Package managers handles the sending of transactional emails for account
// activation, password reset and event registration using the Mailgun service
// and the Hermes package for email formatting.
package managers

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"
)

// MailMgr outlines the contract for email management.
type MailMgr interface {
	SendActivationMail(email, firstName, token string) error
	SendPasswordResetMail(email, firstName, token string) error
	SendRegistrationConfirmationMail(email, firstName, eventTitle, eventDate string) error
}

// MailManager is a concrete implementation of the MailMgr interface.
// It uses the Mailgun service for sending emails and the Hermes package for
// formatting them. Outside production mode nothing is sent.
type MailManager struct {
	Hermes     *hermes.Hermes
	Mailgun    *mailgun.MailgunImpl
	production bool
}

const mailTimeout = 2 * time.Second

var from = "CampusHub <noreply@mail.campushub.app>"

// SendActivationMail sends an activation email with the 6-digit code the user
// has to enter to activate their account.
func (mm *MailManager) SendActivationMail(email, firstName, token string) error {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: firstName,
			Intros: []string{
				"Welcome to CampusHub! We're very excited to have you on board.",
				"Discover campus events and register with a single click once your account is active.",
			},
			Outros: []string{
				"If you did not sign up for CampusHub, you can safely ignore this email.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "To activate your account, please log in to CampusHub and enter the following code:",
					InviteCode:   token,
				},
			},
		},
	}

	return mm.send(email, "Activate your CampusHub account", mailBody)
}

// SendPasswordResetMail sends the password reset code. The code expires after
// 30 minutes.
func (mm *MailManager) SendPasswordResetMail(email, firstName, token string) error {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: firstName,
			Intros: []string{
				"You have received this email because a password reset request for your CampusHub account was received.",
			},
			Outros: []string{
				"The code expires after 30 minutes.",
				"If you did not request a password reset, no further action is required on your part.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Enter the following code on the password reset page:",
					InviteCode:   token,
				},
			},
		},
	}

	return mm.send(email, "Reset your CampusHub password", mailBody)
}

// SendRegistrationConfirmationMail confirms an event registration. Callers
// dispatch it after the registration is committed; a failure here never fails
// the registration.
func (mm *MailManager) SendRegistrationConfirmationMail(email, firstName, eventTitle, eventDate string) error {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: firstName,
			Intros: []string{
				fmt.Sprintf("You are registered for %s on %s.", eventTitle, eventDate),
				"We look forward to seeing you there!",
			},
			Outros: []string{
				"You can cancel your registration at any time from your CampusHub profile.",
			},
		},
	}

	return mm.send(email, "Registration confirmed: "+eventTitle, mailBody)
}

func (mm *MailManager) send(email, subject string, mailBody hermes.Email) error {
	if !mm.production {
		log.Info("Skipping mail in development mode: ", subject)
		return nil
	}

	emailBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()

	message := mm.Mailgun.NewMessage(from, subject, "", email)
	message.SetHtml(emailBody)
	if _, _, err = mm.Mailgun.Send(ctx, message); err != nil {
		log.Warning("Error sending mail: " + err.Error())
		return err
	}
	log.Debug("Mail sent to ", email)

	return nil
}

// NewMailManager initializes a new MailManager with configured Mailgun and
// Hermes settings.
func NewMailManager(domain, apiKey string, production bool) MailMgr {
	log.Info("Initializing mail manager")

	if !production {
		log.Info("Running in development mode, email will not be sent to users")
	}

	mailgunInstance := mailgun.NewMailgun(domain, apiKey)
	mailgunInstance.SetAPIBase(mailgun.APIBaseEU)

	mm := &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:        "CampusHub",
				Link:        "https://campushub.app/",
				Copyright:   "© CampusHub",
				TroubleText: "If you’re having trouble with the button '{ACTION}', copy and paste the URL below into your web browser.",
			},
		},
		Mailgun:    mailgunInstance,
		production: production,
	}
	log.Info("Initialized mail manager")
	return mm
}
