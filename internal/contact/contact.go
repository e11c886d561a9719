// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package contact validates enquiries from the contact page and forwards
// them to the hosted form relay. Nothing is stored locally and failed
// sends are not retried.
package contact

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Submission is one filled-in contact form. Gotcha is the honeypot: a
// field hidden from people that bots tend to fill.
type Submission struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" validate:"omitempty,max=40,phone"`
	Service   string `json:"service" validate:"max=100,service"`
	Message   string `json:"message" validate:"max=5000"`
	Gotcha    string `json:"_gotcha"`
}

// Name joins first and last name the way the relay expects it.
func (s Submission) Name() string {
	return strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
}

// IsBot reports whether the honeypot was filled.
func (s Submission) IsBot() bool {
	return strings.TrimSpace(s.Gotcha) != ""
}

func (s Submission) normalized() Submission {
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Service = strings.TrimSpace(s.Service)
	s.Message = strings.TrimSpace(s.Message)
	return s
}

// FieldError is a validation failure on one form field, carrying the text
// shown next to the form.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// Sender delivers a valid submission somewhere.
type Sender interface {
	Send(ctx context.Context, s Submission) error
}

// Service checks submissions and hands them to a Sender.
type Service struct {
	sender   Sender
	validate *validator.Validate
}

// NewService builds a Service. offers decides which service labels the
// form accepts; nil accepts any.
func NewService(sender Sender, offers func(string) bool) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("service", func(fl validator.FieldLevel) bool {
		return offers == nil || offers(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return validPhone(fl.Field().String())
	})
	return &Service{sender: sender, validate: v}
}

// Validate returns a *FieldError for the first invalid field, or nil.
func (svc *Service) Validate(s Submission) error {
	s = s.normalized()
	err := svc.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &FieldError{Field: fe.Field(), Message: fieldMessage(fe)}
}

// Submit validates s and relays it. Bot submissions pass validation
// quietly and are dropped without a send, so the bot sees success.
func (svc *Service) Submit(ctx context.Context, s Submission) error {
	if err := svc.Validate(s); err != nil {
		return err
	}
	if s.IsBot() {
		slog.Info("contact honeypot triggered, dropping submission")
		return nil
	}
	return svc.sender.Send(ctx, s.normalized())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Email":
		if fe.Tag() == "required" {
			return "Please enter your email."
		}
		return "Please enter a valid email address."
	case "Phone":
		return "Please enter a valid phone number."
	case "Service":
		return "Please choose one of the listed services."
	case "Message":
		return "Your message is too long."
	}
	return "Please check this field."
}

// validPhone accepts digits with the usual separators and an optional
// leading plus, between 7 and 15 digits.
func validPhone(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}
