package email

import (
	"bytes"
	"context"
	"html/template"

	"go.uber.org/zap"
)

// Sender delivers transactional mail. Implementations return an error when
// the message was not handed to the transport.
type Sender interface {
	SendOTP(ctx context.Context, to string, code string) error
	SendBookingConfirmation(ctx context.Context, to string, booking Booking) error
}

type Booking struct {
	UserName   string
	HostelName string
	Location   string
	Price      float64
}

const otpSubject = "Verify Your HostelWala Account"

var otpTemplate = template.Must(template.New("otp").Parse(`<div style="background-color:#111827;padding:30px;border-radius:12px;font-family:sans-serif;color:white;max-width:500px;margin:auto;">
  <h2 style="color:#94a3b8;text-align:center;">Email Verification</h2>
  <p style="text-align:center;color:#d1d5db;">Please use the following code to complete your registration:</p>
  <div style="background:#1e293b;padding:20px;text-align:center;border:1px solid #334155;border-radius:8px;margin:20px 0;">
    <span style="font-size:36px;font-weight:bold;letter-spacing:8px;color:#f8fafc;">{{.Code}}</span>
  </div>
  <p style="font-size:12px;color:#64748b;text-align:center;">This code is valid for {{.Minutes}} minutes. If you did not request this, please ignore this email.</p>
</div>`))

var bookingTemplate = template.Must(template.New("booking").Parse(`<div style="font-family:sans-serif;color:#333;max-width:600px;border:1px solid #eee;padding:20px;">
  <h2 style="color:#1e293b;">Booking Confirmation</h2>
  <p>Hello <strong>{{.UserName}}</strong>,</p>
  <p>Your booking for <strong>{{.HostelName}}</strong> has been successfully received!</p>
  <div style="background:#f8fafc;padding:15px;border-radius:8px;margin:20px 0;">
    <p style="margin:5px 0;"><strong>Hostel:</strong> {{.HostelName}}</p>
    {{if .Location}}<p style="margin:5px 0;"><strong>Location:</strong> {{.Location}}</p>{{end}}
    <p style="margin:5px 0;"><strong>Monthly Rent:</strong> &#8377;{{printf "%.0f" .Price}}</p>
  </div>
  <p>The hostel authority will contact you shortly on your registered phone number for further verification and room allocation.</p>
  <p>Best regards,<br/>The HostelWala Team</p>
</div>`))

func renderOTP(code string, minutes int) (string, error) {
	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, struct {
		Code    string
		Minutes int
	}{code, minutes})
	return buf.String(), err
}

func renderBooking(booking Booking) (string, error) {
	var buf bytes.Buffer
	err := bookingTemplate.Execute(&buf, booking)
	return buf.String(), err
}

// LogSender writes codes to the log instead of mailing them. Local use only.
type LogSender struct {
	Logger *zap.Logger
}

func (s *LogSender) SendOTP(ctx context.Context, to string, code string) error {
	s.Logger.Warn("smtp not configured, otp logged (dev only)", zap.String("to", to), zap.String("otp", code))
	return nil
}

func (s *LogSender) SendBookingConfirmation(ctx context.Context, to string, booking Booking) error {
	s.Logger.Info("smtp not configured, booking confirmation logged",
		zap.String("to", to), zap.String("hostel", booking.HostelName))
	return nil
}
