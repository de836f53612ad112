package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

type content struct {
	Title      string
	Message    string
	ButtonText string
	Href       string
}

var page = template.Must(template.New("email").Parse(`<div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; padding: 30px; border-radius: 8px; text-align: center;">
  <h2 style="color: #2F4F4F; margin-bottom: 25px;">{{.Title}}</h2>
  <p style="color: #4397E6; line-height: 1.6; margin-bottom: 25px;">{{.Message}}</p>
  <a href="{{.Href}}" style="display: inline-block; padding: 12px 30px; background-color: #4CAF50; color: #fff; text-decoration: none; border-radius: 5px; font-weight: 500;">{{.ButtonText}}</a>
  <p style="margin-top: 30px; color: #777; font-size: 12px;">Need help? Contact our support team at <a href="mailto:support@example.com" style="color: #4CAF50; text-decoration: none;">support@example.com</a></p>
</div>
`))

func contentFor(k Kind, href string) (content, error) {
	switch k {
	case KindVerify:
		return content{
			Title:      "Verify Your Email",
			Message:    "Thank you for signing up! Please verify your email to continue.",
			ButtonText: "Verify Email",
			Href:       href,
		}, nil
	case KindForget:
		return content{
			Title:      "Password Reset Request",
			Message:    "You requested a password reset. Click the button below to proceed.",
			ButtonText: "Reset Password",
			Href:       href,
		}, nil
	case KindWelcome:
		return content{
			Title:      "Welcome to CloudyGo!",
			Message:    "Congratulations on successfully signing up! We're excited to have you on board.",
			ButtonText: "Get Started",
			Href:       href,
		}, nil
	default:
		return content{}, fmt.Errorf("unknown email kind %v", k)
	}
}

// Render returns the HTML body for an email of kind k linking to href.
func Render(k Kind, href string) (string, error) {
	c, err := contentFor(k, href)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, c); err != nil {
		return "", fmt.Errorf("render %v email: %w", k, err)
	}
	return buf.String(), nil
}
