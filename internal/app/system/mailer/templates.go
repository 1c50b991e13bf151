// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// OTPEmailData fills the one-time code email.
type OTPEmailData struct {
	SiteName  string
	Code      string
	ExpiresIn string // e.g. "10 minutes"
}

var otpHTML = template.Must(template.New("otp").Parse(otpHTMLTemplate))

// BuildOTPEmail renders the code email for to.
func BuildOTPEmail(to string, data OTPEmailData) Email {
	var html bytes.Buffer
	_ = otpHTML.Execute(&html, data)

	return Email{
		To:       to,
		Subject:  fmt.Sprintf("Your OTP for %s", data.SiteName),
		TextBody: buildOTPText(data),
		HTMLBody: html.String(),
	}
}

func buildOTPText(data OTPEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Your OTP for %s is: %s\n\n", data.SiteName, data.Code)
	fmt.Fprintf(&buf, "This code expires in %s and can be used once.\n\n", data.ExpiresIn)
	buf.WriteString("If you did not request this code, you can ignore this email.\n")
	return buf.String()
}

const otpHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.SiteName}} verification</title>
</head>
<body style="margin:0;padding:0;font-family:Arial,Helvetica,sans-serif;background-color:#f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
    <tr>
      <td align="center" style="padding:32px 16px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width:440px;background:#ffffff;border-radius:8px;">
          <tr>
            <td style="padding:24px;text-align:center;border-bottom:1px solid #e5e7eb;">
              <h1 style="margin:0;font-size:22px;color:#0f766e;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding:24px;text-align:center;">
              <p style="margin:0 0 16px;font-size:15px;color:#374151;">Your one-time code is</p>
              <div style="background:#f3f4f6;border-radius:8px;padding:20px;margin-bottom:16px;">
                <span style="font-size:30px;font-weight:700;letter-spacing:8px;font-family:'Courier New',monospace;color:#111827;">{{.Code}}</span>
              </div>
              <p style="margin:0;font-size:13px;color:#6b7280;">It expires in {{.ExpiresIn}} and works once.</p>
            </td>
          </tr>
          <tr>
            <td style="padding:16px 24px;border-top:1px solid #e5e7eb;font-size:12px;color:#9ca3af;text-align:center;">
              If you did not request this code, you can ignore this email.
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
