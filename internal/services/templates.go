package services

import "fmt"

// Transactional email templates, rendered server-side.

// WelcomeEmail is sent after a successful signup.
func WelcomeEmail(to, name string) *EmailMessage {
	return &EmailMessage{
		To:      to,
		Subject: "Welcome to Marky AI Studio!",
		HTML: fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h1 style="color: #333;">Welcome %s!</h1>
				<p>Thank you for joining Marky AI Studio.</p>
				<p>Your account has been created successfully.</p>
				<p>Get started by logging in and exploring our AI image generation tools.</p>
			</div>
		`, name),
	}
}

// PasswordResetEmail carries the reset link.
func PasswordResetEmail(to, resetURL, expiry string) *EmailMessage {
	if expiry == "" {
		expiry = "1 hour"
	}
	return &EmailMessage{
		To:      to,
		Subject: "Reset your Marky AI password",
		HTML: fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h1 style="color: #333;">Password Reset</h1>
				<p>You requested a password reset for your Marky AI account.</p>
				<p>If you didn't request this, please ignore this email.</p>
				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #28a745; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Reset Password</a>
				</div>
				<p style="color: #666; font-size: 14px;">This link will expire in %s.</p>
			</div>
		`, resetURL, expiry),
	}
}

// ResetRequestAlertEmail warns the account owner that a reset was requested.
func ResetRequestAlertEmail(to, supportEmail string) *EmailMessage {
	return &EmailMessage{
		To:      to,
		Subject: "Password reset requested - Security Alert",
		HTML: fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h1 style="color: #dc3545;">Security Alert</h1>
				<p>A password reset was requested for your Marky AI account.</p>
				<p><strong>If this wasn't you:</strong> change your password immediately and contact our support team.</p>
				<p>If you requested this reset, you can safely ignore this email.</p>
				<p>Support: <a href="mailto:%s">%s</a></p>
			</div>
		`, supportEmail, supportEmail),
	}
}

// LoginAlertEmail notifies the account owner of a new sign-in.
func LoginAlertEmail(to, name, ipAddress string) *EmailMessage {
	return &EmailMessage{
		To:      to,
		Subject: "New sign-in to your Marky AI account",
		HTML: fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h1 style="color: #333;">New Sign-in</h1>
				<p>Hello %s,</p>
				<p>Your Marky AI account was just signed in from IP address <strong>%s</strong>.</p>
				<p>If this was you, no action is needed. If not, please reset your password immediately.</p>
			</div>
		`, name, ipAddress),
	}
}
