package service

import (
	"fmt"
	"html"
	"strings"
)

// verificationBody renders the sign-up code mail.
func verificationBody(name, code string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(name))
	b.WriteString("<p>Thanks for signing up. Enter this code to verify your email address:</p>")
	fmt.Fprintf(&b, `<p style="font-size:24px;letter-spacing:4px"><strong>%s</strong></p>`, html.EscapeString(code))
	b.WriteString("<p>If you did not create an account, you can ignore this message.</p>")

	return b.String()
}

// resetBody renders the password reset mail around the one-time link.
func resetBody(name, link string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(name))
	b.WriteString("<p>We received a request to reset your password. The link below is valid for one hour:</p>")
	escaped := html.EscapeString(link)
	fmt.Fprintf(&b, `<p><a href="%s">%s</a></p>`, escaped, escaped)
	b.WriteString("<p>If you did not request a reset, you can ignore this message and your password will stay unchanged.</p>")

	return b.String()
}
