package service

import (
	"fmt"
	"html"
	"strings"

	"kairooms/pkg/model"
)

// inviteBody renders the invitation mail. Values are escaped because they
// come straight from the request body.
func inviteBody(invite *model.MeetingInvite) string {
	var b strings.Builder

	b.WriteString("<p>Dear participant,</p>")
	b.WriteString("<p>You are invited to the following meeting:</p>")
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li><strong>Title:</strong> %s</li>", html.EscapeString(invite.MeetingName))
	fmt.Fprintf(&b, "<li><strong>Date:</strong> %s</li>", html.EscapeString(invite.Date))
	fmt.Fprintf(&b, "<li><strong>Time:</strong> %s</li>", html.EscapeString(invite.Time))
	link := html.EscapeString(invite.MeetingLink)
	fmt.Fprintf(&b, `<li><strong>Meeting link:</strong> <a href="%s">%s</a></li>`, link, link)
	if invite.Notes != "" {
		fmt.Fprintf(&b, "<li><strong>Notes:</strong> %s</li>", html.EscapeString(invite.Notes))
	}
	b.WriteString("</ul>")
	b.WriteString("<p>Please be on time. Thank you!</p>")

	return b.String()
}
