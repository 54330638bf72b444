package email

import (
	"bytes"
	"html/template"
)

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<p>Hello {{.Name}},</p>
<p>Your Balance Health staff account has been created. You can now
<a href="{{.LoginURL}}">log in</a> to manage your patients and review their balance training.</p>`))

// WelcomeMessage builds the registration email for a new staff member.
func WelcomeMessage(to, name, loginURL string) (SendRequest, error) {
	var buf bytes.Buffer
	if err := welcomeTmpl.Execute(&buf, struct{ Name, LoginURL string }{name, loginURL}); err != nil {
		return SendRequest{}, err
	}
	return SendRequest{
		To:      []string{to},
		Subject: "Welcome to Balance Health",
		HTML:    buf.String(),
	}, nil
}
