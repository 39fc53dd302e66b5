// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// nameSanitizer strips any markup from user-supplied display names before
// they are rendered into HTML bodies.
var nameSanitizer = bluemonday.StrictPolicy()

// BuildContractorApprovedEmail creates the fixed-template approval email.
func BuildContractorApprovedEmail() Email {
	return Email{
		To:       "", // Set by caller
		Subject:  "Contractor Approved",
		TextBody: "Your contractor account has been approved.\n",
		HTMLBody: "<p>Your contractor account has been approved. You can now add providers and accept jobs.</p>",
	}
}

// ProviderAccountEmailData holds data for the provider welcome email.
type ProviderAccountEmailData struct {
	DisplayName  string
	TempPassword string
}

// BuildProviderAccountEmail creates the welcome email for an
// auto-provisioned provider account. The plaintext temporary password is
// included; the account forces a password change on first login.
func BuildProviderAccountEmail(data ProviderAccountEmailData) Email {
	data.DisplayName = nameSanitizer.Sanitize(data.DisplayName)
	return Email{
		To:       "", // Set by caller
		Subject:  "Your Provider Account",
		TextBody: buildProviderAccountText(data),
		HTMLBody: buildProviderAccountHTML(data),
	}
}

func buildProviderAccountText(data ProviderAccountEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("An account for %s was created. Temporary password: %s\n", data.DisplayName, data.TempPassword))
	buf.WriteString("Please log in and change your password.\n")
	return buf.String()
}

func buildProviderAccountHTML(data ProviderAccountEmailData) string {
	tmpl := template.Must(template.New("provideraccount").Parse(providerAccountHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const providerAccountHTMLTemplate = `<p>An account for <b>{{.DisplayName}}</b> was created. Temporary password: <b>{{.TempPassword}}</b></p><p>Please log in and change your password immediately.</p>`
