package templates

import (
	"bytes"
	"html/template"
	"log"
)

// WelcomeEmailProps drives the lead welcome email body.
type WelcomeEmailProps struct {
	SignupURL string
}

var welcomeTemplate = template.Must(template.New("welcomeEmail").Parse(`
    <p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0 0 16px;">Hey there,</p>
    <p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0 0 16px;">Thanks for your interest in Ettle. We're building coaching that adapts to how you actually train, and you're now on the list.</p>
    <p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0 0 16px;">Want to help shape what we build? Telling us about your training takes a few minutes and puts you at the front of the early access queue.</p>
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" class="btn btn-primary" style="border-collapse: separate; box-sizing: border-box; width: 100%; min-width: 100%;" width="100%">
      <tbody>
        <tr>
          <td align="left" style="font-family: Helvetica, sans-serif; font-size: 16px; vertical-align: top; padding-bottom: 16px;" valign="top">
            <a href="{{.SignupURL}}" target="_blank" style="border: solid 2px #0a6c74; border-radius: 4px; box-sizing: border-box; cursor: pointer; display: inline-block; font-size: 16px; font-weight: bold; margin: 0; padding: 12px 24px; text-decoration: none; background-color: #0a6c74; border-color: #0a6c74; color: #ffffff;">Tell us about your training</a>
          </td>
        </tr>
      </tbody>
    </table>
    <p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0;">Talk soon,<br>The Ettle team</p>`))

// GetWelcomeEmailContent renders the welcome email body for the layout.
func GetWelcomeEmailContent(props WelcomeEmailProps) string {
	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, props); err != nil {
		log.Printf("ERROR: Failed to execute welcome email template: %v", err)
		return ""
	}
	return buf.String()
}
