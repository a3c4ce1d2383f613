package reminder

import (
	"bytes"
	"html/template"
)

var dueSoonTemplate = template.Must(template.New("due").Parse(`<p>Hello {{.Recipient}},</p>
<p>Just a friendly reminder from your back office:</p>
<p>Project <strong>"{{.ProjectName}}"</strong> for client <strong>{{.ClientName}}</strong> is due on <strong>{{.EndDate}}</strong>.</p>
<p>This is {{.LeadDays}} days from now. Please review its status and ensure everything is on track!</p>
<p>Best regards,<br>Your Back Office</p>
`))

var testTemplate = template.Must(template.New("test").Parse(`<p>Hello {{.Recipient}},</p>
<p>This is a test reminder from your back office.</p>
<p>Project <strong>"{{.ProjectName}}"</strong> for client <strong>{{.ClientName}}</strong> is due on <strong>{{.EndDate}}</strong> (in {{.LeadDays}} days).</p>
<p>Please review its status.</p>
<p>Best regards,<br>Your Back Office</p>
`))

// mailData fills both templates
type mailData struct {
	Recipient   string
	ProjectName string
	ClientName  string
	EndDate     string
	LeadDays    int
}

func render(t *template.Template, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
