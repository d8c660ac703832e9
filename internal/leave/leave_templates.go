package leave

import (
	"bytes"
	"fmt"
	"html/template"
)

var managerRequestTmpl = template.Must(template.New("manager_request").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>New leave request</h2>
  <p>{{.EmployeeName}} has requested {{.Days}} day(s) of {{.Type}} leave.</p>
  <table cellpadding="4">
    <tr><td><b>From</b></td><td>{{.StartDate}}</td></tr>
    <tr><td><b>To</b></td><td>{{.EndDate}}</td></tr>
    <tr><td><b>Reason</b></td><td>{{.Reason}}</td></tr>
    {{- if .Analysis}}
    <tr><td><b>Urgency</b></td><td>{{.Analysis.Urgency}}/5 ({{.Analysis.Category}})</td></tr>
    <tr><td><b>Risk</b></td><td>{{.Analysis.RiskScore}}/5</td></tr>
    {{- end}}
    {{- if .Recommendation}}
    <tr><td><b>Suggestion</b></td><td>{{.Recommendation.Recommendation}} ({{.Recommendation.Confidence}}%): {{.Recommendation.Reasoning}}</td></tr>
    {{- end}}
  </table>
  <p>
    <a href="{{.ApproveURL}}" style="background:#2e7d32;color:#fff;padding:8px 16px;text-decoration:none;">Approve</a>
    &nbsp;
    <a href="{{.RejectURL}}" style="background:#c62828;color:#fff;padding:8px 16px;text-decoration:none;">Reject</a>
  </p>
  <p>You can also reply to this email with your decision. The links expire in {{.LinkTTL}}.</p>
  <p style="color:#888;font-size:12px;">Leave ID: {{.LeaveID}}</p>
</body>
</html>`))

var decisionTmpl = template.Must(template.New("decision").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Your leave request was {{.Outcome}}</h2>
  <p>Hi {{.EmployeeName}},</p>
  <p>Your {{.Type}} leave from {{.StartDate}} to {{.EndDate}} was <b>{{.Outcome}}</b> by {{.DeciderName}}.</p>
  {{- if .Comment}}
  <p><b>Comment:</b> {{.Comment}}</p>
  {{- end}}
  <p style="color:#888;font-size:12px;">Leave ID: {{.LeaveID}}</p>
</body>
</html>`))

var decisionPageTmpl = template.Must(template.New("decision_page").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; text-align: center; padding-top: 48px;">
  <h1>{{.Title}}</h1>
  <p>{{.Message}}</p>
  {{- if .LeaveID}}
  <p style="color:#888;font-size:12px;">Leave ID: {{.LeaveID}}</p>
  {{- end}}
</body>
</html>`))

type decisionPage struct {
	Title   string
	Message string
	LeaveID string
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// requestSubject is reused with a "Re: " prefix for the decision so both mails share a thread.
func requestSubject(employeeName string, l Leave) string {
	return fmt.Sprintf("Leave request from %s: %s %s to %s [Leave ID: %s]",
		employeeName, l.Type, l.StartDate.Format(dateLayout), l.EndDate.Format(dateLayout), l.ID)
}
