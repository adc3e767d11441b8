package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"fare-tracker-service/internal/domain/entity"
)

// RunNotification is the rendered message for one ingestion run
type RunNotification struct {
	Title    string
	Body     string
	Tags     string
	Priority string
}

var successBody = template.Must(template.New("success").Parse(
	`Run {{.RunID}} finished in {{.Duration}}.
Routes: {{.Routes}}
Queries: {{.Queries}} ({{.EmptyResponses}} without fares)
Archived responses: {{.Archived}}
Saved observations: {{.Observations}}`))

var failureBody = template.Must(template.New("failure").Parse(
	`Run {{.RunID}} failed after {{.Duration}}.
Routes: {{.Routes}}
Queries before failure: {{.Queries}}
Archived responses: {{.Archived}}
Error: {{.Error}}
No observations were saved.`))

type runView struct {
	RunID          string
	Duration       string
	Routes         string
	Queries        int
	EmptyResponses int
	Archived       int
	Observations   int
	Error          string
}

// RenderRunNotification builds the notification text for report
func RenderRunNotification(report *entity.RunReport) (*RunNotification, error) {
	if report == nil {
		return nil, fmt.Errorf("nil run report")
	}

	routes := make([]string, 0, len(report.Routes))
	for _, r := range report.Routes {
		routes = append(routes, r.String())
	}

	view := runView{
		RunID:          report.RunID,
		Duration:       report.Duration().Round(time.Second).String(),
		Routes:         strings.Join(routes, ", "),
		Queries:        report.Queries,
		EmptyResponses: report.EmptyResponses,
		Archived:       report.Archived,
		Observations:   report.Observations,
		Error:          report.Error,
	}

	msg := &RunNotification{}
	tmpl := successBody
	if report.Succeeded() {
		msg.Title = "Fare tracker run succeeded"
		msg.Tags = "white_check_mark,airplane"
		msg.Priority = "default"
	} else {
		tmpl = failureBody
		msg.Title = "Fare tracker run failed"
		msg.Tags = "warning,airplane"
		msg.Priority = "high"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render run notification: %w", err)
	}
	msg.Body = buf.String()

	return msg, nil
}
