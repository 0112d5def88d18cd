package service

import "text/template"

var epicPrompt = template.Must(template.New("epics").Parse(`Analyze this message: {{.Message}}

Break the work it requests or describes into epics, each with the tasks needed to deliver it.
Reply with a single JSON object and nothing else, using exactly this shape:

{"epics": [{"title": string, "description": string, "status": "Pending", "tasks": [{"title": string, "description": string, "priority": "HIGH" | "MEDIUM" | "LOW", "status": "Pending" | "In Progress" | "Completed" | "Archived"}]}]}

Rules:
- "epics" must contain at least one epic. If the message names no work, invent at least one plausible epic with tasks.
- Every task needs a title, a description and a priority.
- status defaults to "Pending" unless the message says otherwise.
{{if .Feedback}}
{{.Feedback}}{{end}}`))

var taskPrompt = template.Must(template.New("tasks").Parse(`Analyze this message: {{.Message}}

If it requests or describes tasks that need to be created, list them.
Reply with a single JSON object and nothing else, using exactly this shape:

{"tasks": [{"title": string, "description": string, "priority": "HIGH" | "MEDIUM" | "LOW"}]}

Rules:
- "tasks" must contain at least one task. If no clear task is mentioned, invent at least one.
- Every task needs a title, a description and a priority.
{{if .Feedback}}
{{.Feedback}}{{end}}`))

type promptInput struct {
	Message  string
	Feedback string
}
