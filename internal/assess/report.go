package assess

import (
	"context"
	"fmt"

	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/scoring"
	"github.com/colonyops/assess/pkg/tmpl"
)

const reportTemplate = `# {{ .Task.Name | md }}

| | |
|---|---|
| Organization | {{ .Task.Organization | default "-" | md }} |
| Template | {{ .TemplateName | md }}{{ if .Standard }} ({{ .Standard | md }}){{ end }} |
| Status | {{ .Status }} |
| Last updated | {{ .Updated }} |

## Summary

Overall compliance: **{{ pct .Result.OverallCompliance }}**

{{ .Rated }} of {{ .Result.TotalItems }} items rated, {{ .Unrated }} outstanding.

## Dimensions

| Dimension | Rated | Score |
|---|---|---|
{{- range .Sections }}
| {{ .Name | md }} | {{ .Rated }}/{{ len .Items }} | {{ .Score }} |
{{- end }}

## Rating distribution

| Rating | Items |
|---|---|
{{- range .Levels }}
| {{ .Label }} | {{ .Count }} |
{{- end }}

## Findings
{{ range .Sections }}
### {{ .Name | md }}

| Item | Requirement | Rating | Evidence | Remarks |
|---|---|---|---|---|
{{- range .Items }}
| {{ .ID }} | {{ .Content | md }} | {{ .Label }} | {{ .Evidence | default "-" | md }} | {{ .Remarks | default "-" | md }} |
{{- end }}
{{ end }}`

type reportData struct {
	Task         assessment.Task
	TemplateName string
	Standard     string
	Status       string
	Updated      string
	Result       assessment.Result
	Rated        int
	Unrated      int
	Sections     []reportSection
	Levels       []reportLevel
}

type reportSection struct {
	Name  string
	Rated int
	Score string
	Items []reportItem
}

type reportItem struct {
	ID       string
	Content  string
	Label    string
	Evidence string
	Remarks  string
}

type reportLevel struct {
	Label string
	Count int
}

// Report renders a Markdown compliance report for a task.
func (s *TaskService) Report(ctx context.Context, taskID string) (string, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return "", err
	}

	items, err := s.store.ListItems(ctx, taskID)
	if err != nil {
		return "", err
	}

	result, err := s.store.GetResult(ctx, taskID)
	if err != nil {
		return "", err
	}

	data := reportData{
		Task:         task,
		TemplateName: task.TemplateID,
		Status:       StatusLabel(task.Status),
		Updated:      task.UpdatedAt.UTC().Format("2006-01-02 15:04 UTC"),
		Result:       result,
		Rated:        result.LevelDistribution.Total(),
		Unrated:      result.TotalItems - result.LevelDistribution.Total(),
		Sections:     buildSections(items, result),
	}

	if tpl, err := s.Template(ctx, task.TemplateID); err == nil {
		data.TemplateName = tpl.Name
		data.Standard = tpl.Standard
	}

	for _, r := range assessment.Ratings {
		data.Levels = append(data.Levels, reportLevel{
			Label: scoring.Label(r),
			Count: result.LevelDistribution.Count(r),
		})
	}

	out, err := tmpl.Render(reportTemplate, data)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return out, nil
}

// buildSections groups items by dimension in checklist order.
func buildSections(items []assessment.Item, result assessment.Result) []reportSection {
	var sections []reportSection
	index := map[string]int{}

	for _, it := range items {
		i, ok := index[it.Dimension]
		if !ok {
			i = len(sections)
			index[it.Dimension] = i
			sections = append(sections, reportSection{Name: it.Dimension, Score: "-"})
			if score, ok := result.DimensionScores.Get(it.Dimension); ok {
				sections[i].Score = fmt.Sprintf("%d%%", score)
			}
		}

		if it.Rating != assessment.RatingUnset {
			sections[i].Rated++
		}
		sections[i].Items = append(sections[i].Items, reportItem{
			ID:       it.ID,
			Content:  it.Content,
			Label:    scoring.Label(it.Rating),
			Evidence: it.Evidence,
			Remarks:  it.Remarks,
		})
	}

	return sections
}

// StatusLabel returns the display label for a task status.
func StatusLabel(s assessment.Status) string {
	switch s {
	case assessment.StatusDraft:
		return "Draft"
	case assessment.StatusInProgress:
		return "In progress"
	case assessment.StatusCompleted:
		return "Completed"
	}
	return string(s)
}
