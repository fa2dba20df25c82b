package types

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

func formatPathsTable(paths []Path) string {
	if len(paths) == 0 {
		return ""
	}
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Path", "Category", "Duration", "Skills")
	for _, path := range paths {
		_ = table.Append(path.Title, path.Category, path.EstimatedDuration, fmt.Sprintf("%d", len(path.Skills)))
	}
	_ = table.Render()
	return buf.String()
}

func formatResourcesTable(resources []Resource) string {
	if len(resources) == 0 {
		return ""
	}
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Type", "Resource", "Link", "Description")
	for _, res := range resources {
		_ = table.Append(string(res.Type), res.Title, res.URL, res.Description)
	}
	_ = table.Render()
	return buf.String()
}

func formatSkill(skill Skill) string {
	sections := []string{
		fmt.Sprintf("### %s\n`%s` · %s", skill.Title, skill.Level, skill.EstimatedTime),
	}
	if skill.Description != "" {
		sections = append(sections, skill.Description)
	}
	if len(skill.Prerequisites) > 0 {
		sections = append(sections, fmt.Sprintf("**Prerequisites:** %s", strings.Join(skill.Prerequisites, ", ")))
	}
	if s := formatResourcesTable(skill.Resources); s != "" {
		sections = append(sections, "**Learning Resources:**\n\n"+s)
	}
	return strings.Join(sections, "\n\n")
}

// FormatMarkdown 将 roadmap 渲染为 markdown，供终端展示
func FormatMarkdown(r *Roadmap) string {
	if r == nil {
		return ""
	}
	sections := []string{
		fmt.Sprintf("# %s Roadmap", r.Career),
	}
	if r.Description != "" {
		sections = append(sections, r.Description)
	}
	sections = append(sections, fmt.Sprintf("- **Average Salary:** %s\n- **Market Demand:** %s\n- **Learning Paths:** %d",
		r.AverageSalary, r.MarketDemand, len(r.Paths)))
	if len(r.KeySkills) > 0 {
		sections = append(sections, "## Key Skills Required\n\n"+strings.Join(r.KeySkills, " · "))
	}
	if r.Overview != "" {
		sections = append(sections, "## Career Overview\n\n"+r.Overview)
	}
	if r.MarketDemand != "" {
		sections = append(sections, "## Market Demand & Trends\n\n"+r.MarketDemand)
	}
	if s := formatPathsTable(r.Paths); s != "" {
		sections = append(sections, "## Learning Paths\n\n"+s)
	}
	for _, path := range r.Paths {
		header := fmt.Sprintf("## %s\n%s\n\n_Duration: %s_", path.Title, path.Description, path.EstimatedDuration)
		sections = append(sections, header)
		for _, skill := range path.Skills {
			sections = append(sections, formatSkill(skill))
		}
	}
	return strings.Join(sections, "\n\n")
}
