package types

import (
	"fmt"
	"strings"
)

// NormalizeEnums 将 level/type 统一为小写去空格形式，只用于刚解码出的值
func NormalizeEnums(r *Roadmap) {
	if r == nil {
		return
	}
	for i := range r.Paths {
		for j := range r.Paths[i].Skills {
			skill := &r.Paths[i].Skills[j]
			skill.Level = Level(strings.ToLower(strings.TrimSpace(string(skill.Level))))
			for k := range skill.Resources {
				res := &skill.Resources[k]
				res.Type = ResourceType(strings.ToLower(strings.TrimSpace(string(res.Type))))
			}
		}
	}
}

// Validate 返回所有不满足结构约束的字段，指针使用 RFC6901 格式
func (r *Roadmap) Validate() []FieldInfo {
	var issues []FieldInfo
	if r == nil {
		return []FieldInfo{{JSONPointer: "", DisplayName: "roadmap", Description: "roadmap is empty", Required: true}}
	}
	if isBlank(r.Career) {
		issues = append(issues, required("/career", "career"))
	}
	if len(r.Paths) == 0 {
		issues = append(issues, FieldInfo{
			JSONPointer: "/paths",
			DisplayName: "paths",
			Description: "at least one learning path is required",
			Required:    true,
		})
	}
	for i, path := range r.Paths {
		base := fmt.Sprintf("/paths/%d", i)
		if isBlank(path.Title) {
			issues = append(issues, required(base+"/title", "path title"))
		}
		if len(path.Skills) == 0 {
			issues = append(issues, FieldInfo{
				JSONPointer: base + "/skills",
				DisplayName: "skills",
				Description: "at least one skill is required",
				Required:    true,
			})
		}
		for j, skill := range path.Skills {
			issues = append(issues, skill.validate(fmt.Sprintf("%s/skills/%d", base, j))...)
		}
	}
	return issues
}

func (s Skill) validate(base string) []FieldInfo {
	var issues []FieldInfo
	if isBlank(s.Title) {
		issues = append(issues, required(base+"/title", "skill title"))
	}
	if !s.Level.Valid() {
		issues = append(issues, FieldInfo{
			JSONPointer: base + "/level",
			DisplayName: "level",
			Description: fmt.Sprintf("unknown level %q", s.Level),
			Required:    true,
		})
	}
	for k, res := range s.Resources {
		rb := fmt.Sprintf("%s/resources/%d", base, k)
		if isBlank(res.Title) {
			issues = append(issues, required(rb+"/title", "resource title"))
		}
		if !res.Type.Valid() {
			issues = append(issues, FieldInfo{
				JSONPointer: rb + "/type",
				DisplayName: "resource type",
				Description: fmt.Sprintf("unknown resource type %q", res.Type),
				Required:    true,
			})
		}
	}
	return issues
}

func required(pointer, name string) FieldInfo {
	return FieldInfo{
		JSONPointer: pointer,
		DisplayName: name,
		Description: name + " is required",
		Required:    true,
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
