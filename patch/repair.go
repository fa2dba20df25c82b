package patch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var emptyList = json.RawMessage("[]")

// MissingListOperations 为文档中缺失或为 null 的列表字段生成补齐为 [] 的操作。
// pattern 中的 "-" 段会展开为数组的每个下标。
func MissingListOperations(doc any, patterns []string) []Operation {
	var ops []Operation
	for _, pattern := range patterns {
		collectMissing(doc, "", splitPointer(pattern), &ops)
	}
	return ops
}

func collectMissing(node any, prefix string, tokens []string, ops *[]Operation) {
	if len(tokens) == 0 {
		return
	}
	token := tokens[0]

	if token == "-" {
		items, ok := node.([]any)
		if !ok {
			return
		}
		for i, item := range items {
			collectMissing(item, prefix+"/"+strconv.Itoa(i), tokens[1:], ops)
		}
		return
	}

	obj, ok := node.(map[string]any)
	if !ok {
		return
	}
	path := prefix + "/" + escapeJSONPointer(token)
	value, exists := obj[token]
	if len(tokens) == 1 {
		if !exists || value == nil {
			*ops = append(*ops, Operation{Op: OperationReplace, Path: path, Value: emptyList})
		}
		return
	}
	collectMissing(value, path, tokens[1:], ops)
}

// Repair 补齐 raw 中缺失的可选列表，返回修复后的文档和实际执行的操作
func Repair(raw []byte, patterns []string) ([]byte, []Operation, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, nil, fmt.Errorf("document is not a JSON object")
	}

	ops := MissingListOperations(doc, patterns)
	if len(ops) == 0 {
		return raw, nil, nil
	}
	if err := ValidateOperations(ops, NewPathSet(patterns...)); err != nil {
		return nil, nil, fmt.Errorf("repair operations failed validation: %w", err)
	}

	repaired, err := Apply(raw, ops)
	if err != nil {
		return nil, nil, err
	}
	return repaired, ops, nil
}

func FormatOperations(ops []Operation) string {
	parts := make([]string, 0, len(ops))
	for _, op := range ops {
		parts = append(parts, op.Op+" "+op.Path)
	}
	return strings.Join(parts, "; ")
}
