package patch

import (
	"reflect"
	"strings"
)

// OptionalListPaths 返回 T 中未标记 jsonschema required 的切片字段路径，数组下标用 "-" 表示
func OptionalListPaths[T any]() []string {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ == nil {
		return nil
	}
	paths := make([]string, 0)
	collectOptionalLists(typ, "", &paths, make(map[reflect.Type]bool))
	return paths
}

func collectOptionalLists(typ reflect.Type, prefix string, paths *[]string, visited map[reflect.Type]bool) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	switch typ.Kind() {
	case reflect.Struct:
		if visited[typ] {
			return
		}
		visited[typ] = true
		defer delete(visited, typ)

		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			name := jsonFieldName(field)
			if name == "" || name == "-" {
				continue
			}
			fieldPath := prefix + "/" + escapeJSONPointer(name)
			ft := field.Type
			if ft.Kind() == reflect.Slice && !isRequired(field) {
				*paths = append(*paths, fieldPath)
			}
			collectOptionalLists(ft, fieldPath, paths, visited)
		}

	case reflect.Slice, reflect.Array:
		collectOptionalLists(typ.Elem(), prefix+"/-", paths, visited)
	}
}

func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

func isRequired(field reflect.StructField) bool {
	for _, part := range strings.Split(field.Tag.Get("jsonschema"), ",") {
		if part == "required" {
			return true
		}
	}
	return false
}
