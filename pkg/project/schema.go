package project

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/matzehuels/tscproj/pkg/jsontree"
)

//go:embed schema.json
var schemaSource string

const schemaURL = "project.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// ValidateStructure checks the shape of a decoded document and returns one
// human-readable message per problem, sorted. An empty result means the
// document is well formed. Values are never modified.
func ValidateStructure(doc jsontree.Value) []string {
	s, err := compiledSchema()
	if err != nil {
		return []string{err.Error()}
	}
	if err := s.Validate(jsontree.Interface(doc)); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return []string{err.Error()}
		}
		var msgs []string
		collectSchemaErrors(ve, &msgs)
		sort.Strings(msgs)
		return dedupe(msgs)
	}
	return nil
}

func collectSchemaErrors(err *jsonschema.ValidationError, msgs *[]string) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*msgs = append(*msgs, describe(err))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, msgs)
	}
}

// describe turns a leaf schema error into "<field> must be a <kind>".
func describe(err *jsonschema.ValidationError) string {
	field := pointerToField(err.InstanceLocation)
	if field == "" {
		field = "project"
	}
	if strings.HasSuffix(err.KeywordLocation, "/type") {
		if kinds := expectedTypes(err.Message); kinds != "" {
			return fmt.Sprintf("%s must be %s %s", field, article(kinds), kinds)
		}
	}
	return fmt.Sprintf("%s: %s", field, err.Message)
}

var typeNouns = map[string]string{
	"number":  "number",
	"integer": "integer",
	"string":  "string",
	"boolean": "boolean",
	"array":   "list",
	"object":  "dictionary",
	"null":    "null",
}

func article(noun string) string {
	if strings.IndexByte("aeiou", noun[0]) >= 0 {
		return "an"
	}
	return "a"
}

// expectedTypes extracts the types from "expected X or Y, but got Z".
func expectedTypes(msg string) string {
	msg = strings.TrimPrefix(msg, "expected ")
	if i := strings.Index(msg, ", but got"); i >= 0 {
		msg = msg[:i]
	}
	var nouns []string
	for _, t := range strings.Split(msg, " or ") {
		noun, ok := typeNouns[strings.TrimSpace(t)]
		if !ok {
			return ""
		}
		nouns = append(nouns, noun)
	}
	return strings.Join(nouns, " or ")
}

// pointerToField converts "/sourceBin/0/rect" into "sourceBin[0].rect".
func pointerToField(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}
	var sb strings.Builder
	for i, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		if isIndex(part) {
			sb.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
