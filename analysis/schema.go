package analysis

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var analysisSchemaJSON string

const analysisSchemaURL = "https://github.com/amonks/smarttodo/analysis.schema.json"

var (
	analysisSchemaOnce sync.Once
	analysisSchema     *jsonschema.Schema
	analysisSchemaErr  error
)

func compiledAnalysisSchema() (*jsonschema.Schema, error) {
	analysisSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(analysisSchemaURL, strings.NewReader(analysisSchemaJSON)); err != nil {
			analysisSchemaErr = fmt.Errorf("load analysis schema: %w", err)
			return
		}
		analysisSchema, analysisSchemaErr = compiler.Compile(analysisSchemaURL)
	})
	return analysisSchema, analysisSchemaErr
}

// generatedAnalysis is the JSON object the model is asked to produce.
type generatedAnalysis struct {
	Summary     string          `json:"summary"`
	Suggestions json.RawMessage `json:"suggestions"`
}

// parseGeneratedAnalysis extracts the JSON object from model output and
// checks it against the analysis schema.
func parseGeneratedAnalysis(text string) (generatedAnalysis, error) {
	raw, err := extractJSONObject(text)
	if err != nil {
		return generatedAnalysis{}, err
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return generatedAnalysis{}, fmt.Errorf("parse generated analysis: %w", err)
	}

	schema, err := compiledAnalysisSchema()
	if err != nil {
		return generatedAnalysis{}, err
	}
	if err := schema.Validate(doc); err != nil {
		return generatedAnalysis{}, fmt.Errorf("generated analysis does not match schema: %s", describeValidationError(err))
	}

	var parsed generatedAnalysis
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return generatedAnalysis{}, fmt.Errorf("parse generated analysis: %w", err)
	}
	return parsed, nil
}

func describeValidationError(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	var messages []string
	collectValidationMessages(ve, &messages)
	return strings.Join(messages, "; ")
}

func collectValidationMessages(err *jsonschema.ValidationError, messages *[]string) {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		*messages = append(*messages, location+": "+err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectValidationMessages(cause, messages)
	}
}

// extractJSONObject returns the outermost {...} in text, ignoring code
// fences and surrounding prose.
func extractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object in generated analysis")
	}
	return text[start : end+1], nil
}
