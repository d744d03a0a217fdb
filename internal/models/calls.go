package models

import (
	"encoding/json"
	"fmt"
	"slices"
)

type Input map[string]any

type Call struct {
	ID       string        `json:"id,omitempty"`
	Name     string        `json:"name,omitempty"`
	Type     string        `json:"type,omitempty"`
	Inputs   Input         `json:"inputs,omitempty"`
	Function Specification `json:"function,omitempty"`
}

// Patch the call, filling structs and initializing fields so that
// the wire format stays consistent regardless of which code path
// constructed the call
func (c *Call) Patch() {
	if c.Type == "" {
		c.Type = "function"
	}
	if c.Function.Name == "" {
		c.Function.Name = c.Name
	}
	if c.Function.Arguments == "" {
		c.Function.Arguments = c.JSON()
	}
}

// PrettyPrint the call, showing name and what input params is used
// on a concise way
func (c Call) PrettyPrint() string {
	paramStr := ""
	i := 0
	lenInp := len(c.Inputs)
	for flag, val := range c.Inputs {
		paramStr += fmt.Sprintf("'%v': '%v'", flag, val)
		if i < lenInp-1 {
			paramStr += ","
		}
		i++
	}

	return fmt.Sprintf("Call: '%s', inputs: [ %s ]", c.Name, paramStr)
}

func (c Call) JSON() string {
	json, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprintf("ERROR: Failed to marshal: %v", err)
	}
	return string(json)
}

type Specification struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Inputs      *InputSchema `json:"input_schema,omitempty"`
	// Arguments as a stringified json object, the format some
	// openai-compatible vendors echo tool calls in
	Arguments string `json:"arguments,omitempty"`
}

type InputSchema struct {
	Type       string                     `json:"type"`
	Required   []string                   `json:"required"`
	Properties map[string]ParameterObject `json:"properties"`
}

type ParameterObject struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum,omitempty"`
}

type ValidationError struct {
	fieldsMissing []string
}

func NewValidationError(fieldsMissing []string) error {
	// Sort for deterministic error print
	slices.Sort(fieldsMissing)
	return ValidationError{fieldsMissing: fieldsMissing}
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("validation error, fields missing: %v", v.fieldsMissing)
}
