// Package tools holds the functions exposed to the language model during
// the recommendation loop, plus the registry used to look them up by name.
package tools

import (
	"github.com/martinkhristi/sambanova-product-recomodation/internal/models"
)

type LLMTool interface {
	// Call the tool with the given Input. Returns output from the tool or an
	// error if the call returned an error-like. An error-like is either exit
	// code non-zero or restful response non 2xx.
	Call(models.Input) (string, error)

	// Specification returns the tool description which is sent to the model
	Specification() models.Specification
}
