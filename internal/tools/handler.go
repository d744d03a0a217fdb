package tools

import (
	"fmt"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/models"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/search"
)

// Registry is the global registry of available LLM tools.
var Registry = NewRegistry()

// Init registers the tools available to the recommendation agent. The
// searcher backs the 'search' tool. Safe to call multiple times, later
// calls overwrite earlier registrations.
func Init(searcher search.Provider) {
	searchTool := NewSearchTool(searcher)
	Registry.Set(searchTool.Specification().Name, searchTool)
	Registry.Set(WebsiteText.Specification().Name, WebsiteText)
}

// Invoke the call, and gather both error and output in the same string
func Invoke(call models.Call) string {
	t, exists := Registry.Get(call.Name)
	if !exists {
		return "ERROR: unknown tool call: " + call.Name
	}
	if err := ValidateInput(t.Specification(), call.Inputs); err != nil {
		return fmt.Sprintf("ERROR: %v", err)
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.Okf("invoking tool: %v\n", call.PrettyPrint())
	}
	out, err := t.Call(call.Inputs)
	if err != nil {
		return fmt.Sprintf("ERROR: %v", err)
	}
	return out
}

// ValidateInput checks that all required fields of the specification are
// present in the input.
func ValidateInput(spec models.Specification, input models.Input) error {
	if spec.Inputs == nil {
		return nil
	}
	var missing []string
	for _, req := range spec.Inputs.Required {
		if _, ok := input[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return models.NewValidationError(missing)
	}
	return nil
}
