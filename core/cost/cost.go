package cost

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownModel is returned when a model identifier has no entry in the
// rate table. Callers detect it with errors.Is.
var ErrUnknownModel = errors.New("unknown model")

// ModelCost is the pricing structure for a language model, expressed in USD
// per one million tokens.
type ModelCost struct {
	// InputCostPerMillion is the cost in USD per 1 million input tokens.
	InputCostPerMillion float64 `json:"input_cost_per_million" yaml:"input_cost_per_million"`

	// OutputCostPerMillion is the cost in USD per 1 million output tokens.
	OutputCostPerMillion float64 `json:"output_cost_per_million" yaml:"output_cost_per_million"`
}

// CalculateInputCost returns the dollar cost of the given input token count.
func (mc ModelCost) CalculateInputCost(tokens int) float64 {
	return (float64(tokens) / 1_000_000.0) * mc.InputCostPerMillion
}

// CalculateOutputCost returns the dollar cost of the given output token count.
func (mc ModelCost) CalculateOutputCost(tokens int) float64 {
	return (float64(tokens) / 1_000_000.0) * mc.OutputCostPerMillion
}

// String returns a formatted representation of the model rates.
func (mc ModelCost) String() string {
	return fmt.Sprintf("Input: $%.6f/M, Output: $%.6f/M",
		mc.InputCostPerMillion, mc.OutputCostPerMillion)
}

// RateTable maps model identifiers to their pricing. A table is immutable
// after construction, so a single instance can be shared safely between
// concurrently running sessions.
type RateTable struct {
	rates map[string]ModelCost
}

// DefaultRates are the built-in OpenAI rates, in USD per million tokens.
var DefaultRates = map[string]ModelCost{
	"gpt-4o-mini": {InputCostPerMillion: 0.150, OutputCostPerMillion: 0.600},
	"gpt-4o":      {InputCostPerMillion: 2.50, OutputCostPerMillion: 10.00},
	"gpt-4":       {InputCostPerMillion: 30.00, OutputCostPerMillion: 60.00},
}

// NewRateTable builds a rate table from the given model → rate mapping.
// The map is copied; later mutation of the argument does not affect the table.
func NewRateTable(rates map[string]ModelCost) *RateTable {
	copied := make(map[string]ModelCost, len(rates))
	for model, mc := range rates {
		copied[model] = mc
	}
	return &RateTable{rates: copied}
}

// NewDefaultRateTable returns a table populated with [DefaultRates].
func NewDefaultRateTable() *RateTable {
	return NewRateTable(DefaultRates)
}

// LoadRateTable reads a YAML file mapping model identifiers to rates and
// merges it over [DefaultRates], so a partial file only overrides the models
// it names.
//
// File format:
//
//	gpt-4o-mini:
//	  input_cost_per_million: 0.150
//	  output_cost_per_million: 0.600
func LoadRateTable(path string) (*RateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate file: %w", err)
	}

	var fileRates map[string]ModelCost
	if err := yaml.Unmarshal(data, &fileRates); err != nil {
		return nil, fmt.Errorf("failed to parse rate file %s: %w", path, err)
	}

	merged := make(map[string]ModelCost, len(DefaultRates)+len(fileRates))
	for model, mc := range DefaultRates {
		merged[model] = mc
	}
	for model, mc := range fileRates {
		merged[model] = mc
	}
	return NewRateTable(merged), nil
}

// Lookup returns the rates for a model, or ErrUnknownModel (wrapped with the
// model identifier) when the table has no entry for it.
func (t *RateTable) Lookup(model string) (ModelCost, error) {
	mc, ok := t.rates[model]
	if !ok {
		return ModelCost{}, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	return mc, nil
}

// Price converts a token usage into dollars for the given model.
// An unknown model is an error, never a zero cost.
func (t *RateTable) Price(model string, inputTokens, outputTokens int) (float64, error) {
	mc, err := t.Lookup(model)
	if err != nil {
		return 0, err
	}
	return mc.CalculateInputCost(inputTokens) + mc.CalculateOutputCost(outputTokens), nil
}

// Models returns the sorted model identifiers known to the table.
func (t *RateTable) Models() []string {
	models := make([]string, 0, len(t.rates))
	for model := range t.rates {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}

// FormatDollars renders a dollar amount with fixed nine-decimal precision so
// that sub-millidollar costs remain visible in reports.
func FormatDollars(amount float64) string {
	return fmt.Sprintf("$%.9f", amount)
}
