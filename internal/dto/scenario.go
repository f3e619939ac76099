package dto

// ImpactAnalysis breaks a scenario's expected effect down by sector, index
// and individual stock, as percentage strings (e.g. "+2.5%").
type ImpactAnalysis struct {
	Sectors map[string]string `json:"sectors,omitempty"`
	Indices map[string]string `json:"indices,omitempty"`
	Stocks  map[string]string `json:"stocks,omitempty"`
}

// ScenarioData is one scenario object in the provider's structured payload.
type ScenarioData struct {
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Probability       *float64        `json:"probability,omitempty"`
	ImpactAnalysis    *ImpactAnalysis `json:"impact_analysis,omitempty"`
	HistoricalContext string          `json:"historical_context,omitempty"`
}

// ScenarioGenerationResult is the top-level structured payload returned by
// the scenario completion call.
type ScenarioGenerationResult struct {
	Scenarios []ScenarioData `json:"scenarios"`
}

// NewScenarioResponseFormat builds the strict json_schema response format
// for scenario generation: an array of scenario objects with title,
// description and probability required.
func NewScenarioResponseFormat() *ResponseFormat {
	return &ResponseFormat{
		Type: "json_schema",
		JSONSchema: &JSONSchemaSpec{
			Schema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"scenarios": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"title": map[string]interface{}{
									"type":        "string",
									"description": "Short title for this scenario (max 100 chars)",
								},
								"description": map[string]interface{}{
									"type":        "string",
									"description": "Detailed explanation of this scenario",
								},
								"probability": map[string]interface{}{
									"type":        "number",
									"minimum":     0,
									"maximum":     1,
									"description": "Probability estimate (0.0 to 1.0)",
								},
								"impact_analysis": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"sectors": map[string]interface{}{
											"type":        "object",
											"description": "Sector-wise impact (e.g., {'banking': '+2%'})",
										},
										"indices": map[string]interface{}{
											"type":        "object",
											"description": "Index impact (e.g., {'nifty': '+0.5%'})",
										},
										"stocks": map[string]interface{}{
											"type":        "object",
											"description": "Stock-specific impact",
										},
									},
								},
								"historical_context": map[string]interface{}{
									"type":        "string",
									"description": "Similar past events and outcomes",
								},
							},
							"required": []string{"title", "description", "probability"},
						},
					},
				},
				"required": []string{"scenarios"},
			},
		},
	}
}
