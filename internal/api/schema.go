package api

// Schema pairs a name with a JSON-schema definition used to validate a
// backend payload before it is normalized into core types.
type Schema struct {
	Name       string
	Definition map[string]any
}

// questionBankSchema validates the load-test-questions response.
var questionBankSchema = &Schema{
	Name: "question-bank",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question_id": map[string]any{
							"type":      "string",
							"minLength": 1,
						},
						"question_type": map[string]any{
							"type": "string",
							"enum": []any{"scq", "mcq", "integer"},
						},
						"question_html": map[string]any{
							"type": "string",
						},
						"options": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"label": map[string]any{"type": "string"},
									"text":  map[string]any{"type": "string"},
								},
								"required": []any{"label"},
							},
						},
					},
					"required": []any{"question_id", "question_type"},
				},
			},
		},
		"required": []any{"questions"},
	},
}

// mutatedQuestionSchema validates the mutate-question response.
var mutatedQuestionSchema = &Schema{
	Name: "mutated-question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mutated": map[string]any{"type": "boolean"},
			"question": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"question_id": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
					"question_type": map[string]any{
						"type": "string",
						"enum": []any{"scq", "mcq", "integer"},
					},
				},
				"required": []any{"question_id", "question_type"},
			},
		},
		"required": []any{"question"},
	},
}

// popupSchema validates popup push-event payloads.
var popupSchema = &Schema{
	Name: "popup",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type":    map[string]any{"type": "string"},
			"message": map[string]any{"type": "string", "minLength": 1},
			"ttl":     map[string]any{"type": "number", "minimum": 0},
		},
		"required": []any{"message"},
	},
}
