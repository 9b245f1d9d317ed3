// Package schema is a stand-in GraphQL executor for the example. It
// answers a single field and is not a GraphQL implementation.
package schema

import (
	"context"
	"strings"

	"github.com/kroma-labs/stellate-go/stellate"
)

// Execute resolves { hello } and reports an error for anything else.
func Execute(_ context.Context, op stellate.Operation) (any, error) {
	if strings.Contains(op.Query, "hello") {
		name := "world"
		if vars, ok := op.Variables.(map[string]any); ok {
			if v, ok := vars["name"].(string); ok && v != "" {
				name = v
			}
		}
		return map[string]any{"data": map[string]any{"hello": "hello " + name}}, nil
	}

	return map[string]any{
		"data": nil,
		"errors": []any{
			map[string]any{"message": "Cannot query field on type \"Query\"."},
		},
	}, nil
}

// Introspect returns the introspection result of the example schema.
func Introspect(context.Context) (any, error) {
	return map[string]any{
		"data": map[string]any{
			"__schema": map[string]any{
				"queryType":        map[string]any{"name": "Query"},
				"mutationType":     nil,
				"subscriptionType": nil,
				"directives":       []any{},
				"types": []any{
					map[string]any{
						"kind": "OBJECT",
						"name": "Query",
						"fields": []any{
							map[string]any{
								"name": "hello",
								"args": []any{
									map[string]any{
										"name": "name",
										"type": map[string]any{"kind": "SCALAR", "name": "String"},
									},
								},
								"type": map[string]any{"kind": "SCALAR", "name": "String"},
							},
						},
					},
					map[string]any{"kind": "SCALAR", "name": "String"},
				},
			},
		},
	}, nil
}
