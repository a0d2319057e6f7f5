package graphql

import (
	"context"
	"fmt"

	gql "github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/introspection"
)

// lazyObject is an introspection result whose fields are computed on selection.
type lazyObject map[string]func(args map[string]any) any

func (ex *execution) introspect(_ context.Context, f gql.CollectedField) (any, error) {
	switch f.Name {
	case "__schema":
		return ex.complete(schemaObject(introspection.WrapSchema(ex.schema)), f.Definition.Type, f.Selections), nil
	case "__type":
		name, _ := f.ArgumentMap(ex.opCtx.Variables)["name"].(string)
		def := ex.schema.Types[name]
		if def == nil {
			return nil, nil
		}
		return ex.complete(typeObject(introspection.WrapTypeFromDef(ex.schema, def)), f.Definition.Type, f.Selections), nil
	}
	return nil, fmt.Errorf("unknown introspection field %s", f.Name)
}

func schemaObject(s *introspection.Schema) lazyObject {
	return lazyObject{
		"description":      func(map[string]any) any { return str(s.Description()) },
		"types":            func(map[string]any) any { return list(s.Types(), typeObject) },
		"queryType":        func(map[string]any) any { return typeObject(s.QueryType()) },
		"mutationType":     func(map[string]any) any { return typeObject(s.MutationType()) },
		"subscriptionType": func(map[string]any) any { return typeObject(s.SubscriptionType()) },
		"directives":       func(map[string]any) any { return list(s.Directives(), directiveObject) },
	}
}

func typeObject(t *introspection.Type) any {
	if t == nil {
		return nil
	}
	return lazyObject{
		"kind":           func(map[string]any) any { return t.Kind() },
		"name":           func(map[string]any) any { return str(t.Name()) },
		"description":    func(map[string]any) any { return str(t.Description()) },
		"specifiedByURL": func(map[string]any) any { return str(t.SpecifiedByURL()) },
		"fields": func(args map[string]any) any {
			return list(t.Fields(includeDeprecated(args)), fieldObject)
		},
		"interfaces":    func(map[string]any) any { return list(t.Interfaces(), typeObject) },
		"possibleTypes": func(map[string]any) any { return list(t.PossibleTypes(), typeObject) },
		"enumValues": func(args map[string]any) any {
			return list(t.EnumValues(includeDeprecated(args)), enumValueObject)
		},
		"inputFields": func(map[string]any) any { return list(t.InputFields(), inputValueObject) },
		"ofType":      func(map[string]any) any { return typeObject(t.OfType()) },
		"isOneOf":     func(map[string]any) any { return t.IsOneOf() },
	}
}

func fieldObject(f *introspection.Field) any {
	return lazyObject{
		"name":              func(map[string]any) any { return f.Name },
		"description":       func(map[string]any) any { return str(f.Description()) },
		"args":              func(map[string]any) any { return list(f.Args, inputValueObject) },
		"type":              func(map[string]any) any { return typeObject(f.Type) },
		"isDeprecated":      func(map[string]any) any { return f.IsDeprecated() },
		"deprecationReason": func(map[string]any) any { return str(f.DeprecationReason()) },
	}
}

func inputValueObject(v *introspection.InputValue) any {
	return lazyObject{
		"name":              func(map[string]any) any { return v.Name },
		"description":       func(map[string]any) any { return str(v.Description()) },
		"type":              func(map[string]any) any { return typeObject(v.Type) },
		"defaultValue":      func(map[string]any) any { return str(v.DefaultValue) },
		"isDeprecated":      func(map[string]any) any { return v.IsDeprecated() },
		"deprecationReason": func(map[string]any) any { return str(v.DeprecationReason()) },
	}
}

func enumValueObject(v *introspection.EnumValue) any {
	return lazyObject{
		"name":              func(map[string]any) any { return v.Name },
		"description":       func(map[string]any) any { return str(v.Description()) },
		"isDeprecated":      func(map[string]any) any { return v.IsDeprecated() },
		"deprecationReason": func(map[string]any) any { return str(v.DeprecationReason()) },
	}
}

func directiveObject(d *introspection.Directive) any {
	return lazyObject{
		"name":         func(map[string]any) any { return d.Name },
		"description":  func(map[string]any) any { return str(d.Description()) },
		"isRepeatable": func(map[string]any) any { return d.IsRepeatable },
		"locations":    func(map[string]any) any { return list(d.Locations, func(s *string) any { return *s }) },
		"args":         func(map[string]any) any { return list(d.Args, inputValueObject) },
	}
}

func includeDeprecated(args map[string]any) bool {
	b, _ := args["includeDeprecated"].(bool)
	return b
}

// str keeps a nil *string an untyped nil.
func str(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func list[T any](items []T, fn func(*T) any) []any {
	out := make([]any, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}
