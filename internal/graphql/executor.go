package graphql

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	gql "github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/executor"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// fieldFunc resolves one root field from its argument values.
type fieldFunc func(ctx context.Context, r *Resolver, args map[string]any) (any, error)

var queryFields = map[string]fieldFunc{
	"health": func(ctx context.Context, r *Resolver, _ map[string]any) (any, error) {
		return r.Health(ctx)
	},
	"carriers": func(ctx context.Context, r *Resolver, _ map[string]any) (any, error) {
		return r.Carriers(ctx)
	},
	"track": func(ctx context.Context, r *Resolver, args map[string]any) (any, error) {
		carrier, number, err := twoStrings(args, "carrier", "trackingNumber")
		if err != nil {
			return nil, err
		}
		return r.Track(ctx, carrier, number)
	},
	"trackAll": func(ctx context.Context, r *Resolver, args map[string]any) (any, error) {
		number, err := requiredString(args, "trackingNumber")
		if err != nil {
			return nil, err
		}
		var carriers []string
		if err := decodeArg(args, "carriers", &carriers); err != nil {
			return nil, err
		}
		return r.TrackAll(ctx, number, carriers)
	},
	"locations": func(ctx context.Context, r *Resolver, args map[string]any) (any, error) {
		var input LocationsInput
		if err := decodeArg(args, "input", &input); err != nil {
			return nil, err
		}
		return r.Locations(ctx, input)
	},
	"location": func(ctx context.Context, r *Resolver, args map[string]any) (any, error) {
		carrier, id, err := twoStrings(args, "carrier", "id")
		if err != nil {
			return nil, err
		}
		return r.Location(ctx, carrier, id)
	},
	"pickup": func(ctx context.Context, r *Resolver, args map[string]any) (any, error) {
		carrier, orderID, err := twoStrings(args, "carrier", "orderId")
		if err != nil {
			return nil, err
		}
		return r.Pickup(ctx, carrier, orderID)
	},
}

var mutationFields = map[string]fieldFunc{
	"createShipment": func(ctx context.Context, r *Resolver, args map[string]any) (any, error) {
		var input CreateShipmentInput
		if err := decodeArg(args, "input", &input); err != nil {
			return nil, err
		}
		return r.CreateShipment(ctx, input)
	},
	"cancelShipment": func(ctx context.Context, r *Resolver, args map[string]any) (any, error) {
		carrier, number, err := twoStrings(args, "carrier", "shipmentNumber")
		if err != nil {
			return nil, err
		}
		return r.CancelShipment(ctx, carrier, number)
	},
	"getLabel": func(ctx context.Context, r *Resolver, args map[string]any) (any, error) {
		var input GetLabelInput
		if err := decodeArg(args, "input", &input); err != nil {
			return nil, err
		}
		return r.GetLabel(ctx, input)
	},
	"schedulePickup": func(ctx context.Context, r *Resolver, args map[string]any) (any, error) {
		var input SchedulePickupInput
		if err := decodeArg(args, "input", &input); err != nil {
			return nil, err
		}
		return r.SchedulePickup(ctx, input)
	},
	"cancelPickup": func(ctx context.Context, r *Resolver, args map[string]any) (any, error) {
		carrier, orderID, err := twoStrings(args, "carrier", "orderId")
		if err != nil {
			return nil, err
		}
		return r.CancelPickup(ctx, carrier, orderID)
	},
	"createReturn": func(ctx context.Context, r *Resolver, args map[string]any) (any, error) {
		var input CreateReturnInput
		if err := decodeArg(args, "input", &input); err != nil {
			return nil, err
		}
		return r.CreateReturn(ctx, input)
	},
	"buyStamps": func(ctx context.Context, r *Resolver, args map[string]any) (any, error) {
		var input BuyStampsInput
		if err := decodeArg(args, "input", &input); err != nil {
			return nil, err
		}
		return r.BuyStamps(ctx, input)
	},
	"refundStamps": func(ctx context.Context, r *Resolver, args map[string]any) (any, error) {
		var input RefundStampsInput
		if err := decodeArg(args, "input", &input); err != nil {
			return nil, err
		}
		return r.RefundStamps(ctx, input)
	},
}

//go:embed schema.graphqls
var schemaSDL string

// parsedSchema is the schema every request is validated against.
var parsedSchema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: schemaSDL})

// newExecutor wires the schema into gqlgen's executor, which parses,
// validates and coerces variables before Exec runs.
func newExecutor(r *Resolver) *executor.Executor {
	exec := executor.New(&executableSchema{resolver: r, schema: parsedSchema})
	exec.SetErrorPresenter(presentError)
	exec.Use(introspectionEnabled{})
	return exec
}

// Execute runs a GraphQL request against the resolver. Root fields run in
// document order; a failing field yields null and an entry in Errors.
func (r *Resolver) Execute(ctx context.Context, params *gql.RawParams) *gql.Response {
	ctx = gql.StartOperationTrace(ctx)

	opCtx, errs := r.exec.CreateOperationContext(ctx, params)
	if errs != nil {
		return r.exec.DispatchError(gql.WithOperationContext(ctx, opCtx), errs)
	}

	responses, ctx := r.exec.DispatchOperation(ctx, opCtx)
	return responses(ctx)
}

type executableSchema struct {
	resolver *Resolver
	schema   *ast.Schema
}

var _ gql.ExecutableSchema = (*executableSchema)(nil)

func (es *executableSchema) Schema() *ast.Schema {
	return es.schema
}

func (es *executableSchema) Complexity(context.Context, string, string, int, map[string]any) (int, bool) {
	return 0, false
}

func (es *executableSchema) Exec(ctx context.Context) gql.ResponseHandler {
	opCtx := gql.GetOperationContext(ctx)

	var root *ast.Definition
	var fields map[string]fieldFunc
	switch opCtx.Operation.Operation {
	case ast.Query:
		root, fields = es.schema.Query, queryFields
	case ast.Mutation:
		root, fields = es.schema.Mutation, mutationFields
	default:
		return gql.OneShot(gql.ErrorResponse(ctx, "unsupported GraphQL operation"))
	}

	first := true
	return func(ctx context.Context) *gql.Response {
		if !first {
			return nil
		}
		first = false

		ex := &execution{opCtx: opCtx, schema: es.schema}
		data, ok := ex.executeRoot(ctx, es.resolver, root, fields)
		if !ok {
			return &gql.Response{Data: []byte("null")}
		}
		raw, err := json.Marshal(data)
		if err != nil {
			gql.AddError(ctx, err)
			return &gql.Response{Data: []byte("null")}
		}
		return &gql.Response{Data: raw}
	}
}

type execution struct {
	opCtx  *gql.OperationContext
	schema *ast.Schema
}

// executeRoot resolves the root selection set. It reports false when a
// non-null root field failed, which nulls the whole result.
func (ex *execution) executeRoot(ctx context.Context, r *Resolver, root *ast.Definition, fields map[string]fieldFunc) (object, bool) {
	ok := true
	var data object
	for _, f := range gql.CollectFields(ex.opCtx, ex.opCtx.Operation.SelectionSet, []string{root.Name}) {
		fc := &gql.FieldContext{
			Object:     root.Name,
			Field:      f,
			Args:       f.ArgumentMap(ex.opCtx.Variables),
			IsMethod:   true,
			IsResolver: true,
		}
		fctx := gql.WithFieldContext(ctx, fc)

		value, err := ex.resolveRootField(fctx, r, fc, fields)
		if err != nil {
			gql.AddError(fctx, err)
			if f.Definition != nil && f.Definition.Type.NonNull {
				ok = false
			}
			data = append(data, entry{key: f.Alias})
			continue
		}
		data = append(data, entry{key: f.Alias, value: value})
	}
	return data, ok
}

func (ex *execution) resolveRootField(ctx context.Context, r *Resolver, fc *gql.FieldContext, fields map[string]fieldFunc) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result, err = nil, gql.Recover(ctx, rec)
		}
	}()

	f := fc.Field
	switch f.Name {
	case "__typename":
		return fc.Object, nil
	case "__schema", "__type":
		if ex.opCtx.DisableIntrospection {
			return nil, errors.New("introspection disabled")
		}
		return ex.introspect(ctx, f)
	}

	resolve, ok := fields[f.Name]
	if !ok {
		return nil, fmt.Errorf("no resolver for %s.%s", fc.Object, f.Name)
	}
	value, err := resolve(ctx, r, fc.Args)
	if err != nil {
		return nil, err
	}
	generic, err := toGeneric(value)
	if err != nil {
		return nil, err
	}
	return ex.complete(generic, f.Definition.Type, f.Selections), nil
}

// toGeneric turns a resolver result into the maps and slices complete walks.
func toGeneric(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return generic, nil
}

// complete shapes v as typ, keeping the selected fields in selection order.
func (ex *execution) complete(v any, typ *ast.Type, set ast.SelectionSet) any {
	if v == nil {
		return nil
	}
	if typ.Elem != nil {
		items, ok := v.([]any)
		if !ok {
			return nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = ex.complete(item, typ.Elem, set)
		}
		return out
	}

	def := ex.schema.Types[typ.NamedType]
	if def == nil || (def.Kind != ast.Object && def.Kind != ast.Interface) {
		return v
	}

	var out object
	for _, f := range gql.CollectFields(ex.opCtx, set, []string{def.Name}) {
		if f.Name == "__typename" {
			out = append(out, entry{key: f.Alias, value: def.Name})
			continue
		}
		fieldDef := def.Fields.ForName(f.Name)
		if fieldDef == nil {
			out = append(out, entry{key: f.Alias})
			continue
		}
		out = append(out, entry{key: f.Alias, value: ex.complete(fieldValue(v, f, ex.opCtx.Variables), fieldDef.Type, f.Selections)})
	}
	return out
}

// fieldValue reads one field of a decoded result or of an introspection object.
func fieldValue(v any, f gql.CollectedField, vars map[string]any) any {
	switch obj := v.(type) {
	case map[string]any:
		return obj[f.Name]
	case lazyObject:
		if get, ok := obj[f.Name]; ok {
			return get(f.ArgumentMap(vars))
		}
	}
	return nil
}

// presentError turns resolver failures into GraphQL errors carrying a code.
// Parse and validation errors pass through unchanged.
func presentError(ctx context.Context, err error) *gqlerror.Error {
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		if gqlErr.Err == nil {
			return gqlErr
		}
		err = gqlErr.Err
	}

	out := toGQLError(err)
	if fc := gql.GetFieldContext(ctx); fc != nil {
		out.Path = fc.Path()
		if pos := fc.Field.Position; pos != nil {
			out.Locations = []gqlerror.Location{{Line: pos.Line, Column: pos.Column}}
		}
	}
	return out
}

// introspectionEnabled turns on __schema and __type for every operation.
type introspectionEnabled struct{}

var _ interface {
	gql.OperationContextMutator
	gql.HandlerExtension
} = introspectionEnabled{}

func (introspectionEnabled) ExtensionName() string { return "Introspection" }

func (introspectionEnabled) Validate(gql.ExecutableSchema) error { return nil }

func (introspectionEnabled) MutateOperationContext(_ context.Context, opCtx *gql.OperationContext) *gqlerror.Error {
	opCtx.DisableIntrospection = false
	return nil
}

func decodeArg(args map[string]any, name string, dst any) error {
	v, ok := args[name]
	if !ok || v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return badInput("argument %s: %v", name, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return badInput("argument %s: %v", name, err)
	}
	return nil
}

func requiredString(args map[string]any, name string) (string, error) {
	s, _ := args[name].(string)
	if s == "" {
		return "", badInput("argument %s is required", name)
	}
	return s, nil
}

func twoStrings(args map[string]any, first, second string) (string, string, error) {
	a, err := requiredString(args, first)
	if err != nil {
		return "", "", err
	}
	b, err := requiredString(args, second)
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}

// object is a JSON object that keeps its key order.
type object []entry

type entry struct {
	key   string
	value any
}

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(e.value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", e.key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
