package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
)

// Router maps RPC method names to exported methods on a bound receiver.
type Router struct {
	mu      sync.RWMutex
	methods map[string]reflect.Value
}

func NewRouter() *Router {
	return &Router{methods: make(map[string]reflect.Value)}
}

// Bind registers every exported method of target under its own name.
func (r *Router) Bind(target interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := reflect.ValueOf(target)
	t := v.Type()
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if m.PkgPath != "" {
			continue
		}
		r.methods[m.Name] = v.Method(i)
	}
}

// Call invokes a bound method with JSON-decoded params. The first parameter
// may be a context.Context, which is supplied by the caller rather than the
// wire.
func (r *Router) Call(ctx context.Context, method string, params []interface{}) (interface{}, error) {
	r.mu.RLock()
	fn, ok := r.methods[method]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown method: %s", method)
	}

	ft := fn.Type()
	args := make([]reflect.Value, 0, ft.NumIn())
	next := 0

	for i := 0; i < ft.NumIn(); i++ {
		in := ft.In(i)
		if i == 0 && in == reflect.TypeOf((*context.Context)(nil)).Elem() {
			args = append(args, reflect.ValueOf(ctx))
			continue
		}
		if next >= len(params) {
			return nil, fmt.Errorf("%s: want %d params, got %d", method, ft.NumIn(), len(params))
		}
		av, err := convertParam(params[next], in)
		if err != nil {
			return nil, fmt.Errorf("%s param %d: %w", method, next, err)
		}
		args = append(args, av)
		next++
	}
	if next != len(params) {
		return nil, fmt.Errorf("%s: %d params left over", method, len(params)-next)
	}

	return processResults(fn.Call(args))
}

// convertParam coerces a decoded JSON value into the parameter type. Scalars
// convert directly; maps and arrays go back through the JSON codec so struct
// and slice parameters work.
func convertParam(raw interface{}, want reflect.Type) (reflect.Value, error) {
	if raw == nil {
		return reflect.Zero(want), nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Type() == want {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(want) {
		switch want.Kind() {
		case reflect.Map, reflect.Slice, reflect.Struct, reflect.Ptr, reflect.Interface:
		default:
			return rv.Convert(want), nil
		}
	}

	blob, err := json.Marshal(raw)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(want)
	if err := json.Unmarshal(blob, out.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("cannot convert %T to %s: %w", raw, want, err)
	}
	return out.Elem(), nil
}

// processResults folds method return values into (result, error). A trailing
// error return becomes the call error; at most one non-error value is kept.
func processResults(out []reflect.Value) (interface{}, error) {
	var result interface{}
	for _, v := range out {
		if v.Type().Implements(reflect.TypeOf((*error)(nil)).Elem()) {
			if !v.IsNil() {
				return nil, v.Interface().(error)
			}
			continue
		}
		result = v.Interface()
	}
	return result, nil
}

// Methods returns the bound method names, for diagnostics.
func (r *Router) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	return names
}
