package delegate

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"

	"github.com/mirrorlink/bridge"
	"github.com/mirrorlink/bridge/errors"
	"github.com/mirrorlink/bridge/instance"
)

// Delegate is the interface for struct-based host delegates. All exported
// methods except Namespace are registered as bridge methods under the
// delegate's namespace, with names converted to kebab-case
// (LoadURL -> "load-url").
//
// Registered methods must have the shape
//
//	func (d *D) Name(ctx context.Context, target *T, args...) (result, error)
//
// where target is the registered instance the guest addresses by
// identifier. The result and error returns are both optional.
type Delegate interface {
	// Namespace returns the channel name the delegate serves
	// (e.g. "webview").
	Namespace() string
}

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

type method struct {
	fn reflect.Value
}

// Dispatcher routes cross-runtime method invocations to registered
// delegate methods, resolving the target instance through the registry's
// weak slot.
type Dispatcher struct {
	registry *instance.Registry
	methods  cmap.ConcurrentMap[string, *method]
}

// NewDispatcher creates a dispatcher backed by the given registry.
func NewDispatcher(registry *instance.Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		methods:  cmap.New[*method](),
	}
}

// Register adds every suitable exported method of the delegate. Methods
// that do not take (context.Context, target, ...) are skipped and logged.
func (d *Dispatcher) Register(del Delegate) error {
	ns := del.Namespace()
	if ns == "" {
		return errors.InvalidInput(errors.PhaseDispatch, "namespace cannot be empty")
	}

	rv := reflect.ValueOf(del)
	rt := rv.Type()

	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if !m.IsExported() || m.Name == "Namespace" {
			continue
		}

		bound := rv.Method(i)
		if !callable(bound.Type()) {
			Logger().Debug("skipping method without (ctx, target) parameters",
				zap.String("namespace", ns),
				zap.String("method", m.Name))
			continue
		}
		d.methods.Set(key(ns, toKebabCase(m.Name)), &method{fn: bound})
	}
	return nil
}

// RegisterFunc adds a single method under an explicit name, for names the
// kebab-case conversion cannot produce.
func (d *Dispatcher) RegisterFunc(namespace, name string, fn any) error {
	if namespace == "" {
		return errors.InvalidInput(errors.PhaseDispatch, "namespace cannot be empty")
	}
	if name == "" {
		return errors.InvalidInput(errors.PhaseDispatch, "method name cannot be empty")
	}

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || !callable(rv.Type()) {
		return errors.TypeMismatch(errors.PhaseDispatch, fmt.Sprintf("%T", fn),
			"handler must be func(ctx, target, ...)")
	}

	d.methods.Set(key(namespace, name), &method{fn: rv})
	return nil
}

// Invoke forwards one cross-runtime call: it validates the identifier,
// resolves the target instance through the registry and calls the
// registered method with the remaining arguments.
func (d *Dispatcher) Invoke(ctx context.Context, namespace, name string, identifier int64, args ...any) (any, error) {
	if _, err := bridge.OriginOf(identifier); err != nil {
		return nil, err
	}

	m, ok := d.methods.Get(key(namespace, name))
	if !ok {
		return nil, errors.New(errors.PhaseDispatch, errors.KindNotFound).
			Detail("method %s#%s not registered", namespace, name).
			Build()
	}

	target, ok := d.registry.Get(identifier)
	if !ok {
		return nil, errors.NotFound(errors.PhaseDispatch, "instance", identifier)
	}

	return m.call(ctx, target, args)
}

func (m *method) call(ctx context.Context, target any, args []any) (any, error) {
	ft := m.fn.Type()
	if ft.NumIn() != 2+len(args) {
		return nil, errors.New(errors.PhaseDispatch, errors.KindInvalidInput).
			Detail("method takes %d arguments, got %d", ft.NumIn()-2, len(args)).
			Build()
	}

	in := make([]reflect.Value, 0, ft.NumIn())
	in = append(in, reflect.ValueOf(ctx))

	tv := reflect.ValueOf(target)
	if !tv.Type().AssignableTo(ft.In(1)) {
		return nil, errors.TypeMismatch(errors.PhaseDispatch, tv.Type().String(),
			fmt.Sprintf("instance is not a %s", ft.In(1)))
	}
	in = append(in, tv)

	for i, arg := range args {
		want := ft.In(2 + i)
		if arg == nil {
			in = append(in, reflect.Zero(want))
			continue
		}
		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(want) {
			return nil, errors.TypeMismatch(errors.PhaseDispatch, av.Type().String(),
				fmt.Sprintf("argument %d is not a %s", i, want))
		}
		in = append(in, av)
	}

	out := m.fn.Call(in)
	return splitResults(out)
}

// splitResults maps reflect call outputs onto (result, error). Supported
// shapes: none, error, result, (result, error).
func splitResults(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type().Implements(errType) {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	case 2:
		if !out[1].Type().Implements(errType) {
			return nil, errors.InvalidInput(errors.PhaseDispatch, "second return value must be error")
		}
		return out[0].Interface(), asError(out[1])
	default:
		return nil, errors.InvalidInput(errors.PhaseDispatch, "method returns more than two values")
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

// callable reports whether the function shape is (context.Context, target, ...).
func callable(ft reflect.Type) bool {
	return ft.NumIn() >= 2 && ft.In(0) == ctxType && ft.NumOut() <= 2
}

func key(namespace, name string) string {
	return namespace + "#" + name
}

// toKebabCase converts PascalCase method names to kebab-case channel
// names: LoadURL -> load-url, ScrollTo -> scroll-to.
func toKebabCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			startsWord := i > 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1])))
			if startsWord {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
