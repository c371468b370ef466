package delegate

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirrorlink/bridge/errors"
	"github.com/mirrorlink/bridge/instance"
)

type webView struct {
	url       string
	scrollX   int
	scrollY   int
	loadErr   error
	loadCalls int
}

type webViewDelegate struct{}

func (d *webViewDelegate) Namespace() string { return "webview" }

func (d *webViewDelegate) LoadURL(ctx context.Context, wv *webView, url string) error {
	wv.loadCalls++
	if wv.loadErr != nil {
		return wv.loadErr
	}
	wv.url = url
	return nil
}

func (d *webViewDelegate) CurrentURL(ctx context.Context, wv *webView) string {
	return wv.url
}

func (d *webViewDelegate) ScrollTo(ctx context.Context, wv *webView, x, y int) {
	wv.scrollX, wv.scrollY = x, y
}

// NoContext has the wrong shape and must be skipped during registration.
func (d *webViewDelegate) NoContext(wv *webView) {}

func newTestDispatcher(t *testing.T) (*Dispatcher, *instance.Registry) {
	t.Helper()
	r := instance.Open(instance.FinalizationListenerFunc(func(int64) {}))
	t.Cleanup(r.Close)
	return NewDispatcher(r), r
}

func TestDispatcher_Invoke(t *testing.T) {
	d, r := newTestDispatcher(t)
	require.NoError(t, d.Register(&webViewDelegate{}))

	wv := &webView{}
	require.NoError(t, instance.AddGuestCreated(r, wv, 5))

	result, err := d.Invoke(context.Background(), "webview", "load-url", 5, "https://example.com")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, "https://example.com", wv.url)

	result, err = d.Invoke(context.Background(), "webview", "current-url", 5)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", result)

	_, err = d.Invoke(context.Background(), "webview", "scroll-to", 5, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 10, wv.scrollX)
	assert.Equal(t, 20, wv.scrollY)
}

func TestDispatcher_MethodErrorPropagates(t *testing.T) {
	d, r := newTestDispatcher(t)
	require.NoError(t, d.Register(&webViewDelegate{}))

	wantErr := stderrors.New("load refused")
	wv := &webView{loadErr: wantErr}
	require.NoError(t, instance.AddGuestCreated(r, wv, 5))

	result, err := d.Invoke(context.Background(), "webview", "load-url", 5, "https://example.com")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, wv.loadCalls)
}

func TestDispatcher_NegativeIdentifier(t *testing.T) {
	d, _ := newTestDispatcher(t)
	require.NoError(t, d.Register(&webViewDelegate{}))

	_, err := d.Invoke(context.Background(), "webview", "load-url", -1, "https://example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseProtocol, Kind: errors.KindNegativeIdentifier})
}

func TestDispatcher_UnknownMethod(t *testing.T) {
	d, r := newTestDispatcher(t)
	require.NoError(t, d.Register(&webViewDelegate{}))
	require.NoError(t, instance.AddGuestCreated(r, &webView{}, 5))

	_, err := d.Invoke(context.Background(), "webview", "no-such-method", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindNotFound})

	// NoContext lacks a context parameter and must not have been registered.
	_, err = d.Invoke(context.Background(), "webview", "no-context", 5)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindNotFound})
}

func TestDispatcher_MissingInstance(t *testing.T) {
	d, _ := newTestDispatcher(t)
	require.NoError(t, d.Register(&webViewDelegate{}))

	_, err := d.Invoke(context.Background(), "webview", "load-url", 5, "https://example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindNotFound})
}

func TestDispatcher_TargetTypeMismatch(t *testing.T) {
	d, r := newTestDispatcher(t)
	require.NoError(t, d.Register(&webViewDelegate{}))

	type textField struct{ text string }
	require.NoError(t, instance.AddGuestCreated(r, &textField{text: "hi"}, 5))

	_, err := d.Invoke(context.Background(), "webview", "load-url", 5, "https://example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindTypeMismatch})
}

func TestDispatcher_ArgumentMismatch(t *testing.T) {
	d, r := newTestDispatcher(t)
	require.NoError(t, d.Register(&webViewDelegate{}))
	require.NoError(t, instance.AddGuestCreated(r, &webView{}, 5))

	_, err := d.Invoke(context.Background(), "webview", "load-url", 5, 42)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindTypeMismatch})

	_, err = d.Invoke(context.Background(), "webview", "load-url", 5)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindInvalidInput})

	_, err = d.Invoke(context.Background(), "webview", "load-url", 5, "a", "b")
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindInvalidInput})
}

func TestDispatcher_RegisterFunc(t *testing.T) {
	d, r := newTestDispatcher(t)

	err := d.RegisterFunc("webview", "reload!", func(ctx context.Context, wv *webView) error {
		wv.loadCalls++
		return nil
	})
	require.NoError(t, err)

	wv := &webView{}
	require.NoError(t, instance.AddGuestCreated(r, wv, 5))

	_, err = d.Invoke(context.Background(), "webview", "reload!", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, wv.loadCalls)
}

func TestDispatcher_RegisterFunc_Validation(t *testing.T) {
	d, _ := newTestDispatcher(t)

	err := d.RegisterFunc("", "name", func(ctx context.Context, wv *webView) {})
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindInvalidInput})

	err = d.RegisterFunc("webview", "", func(ctx context.Context, wv *webView) {})
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindInvalidInput})

	err = d.RegisterFunc("webview", "bad", "not a func")
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindTypeMismatch})

	err = d.RegisterFunc("webview", "bad", func(wv *webView) {})
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindTypeMismatch})
}

func TestDispatcher_EmptyNamespace(t *testing.T) {
	d, _ := newTestDispatcher(t)

	err := d.Register(anonymousDelegate{})
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindInvalidInput})
}

type anonymousDelegate struct{}

func (anonymousDelegate) Namespace() string { return "" }

func TestToKebabCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"LoadURL", "load-url"},
		{"ScrollTo", "scroll-to"},
		{"Title", "title"},
		{"HTTPGet", "http-get"},
		{"GetHTTPStatus", "get-http-status"},
		{"A", "a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toKebabCase(tt.in), "toKebabCase(%q)", tt.in)
	}
}
