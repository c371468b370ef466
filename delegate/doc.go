// Package delegate provides the registration and dispatch plumbing shared
// by the bridge's per-call forwarding adapters.
//
// A forwarding adapter is a struct whose methods each turn one
// cross-runtime invocation into one native call:
//
//	type WebViewDelegate struct{}
//
//	func (d *WebViewDelegate) Namespace() string { return "webview" }
//
//	func (d *WebViewDelegate) LoadURL(ctx context.Context, wv *WebView, url string) error {
//	    return wv.Load(url)
//	}
//
// Registering the delegate exposes "webview#load-url". An incoming call
// carries the namespace, method name, the target's identifier and the
// decoded arguments:
//
//	result, err := dispatcher.Invoke(ctx, "webview", "load-url", 65536, "https://example.com")
//
// The dispatcher resolves the identifier through the instance registry's
// weak slot, so a call addressing a collected or removed instance fails
// with a structured not_found error, and a negative identifier is rejected
// as a protocol violation before any lookup happens.
//
// The wire transport and argument codec live outside this package; Invoke
// accepts already-decoded values.
package delegate
