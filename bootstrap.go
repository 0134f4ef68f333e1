package ldapboot

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Bootstrap dispatches the toolkit-independent bootstrap operations to
// one toolkit binding. It holds no mutable state of its own; any global
// SSL context belongs to the underlying vendor SDK, and callers must
// serialize InstallCA/TeardownCA calls accordingly.
type Bootstrap struct {
	tk Toolkit
}

// Option configures a Bootstrap.
type Option func(*Bootstrap)

// WithToolkit selects an explicit toolkit binding instead of the
// registry's active one.
func WithToolkit(tk Toolkit) Option {
	return func(b *Bootstrap) {
		b.tk = tk
	}
}

// New creates a Bootstrap over the active toolkit binding, or over the
// binding selected by options.
func New(ctx context.Context, opts ...Option) (*Bootstrap, error) {
	b := &Bootstrap{}
	for _, opt := range opts {
		opt(b)
	}

	if b.tk == nil {
		tk, err := Active()
		if err != nil {
			return nil, err
		}
		b.tk = tk
	}

	tflog.SubsystemDebug(ctx, Subsystem, "Bootstrap created", map[string]any{
		"toolkit": b.tk.Name(),
		"vendor":  b.tk.Vendor(),
	})

	return b, nil
}

// Toolkit returns the binding this Bootstrap dispatches to.
func (b *Bootstrap) Toolkit() Toolkit {
	return b.tk
}

// InstallCA installs certificate authority trust material into the
// active toolkit. An empty source performs toolkit-global SSL setup
// only; the recommended pattern is one empty-source call followed by one
// call per certificate, though the legacy single-call pattern also
// works.
//
// Unsupported formats and missing capabilities are rejected before any
// native call, yielding a configuration Result. If a native call was
// made, the returned Result carries the vendor's decode of its code even
// on success. Callers must serialize InstallCA calls; see the package
// documentation.
func (b *Bootstrap) InstallCA(ctx context.Context, source string, format CertFormat) (*Result, error) {
	res := &Result{}

	err := LogOperation(ctx, "install_ca", map[string]any{
		"toolkit":     b.tk.Name(),
		"cert_source": source,
		"cert_format": format.String(),
	}, func() error {
		inst, ok := b.tk.(CAInstaller)
		if !ok {
			if source == "" {
				// The toolkit needs no explicit CA setup.
				res.Succeed(NativeSuccess)
				return nil
			}
			res.Configuration(fmt.Sprintf(
				"attempt to set certificate store failed: the %s toolkit has no certificate authority support",
				b.tk.Name()))
			return fmt.Errorf("%w: %s", ErrGeneralFailure, res.Reason)
		}

		return inst.InstallCA(ctx, source, format, res)
	})

	// Decode the native code into the vendor message whenever a native
	// result is present, even on success.
	if res.Kind != KindConfiguration && res.Message == "" {
		res.Message = b.tk.DecodeCode(res.Code)
	}

	LogResult(ctx, "install_ca", res, map[string]any{"toolkit": b.tk.Name()})
	return res, err
}

// TeardownCA tears down any SSL setup previously established through
// InstallCA, on toolkits that have a native teardown step. It is
// best-effort and always succeeds at this layer.
func (b *Bootstrap) TeardownCA(ctx context.Context) error {
	if d, ok := b.tk.(CADeinitializer); ok {
		tflog.SubsystemDebug(ctx, Subsystem, "Tearing down CA setup", map[string]any{
			"toolkit": b.tk.Name(),
		})
		d.TeardownCA(ctx)
	}
	return nil
}

// Open establishes a connection to host:port, in plaintext or secure
// mode. Any certificate setup must already have been done via InstallCA.
//
// On success the returned Conn is non-nil and owned by the caller. On
// failure the Conn is always nil and the error classifies as general
// failure, not-implemented (secure mode on a toolkit without the
// capability), or an OS-level error; see StatusOf.
func (b *Bootstrap) Open(ctx context.Context, host string, port int, secure bool) (Conn, *Result, error) {
	res := &Result{}
	var conn Conn

	err := LogOperation(ctx, "open_connection", map[string]any{
		"toolkit": b.tk.Name(),
		"host":    host,
		"port":    port,
		"secure":  secure,
	}, func() error {
		if !secure {
			c, err := b.tk.Open(ctx, host, port)
			conn = c
			return checkHandle(conn, err)
		}

		so, ok := b.tk.(SecureOpener)
		if !ok {
			res.Configuration(fmt.Sprintf(
				"secure connections are not supported by the %s toolkit", b.tk.Name()))
			return fmt.Errorf("%w: %s", ErrNotImplemented, res.Reason)
		}

		c, err := so.OpenSecure(ctx, host, port, res)
		conn = c
		return checkHandle(conn, err)
	})

	if err != nil {
		// Never hand back a half-initialized handle.
		conn = nil
		if res.Reason == "" {
			res.Reason = err.Error()
		}
	}

	return conn, res, err
}

// OpenURL parses an ldap:// or ldaps:// URL and opens a connection to
// it, secure when the scheme is ldaps.
func (b *Bootstrap) OpenURL(ctx context.Context, rawURL string) (Conn, *Result, error) {
	server, err := ParseLDAPURL(rawURL)
	if err != nil {
		res := &Result{}
		res.Configuration(fmt.Sprintf("invalid LDAP URL %q: %v", rawURL, err))
		return nil, res, fmt.Errorf("%w: %s", ErrGeneralFailure, res.Reason)
	}

	return b.Open(ctx, server.Host, server.Port, server.UseTLS)
}

// Describe reports which toolkit this build is linked against. The
// description is placed in the Result's Reason; Describe never fails.
func (b *Bootstrap) Describe(ctx context.Context) *Result {
	res := &Result{}
	res.Succeed(NativeSuccess)
	res.Reason = fmt.Sprintf("LDAP bootstrap: built with the %s LDAP SDK", b.tk.Vendor())

	tflog.SubsystemDebug(ctx, Subsystem, "Toolkit described", map[string]any{
		"toolkit": b.tk.Name(),
		"vendor":  b.tk.Vendor(),
	})

	return res
}

// checkHandle maps a nil connection handle into a failure. Some toolkit
// SDKs signal failure only through an unset handle; the resulting error
// classifies through StatusOf like any other.
func checkHandle(conn Conn, err error) error {
	if err != nil {
		return err
	}
	if conn == nil {
		return fmt.Errorf("%w: the toolkit returned no connection", ErrGeneralFailure)
	}
	return nil
}
