package ldapboot

import "context"

// Conn is an opaque handle to a native directory connection. It is
// created by a toolkit, owned by the caller after a successful open, and
// guaranteed to be nil on any failure path.
type Conn interface {
	// Unbind releases the underlying native connection.
	Unbind() error
}

// Toolkit is the surface every vendor binding must provide: plaintext
// connection establishment, native result-code decoding, and
// identification. Optional capabilities are expressed as the additional
// interfaces below; the Bootstrap dispatcher discovers them with type
// assertions, so a binding that lacks a capability simply does not
// implement the interface.
type Toolkit interface {
	// Name is the short registry name of the binding, e.g. "goldap".
	Name() string

	// Vendor is a human-readable description of the SDK this binding
	// wraps, suitable for DescribeToolkit output.
	Vendor() string

	// DecodeCode renders a native result code as the vendor's
	// human-readable message.
	DecodeCode(code int) string

	// Open establishes a plaintext connection. A nil Conn with a nil
	// error means the native call failed without yielding an error
	// record; the dispatcher maps that to a failure status.
	Open(ctx context.Context, host string, port int) (Conn, error)
}

// CAInstaller is implemented by toolkits that support installing
// certificate authority trust material. InstallCA must validate the
// certificate format before making any native call, populate res, and
// return a non-nil error on any failure.
//
// An empty source means toolkit-global SSL setup only; toolkits whose
// global setup is a distinct one-time step must make it idempotent
// across calls.
type CAInstaller interface {
	InstallCA(ctx context.Context, source string, format CertFormat, res *Result) error
}

// CADeinitializer is implemented by toolkits whose SSL setup has a
// native teardown step. Teardown is best-effort; failures are not
// reported at this layer.
type CADeinitializer interface {
	TeardownCA(ctx context.Context)
}

// SecureOpener is implemented by toolkits that can establish a secure
// connection, whether through a dedicated one-call secure-init primitive
// or by upgrading a plain connection with a hard-TLS option. On failure
// the returned Conn must be nil and no half-configured native connection
// may be left open.
type SecureOpener interface {
	OpenSecure(ctx context.Context, host string, port int, res *Result) (Conn, error)
}
