// Package mozilla binds the bootstrap layer to the Netscape/Mozilla
// LDAP SDK. The SDK trusts only a cert7.db certificate database and
// opens secure connections through a dedicated secure-init primitive.
//
// The native surface is supplied by the caller as an SDK value; in a
// production build its fields resolve to the vendor's functions. This
// binding has never been validated against a live Netscape toolkit;
// treat its capability mapping as best-effort against vendor
// documentation.
package mozilla

import (
	"context"
	"fmt"

	"github.com/isometry/ldapboot"
)

// The SDK opens connections in fail-closed mode only.
const failClosed = 1

// SDK is the native surface this binding drives. A nil field means the
// function is unavailable in the linked SDK version.
type SDK struct {
	// ClientInit initialises SSL from a cert7.db certificate database
	// (ldapssl_client_init).
	ClientInit func(certDB string) int

	// Init opens a plaintext connection (ldap_init). A nil return means
	// the native call failed.
	Init func(host string, port int) ldapboot.Conn

	// SSLInit opens a secure connection (ldapssl_init).
	SSLInit func(host string, port int, secure int) ldapboot.Conn

	// Err2String decodes a native result code (ldap_err2string).
	Err2String func(code int) string
}

// Toolkit is the Netscape/Mozilla binding. The SDK's SSL state is
// process-wide; callers must serialize InstallCA calls.
type Toolkit struct {
	sdk SDK
}

// New creates a Netscape/Mozilla toolkit binding over the given SDK
// surface.
func New(sdk SDK) *Toolkit {
	return &Toolkit{sdk: sdk}
}

// Name implements ldapboot.Toolkit.
func (t *Toolkit) Name() string { return "mozilla" }

// Vendor implements ldapboot.Toolkit.
func (t *Toolkit) Vendor() string { return "Netscape/Mozilla" }

// DecodeCode implements ldapboot.Toolkit.
func (t *Toolkit) DecodeCode(code int) string {
	if t.sdk.Err2String != nil {
		return t.sdk.Err2String(code)
	}
	return fmt.Sprintf("result code %d", code)
}

// InstallCA implements ldapboot.CAInstaller. The SDK accepts only a
// cert7.db database; an empty source is accepted without any native
// call, since the SDK has no separate global setup step.
func (t *Toolkit) InstallCA(_ context.Context, source string, format ldapboot.CertFormat, res *ldapboot.Result) error {
	if source == "" {
		res.Succeed(ldapboot.NativeSuccess)
		return nil
	}

	if t.sdk.ClientInit == nil {
		res.Configuration("ldapssl_client_init() not supported by this Netscape SDK; " +
			"certificate authority file not set")
		return fmt.Errorf("%w: %s", ldapboot.ErrGeneralFailure, res.Reason)
	}

	if format != ldapboot.CertCert7DB {
		res.Configuration("invalid certificate type: CERT7_DB type required")
		return fmt.Errorf("%w: %s", ldapboot.ErrGeneralFailure, res.Reason)
	}

	if code := t.sdk.ClientInit(source); code != ldapboot.NativeSuccess {
		res.Vendor(code, fmt.Sprintf("could not initialize the certificate database %s", source))
		return fmt.Errorf("%w: %s", ldapboot.ErrGeneralFailure, res.Reason)
	}

	res.Succeed(ldapboot.NativeSuccess)
	return nil
}

// Open implements ldapboot.Toolkit.
func (t *Toolkit) Open(_ context.Context, host string, port int) (ldapboot.Conn, error) {
	if t.sdk.Init == nil {
		return nil, fmt.Errorf("%w: ldap_init not available in this Netscape SDK", ldapboot.ErrNotImplemented)
	}
	return t.sdk.Init(host, port), nil
}

// OpenSecure implements ldapboot.SecureOpener through the SDK's
// dedicated one-call secure-init primitive.
func (t *Toolkit) OpenSecure(_ context.Context, host string, port int, res *ldapboot.Result) (ldapboot.Conn, error) {
	if t.sdk.SSLInit == nil {
		res.Configuration("SSL not yet supported on this version of the Netscape toolkit")
		return nil, fmt.Errorf("%w: %s", ldapboot.ErrNotImplemented, res.Reason)
	}
	return t.sdk.SSLInit(host, port, failClosed), nil
}
