// Package winldap binds the bootstrap layer to the Microsoft LDAP SDK
// (wldap32). Trust material lives in the system registry certificate
// store, so installing a certificate authority is always a no-op
// success; secure connections use the SDK's dedicated secure-init
// primitive.
//
// The native surface is supplied by the caller as an SDK value; in a
// production build its fields resolve to the vendor's functions.
package winldap

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
	// Init opens a plaintext connection (ldap_init). A nil return means
	// the native call failed.
	Init func(host string, port int) ldapboot.Conn

	// SSLInit opens a secure connection (ldap_sslinit).
	SSLInit func(host string, port int, secure int) ldapboot.Conn

	// Err2String decodes a native result code (ldap_err2string).
	Err2String func(code int) string
}

// Toolkit is the Microsoft binding.
type Toolkit struct {
	sdk SDK
}

// New creates a Microsoft toolkit binding over the given SDK surface.
func New(sdk SDK) *Toolkit {
	return &Toolkit{sdk: sdk}
}

// Name implements ldapboot.Toolkit.
func (t *Toolkit) Name() string { return "winldap" }

// Vendor implements ldapboot.Toolkit.
func (t *Toolkit) Vendor() string { return "Microsoft" }

// DecodeCode implements ldapboot.Toolkit.
func (t *Toolkit) DecodeCode(code int) string {
	if t.sdk.Err2String != nil {
		return t.sdk.Err2String(code)
	}
	return fmt.Sprintf("result code %d", code)
}

// InstallCA implements ldapboot.CAInstaller. The SDK takes its trust
// from the registry certificate store, so there is nothing to install
// and nothing that can fail; the source and format are ignored.
func (t *Toolkit) InstallCA(_ context.Context, _ string, _ ldapboot.CertFormat, res *ldapboot.Result) error {
	res.Succeed(ldapboot.NativeSuccess)
	return nil
}

// Open implements ldapboot.Toolkit.
func (t *Toolkit) Open(_ context.Context, host string, port int) (ldapboot.Conn, error) {
	if t.sdk.Init == nil {
		return nil, fmt.Errorf("%w: ldap_init not available in this Microsoft SDK", ldapboot.ErrNotImplemented)
	}
	return t.sdk.Init(host, port), nil
}

// OpenSecure implements ldapboot.SecureOpener through the SDK's
// dedicated one-call secure-init primitive.
func (t *Toolkit) OpenSecure(_ context.Context, host string, port int, res *ldapboot.Result) (ldapboot.Conn, error) {
	if t.sdk.SSLInit == nil {
		res.Configuration("SSL not yet supported on this version of the Microsoft toolkit")
		return nil, fmt.Errorf("%w: %s", ldapboot.ErrNotImplemented, res.Reason)
	}
	return t.sdk.SSLInit(host, port, failClosed), nil
}
