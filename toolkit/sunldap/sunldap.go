// Package sunldap binds the bootstrap layer to the Sun (Solaris) LDAP
// SDK. The binding knows how to open plaintext connections only: there
// is no known way to configure a certificate store on this toolkit, and
// secure connections are not implemented, so the dispatcher reports
// those capabilities as configuration errors and not-implemented
// respectively.
//
// This binding has never been validated against a live Sun toolkit;
// treat its capability mapping as best-effort against vendor
// documentation.
package sunldap

import (
	"context"
	"fmt"

	"github.com/isometry/ldapboot"
)

// SDK is the native surface this binding drives. A nil field means the
// function is unavailable in the linked SDK version.
type SDK struct {
	// Init opens a plaintext connection (ldap_init). A nil return means
	// the native call failed.
	Init func(host string, port int) ldapboot.Conn

	// Err2String decodes a native result code (ldap_err2string).
	Err2String func(code int) string
}

// Toolkit is the Sun binding.
type Toolkit struct {
	sdk SDK
}

// New creates a Sun toolkit binding over the given SDK surface.
func New(sdk SDK) *Toolkit {
	return &Toolkit{sdk: sdk}
}

// Name implements ldapboot.Toolkit.
func (t *Toolkit) Name() string { return "sunldap" }

// Vendor implements ldapboot.Toolkit.
func (t *Toolkit) Vendor() string { return "Sun" }

// DecodeCode implements ldapboot.Toolkit.
func (t *Toolkit) DecodeCode(code int) string {
	if t.sdk.Err2String != nil {
		return t.sdk.Err2String(code)
	}
	return fmt.Sprintf("result code %d", code)
}

// InstallCA implements ldapboot.CAInstaller. There is no known way to
// set a certificate store on the Sun toolkit, so any certificate source
// is a configuration error; an empty source is accepted since the
// toolkit needs no explicit setup.
func (t *Toolkit) InstallCA(_ context.Context, source string, _ ldapboot.CertFormat, res *ldapboot.Result) error {
	if source != "" {
		res.Configuration("attempt to set certificate store failed: " +
			"certificate stores cannot be configured on the Sun toolkit")
		return fmt.Errorf("%w: %s", ldapboot.ErrGeneralFailure, res.Reason)
	}

	res.Succeed(ldapboot.NativeSuccess)
	return nil
}

// Open implements ldapboot.Toolkit.
func (t *Toolkit) Open(_ context.Context, host string, port int) (ldapboot.Conn, error) {
	if t.sdk.Init == nil {
		return nil, fmt.Errorf("%w: ldap_init not available in this Sun SDK", ldapboot.ErrNotImplemented)
	}
	return t.sdk.Init(host, port), nil
}
