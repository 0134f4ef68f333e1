// Package novell binds the bootstrap layer to the Novell (eDirectory)
// LDAP SDK. The SDK accepts DER and BASE64 trust material, requires a
// global SSL initialisation step before certificates can be installed,
// and has a matching teardown step.
//
// The native surface is supplied by the caller as an SDK value; in a
// production build its fields resolve to the vendor's functions. This
// binding has never been validated against a live Novell toolkit; treat
// its capability mapping as best-effort against vendor documentation.
package novell

import (
	"context"
	"fmt"

	"github.com/isometry/ldapboot"
)

// CertFileType selects the on-disk encoding passed to the SDK's
// add-trusted-cert call.
type CertFileType int

const (
	CertFileTypeB64 CertFileType = 1
	CertFileTypeDER CertFileType = 2
)

// The SDK opens connections in fail-closed mode only.
const failClosed = 1

// SDK is the native surface this binding drives. A nil field means the
// function is unavailable in the linked SDK version.
type SDK struct {
	// ClientInit performs the toolkit-global SSL initialisation
	// (ldapssl_client_init).
	ClientInit func() int

	// ClientDeinit tears down the global SSL state
	// (ldapssl_client_deinit).
	ClientDeinit func() int

	// AddTrustedCert installs one certificate authority file
	// (ldapssl_add_trusted_cert).
	AddTrustedCert func(path string, filetype CertFileType) int

	// Init opens a plaintext connection (ldap_init). A nil return means
	// the native call failed.
	Init func(host string, port int) ldapboot.Conn

	// SSLInit opens a secure connection (ldapssl_init).
	SSLInit func(host string, port int, secure int) ldapboot.Conn

	// Err2String decodes a native result code (ldap_err2string).
	Err2String func(code int) string
}

// Toolkit is the Novell binding. The SDK's SSL state is process-wide;
// callers must serialize InstallCA and TeardownCA calls.
type Toolkit struct {
	sdk SDK

	// inited tracks whether the global SSL initialisation has been
	// performed and not torn down, so repeat InstallCA calls do not
	// re-initialise.
	inited bool
}

// New creates a Novell toolkit binding over the given SDK surface.
func New(sdk SDK) *Toolkit {
	return &Toolkit{sdk: sdk}
}

// Name implements ldapboot.Toolkit.
func (t *Toolkit) Name() string { return "novell" }

// Vendor implements ldapboot.Toolkit.
func (t *Toolkit) Vendor() string { return "Novell" }

// DecodeCode implements ldapboot.Toolkit.
func (t *Toolkit) DecodeCode(code int) string {
	if t.sdk.Err2String != nil {
		return t.sdk.Err2String(code)
	}
	return fmt.Sprintf("result code %d", code)
}

// InstallCA implements ldapboot.CAInstaller. The SDK's global SSL state
// is initialised on the first call; if installing a certificate fails in
// the same call that performed the initialisation, the initialisation is
// undone before returning so the toolkit is never left half-initialized.
func (t *Toolkit) InstallCA(_ context.Context, source string, format ldapboot.CertFormat, res *ldapboot.Result) error {
	if t.sdk.ClientInit == nil || t.sdk.AddTrustedCert == nil || t.sdk.ClientDeinit == nil {
		res.Configuration("ldapssl_client_init(), ldapssl_add_trusted_cert() or " +
			"ldapssl_client_deinit() not supported by this Novell SDK; " +
			"certificate authority file not set")
		return fmt.Errorf("%w: %s", ldapboot.ErrGeneralFailure, res.Reason)
	}

	// Reject unsupported formats before any native call.
	var filetype CertFileType
	if source != "" {
		switch format {
		case ldapboot.CertDER:
			filetype = CertFileTypeDER
		case ldapboot.CertBase64:
			filetype = CertFileTypeB64
		default:
			res.Configuration("invalid certificate type: DER or BASE64 type required")
			return fmt.Errorf("%w: %s", ldapboot.ErrGeneralFailure, res.Reason)
		}
	}

	initedHere := false
	if !t.inited {
		if code := t.sdk.ClientInit(); code != ldapboot.NativeSuccess {
			res.Vendor(code, "could not initialize SSL")
			return fmt.Errorf("%w: %s", ldapboot.ErrGeneralFailure, res.Reason)
		}
		t.inited = true
		initedHere = true
	}

	if source == "" {
		res.Succeed(ldapboot.NativeSuccess)
		return nil
	}

	if code := t.sdk.AddTrustedCert(source, filetype); code != ldapboot.NativeSuccess {
		if initedHere {
			t.sdk.ClientDeinit()
			t.inited = false
		}
		res.Vendor(code, fmt.Sprintf("invalid certificate or path: could not add trusted cert %s", source))
		return fmt.Errorf("%w: %s", ldapboot.ErrGeneralFailure, res.Reason)
	}

	res.Succeed(ldapboot.NativeSuccess)
	return nil
}

// TeardownCA implements ldapboot.CADeinitializer.
func (t *Toolkit) TeardownCA(_ context.Context) {
	if t.sdk.ClientDeinit != nil && t.inited {
		t.sdk.ClientDeinit()
		t.inited = false
	}
}

// Open implements ldapboot.Toolkit.
func (t *Toolkit) Open(_ context.Context, host string, port int) (ldapboot.Conn, error) {
	if t.sdk.Init == nil {
		return nil, fmt.Errorf("%w: ldap_init not available in this Novell SDK", ldapboot.ErrNotImplemented)
	}
	return t.sdk.Init(host, port), nil
}

// OpenSecure implements ldapboot.SecureOpener through the SDK's
// dedicated one-call secure-init primitive.
func (t *Toolkit) OpenSecure(_ context.Context, host string, port int, res *ldapboot.Result) (ldapboot.Conn, error) {
	if t.sdk.SSLInit == nil {
		res.Configuration("SSL not yet supported on this version of the Novell toolkit")
		return nil, fmt.Errorf("%w: %s", ldapboot.ErrNotImplemented, res.Reason)
	}
	return t.sdk.SSLInit(host, port, failClosed), nil
}
