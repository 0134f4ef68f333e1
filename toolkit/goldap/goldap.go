// Package goldap binds the bootstrap layer to go-ldap/v3, the pure-Go
// LDAP client library. The binding follows OpenLDAP semantics: trust
// material is BASE64 (PEM) only and feeds a toolkit-scoped trust
// context, and a secure connection is a plain connection upgraded with a
// fail-closed TLS option.
//
// Importing this package registers the binding; it becomes the active
// toolkit unless another binding was registered first.
package goldap

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-ldap/ldap/v3"

	"github.com/isometry/ldapboot"
)

func init() {
	ldapboot.Register(New())
}

// starttlsConn is the slice of the native connection surface the
// two-step secure open needs.
type starttlsConn interface {
	ldapboot.Conn
	StartTLS(*tls.Config) error
}

// Toolkit is the go-ldap binding.
//
// The trust context installed through InstallCA is shared by every
// secure connection subsequently opened through this binding, the
// analogue of a vendor SDK's process-wide SSL state. Callers must
// serialize InstallCA and TeardownCA calls against each other.
type Toolkit struct {
	cfg   *ldapboot.Config
	roots *x509.CertPool

	// Seams for the native surface, overridden in tests.
	dial        func(url string, timeout time.Duration) (starttlsConn, error)
	systemRoots func() (*x509.CertPool, error)
	readFile    func(name string) ([]byte, error)
}

// Option configures the binding.
type Option func(*Toolkit)

// WithConfig replaces the default connection settings.
func WithConfig(cfg *ldapboot.Config) Option {
	return func(t *Toolkit) {
		t.cfg = cfg
	}
}

// New creates a go-ldap toolkit binding.
func New(opts ...Option) *Toolkit {
	t := &Toolkit{
		cfg:         ldapboot.DefaultConfig(),
		systemRoots: x509.SystemCertPool,
		readFile:    os.ReadFile,
	}
	t.dial = t.dialLDAP

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Name implements ldapboot.Toolkit.
func (t *Toolkit) Name() string { return "goldap" }

// Vendor implements ldapboot.Toolkit.
func (t *Toolkit) Vendor() string { return "go-ldap/v3 (OpenLDAP-compatible)" }

// DecodeCode renders a native result code through go-ldap's result-code
// table.
func (t *Toolkit) DecodeCode(code int) string {
	if code < 0 {
		return ""
	}
	if msg, ok := ldap.LDAPResultCodeMap[uint16(code)]; ok {
		return msg
	}
	return fmt.Sprintf("unknown result code %d", code)
}

// InstallCA implements ldapboot.CAInstaller. An empty source initializes
// the trust context from the system roots; that step is idempotent
// across calls. A non-empty source must be a BASE64 (PEM) certificate
// file, which is appended to the trust context.
func (t *Toolkit) InstallCA(_ context.Context, source string, format ldapboot.CertFormat, res *ldapboot.Result) error {
	if source != "" && format != ldapboot.CertBase64 {
		res.Configuration("invalid certificate type: BASE64 type required")
		return fmt.Errorf("%w: %s", ldapboot.ErrGeneralFailure, res.Reason)
	}

	if t.roots == nil {
		pool, err := t.systemRoots()
		if err != nil {
			res.Vendor(int(ldap.LDAPResultLocalError), "could not initialize the TLS trust context")
			return fmt.Errorf("%w: initialize trust context: %v", ldapboot.ErrGeneralFailure, err)
		}
		if pool == nil {
			pool = x509.NewCertPool()
		}
		t.roots = pool
	}

	if source == "" {
		res.Succeed(ldapboot.NativeSuccess)
		return nil
	}

	pemData, err := t.readFile(source)
	if err != nil {
		res.Vendor(int(ldap.LDAPResultLocalError),
			fmt.Sprintf("invalid certificate or path: could not read %s", source))
		return fmt.Errorf("%w: read certificate authority file: %v", ldapboot.ErrGeneralFailure, err)
	}

	if !t.roots.AppendCertsFromPEM(pemData) {
		res.Vendor(int(ldap.LDAPResultDecodingError),
			fmt.Sprintf("invalid certificate or path: could not add trusted cert %s", source))
		return fmt.Errorf("%w: %s", ldapboot.ErrGeneralFailure, res.Reason)
	}

	res.Succeed(ldapboot.NativeSuccess)
	return nil
}

// TeardownCA implements ldapboot.CADeinitializer by discarding the trust
// context. The next InstallCA call rebuilds it.
func (t *Toolkit) TeardownCA(_ context.Context) {
	t.roots = nil
}

// Open implements ldapboot.Toolkit: a plaintext connection with no TLS
// involvement of any kind.
func (t *Toolkit) Open(_ context.Context, host string, port int) (ldapboot.Conn, error) {
	conn, err := t.dial(plainURL(host, port), t.cfg.DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("open %s:%d: %w", host, port, err)
	}
	return conn, nil
}

// OpenSecure implements ldapboot.SecureOpener: a plain connection
// upgraded in place with a hard-TLS option. If the upgrade fails the
// half-open connection is unbound before returning and the handle is
// nil.
func (t *Toolkit) OpenSecure(_ context.Context, host string, port int, res *ldapboot.Result) (ldapboot.Conn, error) {
	conn, err := t.dial(plainURL(host, port), t.cfg.DialTimeout)
	if err != nil {
		res.Vendor(codeOf(err), fmt.Sprintf("could not open connection to %s:%d", host, port))
		res.Message = t.DecodeCode(res.Code)
		return nil, fmt.Errorf("open %s:%d: %w", host, port, err)
	}

	if err := conn.StartTLS(t.tlsConfig(host)); err != nil {
		// Never leak a partially configured connection.
		_ = conn.Unbind()
		res.Vendor(codeOf(err), "hard TLS negotiation failed")
		res.Message = t.DecodeCode(res.Code)
		return nil, fmt.Errorf("start tls on %s:%d: %w", host, port, err)
	}

	res.Succeed(ldapboot.NativeSuccess)
	return conn, nil
}

// Unwrap recovers the underlying go-ldap connection from a handle opened
// through this binding, for callers that need the full client API.
func Unwrap(c ldapboot.Conn) (*ldap.Conn, bool) {
	raw, ok := c.(*ldap.Conn)
	return raw, ok
}

// tlsConfig builds the fail-closed TLS settings for the upgrade: server
// verification is always on and the trust context installed through
// InstallCA (or the system roots when none was installed) is
// authoritative.
func (t *Toolkit) tlsConfig(host string) *tls.Config {
	return &tls.Config{
		ServerName: host,
		RootCAs:    t.roots,
		MinVersion: t.cfg.TLSMinVersion,
	}
}

// dialLDAP is the production dial seam over ldap.DialURL.
func (t *Toolkit) dialLDAP(url string, timeout time.Duration) (starttlsConn, error) {
	conn, err := ldap.DialURL(url, ldap.DialWithDialer(&net.Dialer{Timeout: timeout}))
	if err != nil {
		return nil, err
	}
	if t.cfg.OperationTimeout > 0 {
		conn.SetTimeout(t.cfg.OperationTimeout)
	}
	return conn, nil
}

func plainURL(host string, port int) string {
	return "ldap://" + net.JoinHostPort(host, strconv.Itoa(port))
}

func codeOf(err error) int {
	var lerr *ldap.Error
	if errors.As(err, &lerr) {
		return int(lerr.ResultCode)
	}
	return int(ldap.LDAPResultConnectError)
}
