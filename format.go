package ldapboot

import "fmt"

// CertFormat identifies the encoding of certificate authority trust
// material passed to InstallCA. Each vendor toolkit accepts only a
// subset of formats; supplying an unsupported format is a configuration
// error detected before any native call.
type CertFormat int

const (
	// CertUnspecified means no explicit format: either no certificate
	// source is supplied (toolkit-global setup only) or the toolkit
	// manages trust through an external store such as a system registry.
	CertUnspecified CertFormat = iota

	// CertDER is a binary DER-encoded certificate file.
	CertDER

	// CertBase64 is a PEM-style base64-encoded certificate file.
	CertBase64

	// CertCert7DB is a legacy cert7.db certificate database container.
	CertCert7DB
)

// String returns the conventional name of the format.
func (f CertFormat) String() string {
	switch f {
	case CertUnspecified:
		return "UNSPECIFIED"
	case CertDER:
		return "DER"
	case CertBase64:
		return "BASE64"
	case CertCert7DB:
		return "CERT7_DB"
	default:
		return fmt.Sprintf("CertFormat(%d)", int(f))
	}
}

// ParseCertFormat converts a configuration string into a CertFormat.
// Matching is exact on the conventional names; the empty string maps to
// CertUnspecified.
func ParseCertFormat(s string) (CertFormat, error) {
	switch s {
	case "", "UNSPECIFIED":
		return CertUnspecified, nil
	case "DER":
		return CertDER, nil
	case "BASE64", "PEM":
		return CertBase64, nil
	case "CERT7_DB":
		return CertCert7DB, nil
	default:
		return CertUnspecified, fmt.Errorf("unknown certificate format %q", s)
	}
}
