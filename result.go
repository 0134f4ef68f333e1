package ldapboot

// NativeSuccess is the result code vendor toolkits return for a
// successful native call (LDAP_SUCCESS).
const NativeSuccess = 0

// ResultKind tags what a Result describes. It replaces the legacy
// convention of overloading a result code of -1 to mean "no native call
// was made", which was ambiguous with a vendor genuinely returning -1.
type ResultKind int

const (
	// KindSuccess means the operation succeeded, either because the
	// native call returned success or because no native call was needed.
	KindSuccess ResultKind = iota

	// KindConfiguration means the request was rejected before any native
	// call was made: bad certificate format, missing capability, or
	// misuse of an unrecognized toolkit. Code is not meaningful.
	KindConfiguration

	// KindVendor means a native call was made and failed; Code holds the
	// vendor's result code.
	KindVendor
)

// String returns the kind as a short label.
func (k ResultKind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindConfiguration:
		return "configuration"
	case KindVendor:
		return "vendor"
	default:
		return "unknown"
	}
}

// Result is the per-call diagnostic record produced by every bootstrap
// operation. A fresh Result is allocated at the start of each operation,
// populated during it, and owned by the caller once the operation
// returns; it is never reused across calls.
type Result struct {
	// Kind tags how the operation concluded.
	Kind ResultKind

	// Code is the native vendor result code. It is meaningful only when
	// Kind is KindSuccess or KindVendor.
	Code int

	// Message is the vendor's human-readable decode of Code. It is
	// populated whenever a native call was made, even on success, and
	// absent for configuration errors.
	Message string

	// Reason is a caller-facing explanation set by this layer, distinct
	// from the vendor message. It names the missing capability or the
	// invalid input on failure paths.
	Reason string
}

// Succeed records a successful native result.
func (r *Result) Succeed(code int) {
	r.Kind = KindSuccess
	r.Code = code
}

// Configuration records a pre-dispatch rejection: no native call was
// made and reason explains why.
func (r *Result) Configuration(reason string) {
	r.Kind = KindConfiguration
	r.Code = 0
	r.Reason = reason
}

// Vendor records a failed native call.
func (r *Result) Vendor(code int, reason string) {
	r.Kind = KindVendor
	r.Code = code
	r.Reason = reason
}

// OK reports whether the Result describes a successful operation.
func (r *Result) OK() bool {
	return r.Kind == KindSuccess
}
