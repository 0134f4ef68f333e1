/*
Package ldapboot provides toolkit-independent bootstrap of LDAP client
connections: certificate authority installation, plaintext and secure
connection establishment, and identification of the toolkit a build is
linked against.

Vendor LDAP toolkits disagree on almost everything that matters during
bootstrap: which certificate formats they accept, whether SSL requires a
one-time global initialisation step, and whether a secure connection is
opened with a dedicated call or by upgrading a plain connection with a
hard-TLS option. This package hides that divergence behind one contract
and degrades predictably when the linked toolkit lacks a capability.

# Architecture Overview

The package is organized around a small capability model:

  - Toolkit: the required surface every vendor binding provides
    (plain connection open, result-code decoding, identification)
  - CAInstaller / CADeinitializer: optional trust-store capabilities
  - SecureOpener: optional secure connection establishment
  - Bootstrap: the dispatcher implementing InstallCA, TeardownCA,
    Open and Describe over the active toolkit

Vendor bindings live under toolkit/ and register themselves on import,
so linking a binding into a build selects it much like the original
compile-time toolkit selection:

  - toolkit/goldap: production binding over go-ldap/v3 (OpenLDAP
    semantics: BASE64 trust material, plain open upgraded with a
    fail-closed TLS option)
  - toolkit/novell, toolkit/mozilla, toolkit/winldap, toolkit/sunldap:
    bindings over native SDK surfaces supplied by the caller

# Results and Statuses

Every operation produces a fresh Result record describing what happened:
whether a native call was made, the native result code, the vendor's
decode of that code, and a caller-facing reason. The operation's error
return carries the status; StatusOf classifies it as success, general
failure, not-implemented, or an OS-level error.

# Certificate Authority Installation

Multiple InstallCA calls are legal. The recommended pattern is one call
with an empty source (toolkit-global SSL setup) followed by one call per
certificate; the legacy single-call pattern (setup and certificate
together) also works. Unsupported certificate formats are rejected
before any native call is made.

# Thread Safety

Several vendor toolkits keep a process-wide SSL context that InstallCA
and TeardownCA mutate. This package does not lock around that state
because it cannot observe the vendor's own locking; callers must
serialize CA installation and teardown calls. Results and connection
handles are exclusively owned by the caller once a call returns.

# Example Usage

	import (
		"github.com/isometry/ldapboot"
		_ "github.com/isometry/ldapboot/toolkit/goldap"
	)

	boot, err := ldapboot.New(ctx)
	if err != nil {
		return err
	}

	// Toolkit-global SSL setup once, then one call per certificate.
	if _, err := boot.InstallCA(ctx, "", ldapboot.CertUnspecified); err != nil {
		return err
	}
	if _, err := boot.InstallCA(ctx, "/etc/ssl/ca.pem", ldapboot.CertBase64); err != nil {
		return err
	}

	conn, _, err := boot.Open(ctx, "ldap.example.com", 636, true)
	if err != nil {
		return err
	}
	defer conn.Unbind()
*/
package ldapboot
