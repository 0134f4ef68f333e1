package novell

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/ldapboot"
)

type fakeConn struct{}

func (fakeConn) Unbind() error { return nil }

// fakeSDK is a full native surface with call counters and programmable
// return codes.
type fakeSDK struct {
	initCode   int
	deinitCode int
	addCode    int

	clientInits   int
	clientDeinits int
	adds          []struct {
		path     string
		filetype CertFileType
	}
	inits    int
	sslInits int
}

func (f *fakeSDK) sdk() SDK {
	return SDK{
		ClientInit: func() int {
			f.clientInits++
			return f.initCode
		},
		ClientDeinit: func() int {
			f.clientDeinits++
			return f.deinitCode
		},
		AddTrustedCert: func(path string, filetype CertFileType) int {
			f.adds = append(f.adds, struct {
				path     string
				filetype CertFileType
			}{path, filetype})
			return f.addCode
		},
		Init: func(host string, port int) ldapboot.Conn {
			f.inits++
			return fakeConn{}
		},
		SSLInit: func(host string, port int, secure int) ldapboot.Conn {
			f.sslInits++
			return fakeConn{}
		},
		Err2String: func(code int) string {
			return fmt.Sprintf("novell error %d", code)
		},
	}
}

func TestToolkit_Identity(t *testing.T) {
	tk := New(SDK{})
	assert.Equal(t, "novell", tk.Name())
	assert.Equal(t, "Novell", tk.Vendor())
}

func TestDecodeCode(t *testing.T) {
	tk := New((&fakeSDK{}).sdk())
	assert.Equal(t, "novell error 81", tk.DecodeCode(81))

	// Without a decoder the code is rendered numerically.
	bare := New(SDK{})
	assert.Equal(t, "result code 81", bare.DecodeCode(81))
}

func TestInstallCA_MissingFunctions(t *testing.T) {
	tests := []struct {
		name string
		sdk  func(SDK) SDK
	}{
		{
			name: "no client init",
			sdk:  func(s SDK) SDK { s.ClientInit = nil; return s },
		},
		{
			name: "no add trusted cert",
			sdk:  func(s SDK) SDK { s.AddTrustedCert = nil; return s },
		},
		{
			name: "no client deinit",
			sdk:  func(s SDK) SDK { s.ClientDeinit = nil; return s },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSDK{}
			tk := New(tt.sdk(fake.sdk()))

			res := &ldapboot.Result{}
			err := tk.InstallCA(context.Background(), "/ca.pem", ldapboot.CertDER, res)

			require.Error(t, err)
			assert.True(t, ldapboot.IsGeneralFailure(err))
			assert.Equal(t, ldapboot.KindConfiguration, res.Kind)
			assert.Contains(t, res.Reason, "not supported by this Novell SDK")

			// No native call was attempted.
			assert.Zero(t, fake.clientInits)
			assert.Empty(t, fake.adds)
		})
	}
}

func TestInstallCA_InvalidFormatBeforeAnyNativeCall(t *testing.T) {
	fake := &fakeSDK{}
	tk := New(fake.sdk())

	res := &ldapboot.Result{}
	err := tk.InstallCA(context.Background(), "/ca.db", ldapboot.CertCert7DB, res)

	require.Error(t, err)
	assert.Equal(t, ldapboot.KindConfiguration, res.Kind)
	assert.Contains(t, res.Reason, "DER or BASE64 type required")
	assert.Zero(t, fake.clientInits)
	assert.Empty(t, fake.adds)
}

func TestInstallCA_FiletypeMapping(t *testing.T) {
	tests := []struct {
		format ldapboot.CertFormat
		want   CertFileType
	}{
		{ldapboot.CertDER, CertFileTypeDER},
		{ldapboot.CertBase64, CertFileTypeB64},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			fake := &fakeSDK{}
			tk := New(fake.sdk())

			res := &ldapboot.Result{}
			require.NoError(t, tk.InstallCA(context.Background(), "/ca", tt.format, res))

			require.Len(t, fake.adds, 1)
			assert.Equal(t, "/ca", fake.adds[0].path)
			assert.Equal(t, tt.want, fake.adds[0].filetype)
		})
	}
}

func TestInstallCA_ClientInitFailure(t *testing.T) {
	fake := &fakeSDK{initCode: 81}
	tk := New(fake.sdk())

	res := &ldapboot.Result{}
	err := tk.InstallCA(context.Background(), "/ca.pem", ldapboot.CertBase64, res)

	require.Error(t, err)
	assert.Equal(t, ldapboot.KindVendor, res.Kind)
	assert.Equal(t, 81, res.Code)
	assert.Empty(t, fake.adds, "no cert install after failed SSL init")
	assert.Zero(t, fake.clientDeinits)
}

func TestInstallCA_AddFailureTearsDownExactlyOnce(t *testing.T) {
	fake := &fakeSDK{addCode: 34}
	tk := New(fake.sdk())

	res := &ldapboot.Result{}
	err := tk.InstallCA(context.Background(), "/bad.pem", ldapboot.CertBase64, res)

	require.Error(t, err)
	assert.Equal(t, ldapboot.KindVendor, res.Kind)
	assert.Equal(t, 34, res.Code)
	assert.Contains(t, res.Reason, "could not add trusted cert /bad.pem")
	assert.Equal(t, 1, fake.clientInits)
	assert.Equal(t, 1, fake.clientDeinits, "failed install undoes its own SSL init")
}

func TestInstallCA_AddFailureKeepsEarlierInit(t *testing.T) {
	fake := &fakeSDK{}
	tk := New(fake.sdk())

	// Global setup succeeds first.
	res := &ldapboot.Result{}
	require.NoError(t, tk.InstallCA(context.Background(), "", ldapboot.CertUnspecified, res))
	require.Equal(t, 1, fake.clientInits)

	// A later failed cert install must not tear down SSL state it did
	// not create.
	fake.addCode = 34
	res = &ldapboot.Result{}
	err := tk.InstallCA(context.Background(), "/bad.pem", ldapboot.CertBase64, res)

	require.Error(t, err)
	assert.Zero(t, fake.clientDeinits)
}

func TestInstallCA_InitOncePerLifetime(t *testing.T) {
	fake := &fakeSDK{}
	tk := New(fake.sdk())

	for _, source := range []string{"", "/ca1.pem", "/ca2.pem"} {
		res := &ldapboot.Result{}
		require.NoError(t, tk.InstallCA(context.Background(), source, ldapboot.CertBase64, res))
		assert.True(t, res.OK())
	}

	assert.Equal(t, 1, fake.clientInits, "SSL init happens once across calls")
	assert.Len(t, fake.adds, 2)
}

func TestTeardownCA(t *testing.T) {
	fake := &fakeSDK{}
	tk := New(fake.sdk())

	// Teardown without prior init is a no-op.
	tk.TeardownCA(context.Background())
	assert.Zero(t, fake.clientDeinits)

	res := &ldapboot.Result{}
	require.NoError(t, tk.InstallCA(context.Background(), "", ldapboot.CertUnspecified, res))

	tk.TeardownCA(context.Background())
	tk.TeardownCA(context.Background())
	assert.Equal(t, 1, fake.clientDeinits, "repeat teardown does not double-deinit")
}

func TestOpen(t *testing.T) {
	fake := &fakeSDK{}
	tk := New(fake.sdk())

	conn, err := tk.Open(context.Background(), "ldap.example.com", 389)
	require.NoError(t, err)
	assert.NotNil(t, conn)
	assert.Equal(t, 1, fake.inits)
	assert.Zero(t, fake.sslInits)

	bare := New(SDK{})
	_, err = bare.Open(context.Background(), "ldap.example.com", 389)
	require.Error(t, err)
	assert.True(t, ldapboot.IsNotImplemented(err))
}

func TestOpenSecure(t *testing.T) {
	t.Run("via ssl init", func(t *testing.T) {
		fake := &fakeSDK{}
		tk := New(fake.sdk())

		res := &ldapboot.Result{}
		conn, err := tk.OpenSecure(context.Background(), "ldap.example.com", 636, res)

		require.NoError(t, err)
		assert.NotNil(t, conn)
		assert.Equal(t, 1, fake.sslInits)
		assert.Zero(t, fake.inits)
	})

	t.Run("ssl init unavailable", func(t *testing.T) {
		fake := &fakeSDK{}
		sdk := fake.sdk()
		sdk.SSLInit = nil
		tk := New(sdk)

		res := &ldapboot.Result{}
		conn, err := tk.OpenSecure(context.Background(), "ldap.example.com", 636, res)

		require.Error(t, err)
		assert.True(t, ldapboot.IsNotImplemented(err))
		assert.Nil(t, conn)
		assert.Equal(t, ldapboot.KindConfiguration, res.Kind)
		assert.Contains(t, res.Reason, "SSL not yet supported")
	})
}
