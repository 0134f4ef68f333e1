package mozilla

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

type fakeSDK struct {
	clientInitCode int

	clientInits []string
	inits       int
	sslInits    int
}

func (f *fakeSDK) sdk() SDK {
	return SDK{
		ClientInit: func(certDB string) int {
			f.clientInits = append(f.clientInits, certDB)
			return f.clientInitCode
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
			return fmt.Sprintf("netscape error %d", code)
		},
	}
}

func TestToolkit_Identity(t *testing.T) {
	tk := New(SDK{})
	assert.Equal(t, "mozilla", tk.Name())
	assert.Equal(t, "Netscape/Mozilla", tk.Vendor())
}

func TestInstallCA(t *testing.T) {
	t.Run("empty source needs no native call", func(t *testing.T) {
		fake := &fakeSDK{}
		tk := New(fake.sdk())

		res := &ldapboot.Result{}
		require.NoError(t, tk.InstallCA(context.Background(), "", ldapboot.CertUnspecified, res))

		assert.True(t, res.OK())
		assert.Empty(t, fake.clientInits)
	})

	t.Run("client init unavailable", func(t *testing.T) {
		fake := &fakeSDK{}
		sdk := fake.sdk()
		sdk.ClientInit = nil
		tk := New(sdk)

		res := &ldapboot.Result{}
		err := tk.InstallCA(context.Background(), "/cert7.db", ldapboot.CertCert7DB, res)

		require.Error(t, err)
		assert.True(t, ldapboot.IsGeneralFailure(err))
		assert.Equal(t, ldapboot.KindConfiguration, res.Kind)
		assert.Contains(t, res.Reason, "not supported by this Netscape SDK")
	})

	t.Run("wrong format rejected before any native call", func(t *testing.T) {
		for _, format := range []ldapboot.CertFormat{
			ldapboot.CertDER,
			ldapboot.CertBase64,
			ldapboot.CertUnspecified,
		} {
			fake := &fakeSDK{}
			tk := New(fake.sdk())

			res := &ldapboot.Result{}
			err := tk.InstallCA(context.Background(), "/ca.pem", format, res)

			require.Error(t, err, format.String())
			assert.Equal(t, ldapboot.KindConfiguration, res.Kind)
			assert.Contains(t, res.Reason, "CERT7_DB type required")
			assert.Empty(t, fake.clientInits)
		}
	})

	t.Run("certificate database installed", func(t *testing.T) {
		fake := &fakeSDK{}
		tk := New(fake.sdk())

		res := &ldapboot.Result{}
		require.NoError(t, tk.InstallCA(context.Background(), "/cert7.db", ldapboot.CertCert7DB, res))

		assert.True(t, res.OK())
		assert.Equal(t, []string{"/cert7.db"}, fake.clientInits)
	})

	t.Run("database initialization failure", func(t *testing.T) {
		fake := &fakeSDK{clientInitCode: 85}
		tk := New(fake.sdk())

		res := &ldapboot.Result{}
		err := tk.InstallCA(context.Background(), "/cert7.db", ldapboot.CertCert7DB, res)

		require.Error(t, err)
		assert.Equal(t, ldapboot.KindVendor, res.Kind)
		assert.Equal(t, 85, res.Code)
		assert.Contains(t, res.Reason, "could not initialize the certificate database /cert7.db")
	})
}

func TestOpen(t *testing.T) {
	fake := &fakeSDK{}
	tk := New(fake.sdk())

	conn, err := tk.Open(context.Background(), "ldap.example.com", 389)
	require.NoError(t, err)
	assert.NotNil(t, conn)
	assert.Equal(t, 1, fake.inits)
	assert.Zero(t, fake.sslInits)
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
	})
}
