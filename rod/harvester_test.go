package rod_test

import (
	"testing"
	"time"

	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieParams(t *testing.T) {
	t.Parallel()

	t.Run("converts credential fields", func(t *testing.T) {
		t.Parallel()

		expires := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		params := rod.CookieParams([]newsgrab.Credential{
			{Name: "sid", Value: "abc", Domain: ".example.com", Path: "/", ExpiresAt: expires},
		})

		require.Len(t, params, 1)
		assert.Equal(t, "sid", params[0].Name)
		assert.Equal(t, "abc", params[0].Value)
		assert.Equal(t, ".example.com", params[0].Domain)
		assert.Equal(t, "/", params[0].Path)
		assert.Equal(t, proto.TimeSinceEpoch(expires.Unix()), params[0].Expires)
	})

	t.Run("zero expiry becomes a session cookie", func(t *testing.T) {
		t.Parallel()

		params := rod.CookieParams([]newsgrab.Credential{
			{Name: "sid", Value: "abc", Domain: ".example.com"},
		})

		require.Len(t, params, 1)
		assert.Zero(t, params[0].Expires)
	})
}

func TestCredentials(t *testing.T) {
	t.Parallel()

	t.Run("converts cookie fields", func(t *testing.T) {
		t.Parallel()

		expires := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		creds := rod.Credentials([]*proto.NetworkCookie{
			{Name: "sid", Value: "abc", Domain: ".example.com", Path: "/", Expires: proto.TimeSinceEpoch(expires.Unix())},
		})

		require.Len(t, creds, 1)
		assert.Equal(t, "sid", creds[0].Name)
		assert.Equal(t, "abc", creds[0].Value)
		assert.Equal(t, ".example.com", creds[0].Domain)
		assert.Equal(t, "/", creds[0].Path)
		assert.True(t, creds[0].ExpiresAt.Equal(expires))
	})

	t.Run("session cookies carry zero expiry", func(t *testing.T) {
		t.Parallel()

		creds := rod.Credentials([]*proto.NetworkCookie{
			{Name: "sid", Value: "abc", Domain: ".example.com", Expires: -1},
		})

		require.Len(t, creds, 1)
		assert.True(t, creds[0].ExpiresAt.IsZero())
	})

	t.Run("round trip preserves the credential set", func(t *testing.T) {
		t.Parallel()

		expires := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		original := []newsgrab.Credential{
			{Name: "sid", Value: "abc", Domain: ".example.com", Path: "/", ExpiresAt: expires},
			{Name: "pref", Value: "dark", Domain: ".example.com", Path: "/"},
		}

		params := rod.CookieParams(original)
		cookies := make([]*proto.NetworkCookie, len(params))
		for i, p := range params {
			cookies[i] = &proto.NetworkCookie{
				Name:    p.Name,
				Value:   p.Value,
				Domain:  p.Domain,
				Path:    p.Path,
				Expires: p.Expires,
			}
		}

		got := rod.Credentials(cookies)
		require.Len(t, got, len(original))
		for i := range original {
			assert.Equal(t, original[i].Name, got[i].Name)
			assert.Equal(t, original[i].Value, got[i].Value)
			assert.Equal(t, original[i].Domain, got[i].Domain)
			assert.True(t, got[i].ExpiresAt.Equal(original[i].ExpiresAt))
		}
	})
}
