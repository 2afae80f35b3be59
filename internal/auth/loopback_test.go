package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenFromRedirect(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{"dashboard redirect", "http://127.0.0.1:3000/dashboard?token=abc.def", "abc.def", nil},
		{"surrounding space", "  http://localhost:3000/dashboard?token=xyz  ", "xyz", nil},
		{"missing token", "http://127.0.0.1:3000/dashboard", "", ErrNoToken},
		{"empty token", "http://127.0.0.1:3000/dashboard?token=", "", ErrNoToken},
		{"login error page", "http://127.0.0.1:3000/login/error", "", ErrLoginFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TokenFromRedirect(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListener_CapturesToken(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	require.NoError(t, err)

	resp, err := http.Get(l.URL() + DashboardPath + "?token=secret")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	token, err := l.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "secret", token)
}

func TestListener_LoginError(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	require.NoError(t, err)

	resp, err := http.Get(l.URL() + LoginErrorPath)
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = l.Wait(ctx)
	assert.ErrorIs(t, err, ErrLoginFailed)
}

func TestListener_MissingTokenKeepsWaiting(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	require.NoError(t, err)

	resp, err := http.Get(l.URL() + DashboardPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
