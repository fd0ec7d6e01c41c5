package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfeidau/asknalyze/internal/navigation"
	"github.com/wolfeidau/asknalyze/internal/session"
	"github.com/wolfeidau/asknalyze/internal/storage"
)

func newTestClient(t *testing.T, handler http.Handler, hooks Hooks) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.ServerURL = srv.URL
	cfg.RetryInterval = time.Millisecond

	c, err := New(cfg, hooks)
	require.NoError(t, err)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func testToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`)) + "." +
		enc.EncodeToString(payload) + ".c2ln"
}

func TestNew(t *testing.T) {
	t.Run("rejects invalid server url", func(t *testing.T) {
		for _, u := range []string{"", "localhost", "://nope"} {
			_, err := New(Config{ServerURL: u}, nil)
			require.ErrorIs(t, err, ErrInvalidServerURL, u)
		}
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		c, err := New(Config{ServerURL: "http://localhost:9091/"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9091", c.baseURL)
	})
}

func TestLogin(t *testing.T) {
	t.Run("returns token", func(t *testing.T) {
		var got loginRequest
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/auth/login", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
			assert.NoError(t, err)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "message": "ok", "token": "abc.def.ghi"})
		}), nil)

		token, err := c.Login(context.Background(), "a@b.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
		assert.Equal(t, loginRequest{Email: "a@b.com", Password: "secret"}, got)
	})

	t.Run("maps failure status", func(t *testing.T) {
		tests := []struct {
			status  int
			message string
			want    error
		}{
			{http.StatusNotFound, "You are not Registered", ErrNotFound},
			{http.StatusUnauthorized, "Wrong Password", ErrUnauthorized},
			{http.StatusBadRequest, "Bad", ErrBadRequest},
			{http.StatusInternalServerError, "boom", ErrUnavailable},
		}
		for _, tt := range tests {
			t.Run(tt.message, func(t *testing.T) {
				c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					writeJSON(t, w, tt.status, map[string]any{"success": false, "message": tt.message})
				}), nil)

				_, err := c.Login(context.Background(), "a@b.com", "x")
				require.ErrorIs(t, err, tt.want)

				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.status, apiErr.StatusCode)
				assert.Equal(t, tt.message, apiErr.Message)
			})
		}
	})

	t.Run("success false on 200 is rejected", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{"success": false, "message": "nope"})
		}), nil)

		_, err := c.Login(context.Background(), "a@b.com", "x")
		require.ErrorIs(t, err, ErrRejected)
	})

	t.Run("empty token", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{"success": true})
		}), nil)

		_, err := c.Login(context.Background(), "a@b.com", "x")
		require.ErrorIs(t, err, ErrEmptyToken)
	})
}

func TestAccountCalls(t *testing.T) {
	type call struct {
		method string
		path   string
		body   map[string]any
	}
	var last call

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = call{method: r.Method, path: r.URL.Path}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&last.body))
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "message": "done"})
	}), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		run  func() (string, error)
		want call
	}{
		{
			name: "register",
			run: func() (string, error) {
				return c.Register(ctx, RegisterRequest{
					FullName: "Ada", Email: "a@b.com", Password: "pw", ConfirmPassword: "pw",
					Role: "Backend Developer", Organization: "Google", Experience: "3",
				})
			},
			want: call{http.MethodPost, "/api/auth/register", map[string]any{
				"fullName": "Ada", "email": "a@b.com", "password": "pw", "confirmPassword": "pw",
				"role": "Backend Developer", "organization": "Google", "experience": "3",
			}},
		},
		{
			name: "request otp",
			run:  func() (string, error) { return c.RequestOTP(ctx, "a@b.com") },
			want: call{http.MethodPost, "/api/auth/forgot-password/request", map[string]any{"email": "a@b.com"}},
		},
		{
			name: "verify otp",
			run:  func() (string, error) { return c.VerifyOTP(ctx, "a@b.com", "123456") },
			want: call{http.MethodPost, "/api/auth/forgot-password/verify", map[string]any{"email": "a@b.com", "otp": "123456"}},
		},
		{
			name: "reset password",
			run:  func() (string, error) { return c.ResetPassword(ctx, "a@b.com", "new", "new") },
			want: call{http.MethodPost, "/api/auth/forgot-password/reset", map[string]any{
				"email": "a@b.com", "newPassword": "new", "confirmPassword": "new",
			}},
		},
		{
			name: "update profile",
			run: func() (string, error) {
				return c.UpdateProfile(ctx, ProfileUpdate{Email: "a@b.com", FullName: "Ada L", Role: "QA Engineer", Organization: "IBM", Experience: "4"})
			},
			want: call{http.MethodPatch, "/api/auth/update-profile", map[string]any{
				"email": "a@b.com", "fullName": "Ada L", "role": "QA Engineer", "organization": "IBM", "experience": "4",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := tt.run()
			require.NoError(t, err)
			assert.Equal(t, "done", msg)
			assert.Equal(t, tt.want, last)
		})
	}
}

func TestVerifyOTP_Invalid(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"success": false, "message": "Invalid or expired OTP"})
	}), nil)

	_, err := c.VerifyOTP(context.Background(), "a@b.com", "000000")
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "Invalid or expired OTP")
}

func TestPing(t *testing.T) {
	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth", r.URL.Path)
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("success"))
		}), nil)

		require.NoError(t, c.Ping(context.Background()))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after max tries", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}), nil)

		err := c.Ping(context.Background())
		require.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}), nil)

		err := c.Ping(context.Background())
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestSessionHooks(t *testing.T) {
	token := testToken(t, map[string]any{"sub": "a@b.com", "exp": time.Now().Add(time.Hour).Unix()})

	newSession := func(t *testing.T, path string) (*session.Manager, *navigation.Location) {
		loc := navigation.NewLocation(path)
		m := session.New(storage.NewMemory(), loc)
		require.NoError(t, m.Login(token, nil))
		return m, loc
	}

	t.Run("update profile carries bearer token", func(t *testing.T) {
		m, _ := newSession(t, navigation.PathUpdateProfile)

		var auth string
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "message": "updated"})
		}), m)

		_, err := c.UpdateProfile(context.Background(), ProfileUpdate{Email: "a@b.com"})
		require.NoError(t, err)
		assert.Equal(t, "Bearer "+token, auth)
	})

	t.Run("401 on protected page ends session", func(t *testing.T) {
		m, loc := newSession(t, navigation.PathUpdateProfile)

		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, map[string]any{"message": "expired"})
		}), m)

		_, err := c.UpdateProfile(context.Background(), ProfileUpdate{Email: "a@b.com"})
		require.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, navigation.PathSignIn, loc.Path())
		assert.False(t, m.IsAuthenticated())
	})

	t.Run("401 from login on sign-in page keeps location", func(t *testing.T) {
		m, loc := newSession(t, navigation.PathSignIn)

		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Wrong Password"})
		}), m)

		_, err := c.Login(context.Background(), "a@b.com", "bad")
		require.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, []string{navigation.PathSignIn}, loc.History())
		assert.True(t, m.IsAuthenticated())
	})
}
