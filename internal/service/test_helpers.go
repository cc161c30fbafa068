package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codewithvis/Spend-Wise/internal/auth"
	"github.com/codewithvis/Spend-Wise/internal/store"
)

// testContextWithUser creates a context with authenticated user claims for testing
func testContextWithUser(userID string) context.Context {
	return auth.WithUserClaims(context.Background(), &auth.UserClaims{
		UID:   userID,
		Email: userID + "@test.local",
	})
}

// testHarness is an in-process API server over a memory store with a fixed
// clock and a fixed test identity.
type testHarness struct {
	service *FinanceService
	store   *store.MemoryStore
	handler http.Handler
}

// testNow is the pinned clock for handler tests: mid-March 2024 UTC.
var testNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	memStore := store.NewMemoryStore()
	svc := NewFinanceService(memStore, nil)
	svc.now = func() time.Time { return testNow }

	mux := http.NewServeMux()
	svc.RegisterRoutes(mux)

	// Inject a fixed identity the way the auth middleware would.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := auth.WithUserClaims(r.Context(), &auth.UserClaims{
			UID:   "test-user",
			Email: "test-user@test.local",
		})
		mux.ServeHTTP(w, r.WithContext(ctx))
	})

	return &testHarness{service: svc, store: memStore, handler: handler}
}

// do performs a request and decodes the JSON response into out (unless nil).
func (h *testHarness) do(t *testing.T, method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		case []byte:
			reader = bytes.NewBuffer(b)
		default:
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewBuffer(encoded)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out),
			"response body: %s", rec.Body.String())
	}
	return rec
}
