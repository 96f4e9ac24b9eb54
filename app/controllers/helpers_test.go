package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"newsroom/app/authz"
	"newsroom/app/models"
	"newsroom/app/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type noopOutbox struct{}

func (noopOutbox) Stage(string, int64, int64, interface{}) repositories.TxHook {
	return func(*badger.Txn) error { return nil }
}

func (noopOutbox) Notify() {}

type noopGuard struct{}

func (noopGuard) Guard(string, int64, int64) repositories.TxHook {
	return func(*badger.Txn) error { return nil }
}

type stubLookup struct {
	err error
}

func (s stubLookup) GetPost(ctx context.Context, id int64, role authz.Role) (*models.PostResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return nil, models.NewNotFoundError("post", id)
}

func (stubLookup) Forget(int64) {}

func do(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), "body: %s", w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, w, &body)
	return body["error"]
}
