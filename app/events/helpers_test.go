package events

import (
	"testing"

	"newsroom/app/repositories"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	store, err := repositories.Open("", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
