package service

import (
	"context"
	"testing"
	"time"

	"github.com/corethink/backend/internal/domain"
	"github.com/corethink/backend/internal/llm"
	"github.com/corethink/backend/internal/store"
	"github.com/corethink/backend/internal/store/drivers/sqlite"
	"github.com/corethink/backend/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())

	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedUser(t *testing.T, st store.Store, email string) domain.User {
	t.Helper()

	now := time.Now()
	u := domain.User{
		ID:         idx.New().String(),
		Email:      email,
		Name:       "Test User",
		Provider:   "google",
		ProviderID: "prov-" + email,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

// fakeLLM returns canned replies and records what it was asked.
type fakeLLM struct {
	reply   string
	err     error
	systems []string
	turns   [][]llm.Turn
}

func (f *fakeLLM) Complete(ctx context.Context, system string, turns []llm.Turn) (string, error) {
	f.systems = append(f.systems, system)
	f.turns = append(f.turns, turns)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
