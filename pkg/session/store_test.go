package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/unsaidapp/unsaid/pkg/crypto"
	"github.com/unsaidapp/unsaid/pkg/session"
)

func newTestStore(t *testing.T, dir string) *session.Store {
	t.Helper()
	st, err := session.NewStore(dir)
	require.NoError(t, err)
	return st
}

func sampleSession() session.Session {
	return session.Session{
		Token: "tok-abc123",
		Identity: &session.Identity{
			ID:        "64f0c2",
			Username:  "ishita",
			Name:      "Ishita Rao",
			Bio:       "things left unsaid",
			Followers: []string{"a1", "b2"},
			Following: []string{"c3"},
			CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestRestoreEmptyDir(t *testing.T) {
	st := newTestStore(t, t.TempDir())

	got := st.Restore()
	if !got.Empty() {
		t.Fatalf("expected empty session from empty dir, got %+v", got)
	}
}

func TestSetRestoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := sampleSession()

	st := newTestStore(t, dir)
	require.NoError(t, st.Set(want))

	// Simulated process restart: a fresh store over the same directory.
	st2 := newTestStore(t, dir)
	got := st2.Restore()

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("session round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSetRejectsPartialSession(t *testing.T) {
	st := newTestStore(t, t.TempDir())

	err := st.Set(session.Session{Token: "tok-only"})
	require.ErrorIs(t, err, session.ErrPartialSession)

	err = st.Set(session.Session{Identity: &session.Identity{Username: "ishita"}})
	require.ErrorIs(t, err, session.ErrPartialSession)

	if !st.Current().Empty() {
		t.Fatal("rejected Set must not mutate the store")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	st := newTestStore(t, dir)
	require.NoError(t, st.Set(sampleSession()))

	require.NoError(t, st.Clear())
	require.True(t, st.Current().Empty())
	require.NoError(t, st.Clear())
	require.True(t, st.Current().Empty())

	// Nothing left on disk either.
	_, err := os.Stat(filepath.Join(dir, "session.bin"))
	require.True(t, os.IsNotExist(err))
}

func TestRestoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	st := newTestStore(t, dir)
	require.NoError(t, st.Set(sampleSession()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.bin"), []byte("not a sealed blob"), 0600))

	got := newTestStore(t, dir).Restore()
	if !got.Empty() {
		t.Fatalf("corrupt persisted session must read as logged out, got %+v", got)
	}
}

func TestRestorePartialPersistedSession(t *testing.T) {
	// A torn write can never happen through Set, but a foreign writer could
	// still produce a token-without-identity file. It must read as absent.
	dir := t.TempDir()
	_ = newTestStore(t, dir) // creates the device key

	key, err := os.ReadFile(filepath.Join(dir, "session.key"))
	require.NoError(t, err)
	sealer, err := crypto.NewSealer(key)
	require.NoError(t, err)
	blob, err := sealer.Seal([]byte("token: tok-without-identity\n"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.bin"), blob, 0600))

	got := newTestStore(t, dir).Restore()
	if !got.Empty() {
		t.Fatalf("partial persisted session must read as logged out, got %+v", got)
	}
}

func TestRestoreAfterKeyLoss(t *testing.T) {
	dir := t.TempDir()
	st := newTestStore(t, dir)
	require.NoError(t, st.Set(sampleSession()))

	// Losing the device key makes the blob unreadable: logged out, no error.
	require.NoError(t, os.Remove(filepath.Join(dir, "session.key")))

	got := newTestStore(t, dir).Restore()
	require.True(t, got.Empty())
}

func TestCurrentReturnsCopy(t *testing.T) {
	st := newTestStore(t, t.TempDir())
	require.NoError(t, st.Set(sampleSession()))

	snap := st.Current()
	snap.Identity.Username = "mallory"
	snap.Identity.Followers[0] = "mallory"

	if diff := cmp.Diff(sampleSession(), st.Current()); diff != "" {
		t.Errorf("mutating a snapshot leaked into the store (-want +got):\n%s", diff)
	}
}

func TestSetEmptyEqualsClear(t *testing.T) {
	dir := t.TempDir()
	st := newTestStore(t, dir)
	require.NoError(t, st.Set(sampleSession()))

	require.NoError(t, st.Set(session.Session{}))
	require.True(t, st.Current().Empty())

	got := newTestStore(t, dir).Restore()
	require.True(t, got.Empty())
}
