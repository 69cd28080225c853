package match

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/unv3iled/cortex/store"
)

// fakeStore is an in-memory Store implementation. Matches are keyed by the
// canonical (min, max) pair the way the real store layer stores them.
type fakeStore struct {
	profiles map[int32]*store.TasteProfile
	users    map[int32]*store.User
	matches  map[[2]int32]*store.Match

	upsertCalls []store.UpsertMatch
	upsertErrs  map[[2]int32]error
	nextID      int32
	now         int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:   map[int32]*store.TasteProfile{},
		users:      map[int32]*store.User{},
		matches:    map[[2]int32]*store.Match{},
		upsertErrs: map[[2]int32]error{},
		now:        time.Now().Unix(),
	}
}

func (f *fakeStore) addUser(id int32, email string) {
	f.users[id] = &store.User{ID: id, Email: email, DisplayName: email}
}

func (f *fakeStore) addProfile(id int32, vector string) {
	f.profiles[id] = &store.TasteProfile{UserID: id, Vector: vector}
}

func (f *fakeStore) GetTasteProfile(_ context.Context, find *store.FindTasteProfile) (*store.TasteProfile, error) {
	if find.UserID == nil {
		return nil, errors.New("user id required")
	}
	return f.profiles[*find.UserID], nil
}

func (f *fakeStore) ListTasteProfiles(_ context.Context, find *store.FindTasteProfile) ([]*store.TasteProfile, error) {
	list := []*store.TasteProfile{}
	for id, p := range f.profiles {
		if find.ExcludeUserID != nil && id == *find.ExcludeUserID {
			continue
		}
		if p.Vector == "" || p.Vector == "{}" || p.Vector == "null" {
			continue
		}
		list = append(list, p)
	}
	return list, nil
}

func (f *fakeStore) UpsertMatch(_ context.Context, upsert *store.UpsertMatch) (*store.Match, error) {
	if upsert.UserA > upsert.UserB {
		upsert.UserA, upsert.UserB = upsert.UserB, upsert.UserA
	}
	f.upsertCalls = append(f.upsertCalls, *upsert)
	key := [2]int32{upsert.UserA, upsert.UserB}
	if err := f.upsertErrs[key]; err != nil {
		return nil, err
	}
	if existing, ok := f.matches[key]; ok {
		existing.SimilarityScore = upsert.SimilarityScore
		existing.UpdatedTs = f.now + 1
		return existing, nil
	}
	f.nextID++
	m := &store.Match{
		ID:              f.nextID,
		UID:             "fake-uid",
		UserA:           upsert.UserA,
		UserB:           upsert.UserB,
		SimilarityScore: upsert.SimilarityScore,
		Status:          store.MatchStatusPending,
		CreatedTs:       f.now,
		UpdatedTs:       f.now,
	}
	f.matches[key] = m
	return m, nil
}

func (f *fakeStore) ListUsers(_ context.Context, find *store.FindUser) ([]*store.User, error) {
	list := []*store.User{}
	for _, id := range find.IDs {
		if u, ok := f.users[id]; ok {
			list = append(list, u)
		}
	}
	return list, nil
}

type recordingNotifier struct {
	notified []int32
}

func (n *recordingNotifier) NotifyMatch(_ context.Context, m *store.Match) error {
	n.notified = append(n.notified, m.UserB)
	return nil
}

func TestFindTasteTwinsProfileNotFound(t *testing.T) {
	ctx := context.Background()
	fake := newFakeStore()
	fake.addProfile(2, `{"music:rock":0.9}`)
	svc := NewService(fake, nil)

	_, err := svc.FindTasteTwins(ctx, 1)
	require.ErrorIs(t, err, ErrProfileNotFound)
	require.Empty(t, fake.upsertCalls, "no match rows may be written without a requester profile")
}

func TestFindTasteTwinsEmptyVectorTreatedAsMissing(t *testing.T) {
	ctx := context.Background()
	fake := newFakeStore()
	fake.addProfile(1, `{}`)
	fake.addProfile(2, `{"music:rock":0.9}`)
	svc := NewService(fake, nil)

	_, err := svc.FindTasteTwins(ctx, 1)
	require.ErrorIs(t, err, ErrProfileNotFound)
	require.Empty(t, fake.upsertCalls)
}

func TestFindTasteTwinsHappyPath(t *testing.T) {
	ctx := context.Background()
	fake := newFakeStore()
	fake.addProfile(1, `{"music:rock":0.9,"music:jazz":0.4}`)
	fake.addProfile(2, `{"music:rock":0.8,"music:jazz":0.5}`)
	fake.addProfile(3, `{"music:classical":0.9}`)
	fake.addUser(2, "twin@example.com")
	fake.addUser(3, "stranger@example.com")
	svc := NewService(fake, nil)

	result, err := svc.FindTasteTwins(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalProfilesCompared)
	require.Zero(t, result.PersistFailures)
	require.Len(t, result.Matches, 1)

	twin := result.Matches[0]
	require.Equal(t, int32(2), twin.UserID)
	require.Greater(t, twin.SimilarityScore, SimilarityThreshold)
	require.NotNil(t, twin.UserDetails)
	require.Equal(t, "twin@example.com", twin.UserDetails.Email)

	require.Len(t, fake.matches, 1)
	row := fake.matches[[2]int32{1, 2}]
	require.NotNil(t, row)
	require.Equal(t, store.MatchStatusPending, row.Status)
}

func TestFindTasteTwinsRerunUpdatesScoreOnly(t *testing.T) {
	ctx := context.Background()
	fake := newFakeStore()
	fake.addProfile(1, `{"music:rock":0.9}`)
	fake.addProfile(2, `{"music:rock":0.8}`)
	fake.addUser(2, "twin@example.com")
	svc := NewService(fake, nil)

	_, err := svc.FindTasteTwins(ctx, 1)
	require.NoError(t, err)

	// Accept the match, then rescore with a changed profile. The status
	// must survive the rerun.
	row := fake.matches[[2]int32{1, 2}]
	row.Status = store.MatchStatusAccepted
	fake.addProfile(2, `{"music:rock":0.8,"music:jazz":0.1}`)

	_, err = svc.FindTasteTwins(ctx, 1)
	require.NoError(t, err)
	require.Len(t, fake.matches, 1, "rerun must not create a second row for the pair")
	require.Equal(t, store.MatchStatusAccepted, fake.matches[[2]int32{1, 2}].Status)
}

func TestFindTasteTwinsPersistFailureIsolated(t *testing.T) {
	ctx := context.Background()
	fake := newFakeStore()
	fake.addProfile(1, `{"music:rock":0.9}`)
	fake.addProfile(2, `{"music:rock":0.8}`)
	fake.addProfile(3, `{"music:rock":0.7}`)
	fake.addUser(2, "a@example.com")
	fake.addUser(3, "b@example.com")
	fake.upsertErrs[[2]int32{1, 2}] = errors.New("disk full")
	svc := NewService(fake, nil)

	result, err := svc.FindTasteTwins(ctx, 1)
	require.NoError(t, err, "one failed row must not fail the run")
	require.Equal(t, 1, result.PersistFailures)
	require.Len(t, result.Matches, 2, "failed rows still appear in the response")
	require.Len(t, fake.matches, 1)
}

func TestFindTasteTwinsNotifiesNewMatchesOnly(t *testing.T) {
	ctx := context.Background()
	fake := newFakeStore()
	fake.addProfile(1, `{"music:rock":0.9}`)
	fake.addProfile(2, `{"music:rock":0.8}`)
	fake.addUser(2, "twin@example.com")
	notifier := &recordingNotifier{}
	svc := NewService(fake, notifier)

	_, err := svc.FindTasteTwins(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []int32{2}, notifier.notified)

	// Second run rescored the same pair; no second notification.
	_, err = svc.FindTasteTwins(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []int32{2}, notifier.notified)
}
