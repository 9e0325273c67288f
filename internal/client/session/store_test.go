package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/apetrukhin/blogctl/internal/client/api"
	"github.com/apetrukhin/blogctl/internal/client/models"
	"github.com/apetrukhin/blogctl/internal/logging"
)

// ---- helpers ----

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakePrefs is an in-memory prefs.Repository.
type fakePrefs struct {
	mu   sync.Mutex
	data map[string]string

	SetErr    error
	DeleteErr error
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{data: make(map[string]string)}
}

func (f *fakePrefs) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key], nil
}

func (f *fakePrefs) Set(_ context.Context, key, value string) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakePrefs) Delete(_ context.Context, key string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakePrefs) stored(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

// fakeClient implements api.Client for Store tests.
type fakeClient struct {
	LoginResp models.AuthResponse
	LoginErr  error
	// When non-nil, Login signals on LoginEntered and then blocks until
	// LoginRelease is closed.
	LoginEntered chan struct{}
	LoginRelease chan struct{}

	RegisterResp models.AuthResponse
	RegisterErr  error

	FetchProfileResp models.User
	FetchProfileErr  error
	// When non-nil, FetchProfile signals on Entered and then blocks until
	// Release is closed, letting tests interleave other operations.
	Entered chan struct{}
	Release chan struct{}

	UpdateProfileResp models.User
	UpdateProfileErr  error

	LastLoginPayload    models.LoginPayload
	LastRegisterPayload models.RegisterPayload
	LastUpdatePayload   models.ProfileUpdatePayload

	mu           sync.Mutex
	profileCalls int
	updateCalls  int
}

func (f *fakeClient) Login(_ context.Context, payload models.LoginPayload) (models.AuthResponse, error) {
	f.LastLoginPayload = payload
	if f.LoginEntered != nil {
		f.LoginEntered <- struct{}{}
		<-f.LoginRelease
	}
	return f.LoginResp, f.LoginErr
}

func (f *fakeClient) Register(_ context.Context, payload models.RegisterPayload) (models.AuthResponse, error) {
	f.LastRegisterPayload = payload
	return f.RegisterResp, f.RegisterErr
}

func (f *fakeClient) FetchProfile(_ context.Context, _ string) (models.User, error) {
	f.mu.Lock()
	f.profileCalls++
	f.mu.Unlock()
	if f.Entered != nil {
		f.Entered <- struct{}{}
		<-f.Release
	}
	return f.FetchProfileResp, f.FetchProfileErr
}

func (f *fakeClient) UpdateProfile(_ context.Context, _ string, payload models.ProfileUpdatePayload) (models.User, error) {
	f.mu.Lock()
	f.updateCalls++
	f.mu.Unlock()
	f.LastUpdatePayload = payload
	return f.UpdateProfileResp, f.UpdateProfileErr
}

func (f *fakeClient) ListArticles(context.Context, string) ([]models.Article, error) {
	return nil, nil
}

func (f *fakeClient) GetArticle(context.Context, int64, string) (models.Article, error) {
	return models.Article{}, nil
}

func (f *fakeClient) GetArticlePreview(context.Context, int64, string) (models.Article, error) {
	return models.Article{}, nil
}

func (f *fakeClient) CreateArticle(context.Context, string, models.ArticlePayload) (models.Article, error) {
	return models.Article{}, nil
}

func (f *fakeClient) UpdateArticle(context.Context, int64, string, models.ArticlePayload) (models.Article, error) {
	return models.Article{}, nil
}

func (f *fakeClient) DeleteArticle(context.Context, int64, string) error {
	return nil
}

func (f *fakeClient) ToggleLike(context.Context, int64, string, bool) (models.LikeResponse, error) {
	return models.LikeResponse{}, nil
}

var _ api.Client = (*fakeClient)(nil)

func newStore(t *testing.T, client *fakeClient, prefs *fakePrefs) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), client, prefs, testLogger())
	require.NoError(t, err)
	return s
}

func someUser() models.User {
	return models.User{
		ID:       1,
		Email:    "a@b.com",
		Username: "a",
		Contacts: []string{},
	}
}

// ---- startup ----

func TestNewStore_NoStoredToken_StartsAnonymous(t *testing.T) {
	s := newStore(t, &fakeClient{}, newFakePrefs())

	st := s.State()
	require.Empty(t, st.Token)
	require.Nil(t, st.User)
	require.False(t, st.Loading)
	require.Empty(t, st.LastError)
}

func TestNewStore_StoredToken_StartsLoading(t *testing.T) {
	prefs := newFakePrefs()
	require.NoError(t, prefs.Set(context.Background(), TokenKey, "tok1"))

	s := newStore(t, &fakeClient{}, prefs)

	st := s.State()
	require.Equal(t, "tok1", st.Token)
	require.Nil(t, st.User)
	require.True(t, st.Loading)
}

// ---- login / register ----

func TestLogin_Success_SetsTokenAndUser(t *testing.T) {
	client := &fakeClient{
		LoginResp: models.AuthResponse{Token: "tok1", User: someUser()},
	}
	prefs := newFakePrefs()
	s := newStore(t, client, prefs)

	require.NoError(t, s.Login(context.Background(), "a@b.com", "secret"))

	st := s.State()
	require.Equal(t, "tok1", st.Token)
	require.NotNil(t, st.User)
	require.Equal(t, int64(1), st.User.ID)
	require.Empty(t, st.LastError)
	require.False(t, st.Loading)
	require.Equal(t, "a@b.com", client.LastLoginPayload.Email)

	v, ok := prefs.stored(TokenKey)
	require.True(t, ok)
	require.Equal(t, "tok1", v)
}

func TestLogin_Failure_KeepsPriorSessionAndRecordsError(t *testing.T) {
	client := &fakeClient{
		LoginResp: models.AuthResponse{Token: "tok1", User: someUser()},
	}
	s := newStore(t, client, newFakePrefs())
	require.NoError(t, s.Login(context.Background(), "a@b.com", "secret"))

	client.LoginErr = &api.Error{Status: 401, Message: "invalid credentials"}
	err := s.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)

	st := s.State()
	require.Equal(t, "tok1", st.Token)
	require.NotNil(t, st.User)
	require.Equal(t, "invalid credentials", st.LastError)
	require.False(t, st.Loading)
}

func TestRegister_Success_PreservesContactOrderAndDuplicates(t *testing.T) {
	client := &fakeClient{
		RegisterResp: models.AuthResponse{Token: "tok1", User: someUser()},
	}
	s := newStore(t, client, newFakePrefs())

	contacts := []string{"https://t.me/x", "https://t.me/x", "https://a.example"}
	require.NoError(t, s.Register(context.Background(), "a@b.com", "secret", "alice", contacts))

	require.Equal(t, contacts, client.LastRegisterPayload.Contacts)
	require.True(t, s.State().LoggedIn())
}

func TestRegister_InvalidUsername_NoNetworkCallNoLastError(t *testing.T) {
	client := &fakeClient{}
	s := newStore(t, client, newFakePrefs())

	err := s.Register(context.Background(), "a@b.com", "secret", "ab", nil)
	require.ErrorIs(t, err, models.ErrValidation)

	st := s.State()
	require.Empty(t, st.LastError)
	require.False(t, st.Loading)
	require.Empty(t, client.LastRegisterPayload.Email)
}

// ---- refresh ----

func TestRefreshProfile_NoToken_ClearsUserAndLoading(t *testing.T) {
	client := &fakeClient{}
	s := newStore(t, client, newFakePrefs())

	require.NoError(t, s.RefreshProfile(context.Background()))

	st := s.State()
	require.Nil(t, st.User)
	require.False(t, st.Loading)
	require.Zero(t, client.profileCalls)
}

func TestRefreshProfile_Success_ReplacesUser(t *testing.T) {
	prefs := newFakePrefs()
	require.NoError(t, prefs.Set(context.Background(), TokenKey, "tok1"))
	client := &fakeClient{FetchProfileResp: someUser()}
	s := newStore(t, client, prefs)

	require.NoError(t, s.RefreshProfile(context.Background()))

	st := s.State()
	require.Equal(t, "tok1", st.Token)
	require.NotNil(t, st.User)
	require.False(t, st.Loading)
	require.Empty(t, st.LastError)
}

func TestRefreshProfile_RejectedToken_InvalidatesSession(t *testing.T) {
	prefs := newFakePrefs()
	require.NoError(t, prefs.Set(context.Background(), TokenKey, "stale"))
	client := &fakeClient{
		FetchProfileErr: &api.Error{Status: 401, Message: "invalid token"},
	}
	s := newStore(t, client, prefs)

	err := s.RefreshProfile(context.Background())
	require.Error(t, err)

	st := s.State()
	require.Empty(t, st.Token)
	require.Nil(t, st.User)
	require.False(t, st.Loading)
	require.Equal(t, "invalid token", st.LastError)

	_, ok := prefs.stored(TokenKey)
	require.False(t, ok)
}

// ---- profile update ----

func TestUpdateProfile_NoToken_FailsWithoutNetworkCall(t *testing.T) {
	client := &fakeClient{}
	s := newStore(t, client, newFakePrefs())

	err := s.UpdateProfile(context.Background(), "newname", []string{"https://t.me/x"})
	require.ErrorIs(t, err, ErrAuthRequired)

	st := s.State()
	require.Empty(t, st.Token)
	require.Nil(t, st.User)
	require.Zero(t, client.updateCalls)
}

func TestUpdateProfile_Success_UsesServerEcho(t *testing.T) {
	client := &fakeClient{
		LoginResp: models.AuthResponse{Token: "tok1", User: someUser()},
		UpdateProfileResp: models.User{
			ID:       1,
			Email:    "a@b.com",
			Username: "newname",
			Contacts: []string{"https://t.me/x", "https://t.me/x"},
		},
	}
	s := newStore(t, client, newFakePrefs())
	require.NoError(t, s.Login(context.Background(), "a@b.com", "secret"))

	contacts := []string{"https://t.me/x", "https://t.me/x"}
	require.NoError(t, s.UpdateProfile(context.Background(), "newname", contacts))

	st := s.State()
	require.Equal(t, "newname", st.User.Username)
	// The committed contact list is whatever the server returned; the client
	// does not deduplicate locally.
	require.Equal(t, contacts, st.User.Contacts)
}

func TestUpdateProfile_Failure_KeepsPriorUser(t *testing.T) {
	client := &fakeClient{
		LoginResp:        models.AuthResponse{Token: "tok1", User: someUser()},
		UpdateProfileErr: &api.Error{Status: 422, Message: "username taken"},
	}
	s := newStore(t, client, newFakePrefs())
	require.NoError(t, s.Login(context.Background(), "a@b.com", "secret"))

	err := s.UpdateProfile(context.Background(), "newname", nil)
	require.Error(t, err)

	st := s.State()
	require.Equal(t, "a", st.User.Username)
	require.Equal(t, "username taken", st.LastError)
}

func TestUpdateProfile_InvalidUsername_NoNetworkCall(t *testing.T) {
	client := &fakeClient{
		LoginResp: models.AuthResponse{Token: "tok1", User: someUser()},
	}
	s := newStore(t, client, newFakePrefs())
	require.NoError(t, s.Login(context.Background(), "a@b.com", "secret"))

	err := s.UpdateProfile(context.Background(), "x", nil)
	require.ErrorIs(t, err, models.ErrValidation)
	require.Zero(t, client.updateCalls)
	require.Empty(t, s.State().LastError)
}

// ---- logout ----

func TestLogout_ClearsEverything(t *testing.T) {
	client := &fakeClient{
		LoginResp: models.AuthResponse{Token: "tok1", User: someUser()},
	}
	prefs := newFakePrefs()
	s := newStore(t, client, prefs)
	require.NoError(t, s.Login(context.Background(), "a@b.com", "secret"))

	s.Logout(context.Background())

	st := s.State()
	require.Empty(t, st.Token)
	require.Nil(t, st.User)
	require.Empty(t, st.LastError)
	require.False(t, st.Loading)

	_, ok := prefs.stored(TokenKey)
	require.False(t, ok)
}

func TestLogout_FromAnonymousIsANoop(t *testing.T) {
	s := newStore(t, &fakeClient{}, newFakePrefs())

	s.Logout(context.Background())

	st := s.State()
	require.Empty(t, st.Token)
	require.Nil(t, st.User)
}

// ---- stale-result races ----

func TestRefreshProfile_SettlingAfterLogout_DoesNotResurrectSession(t *testing.T) {
	prefs := newFakePrefs()
	require.NoError(t, prefs.Set(context.Background(), TokenKey, "tok1"))

	client := &fakeClient{
		FetchProfileResp: someUser(),
		Entered:          make(chan struct{}, 1),
		Release:          make(chan struct{}),
	}
	s := newStore(t, client, prefs)

	done := make(chan error, 1)
	go func() {
		done <- s.RefreshProfile(context.Background())
	}()

	<-client.Entered
	s.Logout(context.Background())
	close(client.Release)

	require.NoError(t, <-done)

	st := s.State()
	require.Empty(t, st.Token)
	require.Nil(t, st.User)

	_, ok := prefs.stored(TokenKey)
	require.False(t, ok)
}

func TestRefreshProfile_SettlingAfterNewLogin_DoesNotOverwriteNewSession(t *testing.T) {
	prefs := newFakePrefs()
	require.NoError(t, prefs.Set(context.Background(), TokenKey, "tok1"))

	staleUser := models.User{ID: 7, Username: "stale", Contacts: []string{}}
	freshUser := models.User{ID: 2, Username: "fresh", Contacts: []string{}}

	client := &fakeClient{
		FetchProfileResp: staleUser,
		Entered:          make(chan struct{}, 1),
		Release:          make(chan struct{}),
		LoginResp:        models.AuthResponse{Token: "tok2", User: freshUser},
	}
	s := newStore(t, client, prefs)

	done := make(chan error, 1)
	go func() {
		done <- s.RefreshProfile(context.Background())
	}()

	<-client.Entered
	require.NoError(t, s.Login(context.Background(), "b@c.com", "secret"))
	close(client.Release)
	require.NoError(t, <-done)

	st := s.State()
	require.Equal(t, "tok2", st.Token)
	require.Equal(t, int64(2), st.User.ID)

	v, _ := prefs.stored(TokenKey)
	require.Equal(t, "tok2", v)
}

func TestLogin_SettlingAfterLogout_DoesNotPersistToken(t *testing.T) {
	client := &fakeClient{
		LoginResp:    models.AuthResponse{Token: "tok1", User: someUser()},
		LoginEntered: make(chan struct{}, 1),
		LoginRelease: make(chan struct{}),
	}
	prefs := newFakePrefs()
	s := newStore(t, client, prefs)

	done := make(chan error, 1)
	go func() {
		done <- s.Login(context.Background(), "a@b.com", "secret")
	}()

	<-client.LoginEntered
	s.Logout(context.Background())
	close(client.LoginRelease)
	require.NoError(t, <-done)

	st := s.State()
	require.Empty(t, st.Token)
	require.Nil(t, st.User)

	// The stale login must not resurrect the session on the next startup.
	_, ok := prefs.stored(TokenKey)
	require.False(t, ok)
}

func TestRefreshProfile_FailureSettlingAfterLogout_DoesNotRecordError(t *testing.T) {
	prefs := newFakePrefs()
	require.NoError(t, prefs.Set(context.Background(), TokenKey, "tok1"))

	client := &fakeClient{
		FetchProfileErr: errors.New("boom"),
		Entered:         make(chan struct{}, 1),
		Release:         make(chan struct{}),
	}
	s := newStore(t, client, prefs)

	done := make(chan error, 1)
	go func() {
		done <- s.RefreshProfile(context.Background())
	}()

	<-client.Entered
	s.Logout(context.Background())
	close(client.Release)
	require.NoError(t, <-done)

	require.Empty(t, s.State().LastError)
}

// ---- observers ----

func TestSubscribe_NotifiedOnCommittedTransitions(t *testing.T) {
	client := &fakeClient{
		LoginResp: models.AuthResponse{Token: "tok1", User: someUser()},
	}
	s := newStore(t, client, newFakePrefs())

	var mu sync.Mutex
	var states []State
	unsubscribe := s.Subscribe(func(st State) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	})

	require.NoError(t, s.Login(context.Background(), "a@b.com", "secret"))

	mu.Lock()
	require.Len(t, states, 2)
	require.True(t, states[0].Loading)
	require.True(t, states[1].LoggedIn())
	mu.Unlock()

	unsubscribe()
	s.Logout(context.Background())

	mu.Lock()
	require.Len(t, states, 2)
	mu.Unlock()
}

func TestSubscribe_SnapshotsAreIsolatedFromStore(t *testing.T) {
	user := someUser()
	user.Contacts = []string{"https://t.me/x"}
	client := &fakeClient{
		LoginResp: models.AuthResponse{Token: "tok1", User: user},
	}
	s := newStore(t, client, newFakePrefs())

	var got State
	s.Subscribe(func(st State) { got = st })
	require.NoError(t, s.Login(context.Background(), "a@b.com", "secret"))

	got.User.Contacts[0] = "mutated"
	got.User.Username = "mutated"

	st := s.State()
	require.Equal(t, "https://t.me/x", st.User.Contacts[0])
	require.Equal(t, "a", st.User.Username)
}

func TestConcurrentRefreshAndLogout_NeverLeavesUserWithoutToken(t *testing.T) {
	prefs := newFakePrefs()
	require.NoError(t, prefs.Set(context.Background(), TokenKey, "tok1"))
	client := &fakeClient{FetchProfileResp: someUser()}
	s := newStore(t, client, prefs)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.RefreshProfile(context.Background())
		}()
	}
	time.Sleep(time.Millisecond)
	s.Logout(context.Background())
	wg.Wait()

	st := s.State()
	if st.User != nil {
		require.NotEmpty(t, st.Token)
	}
}
