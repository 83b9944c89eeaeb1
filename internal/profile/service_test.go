package profile

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"animeverse/internal/storage"
	"animeverse/pkg/apperr"
	"animeverse/pkg/models"
)

type recordingListener struct {
	updated []models.Profile
	deleted []string
}

func (r *recordingListener) ProfileUpdated(p models.Profile) { r.updated = append(r.updated, p) }
func (r *recordingListener) ProfileDeleted(id string)        { r.deleted = append(r.deleted, id) }

func newTestService(t *testing.T) (*Service, storage.Store) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	store := storage.NewMemoryStore()
	svc := NewService(store, log)
	svc.BcryptCost = bcrypt.MinCost
	return svc, store
}

func TestListFallsBackToSeeds(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "Eren", list[0].Name)
	assert.Equal(t, "4", list[3].ID)

	require.NoError(t, store.Set(ctx, storage.ProfilesKey, "{not json"))
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func TestCreateDefaultsAvatarAndPersists(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{Name: "  Hange  "})
	require.NoError(t, err)
	assert.Equal(t, "Hange", p.Name)
	assert.NotEmpty(t, p.ID)
	assert.Contains(t, p.AvatarURL, "api.dicebear.com/8.x/adventurer/svg")
	assert.Contains(t, p.AvatarURL, "backgroundColor=b6e3f4")
	assert.Contains(t, p.AvatarURL, "seed=Hange")

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "   "})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Create(ctx, CreateInput{Name: "Kid", PIN: "12a4"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Create(ctx, CreateInput{Name: "Kid", AvatarURL: "not a url"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestDeleteLastProfileRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, svc.Delete(ctx, id))
	}

	err := svc.Delete(ctx, "4")
	assert.ErrorIs(t, err, apperr.ErrLastProfile)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Levi", list[0].Name)
}

func TestDeleteUnknownProfile(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.Delete(context.Background(), "nope"), apperr.ErrNotFound)
}

func TestDeleteRemovesProfileKeysAndNotifies(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	l := &recordingListener{}
	svc.Subscribe(l)

	require.NoError(t, store.Set(ctx, storage.ContinueWatchingKey("2"), "[]"))
	require.NoError(t, store.Set(ctx, storage.MyListKey("2"), "[]"))
	require.NoError(t, store.Set(ctx, storage.MyListKey("3"), "[]"))

	require.NoError(t, svc.Delete(ctx, "2"))

	_, ok, err := store.Get(ctx, storage.ContinueWatchingKey("2"))
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.Get(ctx, storage.MyListKey("3"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"2"}, l.deleted)
}

func TestUpdateNotifiesAndTrims(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	l := &recordingListener{}
	svc.Subscribe(l)

	p, err := svc.Update(ctx, "1", UpdateInput{Name: " Eren Y. ", Kids: true})
	require.NoError(t, err)
	assert.Equal(t, "Eren Y.", p.Name)
	assert.True(t, p.Kids)
	assert.Contains(t, p.AvatarURL, "seed=Eren")
	require.Len(t, l.updated, 1)
	assert.Equal(t, "Eren Y.", l.updated[0].Name)

	_, err = svc.Update(ctx, "missing", UpdateInput{Name: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRefreshAvatarKeepsBackground(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	before, err := svc.Get(ctx, "2")
	require.NoError(t, err)

	p, err := svc.RefreshAvatar(ctx, "2")
	require.NoError(t, err)
	assert.NotEqual(t, before.AvatarURL, p.AvatarURL)
	assert.Contains(t, p.AvatarURL, "backgroundColor=c0aede")
}

func TestBackgroundOfDefaults(t *testing.T) {
	assert.Equal(t, "b6e3f4", backgroundOf("https://example.com/a.png"))
	assert.Equal(t, "ffd5dc", backgroundOf("https://x/svg?seed=a&backgroundColor=ffd5dc"))
}

func TestVerifyPIN(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{Name: "Locked", PIN: "1234"})
	require.NoError(t, err)
	assert.True(t, p.Public().Locked)

	assert.NoError(t, svc.VerifyPIN(ctx, p.ID, "1234"))
	assert.ErrorIs(t, svc.VerifyPIN(ctx, p.ID, "0000"), apperr.ErrInvalidPIN)
	assert.NoError(t, svc.VerifyPIN(ctx, "1", ""))
	assert.ErrorIs(t, svc.VerifyPIN(ctx, "missing", ""), apperr.ErrNotFound)

	clear := ""
	p, err = svc.Update(ctx, p.ID, UpdateInput{Name: "Locked", PIN: &clear})
	require.NoError(t, err)
	assert.False(t, p.Public().Locked)
}
