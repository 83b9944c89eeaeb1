package grpcserver

import (
	"context"
	"net"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"animeverse/internal/profile"
	"animeverse/internal/storage"
	"animeverse/internal/watchstate"
	"animeverse/pkg/models"
)

func newTestClient(t *testing.T) *WatchStateClient {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	store := storage.NewMemoryStore()
	srv := NewServer(profile.NewService(store, log), watchstate.NewService(store, nil, log), log)

	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(log)))
	RegisterWatchStateServer(gs, srv)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewWatchStateClient(conn)
}

func TestListProfiles(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.ListProfiles(context.Background(), &ListProfilesRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 4)
	assert.Equal(t, "Eren", resp.Items[0].Name)
}

func TestRecordPlaybackAndState(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	rec, err := c.RecordPlayback(ctx, &RecordPlaybackRequest{
		ProfileID: "2",
		Media:     models.Media{ID: 1399, Title: "Show", MediaType: models.MediaTypeTV},
		Season:    1,
		Episode:   4,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, rec.Entry.Episode)

	toggled, err := c.ToggleMyList(ctx, &ToggleMyListRequest{ProfileID: "2", Media: models.Media{ID: 550, MediaType: models.MediaTypeMovie}})
	require.NoError(t, err)
	assert.True(t, toggled.InList)

	st, err := c.GetWatchState(ctx, &GetWatchStateRequest{ProfileID: "2"})
	require.NoError(t, err)
	assert.Len(t, st.State.ContinueWatching, 1)
	assert.Len(t, st.State.MyList, 1)
}

func TestErrorCodes(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.GetWatchState(ctx, &GetWatchStateRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.GetWatchState(ctx, &GetWatchStateRequest{ProfileID: "ghost"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = c.RecordPlayback(ctx, &RecordPlaybackRequest{ProfileID: "1", Media: models.Media{ID: 1, MediaType: "person"}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
