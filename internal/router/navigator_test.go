package router

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"animeverse/internal/catalog"
	"animeverse/pkg/models"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) HomePage(ctx context.Context) (*models.HomePageData, error) {
	args := m.Called(ctx)
	data, _ := args.Get(0).(*models.HomePageData)
	return data, args.Error(1)
}

func (m *mockCatalog) KidsHomePage(ctx context.Context) (*models.HomePageData, error) {
	args := m.Called(ctx)
	data, _ := args.Get(0).(*models.HomePageData)
	return data, args.Error(1)
}

func (m *mockCatalog) DiscoverPage(ctx context.Context) *models.DiscoverPageData {
	return m.Called(ctx).Get(0).(*models.DiscoverPageData)
}

func (m *mockCatalog) Search(ctx context.Context, query string) ([]models.Media, error) {
	args := m.Called(ctx, query)
	list, _ := args.Get(0).([]models.Media)
	return list, args.Error(1)
}

func (m *mockCatalog) Details(ctx context.Context, id int, mt models.MediaType) (*models.Media, error) {
	args := m.Called(ctx, id, mt)
	media, _ := args.Get(0).(*models.Media)
	return media, args.Error(1)
}

func (m *mockCatalog) Library(ctx context.Context, f catalog.LibraryFilter) ([]models.Media, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]models.Media)
	return list, args.Error(1)
}

type staticLists map[string][]models.Media

func (s staticLists) MyList(_ context.Context, profileID string) ([]models.Media, error) {
	return s[profileID], nil
}

func (s staticLists) InMyList(_ context.Context, profileID string, id int) (bool, error) {
	return containsID(s[profileID], id), nil
}

func containsID(list []models.Media, id int) bool {
	for _, m := range list {
		if m.ID == id {
			return true
		}
	}
	return false
}

func newTestNavigator(cat Catalog, lists MyLister) (*Navigator, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return NewNavigator(cat, lists, log), hook
}

func TestDetailsHashLoadsDetails(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("Details", mock.Anything, 550, models.MediaTypeMovie).
		Return(&models.Media{ID: 550, Title: "Fight Club", MediaType: models.MediaTypeMovie}, nil).Once()
	nav, _ := newTestNavigator(cat, nil)

	s := nav.HandleHash(context.Background(), "#/movie/550")
	assert.Equal(t, View{Page: PageDetails, MediaID: 550, MediaType: models.MediaTypeMovie}, s.View)
	assert.Equal(t, StatusReady, s.Status)
	require.NotNil(t, s.Details)
	assert.Equal(t, "Fight Club", s.Details.Media.Title)
	cat.AssertExpectations(t)
}

func TestDetailsFailureIsErrorState(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("Details", mock.Anything, 1, models.MediaTypeTV).Return(nil, errors.New("boom"))
	nav, _ := newTestNavigator(cat, nil)

	s := nav.HandleHash(context.Background(), "#/tv/1")
	assert.Equal(t, StatusError, s.Status)
	assert.Nil(t, s.Details)
	assert.NotEmpty(t, s.Message)
}

func TestModalPagesIgnoreHashChanges(t *testing.T) {
	cat := &mockCatalog{}
	nav, _ := newTestNavigator(cat, nil)
	ctx := context.Background()

	s, err := nav.OpenModal(ctx, PageAccount)
	require.NoError(t, err)
	assert.Equal(t, PageAccount, s.View.Page)

	s = nav.HandleHash(ctx, "#/movie/550")
	assert.Equal(t, PageAccount, s.View.Page)
	cat.AssertNotCalled(t, "Details", mock.Anything, mock.Anything, mock.Anything)

	_, err = nav.OpenModal(ctx, PageLibrary)
	assert.Error(t, err)
}

func TestReturnHomeLeavesModal(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("HomePage", mock.Anything).Return(&models.HomePageData{}, nil).Once()
	cat.On("DiscoverPage", mock.Anything).Return(&models.DiscoverPageData{})
	nav, _ := newTestNavigator(cat, nil)
	ctx := context.Background()

	_, err := nav.OpenModal(ctx, PageManageProfiles)
	require.NoError(t, err)

	s := nav.ReturnHome(ctx)
	assert.Equal(t, PageHome, s.View.Page)
	assert.Equal(t, StatusReady, s.Status)

	s = nav.HandleHash(ctx, "#/discover")
	assert.Equal(t, PageDiscover, s.View.Page)
	assert.Equal(t, StatusReady, s.Status)

	// home rows are reused, not fetched again
	nav.HandleHash(ctx, "#")
	cat.AssertNumberOfCalls(t, "HomePage", 1)
}

func TestSearchStatuses(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("Search", mock.Anything, "zzz").Return([]models.Media{}, nil)
	cat.On("Search", mock.Anything, "down").Return(nil, errors.New("network"))
	cat.On("Search", mock.Anything, "naruto").Return([]models.Media{{ID: 46260, MediaType: models.MediaTypeTV}}, nil)
	nav, _ := newTestNavigator(cat, nil)
	ctx := context.Background()

	s := nav.HandleHash(ctx, "#/search/zzz")
	assert.Equal(t, StatusEmpty, s.Status)

	s = nav.HandleHash(ctx, "#/search/down")
	assert.Equal(t, StatusError, s.Status)

	s = nav.HandleHash(ctx, "#/search/naruto")
	assert.Equal(t, StatusReady, s.Status)
	assert.Len(t, s.Items, 1)
}

func TestKidsProfileFiltersSearchAndHome(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("KidsHomePage", mock.Anything).Return(&models.HomePageData{
		Trending: []models.Media{
			{ID: 1, Genres: []models.Genre{{Name: "Family"}}},
			{ID: 2, Genres: []models.Genre{{Name: "Thriller"}}},
		},
	}, nil)
	cat.On("Search", mock.Anything, "cars").Return([]models.Media{
		{ID: 3, Genres: []models.Genre{{Name: "Animation"}}},
		{ID: 4, Genres: []models.Genre{{Name: "Crime"}}},
	}, nil)
	nav, _ := newTestNavigator(cat, nil)
	ctx := context.Background()

	s := nav.Reset(ctx, "5", true)
	require.Equal(t, StatusReady, s.Status)
	require.Len(t, s.Home.Trending, 1)
	assert.Equal(t, 1, s.Home.Trending[0].ID)

	s = nav.HandleHash(ctx, "#/search/cars")
	require.Len(t, s.Items, 1)
	assert.Equal(t, 3, s.Items[0].ID)
	cat.AssertNotCalled(t, "HomePage", mock.Anything)
}

func TestHomeFailureIsErrorState(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("HomePage", mock.Anything).Return(nil, errors.New("bad key"))
	nav, _ := newTestNavigator(cat, nil)

	s := nav.Reset(context.Background(), "1", false)
	assert.Equal(t, StatusError, s.Status)
	assert.Contains(t, s.Message, "Failed to load data")
}

func TestMyListScreen(t *testing.T) {
	lists := staticLists{"1": {{ID: 9}}}
	cat := &mockCatalog{}
	cat.On("HomePage", mock.Anything).Return(&models.HomePageData{}, nil)
	nav, _ := newTestNavigator(cat, lists)
	ctx := context.Background()

	nav.Reset(ctx, "1", false)
	s := nav.HandleHash(ctx, "#/mylist")
	assert.Equal(t, StatusReady, s.Status)
	assert.Len(t, s.Items, 1)

	nav.Reset(ctx, "2", false)
	s = nav.HandleHash(ctx, "#/mylist")
	assert.Equal(t, StatusEmpty, s.Status)
}

func TestLibraryScreen(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("Library", mock.Anything, catalog.LibraryFilter{}).Return([]models.Media{}, nil).Once()
	cat.On("Library", mock.Anything, catalog.LibraryFilter{}).Return(nil, errors.New("down")).Once()
	nav, _ := newTestNavigator(cat, nil)
	ctx := context.Background()

	assert.Equal(t, StatusEmpty, nav.HandleHash(ctx, "#/library").Status)
	assert.Equal(t, StatusError, nav.HandleHash(ctx, "#/library").Status)
}

func TestKidsLibraryOnlyHasKidsTitles(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("KidsHomePage", mock.Anything).Return(&models.HomePageData{
		Trending: []models.Media{
			{ID: 1, Title: "Adult Thriller", ReleaseDate: "2024-01-01", Genres: []models.Genre{{ID: 53, Name: "Thriller"}}},
			{ID: 2, Title: "Bluey", ReleaseDate: "2018-10-01", Genres: []models.Genre{{ID: 10762, Name: "Kids"}}},
		},
		PopularMovies: []models.Media{
			{ID: 3, Title: "Coco", ReleaseDate: "2017-10-27", Genres: []models.Genre{{ID: 10751, Name: "Family"}}},
			{ID: 2, Title: "Bluey", ReleaseDate: "2018-10-01", Genres: []models.Genre{{ID: 10762, Name: "Kids"}}},
		},
	}, nil)
	nav, _ := newTestNavigator(cat, nil)
	ctx := context.Background()

	nav.Reset(ctx, "kid", true)
	s := nav.HandleHash(ctx, "#/library")
	require.Equal(t, StatusReady, s.Status)
	require.Len(t, s.Items, 2)
	assert.Equal(t, 2, s.Items[0].ID)
	assert.Equal(t, 3, s.Items[1].ID)
	cat.AssertNotCalled(t, "Library", mock.Anything, mock.Anything)
	cat.AssertNotCalled(t, "HomePage", mock.Anything)
}

func TestDetailsReportsMyListMembership(t *testing.T) {
	lists := staticLists{"1": {{ID: 550}}}
	cat := &mockCatalog{}
	cat.On("HomePage", mock.Anything).Return(&models.HomePageData{}, nil)
	cat.On("Details", mock.Anything, 550, models.MediaTypeMovie).
		Return(&models.Media{ID: 550, MediaType: models.MediaTypeMovie}, nil)
	cat.On("Details", mock.Anything, 680, models.MediaTypeMovie).
		Return(&models.Media{ID: 680, MediaType: models.MediaTypeMovie}, nil)
	nav, _ := newTestNavigator(cat, lists)
	ctx := context.Background()

	nav.Reset(ctx, "1", false)
	s := nav.HandleHash(ctx, "#/movie/550")
	require.NotNil(t, s.Details)
	assert.True(t, s.Details.InList)

	s = nav.HandleHash(ctx, "#/movie/680")
	require.NotNil(t, s.Details)
	assert.False(t, s.Details.InList)
}

func TestResetDropsHomeLoadedForPreviousProfile(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	cat := &mockCatalog{}
	cat.On("HomePage", mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&models.HomePageData{Trending: []models.Media{{ID: 1, Title: "Adult Thriller"}}}, nil).Once()
	cat.On("KidsHomePage", mock.Anything).Return(&models.HomePageData{
		Trending: []models.Media{{ID: 2, Title: "Bluey", Genres: []models.Genre{{Name: "Kids"}}}},
	}, nil)
	nav, _ := newTestNavigator(cat, nil)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		nav.Reset(ctx, "adult", false)
		close(done)
	}()
	<-started

	s := nav.Reset(ctx, "kid", true)
	require.Equal(t, StatusReady, s.Status)

	close(release)
	<-done

	s = nav.ReturnHome(ctx)
	require.Equal(t, StatusReady, s.Status)
	require.Len(t, s.Home.Trending, 1)
	assert.Equal(t, 2, s.Home.Trending[0].ID)
	cat.AssertNumberOfCalls(t, "HomePage", 1)
}

func TestStaleDetailsResponseIsFlaggedAndApplied(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	cat := &mockCatalog{}
	cat.On("Details", mock.Anything, 550, models.MediaTypeMovie).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&models.Media{ID: 550, MediaType: models.MediaTypeMovie}, nil)
	cat.On("Details", mock.Anything, 680, models.MediaTypeMovie).
		Return(&models.Media{ID: 680, MediaType: models.MediaTypeMovie}, nil)
	nav, hook := newTestNavigator(cat, nil)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		nav.HandleHash(ctx, "#/movie/550")
		close(done)
	}()
	<-started
	assert.Equal(t, StatusLoading, nav.Screen(ctx).Status)

	s := nav.HandleHash(ctx, "#/movie/680")
	require.NotNil(t, s.Details)
	assert.Equal(t, 680, s.Details.Media.ID)

	close(release)
	<-done

	s = nav.Screen(ctx)
	assert.Equal(t, 680, s.View.MediaID)
	require.NotNil(t, s.Details)
	assert.Equal(t, 550, s.Details.Media.ID)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "stale details response applied" {
			warned = true
		}
	}
	assert.True(t, warned)
}
