// Package grpcserver exposes profiles and watch state over gRPC.
package grpcserver

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"animeverse/pkg/apperr"
	"animeverse/pkg/models"
)

type Profiles interface {
	List(ctx context.Context) ([]models.Profile, error)
	Get(ctx context.Context, id string) (*models.Profile, error)
}

type WatchState interface {
	State(ctx context.Context, profileID string) (models.WatchState, error)
	RecordPlayback(ctx context.Context, profileID string, media models.Media, ep *models.Episode) (models.ContinueWatchingEntry, error)
	ToggleMyList(ctx context.Context, profileID string, media models.Media) (bool, []models.Media, error)
}

type Server struct {
	Profiles Profiles
	Watch    WatchState
	Log      logrus.FieldLogger
}

func NewServer(profiles Profiles, watch WatchState, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{Profiles: profiles, Watch: watch, Log: log.WithField("component", "grpc")}
}

func (s *Server) ListProfiles(ctx context.Context, _ *ListProfilesRequest) (*ListProfilesResponse, error) {
	list, err := s.Profiles.List(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, "list failed")
	}

	resp := &ListProfilesResponse{Items: make([]models.PublicProfile, 0, len(list))}
	for _, p := range list {
		resp.Items = append(resp.Items, p.Public())
	}
	return resp, nil
}

func (s *Server) GetWatchState(ctx context.Context, req *GetWatchStateRequest) (*GetWatchStateResponse, error) {
	id, err := s.requireProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, err
	}

	st, err := s.Watch.State(ctx, id)
	if err != nil {
		return nil, toStatus(err, "get failed")
	}
	return &GetWatchStateResponse{State: st}, nil
}

func (s *Server) RecordPlayback(ctx context.Context, req *RecordPlaybackRequest) (*RecordPlaybackResponse, error) {
	id, err := s.requireProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, err
	}
	if req.Season < 0 || req.Episode < 0 {
		return nil, status.Error(codes.InvalidArgument, "season and episode must be >= 0")
	}

	var ep *models.Episode
	if req.Season > 0 && req.Episode > 0 {
		ep = &models.Episode{SeasonNumber: req.Season, EpisodeNumber: req.Episode}
	}

	entry, err := s.Watch.RecordPlayback(ctx, id, req.Media, ep)
	if err != nil {
		return nil, toStatus(err, "record failed")
	}
	return &RecordPlaybackResponse{Entry: entry}, nil
}

func (s *Server) ToggleMyList(ctx context.Context, req *ToggleMyListRequest) (*ToggleMyListResponse, error) {
	id, err := s.requireProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, err
	}

	in, items, err := s.Watch.ToggleMyList(ctx, id, req.Media)
	if err != nil {
		return nil, toStatus(err, "toggle failed")
	}
	return &ToggleMyListResponse{InList: in, Items: items}, nil
}

func (s *Server) requireProfile(ctx context.Context, raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", status.Error(codes.InvalidArgument, "profile_id required")
	}
	p, err := s.Profiles.Get(ctx, id)
	if err != nil {
		return "", status.Error(codes.Internal, "profile lookup failed")
	}
	if p == nil {
		return "", status.Error(codes.NotFound, "profile not found")
	}
	return id, nil
}

func toStatus(err error, fallback string) error {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput), errors.Is(err, apperr.ErrNoActiveProfile):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	default:
		return status.Error(codes.Internal, fallback)
	}
}

// LoggingInterceptor logs each unary call with its method and status code.
func LoggingInterceptor(log logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		entry := log.WithFields(logrus.Fields{"method": info.FullMethod, "code": status.Code(err).String()})
		if err != nil {
			entry.WithError(err).Warn("rpc failed")
		} else {
			entry.Debug("rpc")
		}
		return resp, err
	}
}
