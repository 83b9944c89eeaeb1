package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"animeverse/internal/grpcserver"
	"animeverse/pkg/models"
)

var exportHeader = []string{"profile_id", "list", "id", "media_type", "title", "season", "episode", "updated_at"}

func handleExport(ctx context.Context, sub string, args []string) {
	fs := flag.NewFlagSet("export "+sub, flag.ExitOnError)
	addr := fs.String("grpc", "127.0.0.1:9090", "gRPC server address")
	out := fs.String("out", "data/watch_state."+sub, "output path")
	profileID := fs.String("profile", "", "profile id (all profiles when empty)")
	_ = fs.Parse(args)

	if sub != "json" && sub != "csv" {
		log.Fatal("usage: animeverse export <json|csv>")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("grpc dial: %v", err)
	}
	defer conn.Close()

	states, err := fetchStates(ctx, grpcserver.NewWatchStateClient(conn), *profileID)
	if err != nil {
		log.Fatalf("export %s failed: %v", sub, err)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("create dir: %v", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	defer f.Close()

	if sub == "json" {
		err = writeStatesJSON(f, states)
	} else {
		err = writeStatesCSV(f, states)
	}
	if err != nil {
		log.Fatalf("write %s failed: %v", sub, err)
	}
	log.WithField("profiles", len(states)).WithField("out", *out).Info("exported watch state")
}

func fetchStates(ctx context.Context, client *grpcserver.WatchStateClient, profileID string) ([]models.WatchState, error) {
	ids := []string{profileID}
	if profileID == "" {
		resp, err := client.ListProfiles(ctx, &grpcserver.ListProfilesRequest{})
		if err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		ids = ids[:0]
		for _, p := range resp.Items {
			ids = append(ids, p.ID)
		}
	}

	states := make([]models.WatchState, 0, len(ids))
	for _, id := range ids {
		resp, err := client.GetWatchState(ctx, &grpcserver.GetWatchStateRequest{ProfileID: id})
		if err != nil {
			return nil, fmt.Errorf("watch state %s: %w", id, err)
		}
		states = append(states, resp.State)
	}
	return states, nil
}

func writeStatesJSON(w io.Writer, states []models.WatchState) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(states)
}

// writeStatesCSV flattens both lists into one row per title.
func writeStatesCSV(w io.Writer, states []models.WatchState) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, st := range states {
		for _, e := range st.ContinueWatching {
			if err := cw.Write([]string{
				st.ProfileID,
				"continue_watching",
				strconv.Itoa(e.ID),
				string(e.MediaType),
				e.Title,
				optionalInt(e.Season),
				optionalInt(e.Episode),
				time.UnixMilli(e.UpdatedAt).UTC().Format(time.RFC3339),
			}); err != nil {
				return err
			}
		}
		for _, m := range st.MyList {
			if err := cw.Write([]string{
				st.ProfileID,
				"my_list",
				strconv.Itoa(m.ID),
				string(m.MediaType),
				m.Title,
				"", "", "",
			}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func optionalInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
