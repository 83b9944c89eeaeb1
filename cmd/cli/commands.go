package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"animeverse/pkg/models"
)

type activation struct {
	Profile   models.PublicProfile `json:"profile"`
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expires_at"`
}

type detailsResponse struct {
	Media models.Media `json:"media"`
}

func handleProfiles(ctx context.Context, api *apiClient, sub string, args []string) {
	switch sub {
	case "list":
		var resp map[string]any
		if err := api.do(ctx, http.MethodGet, "/profiles", nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "create":
		fs := flag.NewFlagSet("profiles create", flag.ExitOnError)
		name := fs.String("name", "", "profile name")
		avatar := fs.String("avatar", "", "avatar URL")
		kids := fs.Bool("kids", false, "kids profile")
		pin := fs.String("pin", "", "4 digit PIN")
		_ = fs.Parse(args)
		if *name == "" {
			log.Fatal("name is required")
		}

		payload := map[string]any{"name": *name, "avatarUrl": *avatar, "kids": *kids, "pin": *pin}
		var resp map[string]any
		if err := api.do(ctx, http.MethodPost, "/profiles", payload, &resp); err != nil {
			log.Fatalf("create failed: %v", err)
		}
		printJSON(resp)
	case "delete":
		fs := flag.NewFlagSet("profiles delete", flag.ExitOnError)
		id := fs.String("id", "", "profile id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("id is required")
		}
		if err := api.do(ctx, http.MethodDelete, "/profiles/"+url.PathEscape(*id), nil, nil); err != nil {
			log.Fatalf("delete failed: %v", err)
		}
		fmt.Println("deleted", *id)
	default:
		log.Fatal("usage: animeverse profiles <list|create|delete>")
	}
}

func handleSession(ctx context.Context, api *apiClient, sub string, args []string) {
	switch sub {
	case "activate":
		fs := flag.NewFlagSet("session activate", flag.ExitOnError)
		id := fs.String("id", "", "profile id")
		pin := fs.String("pin", "", "profile PIN")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("id is required")
		}

		var resp activation
		payload := map[string]string{"profile_id": *id, "pin": *pin}
		if err := api.do(ctx, http.MethodPost, "/session", payload, &resp); err != nil {
			log.Fatalf("activate failed: %v", err)
		}
		if err := saveToken(api.tokenPath, tokenData{Token: resp.Token, ProfileID: resp.Profile.ID}); err != nil {
			log.Fatalf("save token: %v", err)
		}
		log.WithField("profile", resp.Profile.Name).Info("profile active")
	case "show":
		var resp map[string]any
		if err := api.do(ctx, http.MethodGet, "/session", nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	case "signout":
		if err := api.do(ctx, http.MethodDelete, "/session", nil, nil); err != nil {
			log.Fatalf("sign out failed: %v", err)
		}
		if err := clearToken(api.tokenPath); err != nil {
			log.Fatalf("clear token: %v", err)
		}
		log.Info("signed out")
	default:
		log.Fatal("usage: animeverse session <activate|show|signout>")
	}
}

func handleCatalog(ctx context.Context, api *apiClient, sub string, args []string) {
	var (
		path string
		resp any
	)
	switch sub {
	case "home":
		fs := flag.NewFlagSet("catalog home", flag.ExitOnError)
		kids := fs.Bool("kids", false, "kids rows")
		_ = fs.Parse(args)
		path = "/catalog/home"
		if *kids {
			path += "?kids=true"
		}
	case "discover":
		path = "/catalog/discover"
	case "search":
		fs := flag.NewFlagSet("catalog search", flag.ExitOnError)
		q := fs.String("q", "", "search query")
		_ = fs.Parse(args)
		path = "/catalog/search?" + url.Values{"q": {*q}}.Encode()
	case "details":
		fs := flag.NewFlagSet("catalog details", flag.ExitOnError)
		id := fs.Int("id", 0, "catalog id")
		typ := fs.String("type", "movie", "movie or tv")
		_ = fs.Parse(args)
		path = detailsPath(*typ, *id)
	case "library":
		fs := flag.NewFlagSet("catalog library", flag.ExitOnError)
		typ := fs.String("type", "", "movie or tv")
		year := fs.String("year", "", "release year")
		sort := fs.String("sort", "desc", "asc or desc")
		_ = fs.Parse(args)
		qv := url.Values{}
		for k, v := range map[string]string{"type": *typ, "year": *year, "sort": *sort} {
			if v != "" {
				qv.Set(k, v)
			}
		}
		path = "/catalog/library?" + qv.Encode()
	default:
		log.Fatal("usage: animeverse catalog <home|discover|search|details|library>")
	}

	if err := api.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		log.Fatalf("%s failed: %v", sub, err)
	}
	printJSON(resp)
}

func handleMyList(ctx context.Context, api *apiClient, sub string, args []string) {
	switch sub {
	case "list":
		var resp map[string]any
		if err := api.doAuth(ctx, http.MethodGet, "/me/mylist", nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "toggle":
		fs := flag.NewFlagSet("mylist toggle", flag.ExitOnError)
		id := fs.Int("id", 0, "catalog id")
		typ := fs.String("type", "movie", "movie or tv")
		_ = fs.Parse(args)

		media := fetchMedia(ctx, api, *typ, *id)
		var resp struct {
			InList bool `json:"in_list"`
		}
		if err := api.doAuth(ctx, http.MethodPost, "/me/mylist/toggle", media, &resp); err != nil {
			log.Fatalf("toggle failed: %v", err)
		}
		if resp.InList {
			fmt.Println("added", media.Title)
		} else {
			fmt.Println("removed", media.Title)
		}
	default:
		log.Fatal("usage: animeverse mylist <list|toggle>")
	}
}

func handlePlay(ctx context.Context, api *apiClient, args []string) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	id := fs.Int("id", 0, "catalog id")
	typ := fs.String("type", "movie", "movie or tv")
	season := fs.Int("season", 0, "season number")
	episode := fs.Int("episode", 0, "episode number")
	resume := fs.Bool("resume", false, "resume from continue watching")
	_ = fs.Parse(args)

	if *resume {
		var resp map[string]any
		path := "/me/playback/resume" + strings.TrimPrefix(detailsPath(*typ, *id), "/catalog")
		if err := api.doAuth(ctx, http.MethodPost, path, nil, &resp); err != nil {
			log.Fatalf("resume failed: %v", err)
		}
		printJSON(resp)
		return
	}

	payload := map[string]any{"media": fetchMedia(ctx, api, *typ, *id)}
	if *season > 0 && *episode > 0 {
		payload["episode"] = models.Episode{SeasonNumber: *season, EpisodeNumber: *episode}
	}

	var resp map[string]any
	if err := api.doAuth(ctx, http.MethodPost, "/me/playback", payload, &resp); err != nil {
		log.Fatalf("play failed: %v", err)
	}
	printJSON(resp)
}

func handleTheme(ctx context.Context, api *apiClient, sub string, args []string) {
	var resp map[string]any
	switch sub {
	case "get":
		if err := api.do(ctx, http.MethodGet, "/settings/theme", nil, &resp); err != nil {
			log.Fatalf("get failed: %v", err)
		}
	case "set":
		fs := flag.NewFlagSet("theme set", flag.ExitOnError)
		theme := fs.String("theme", "", "blue or red")
		_ = fs.Parse(args)
		if err := api.do(ctx, http.MethodPut, "/settings/theme", map[string]string{"theme": *theme}, &resp); err != nil {
			log.Fatalf("set failed: %v", err)
		}
	default:
		log.Fatal("usage: animeverse theme <get|set>")
	}
	printJSON(resp)
}

func handleSync(api *apiClient, sub string, args []string) {
	switch sub {
	case "listen":
		fs := flag.NewFlagSet("sync listen", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:7070", "TCP sync server address")
		_ = fs.Parse(args)
		for {
			if err := runSyncTCP(*addr); err != nil {
				log.WithError(err).Warn("sync disconnected")
			}
			time.Sleep(1 * time.Second)
		}
	case "ws":
		endpoint, err := websocketURL(api.baseURL, "/ws")
		if err != nil {
			log.Fatalf("ws url: %v", err)
		}
		if err := runWebSocket(endpoint); err != nil {
			log.Fatalf("subscribe failed: %v", err)
		}
	default:
		log.Fatal("usage: animeverse sync <listen|ws>")
	}
}

func detailsPath(typ string, id int) string {
	mt, ok := models.ParseMediaType(typ)
	if !ok || id <= 0 {
		log.Fatal("a positive -id and -type movie|tv are required")
	}
	return "/catalog/" + string(mt) + "/" + strconv.Itoa(id)
}

func fetchMedia(ctx context.Context, api *apiClient, typ string, id int) models.Media {
	var resp detailsResponse
	if err := api.do(ctx, http.MethodGet, detailsPath(typ, id), nil, &resp); err != nil {
		log.Fatalf("details failed: %v", err)
	}
	return resp.Media
}

func runSyncTCP(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.WithField("addr", addr).Info("sync connected")
	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		printEvent(sc.Bytes())
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.WithField("url", wsURL).Info("websocket connected")
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		printEvent(msg)
	}
}

func printEvent(line []byte) {
	var obj map[string]any
	if err := json.Unmarshal(line, &obj); err != nil {
		fmt.Println(string(line))
		return
	}
	printJSON(obj)
}
