package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "http://localhost:8080"

var log = logrus.New()

func main() {
	global := flag.NewFlagSet("animeverse", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	verbose := global.Bool("v", false, "debug logging")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	rest := []string{}
	if len(args) > 1 {
		sub = args[1]
		rest = args[2:]
	}

	api := &apiClient{
		http:      &http.Client{Timeout: 15 * time.Second},
		baseURL:   *baseURL,
		tokenPath: *tokenPath,
	}

	switch cmd {
	case "profiles":
		handleProfiles(ctx, api, sub, rest)
	case "session":
		handleSession(ctx, api, sub, rest)
	case "catalog":
		handleCatalog(ctx, api, sub, rest)
	case "mylist":
		handleMyList(ctx, api, sub, rest)
	case "play":
		handlePlay(ctx, api, args[1:])
	case "theme":
		handleTheme(ctx, api, sub, rest)
	case "sync":
		handleSync(api, sub, rest)
	case "export":
		handleExport(ctx, sub, rest)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("animeverse [-api URL] [-token PATH] <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  profiles list|create|delete")
	fmt.Println("  session activate|show|signout")
	fmt.Println("  catalog home|discover|search|details|library")
	fmt.Println("  mylist list|toggle")
	fmt.Println("  play -id N -type movie|tv [-season N -episode N | -resume]")
	fmt.Println("  theme get|set")
	fmt.Println("  sync listen|ws")
	fmt.Println("  export json|csv")
}
