package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	synchub "animeverse/internal/sync"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP sync server address")
	raw := flag.Bool("raw", false, "print events as received")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	for {
		if err := run(log, *addr, *raw); err != nil {
			log.WithError(err).Warn("disconnected")
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func run(log *logrus.Logger, addr string, raw bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.WithField("addr", addr).Info("connected")

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()
		if raw {
			fmt.Println(string(line))
			continue
		}

		var ev synchub.WatchEvent
		if err := json.Unmarshal(line, &ev); err != nil || ev.ProfileID == "" {
			// welcome banner and anything else that is not a watch event
			fmt.Println(string(line))
			continue
		}

		entry := log.WithFields(logrus.Fields{
			"profile": ev.ProfileID,
			"at":      ev.At.Format(time.RFC3339),
		})
		if ev.MediaID != 0 {
			entry = entry.WithField("media", fmt.Sprintf("%s/%d", ev.MediaType, ev.MediaID))
		}
		if ev.Season != 0 {
			entry = entry.WithField("episode", fmt.Sprintf("S%dE%d", ev.Season, ev.Episode))
		}
		entry.Info(ev.Type)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}
