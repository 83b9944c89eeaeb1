package sync

import (
	"bufio"
	"errors"
	"net"
	"sync"

	"github.com/sirupsen/logrus"
)

// Server accepts raw TCP clients and registers them with the hub.
type Server struct {
	Addr string
	Hub  *Hub
	Log  logrus.FieldLogger

	mu sync.Mutex
	ln net.Listener
}

func NewServer(addr string, hub *Hub, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{Addr: addr, Hub: hub, Log: log.WithField("component", "tcp-sync")}
}

func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.Log.WithField("addr", ln.Addr().String()).Info("listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			continue
		}

		s.Hub.Add(conn)
		if err := s.Hub.Welcome(conn); err != nil {
			s.Log.WithError(err).Debug("welcome failed")
		}
		s.Log.WithField("remote", conn.RemoteAddr().String()).Info("client connected")

		go func(c net.Conn) {
			defer func() {
				s.Hub.Remove(c)
				s.Log.WithField("remote", c.RemoteAddr().String()).Info("client disconnected")
			}()

			// consume and ignore whatever the client sends
			sc := bufio.NewScanner(c)
			for sc.Scan() {
			}
		}(conn)
	}
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}
