package sync

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WSHandler upgrades the request and keeps the socket registered until the
// peer goes away. allowOrigin may be nil to accept any origin.
func WSHandler(hub *Hub, log logrus.FieldLogger, allowOrigin func(string) bool) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowOrigin == nil {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || allowOrigin(origin)
		},
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "ws-sync")

	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.WithError(err).Debug("upgrade failed")
			return
		}

		hub.AddWS(ws)
		log.WithField("remote", c.ClientIP()).Info("client connected")

		if err := hub.WelcomeWS(ws); err != nil {
			log.WithError(err).Debug("welcome failed")
		}

		// ignore incoming messages
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.RemoveWS(ws)
		log.WithField("remote", c.ClientIP()).Info("client disconnected")
	}
}
