package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/fperezb/diet-agent-telegram/services"
)

// RealtimeController streams goal alerts to websocket subscribers.
type RealtimeController struct {
	RT *services.RealtimeHub
}

func NewRealtimeController(rt *services.RealtimeHub) *RealtimeController {
	return &RealtimeController{RT: rt}
}

var upgrader = websocket.Upgrader{
	// Admin-token middleware already gates this endpoint.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// AlertsWS subscribes to one user's alerts (?user_id=N) or, without the
// parameter, to every user's.
func (rc *RealtimeController) AlertsWS(c *gin.Context) {
	var userID int64
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
			return
		}
		userID = id
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.WSClient{UserID: userID, Conn: conn}
	rc.RT.Register(cl)

	// Keepalive pings for proxies that drop idle connections. Goes through
	// cl.Send so pings never race a broadcast on the same connection.
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for range t.C {
			if err := cl.Send(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()

	// Reader loop exists only to notice the close.
	go func() {
		defer rc.RT.Unregister(cl)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
