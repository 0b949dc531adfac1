package main

import (
	"net"
	"net/http"
	"net/url"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetupRouter configures the HTTP surface: websocket endpoint, liveness
// check, read-only room list, and metrics.
func SetupRouter(hub *Hub, registry *Registry, metrics *Metrics, db *DB) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.GET("/api/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, registry.List())
	})

	r.GET("/metrics", func(c *gin.Context) {
		snap := metrics.Snapshot()
		snap["rooms"] = registry.Count()
		snap["clients"] = hub.ClientCount()
		if db != nil {
			if counts, err := db.EventCounts(); err == nil {
				snap["events_persisted"] = counts
			}
		}
		c.JSON(http.StatusOK, snap)
	})

	r.GET("/ws", func(c *gin.Context) {
		ip := extractIP(c.Request)
		if !hub.CanAccept(ip) {
			c.String(http.StatusServiceUnavailable, "too many connections")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			Log.Warnf("upgrade error: %v", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	return r
}
