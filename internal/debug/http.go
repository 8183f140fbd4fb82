// Package debug exposes a small HTTP surface for poking at a running
// engine: liveness, the peer table, and a kill switch for individual
// peers.
package debug

import (
	"fmt"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/luma/voxelwire/conn"
	"github.com/luma/voxelwire/packet"
)

// Source is the slice of the engine the debug surface reads from.
type Source interface {
	Snapshot() []conn.PeerInfo
	PeerCount() int
	Disconnect(id packet.PeerID) error
}

// NewRouter builds the debug router. With debugHTTP false it stays
// quiet: release mode, no per-request logging of the health checks.
func NewRouter(src Source, debugHTTP bool, log *zap.Logger) *gin.Engine {
	gin.DisableConsoleColor()
	if !debugHTTP {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Add a ginzap middleware, which:
	//   - Logs all requests, like a combined access and error log.
	//   - Logs to stdout.
	//   - RFC3339 with UTC time format.
	r.Use(ginzap.GinzapWithConfig(log, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/ping"},
	}))

	// Logs all panic to error log
	//   - stack means whether output the stack info.
	r.Use(ginzap.RecoveryWithZap(log, true))

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.GET("/peers", func(c *gin.Context) {
		out := `{"peers":[]}`
		out, _ = sjson.Set(out, "count", src.PeerCount())

		for i, info := range src.Snapshot() {
			prefix := fmt.Sprintf("peers.%d", i)
			out, _ = sjson.Set(out, prefix+".id", uint16(info.ID))
			out, _ = sjson.Set(out, prefix+".addr", info.Addr)
		}

		c.Data(http.StatusOK, "application/json", []byte(out))
	})

	r.POST("/disconnect", func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.String(http.StatusBadRequest, "unreadable body")
			return
		}

		id := gjson.GetBytes(body, "id")
		if !id.Exists() {
			c.String(http.StatusBadRequest, "missing id")
			return
		}

		if err := src.Disconnect(packet.PeerID(id.Uint())); err != nil {
			c.String(http.StatusNotFound, err.Error())
			return
		}

		c.String(http.StatusOK, "ok")
	})

	return r
}
