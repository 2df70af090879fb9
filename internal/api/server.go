// Package api exposes a read-only debug HTTP surface over the running
// engine, for inspecting fusion state and projections from a browser.
package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/litescript/ls-skylens/internal/astro"
	"github.com/litescript/ls-skylens/internal/catalog"
	"github.com/litescript/ls-skylens/internal/engine"
	"github.com/litescript/ls-skylens/internal/logging"
)

// Server serves engine snapshots over HTTP.
type Server struct {
	eng *engine.Engine
	cat *catalog.Catalog
	log *logging.Logger
}

// NewServer builds the debug server around a running engine.
func NewServer(eng *engine.Engine, cat *catalog.Catalog, log *logging.Logger) *Server {
	return &Server{eng: eng, cat: cat, log: log}
}

// Router assembles the gin routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: false,
	}))

	api := r.Group("/api")
	{
		api.GET("/state", s.getState)
		api.GET("/stars", s.getStars)
		api.GET("/stars/:name", s.getStarByName)
		api.GET("/constellations", s.getConstellations)
	}

	r.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// Run blocks serving on addr.
func (s *Server) Run(addr string) error {
	s.log.Info("debug API listening on %s", addr)
	return s.Router().Run(addr)
}

// getState returns the latest published frame snapshot.
func (s *Server) getState(c *gin.Context) {
	snap := s.eng.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"time": snap.Time,
		"observer": gin.H{
			"lat":       snap.Observer.Observer.LatDeg,
			"lon":       snap.Observer.Observer.LonDeg,
			"lstHours":  snap.Observer.LSTHours,
			"defaulted": snap.Observer.Defaulted,
		},
		"fusion": gin.H{
			"headingDeg":      snap.Fusion.HeadingDeg,
			"pitchDeg":        snap.Fusion.PitchDeg,
			"rollDeg":         snap.Fusion.RollDeg,
			"tier":            snap.Fusion.Tier.String(),
			"confidence":      snap.Fusion.Confidence,
			"pointingSkyward": snap.Fusion.PointingSkyward,
		},
		"mode":         snap.Mode.String(),
		"daylight":     astro.IsDaylight(snap.Observer),
		"visibleStars": len(snap.Stars),
		"match":        snap.Match,
	})
}

// getStars returns the catalog with the current frame's screen positions
// where a star is visible.
func (s *Server) getStars(c *gin.Context) {
	snap := s.eng.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"data":  snap.Stars,
		"count": len(snap.Stars),
	})
}

// getStarByName returns a single catalog star by name, with its current
// rise-transit-set window for the active observer.
func (s *Server) getStarByName(c *gin.Context) {
	name := strings.ToLower(c.Param("name"))
	snap := s.eng.Snapshot()
	for _, star := range s.cat.Stars {
		if strings.ToLower(star.Name) != name {
			continue
		}
		ra, dec := astro.CartesianToCelestial(star.Pos)
		win := astro.RiseSet(snap.Observer.Observer, ra, dec, snap.Observer.UTC)
		c.JSON(http.StatusOK, gin.H{
			"data": star,
			"visibility": gin.H{
				"rise":        win.Rise,
				"transit":     win.Transit,
				"set":         win.Set,
				"maxAltDeg":   win.MaxAltDeg,
				"circumpolar": win.Circumpolar,
				"neverRises":  win.NeverRises,
			},
		})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "star not found"})
}

// getConstellations returns the catalog figures.
func (s *Server) getConstellations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data":  s.cat.Constellations,
		"count": len(s.cat.Constellations),
	})
}
