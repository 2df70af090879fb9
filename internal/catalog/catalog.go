// Package catalog holds the immutable star and constellation data the
// positioning pipeline runs against. A catalog is loaded once at startup;
// a load failure is the one fatal condition in the system.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/litescript/ls-skylens/internal/mathutil"
)

// Errors returned by catalog validation.
var (
	ErrNoStars        = errors.New("catalog contains no stars")
	ErrDuplicateID    = errors.New("duplicate star id")
	ErrBadMagnitude   = errors.New("magnitude outside plausible range")
	ErrNotUnit        = errors.New("star position is not a unit vector")
	ErrUnknownStarRef = errors.New("constellation line references unknown star id")
	ErrEmptyName      = errors.New("empty name")
)

// unitSlack is how far a catalog position may deviate from the unit sphere.
const unitSlack = 1e-3

// Star is a cataloged star. Immutable after load.
type Star struct {
	ID   int
	Name string
	Mag  float64 // Apparent visual magnitude (lower = brighter)
	Pos  mathutil.Vec3
}

// Line is a single constellation stick-figure segment between two star ids.
type Line struct {
	From, To int
}

// Constellation is a named, ordered set of line segments over catalog stars.
type Constellation struct {
	Name  string
	Lines []Line
}

// Catalog is the validated, immutable star/constellation data set.
type Catalog struct {
	Stars          []Star
	Constellations []Constellation

	byID map[int]int // star id -> index into Stars
}

// StarByID returns the star with the given id.
func (c *Catalog) StarByID(id int) (Star, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Star{}, false
	}
	return c.Stars[i], true
}

// starPayload is the wire shape of one star in a catalog file.
type starPayload struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Magnitude float64 `json:"magnitude"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
}

// constellationPayload is the wire shape of one constellation.
type constellationPayload struct {
	Name  string   `json:"name"`
	Lines [][2]int `json:"lines"`
}

type payload struct {
	Stars          []starPayload          `json:"stars"`
	Constellations []constellationPayload `json:"constellations"`
}

// Load reads and validates a JSON catalog payload.
func Load(r io.Reader) (*Catalog, error) {
	var p payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	stars := make([]Star, len(p.Stars))
	for i, s := range p.Stars {
		stars[i] = Star{
			ID:   s.ID,
			Name: s.Name,
			Mag:  s.Magnitude,
			Pos:  mathutil.Vec3{X: s.X, Y: s.Y, Z: s.Z},
		}
	}

	cons := make([]Constellation, len(p.Constellations))
	for i, cp := range p.Constellations {
		lines := make([]Line, len(cp.Lines))
		for j, l := range cp.Lines {
			lines[j] = Line{From: l[0], To: l[1]}
		}
		cons[i] = Constellation{Name: cp.Name, Lines: lines}
	}

	return build(stars, cons)
}

// LoadFile reads and validates a JSON catalog file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// build indexes and validates the catalog, enforcing the id-reference
// contract between stars and constellation lines.
func build(stars []Star, cons []Constellation) (*Catalog, error) {
	if len(stars) == 0 {
		return nil, ErrNoStars
	}

	byID := make(map[int]int, len(stars))
	for i, s := range stars {
		if s.Name == "" {
			return nil, fmt.Errorf("star id %d: %w", s.ID, ErrEmptyName)
		}
		if _, dup := byID[s.ID]; dup {
			return nil, fmt.Errorf("star id %d: %w", s.ID, ErrDuplicateID)
		}
		if s.Mag < -2 || s.Mag > 7 {
			return nil, fmt.Errorf("star %q (mag %.2f): %w", s.Name, s.Mag, ErrBadMagnitude)
		}
		if math.Abs(s.Pos.Norm()-1) > unitSlack {
			return nil, fmt.Errorf("star %q (norm %.4f): %w", s.Name, s.Pos.Norm(), ErrNotUnit)
		}
		byID[s.ID] = i
	}

	for _, con := range cons {
		if con.Name == "" {
			return nil, fmt.Errorf("constellation: %w", ErrEmptyName)
		}
		for _, l := range con.Lines {
			if _, ok := byID[l.From]; !ok {
				return nil, fmt.Errorf("constellation %q, id %d: %w", con.Name, l.From, ErrUnknownStarRef)
			}
			if _, ok := byID[l.To]; !ok {
				return nil, fmt.Errorf("constellation %q, id %d: %w", con.Name, l.To, ErrUnknownStarRef)
			}
		}
	}

	return &Catalog{Stars: stars, Constellations: cons, byID: byID}, nil
}
