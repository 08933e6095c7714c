// Package catalog groups codeplugs by radio model and firmware release.
package catalog

import (
	"sort"
	"time"

	"github.com/dgallion1/cpdgen/internal/schema"
)

// Firmware is one firmware release and the codeplug it uses.
type Firmware struct {
	Name     string
	Released time.Time // zero when unknown
	Path     string    // codeplug file the schema was loaded from
	Codeplug *schema.Codeplug
}

// Valid reports whether the release has a name and a loaded codeplug.
func (f *Firmware) Valid() bool {
	return f.Name != "" && f.Codeplug != nil
}

// before orders releases by date; undated releases sort by name after dated ones.
func (f *Firmware) before(o *Firmware) bool {
	switch {
	case !f.Released.IsZero() && !o.Released.IsZero():
		if !f.Released.Equal(o.Released) {
			return f.Released.Before(o.Released)
		}
	case !f.Released.IsZero():
		return true
	case !o.Released.IsZero():
		return false
	}
	return f.Name < o.Name
}

// Model is a radio model with its firmware releases.
type Model struct {
	Name         string
	Description  string
	Manufacturer string
	URL          string
	Firmware     []*Firmware // oldest first
}

// Add inserts a release, keeping releases ordered.
func (m *Model) Add(fw *Firmware) {
	m.Firmware = append(m.Firmware, fw)
	sort.SliceStable(m.Firmware, func(i, j int) bool {
		return m.Firmware[i].before(m.Firmware[j])
	})
}

// Latest returns the newest release, or nil.
func (m *Model) Latest() *Firmware {
	if len(m.Firmware) == 0 {
		return nil
	}
	return m.Firmware[len(m.Firmware)-1]
}

// Catalog is the set of documented models.
type Catalog struct {
	Models []*Model
}

// Add appends a model.
func (c *Catalog) Add(m *Model) {
	c.Models = append(c.Models, m)
}
