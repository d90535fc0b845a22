package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/roadgen/renderer"
)

// OverlayID uniquely identifies a drawable layer.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayMajorRoads OverlayID = "major_roads"
	OverlayMinorRoads OverlayID = "minor_roads"
	OverlayBorder     OverlayID = "border"
	OverlayLots       OverlayID = "lots"
	OverlayLotOutline OverlayID = "lot_outline"
	OverlayNodes      OverlayID = "nodes"
	OverlayField      OverlayID = "field"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "S", "V")
	Category    string      // Grouping (e.g., "roads", "blocks", "debug")
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the default layers, enabled
// according to opts. Roads and the border are always on initially.
func NewOverlayRegistry(opts renderer.Options) *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()

	reg.SetEnabled(OverlayMajorRoads, true)
	reg.SetEnabled(OverlayMinorRoads, true)
	reg.SetEnabled(OverlayBorder, true)
	reg.SetEnabled(OverlayLots, opts.ShowLots)
	reg.SetEnabled(OverlayNodes, opts.ShowNodes)
	reg.SetEnabled(OverlayField, opts.ShowField)
	return reg
}

// registerDefaults adds standard overlays.
func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayMajorRoads,
		Name:        "Major Roads",
		Description: "Streamlines along the major eigenvector",
		Key:         rl.KeyOne,
		KeyLabel:    "1",
		Category:    "roads",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayMinorRoads,
		Name:        "Minor Roads",
		Description: "Streamlines along the minor eigenvector",
		Key:         rl.KeyTwo,
		KeyLabel:    "2",
		Category:    "roads",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayBorder,
		Name:        "Border",
		Description: "Domain border edges",
		Key:         rl.KeyB,
		KeyLabel:    "B",
		Category:    "roads",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayLots,
		Name:        "Lots",
		Description: "Filled city blocks",
		Key:         rl.KeyL,
		KeyLabel:    "L",
		Category:    "blocks",
		Exclusive:   []OverlayID{OverlayLotOutline},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayLotOutline,
		Name:        "Lot Outlines",
		Description: "Block boundaries as traced by the lot walk",
		Key:         rl.KeyO,
		KeyLabel:    "O",
		Category:    "blocks",
		Exclusive:   []OverlayID{OverlayLots},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayNodes,
		Name:        "Nodes",
		Description: "Graph nodes colored by type",
		Key:         rl.KeyN,
		KeyLabel:    "N",
		Category:    "debug",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayField,
		Name:        "Tensor Field",
		Description: "Major and minor eigenvector ticks",
		Key:         rl.KeyF,
		KeyLabel:    "F",
		Category:    "debug",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	newState := !r.enabled[id]
	r.SetEnabled(id, newState)
	return newState
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	// If enabling, disable exclusive overlays
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// EnabledOverlays returns a list of currently enabled overlay IDs.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, desc := range r.descriptors {
		if r.enabled[desc.ID] {
			result = append(result, desc.ID)
		}
	}
	return result
}
