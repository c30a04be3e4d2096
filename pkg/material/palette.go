package material

// ID is a handle to a Material stored in a Palette
type ID uint32

// Palette owns the materials of a scene. Shapes refer to entries by ID so that
// many shapes can share one material without pointers.
type Palette struct {
	materials []Material
}

// NewPalette creates a palette holding the given materials in order
func NewPalette(materials ...Material) *Palette {
	p := &Palette{}
	for _, m := range materials {
		p.Add(m)
	}
	return p
}

// Add stores a material and returns its handle
func (p *Palette) Add(m Material) ID {
	p.materials = append(p.materials, m)
	return ID(len(p.materials) - 1)
}

// Lookup returns the material for id
func (p *Palette) Lookup(id ID) (Material, bool) {
	if p == nil || int(id) >= len(p.materials) {
		return Material{}, false
	}
	return p.materials[id], true
}

// Len returns the number of materials in the palette
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.materials)
}
