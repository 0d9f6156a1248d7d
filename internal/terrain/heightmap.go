package terrain

// Contains reports whether the world position (worldX, worldZ) lies on the chunk.
func (c *Chunk) Contains(worldX, worldZ float32) bool {
	if c.Heights == nil {
		return false
	}
	half := float32(c.Heights.TileSize()) * c.cellSize() / 2
	lx := worldX - c.Position.X
	lz := worldZ - c.Position.Z
	return lx >= -half && lx <= half && lz >= -half && lz <= half
}

// HeightAt returns the interpolated terrain height at a world position.
// Positions off the chunk are clamped to its edge.
func (c *Chunk) HeightAt(worldX, worldZ float32) float32 {
	if c.Heights == nil {
		return 0
	}
	cell := c.cellSize()
	half := float32(c.Heights.TileSize()) / 2

	// World to fractional grid coordinates; the chunk position is the tile centre.
	gx := (worldX-c.Position.X)/cell + half
	gz := (worldZ-c.Position.Z)/cell + half
	return c.Position.Y + c.Heights.HeightAt(gx, gz)
}

func (c *Chunk) cellSize() float32 {
	if c.CellSize == 0 {
		return 1
	}
	return c.CellSize
}
