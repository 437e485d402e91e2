package autodiff

// CachedPass exposes the cached backward pass to tests.
func (g *Graph) CachedPass() *Gradients {
	return g.pass
}
