package config

// SetPath sets the profile path directly for tests.
func (p *Profile) SetPath(path string) {
	p.path = path
}
