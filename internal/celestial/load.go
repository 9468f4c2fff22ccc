package celestial

// Load reads a celestial config file and builds its Registry in one step.
func Load(path string) (*Registry, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}
