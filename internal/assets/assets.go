package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadTemplate loads a built-in template using the embedded loader.
// Returns ErrTemplateNotFound if the set has no template for the language.
func LoadTemplate(set, language string) (string, error) {
	return defaultLoader.LoadTemplate(set, language)
}
