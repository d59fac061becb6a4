package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that an asset name is safe for use as a path segment.
// Returns ErrInvalidAssetName if the name is empty or contains path separators,
// dots (which could allow extension manipulation), or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// templatePath returns the slash-separated relative path of a template.
func templatePath(set, language string) (string, error) {
	if err := ValidateAssetName(set); err != nil {
		return "", err
	}
	if err := ValidateAssetName(language); err != nil {
		return "", err
	}
	return "templates/" + set + "/" + language + ".html", nil
}
