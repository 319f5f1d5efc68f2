// Package assets provides template helpers for static asset URLs.
package assets

import (
	"html/template"

	httpassets "github.com/target/backoffice-ui/internal/http/assets"
)

// Funcs returns template helpers for asset resolution. A nil resolver maps
// every asset to /static/<name>.
func Funcs(resolver *httpassets.AssetResolver) template.FuncMap {
	return template.FuncMap{
		"asset": resolver.Resolve,
	}
}
