package server

import (
	"path"
	"reflect"
	"strings"

	"github.com/preston-bernstein/game-catalog-service/internal/providers"
)

// providerName labels provider metrics and logs. The configured name wins; otherwise the
// implementing package name is used ("rawg", "fixture").
func providerName(configured string, provider providers.CatalogProvider) string {
	if name := strings.ToLower(strings.TrimSpace(configured)); name != "" {
		return name
	}
	if provider == nil {
		return "provider"
	}
	t := reflect.TypeOf(provider)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if pkg := path.Base(t.PkgPath()); pkg != "" && pkg != "." {
		return pkg
	}
	return strings.ToLower(t.Name())
}
