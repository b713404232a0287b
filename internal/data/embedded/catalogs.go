// Package embedded provides access to embedded catalog data files.
package embedded

import _ "embed"

// ModeCatalogData contains the embedded mode catalog YAML data.
//
//go:embed modes.yaml
var ModeCatalogData []byte

// ProjectCatalogData contains the embedded project catalog YAML data.
//
//go:embed projects.yaml
var ProjectCatalogData []byte
