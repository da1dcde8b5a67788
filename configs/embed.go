// Package configs provides embedded configuration templates for escrituras.
//
// The template is embedded at build time with go:embed so it ships in every
// distribution. It is written by `escrituras config init` to
// ~/.config/escrituras/config.yaml.
package configs

import _ "embed"

// UserConfigTemplate is the commented template for user-level configuration.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string
