// Package configs provides the embedded configuration templates for appcli.
//
// Configuration hierarchy (see internal/config Load):
//  1. Hardcoded defaults
//  2. User config ($XDG_CONFIG_HOME/appcli/config.yaml)
//  3. Project config (.appcli.yaml)
//  4. Environment variables (APPCLI_*)
package configs

import _ "embed"

// UserConfigTemplate is written by `appcli config:init --user`.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// ProjectConfigTemplate is written by `appcli config:init` to .appcli.yaml
// in the project root.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
