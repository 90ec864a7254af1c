// Package source provides the command sources appcli aggregates.
//
// A Source produces zero or more commands. Sources that only exist in some
// deployment states also implement Gated; the aggregator skips them silently
// when they report themselves unavailable.
//
// The shipped sources, in their default priority order:
//
//   - framework: built-in commands, always available (see internal/builtin)
//   - installer: commands from the installer manifest, present only when the
//     installer is shipped
//   - modules: commands from module manifests, present only when the
//     deployment config marks the application installed
//   - vendor: an explicit, ordered list of third-party providers
//
// Sources are registered by identifier in a Catalog so configuration can
// name and order them without any runtime type discovery.
package source
