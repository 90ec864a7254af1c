package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Aman-CERP/appcli/internal/command"
	"github.com/Aman-CERP/appcli/internal/manifest"
)

// VendorSource aggregates an explicit, ordered list of third-party
// providers. Providers are Sources themselves and may be Gated.
type VendorSource struct {
	providers []Source
}

// NewVendor creates a vendor source over providers, queried in order.
func NewVendor(providers ...Source) *VendorSource {
	return &VendorSource{providers: providers}
}

// Name implements Source.
func (s *VendorSource) Name() string { return Vendor }

// Commands queries each provider in order. Unavailable providers are
// skipped. The first failing provider stops the scan and its error is
// returned together with the commands collected so far.
func (s *VendorSource) Commands(ctx context.Context) ([]command.Command, error) {
	var cmds []command.Command
	for _, p := range s.providers {
		if g, ok := p.(Gated); ok {
			available, err := g.Available(ctx)
			if err != nil {
				return cmds, fmt.Errorf("vendor provider %s: %w", p.Name(), err)
			}
			if !available {
				slog.Debug("Vendor provider unavailable", slog.String("provider", p.Name()))
				continue
			}
		}

		got, err := p.Commands(ctx)
		cmds = append(cmds, attribute(Vendor+"/"+p.Name(), got)...)
		if err != nil {
			return cmds, fmt.Errorf("vendor provider %s: %w", p.Name(), err)
		}
	}
	return cmds, nil
}

// ManifestProvider is a vendor provider declared in configuration by a
// manifest path.
type ManifestProvider struct {
	ID   string
	Path string
	// Optional providers are skipped when their manifest is missing.
	Optional bool
}

// Name implements Source.
func (p *ManifestProvider) Name() string { return p.ID }

// Available implements Gated. Required providers are always available so
// that a missing manifest surfaces as a failure.
func (p *ManifestProvider) Available(context.Context) (bool, error) {
	if !p.Optional {
		return true, nil
	}
	return fileExists(p.Path)
}

// Commands implements Source.
func (p *ManifestProvider) Commands(context.Context) ([]command.Command, error) {
	return manifest.LoadCommands(p.Path, Vendor+"/"+p.ID)
}
