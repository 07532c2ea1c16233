package command

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"factorix/internal/portal"
)

// Download resolves each spec ("name" or "name@version") against the
// portal and fetches the chosen release into outputDir, without
// touching the local graph, mod list, or mods directory. Unlike
// Install, it does not recurse into dependencies: it fetches exactly
// what was named.
func Download(ctx context.Context, svc *Services, specs []string, outputDir string) error {
	jobs := svc.Jobs
	if jobs < 1 {
		jobs = 1
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for _, spec := range specs {
		spec := spec
		eg.Go(func() error {
			name, wantVersion := splitSpec(spec)
			info, err := svc.Portal.GetModFull(egCtx, name)
			if err != nil {
				return fmt.Errorf("command: resolving %q: %w", name, err)
			}
			release, err := pickRelease(info, wantVersion)
			if err != nil {
				return fmt.Errorf("command: resolving %q: %w", name, err)
			}
			outPath := filepath.Join(outputDir, release.FileName)
			if svc.CacheDL != nil {
				dlURL, err := portal.BuildDownloadURL(release, svc.Config.Username, svc.Config.Token)
				if err != nil {
					return err
				}
				return svc.HTTP.CachedDownload(egCtx, svc.CacheDL, dlURL, outPath, release.Sha1)
			}
			return svc.Portal.DownloadMod(egCtx, release, outPath)
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("command: downloading mods: %w", err)
	}
	return nil
}
