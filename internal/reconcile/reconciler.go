package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/leapstack-labs/framecopy/internal/artifact"
	"github.com/leapstack-labs/framecopy/internal/listfile"
	"github.com/leapstack-labs/framecopy/internal/paths"
	"github.com/leapstack-labs/framecopy/internal/phase"
	"github.com/leapstack-labs/framecopy/internal/xcodeproj"
)

// Config holds reconciler configuration.
type Config struct {
	// Classifier discovers frameworks (defaults to one shelling out to file and lipo)
	Classifier *artifact.Classifier
	// Open opens manifests (defaults to OpenProject)
	Open Opener
	// Store manages list files (defaults to a store using Logger)
	Store *listfile.Store
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Reconciler runs Synchronize and Verify.
type Reconciler struct {
	classifier *artifact.Classifier
	open       Opener
	store      *listfile.Store
	logger     *slog.Logger
}

// New creates a reconciler.
func New(cfg Config) *Reconciler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Reconciler{
		classifier: cfg.Classifier,
		open:       cfg.Open,
		store:      cfg.Store,
		logger:     logger,
	}
	if r.classifier == nil {
		r.classifier = artifact.NewClassifier(artifact.Config{Logger: logger})
	}
	if r.open == nil {
		r.open = OpenProject
	}
	if r.store == nil {
		r.store = listfile.NewStore(logger)
	}
	return r
}

// Synchronize writes the desired copy phase into every selected target.
//
// A failure in one manifest is recorded in its result and the remaining
// manifests are still processed; the returned error joins every failure.
func (r *Reconciler) Synchronize(ctx context.Context, c Context) (*Report, error) {
	return r.run(ctx, c, NothingToUpdate, NothingToUpdate, r.synchronize)
}

// Verify reports desired paths missing from every selected target.
// Nothing is written.
func (r *Reconciler) Verify(ctx context.Context, c Context) (*Report, error) {
	return r.run(ctx, c, NothingToLint, "", r.verify)
}

type manifestFunc func(ctx context.Context, c Context, s *session, m Manifest, res *ManifestResult) error

// session caches framework discovery across the manifests of one run.
type session struct {
	discovered map[string][]artifact.Artifact
}

// run applies fn to every selected manifest. empty is the notice for a
// project directory without manifests, unchanged the notice for a run that
// changed nothing and found nothing.
func (r *Reconciler) run(ctx context.Context, c Context, empty, unchanged string, fn manifestFunc) (*Report, error) {
	manifests, err := FindManifests(c.ProjectDir, c.ProjectNames)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	if len(manifests) == 0 {
		r.logger.Debug("no project found", "dir", c.ProjectDir, "names", c.ProjectNames)
		report.Notice = empty
		return report, nil
	}

	s := &session{discovered: map[string][]artifact.Artifact{}}
	for _, path := range manifests {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := ManifestResult{Path: path, Outcome: OutcomeNoChange}
		m, err := r.open(path)
		switch {
		case errors.Is(err, xcodeproj.ErrManifestNotFound):
			r.logger.Warn("project has no manifest", "project", path)
			res.Notice = err.Error()
		case err != nil:
			res.fail(err)
		default:
			if err := fn(ctx, c, s, m, &res); err != nil {
				res.fail(fmt.Errorf("%s: %w", filepath.Base(path), err))
			}
		}
		report.Manifests = append(report.Manifests, res)
	}

	if !report.Updated() && len(report.Findings()) == 0 && report.Err() == nil {
		report.Notice = unchanged
	}
	return report, report.Err()
}

// targets returns the application targets matching name. A manifest without
// any application target yields NoTargetsError; a name matching none of them
// yields TargetFilterError.
func (r *Reconciler) targets(m Manifest, name string) ([]*xcodeproj.NativeTarget, error) {
	if len(m.Targets(xcodeproj.ProductTypeApplication, "")) == 0 {
		return nil, &NoTargetsError{Name: name}
	}
	targets := m.Targets(xcodeproj.ProductTypeApplication, name)
	if len(targets) == 0 {
		return nil, &TargetFilterError{Name: name}
	}
	return targets, nil
}

func (r *Reconciler) frameworks(ctx context.Context, c Context, s *session, dir string) ([]artifact.Artifact, error) {
	if cached, ok := s.discovered[dir]; ok {
		return cached, nil
	}
	found, err := r.classifier.DynamicOnly(ctx, paths.ArtifactsDir(c.ProjectDir, dir, c.platform()))
	if err != nil {
		return nil, err
	}
	s.discovered[dir] = found
	return found, nil
}

// desired returns the input and output paths target needs for the
// frameworks of dir.
func desired(c Context, target *xcodeproj.NativeTarget, dir string, found []artifact.Artifact) (in, out []string) {
	if c.LinkedOnly {
		linked := target.LinkedFrameworks()
		found = lo.Filter(found, func(a artifact.Artifact, _ int) bool {
			return lo.Contains(linked, a.Name)
		})
	}
	in = paths.Paths(found, paths.Input{FrameworksDir: dir, Platform: c.platform()})
	out = paths.Paths(found, paths.Output{})
	return in, out
}

// contributed tracks, per target, the frameworks already taken from an
// earlier frameworks directory when several directories feed the same list
// files. The first directory providing a framework wins.
type contributed map[string]map[string]bool

func (c contributed) unseen(target string, found []artifact.Artifact) []artifact.Artifact {
	seen, ok := c[target]
	if !ok {
		seen = map[string]bool{}
		c[target] = seen
	}
	fresh := lo.Filter(found, func(a artifact.Artifact, _ int) bool {
		return !seen[a.Name]
	})
	for _, a := range fresh {
		seen[a.Name] = true
	}
	return fresh
}

// listRef returns how a phase references a list file.
func listRef(filename string) string {
	return paths.SourceRoot + "/" + listfile.FolderName + "/" + filename
}

func (r *Reconciler) synchronize(ctx context.Context, c Context, s *session, m Manifest, res *ManifestResult) error {
	targets, err := r.targets(m, c.TargetName)
	if err != nil {
		return err
	}

	writer := phase.NewWriter(m, c.ScriptName, r.logger)
	updated := map[string]bool{}

	switch c.Format {
	case FormatInline:
		for _, dir := range c.FrameworksDirs {
			found, err := r.frameworks(ctx, c, s, dir)
			if err != nil {
				return err
			}
			for _, target := range targets {
				in, out := desired(c, target, dir, found)
				if writer.UpdateInline(target, phase.Find(target, c.ScriptName), in, out) {
					updated[target.Name()] = true
				}
			}
		}

	case FormatListed:
		folder, err := r.store.EnsureFolder(c.ProjectDir)
		if err != nil {
			return err
		}
		batch := r.store.NewBatch(c.AppendToExisting)
		merged := contributed{}
		for _, dir := range c.FrameworksDirs {
			found, err := r.frameworks(ctx, c, s, dir)
			if err != nil {
				return err
			}
			for _, target := range targets {
				in, out := desired(c, target, dir, merged.unseen(target.Name(), found))
				batch.Add(folder, listfile.InputFileName(target.Name()), strings.Join(in, listfile.Separator))
				batch.Add(folder, listfile.OutputFileName(target.Name()), strings.Join(out, listfile.Separator))
			}
		}

		files, err := batch.Commit()
		res.UpdatedFiles = files
		if len(files) > 0 {
			res.Outcome = OutcomeUpdated
		}
		if err != nil {
			return err
		}

		for _, target := range targets {
			inRef := listRef(listfile.InputFileName(target.Name()))
			outRef := listRef(listfile.OutputFileName(target.Name()))
			if writer.UpdateListed(target, phase.Find(target, c.ScriptName), inRef, outRef) {
				updated[target.Name()] = true
			}
		}

	default:
		return fmt.Errorf("invalid format %q", c.Format)
	}

	for _, target := range targets {
		if updated[target.Name()] {
			res.UpdatedTargets = append(res.UpdatedTargets, target.Name())
			r.logger.Info("script updated", "script", c.ScriptName, "target", target.Name())
		}
	}
	if len(res.UpdatedTargets) == 0 {
		return nil
	}

	if err := m.Write(); err != nil {
		return err
	}
	res.Outcome = OutcomeUpdated
	return nil
}

func (r *Reconciler) verify(ctx context.Context, c Context, s *session, m Manifest, res *ManifestResult) error {
	targets, err := r.targets(m, c.TargetName)
	if err != nil {
		return err
	}

	folder := listfile.Folder(c.ProjectDir)
	merged := contributed{}
	for _, dir := range c.FrameworksDirs {
		found, err := r.frameworks(ctx, c, s, dir)
		if err != nil {
			return err
		}

		for _, target := range targets {
			p := phase.Find(target, c.ScriptName)
			candidates := found
			if c.Format == FormatListed {
				candidates = merged.unseen(target.Name(), found)
			}
			in, out := desired(c, target, dir, candidates)

			var findings []phase.Finding
			switch c.Format {
			case FormatInline:
				findings = phase.MissingInline(target.Name(), p, in, out)
			case FormatListed:
				inFile := listfile.InputFileName(target.Name())
				outFile := listfile.OutputFileName(target.Name())
				findings, err = phase.MissingListed(target.Name(), p, phase.ListedSource{
					InputRef:   listRef(inFile),
					OutputRef:  listRef(outFile),
					InputFile:  inFile,
					OutputFile: outFile,
					Read: func(filename string) ([]string, error) {
						return r.store.ReadLines(folder, filename)
					},
				}, in, out)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("invalid format %q", c.Format)
			}

			for _, f := range findings {
				r.logger.Debug("missing path", "target", f.Target, "path", f.Path)
			}
			res.Findings = append(res.Findings, findings...)
		}
	}
	return nil
}
