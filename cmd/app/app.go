// Package app wires settings into the running components shared by the
// subcommands.
package app

import (
	"context"

	"github.com/tphakala/urbansound-go/internal/catalog"
	"github.com/tphakala/urbansound-go/internal/classes"
	"github.com/tphakala/urbansound-go/internal/classifier"
	"github.com/tphakala/urbansound-go/internal/conf"
	"github.com/tphakala/urbansound-go/internal/errors"
	"github.com/tphakala/urbansound-go/internal/locator"
	"github.com/tphakala/urbansound-go/internal/logger"
	"github.com/tphakala/urbansound-go/internal/observability"
	"github.com/tphakala/urbansound-go/internal/playback"
	"github.com/tphakala/urbansound-go/internal/session"
)

// Needs lists the optional components a command uses
type Needs uint8

const (
	NeedModel Needs = 1 << iota
	NeedPlayback
)

// AnnotationNeeds is the cobra annotation key commands use to request
// optional components, value is a comma separated list of "model" and "playback"
const AnnotationNeeds = "urbansound.needs"

// ParseNeeds parses an AnnotationNeeds value
func ParseNeeds(value string) Needs {
	var needs Needs
	for _, part := range splitList(value) {
		switch part {
		case "model":
			needs |= NeedModel
		case "playback":
			needs |= NeedPlayback
		}
	}
	return needs
}

// Context is filled by the root command before a subcommand runs
type Context struct {
	Settings *conf.Settings
	App      *App
}

// Close releases the application when one was built
func (c *Context) Close() error {
	if c.App == nil {
		return nil
	}
	err := c.App.Close()
	c.App = nil
	return err
}

// App holds the components built from settings. Model and playback are nil
// unless requested.
type App struct {
	Settings *conf.Settings
	Metrics  *observability.Metrics
	Labels   *classes.Catalog
	Catalog  *catalog.Catalog
	Locator  locator.Locator
	Engine   *classifier.Engine
	Player   *playback.Controller
	Session  *session.Session
	logger   *logger.CentralLogger
}

// New builds the application. Every returned error is fatal.
func New(settings *conf.Settings, needs Needs) (a *App, err error) {
	central, err := logger.NewCentralLogger(settings.LoggingConfig())
	if err != nil {
		return nil, errors.New(err).
			Component("app").
			Category(errors.CategoryConfiguration).
			Fatal().
			Build()
	}
	logger.SetGlobal(central)

	a = &App{Settings: settings, logger: central}
	defer func() {
		if err != nil {
			_ = a.Close()
			a = nil
		}
	}()

	a.Metrics, err = observability.NewMetrics()
	if err != nil {
		return a, errors.New(err).Component("app").Category(errors.CategoryConfiguration).Fatal().Build()
	}
	a.Metrics.InstallErrorHook()

	if a.Labels, err = loadLabels(settings.Model.LabelPath); err != nil {
		return a, err
	}

	a.Catalog, err = catalog.Load(settings.Dataset.Metadata, catalog.Options{
		Column:     settings.Dataset.SpectrogramColumn,
		AudioExt:   settings.Dataset.AudioExt,
		Duplicates: settings.Catalog.Duplicates,
	})
	if err != nil {
		return a, err
	}
	a.Metrics.Dataset.SetCatalog(a.Catalog.Len(), len(a.Catalog.Duplicates()))

	a.Locator, err = locator.New(settings.Dataset.AudioDir, locator.Options{
		Mode:     settings.Locator.Mode,
		IndexTTL: settings.Locator.IndexTTL,
		Watch:    settings.Locator.Watch,
		OnBuild:  a.recordIndexBuild,
	})
	if err != nil {
		return a, errors.New(err).Component("app").Category(errors.CategoryConfiguration).Fatal().Build()
	}

	if needs&NeedModel != 0 {
		if err := a.loadModel(); err != nil {
			return a, err
		}
	}

	if needs&NeedPlayback != 0 {
		audioEngine, err := playback.NewMalgoEngine()
		if err != nil {
			return a, err
		}
		a.Player = playback.NewController(audioEngine, a.Metrics.Playback)
	}

	cfg := session.Config{
		Catalog:        a.Catalog,
		Locator:        a.Locator,
		SpectrogramDir: settings.Dataset.SpectrogramDir,
		TopK:           settings.Output.TopK,
		OnResult:       a.recordResult,
	}
	if a.Engine != nil {
		cfg.Classifier = a.Engine
	}
	if a.Player != nil {
		cfg.Player = a.Player
	}
	a.Session = session.New(cfg)

	GetLogger().Info("Application ready",
		logger.Int("records", a.Catalog.Len()),
		logger.String("locator", settings.Locator.Mode),
		logger.Bool("model", a.Engine != nil),
		logger.Bool("playback", a.Player != nil))

	return a, nil
}

func loadLabels(path string) (*classes.Catalog, error) {
	if path == "" {
		return classes.Default(), nil
	}
	return classes.LoadFile(path)
}

func (a *App) loadModel() error {
	model, err := classifier.LoadTFLiteModel(classifier.ModelConfig{
		Path:       a.Settings.Model.Path,
		Threads:    a.Settings.Model.Threads,
		UseXNNPACK: a.Settings.Model.UseXNNPACK,
	})
	a.Metrics.Classifier.RecordModelLoad(a.Settings.Model.Path, err)
	if err != nil {
		return err
	}
	a.Metrics.Classifier.SetModel(model.Name())
	a.Engine = classifier.NewEngine(model, a.Labels, a.Metrics.Classifier)
	return nil
}

func (a *App) recordIndexBuild(idx *locator.Index) {
	a.Metrics.Dataset.RecordIndexBuild(idx.Len(), idx.Shards(), len(idx.CollisionNames()),
		idx.Elapsed().Seconds())
}

func (a *App) recordResult(result classifier.Result) {
	if top, ok := result.Top(); ok {
		a.Metrics.Classifier.RecordPredictedClass(top.Label.Name)
	}
}

// MissingAssets reports, for every record, which of its files cannot be found
func (a *App) MissingAssets(ctx context.Context) ([]MissingAsset, error) {
	var missing []MissingAsset
	for _, rec := range a.Catalog.Records() {
		m := MissingAsset{DisplayName: rec.DisplayName}

		_, found, err := a.Locator.Locate(ctx, rec.AudioFilename)
		if err != nil {
			return nil, err
		}
		m.Audio = !found
		m.Spectrogram = !fileExists(spectrogramPath(a.Settings, rec))

		if m.Audio || m.Spectrogram {
			missing = append(missing, m)
		}
	}
	return missing, nil
}

// Close releases every component and exports metrics. Close is safe on a
// partially built App.
func (a *App) Close() error {
	var errs []error
	if a.Session != nil {
		errs = append(errs, a.Session.Close())
	}
	if a.Player != nil {
		errs = append(errs, a.Player.Close())
	}
	if a.Engine != nil {
		errs = append(errs, a.Engine.Close())
	}
	if a.Locator != nil {
		errs = append(errs, a.Locator.Close())
	}
	if a.Metrics != nil {
		errs = append(errs, a.Metrics.WriteTextfile(a.Settings.Metrics.Textfile))
	}
	if a.logger != nil {
		errs = append(errs, a.logger.Close())
	}
	return errors.Join(errs...)
}
