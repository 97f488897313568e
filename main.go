package main

import (
	"embed"
	"monochrome/internal/config"
	"monochrome/internal/db"
	"monochrome/internal/library"
	"monochrome/internal/logging"
	"monochrome/internal/scanner"
	"monochrome/internal/settings"
	"monochrome/internal/tags"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/wailsapp/wails/v3/pkg/application"
)

//go:embed all:frontend/dist
var assets embed.FS

func init() {
	application.RegisterEvent[scanner.BackgroundsChanged](scanner.EventBackgroundsChanged)
}

func main() {
	cfg, err := config.Load("monochrome")
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(cfg.LogLevel, os.Stderr)
	paths := cfg.Paths

	sqliteDB, err := db.Bootstrap(paths.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", paths.DBPath).Msg("open database")
	}
	defer sqliteDB.Close()

	preferences := settings.NewRepository(sqliteDB)
	recentFolders := library.NewRecentFolderRepository(sqliteDB)
	tagReader := tags.NewReader(logger)
	scannerDomain := scanner.NewService(paths, tagReader, logger)

	mediaService := NewMediaService(scannerDomain, recentFolders, logger)
	coverService := NewCoverService(tagReader)
	fileService := NewFileService()
	themeService := NewThemeService(tagReader, logger)
	settingsService := NewSettingsService(preferences, recentFolders)
	bootstrapService := NewBootstrapService(scannerDomain, preferences, recentFolders, logger)

	app := application.New(application.Options{
		Name:        "Monochrome",
		Description: "Local music library viewer",
		Services: []application.Service{
			application.NewService(bootstrapService),
			application.NewService(mediaService),
			application.NewService(coverService),
			application.NewService(themeService),
			application.NewService(settingsService),
		},
		Assets: application.AssetOptions{
			Handler: newAssetHandler(coverService, fileService),
		},
		Mac: application.MacOptions{
			ApplicationShouldTerminateAfterLastWindowClosed: true,
		},
	})

	scannerDomain.SetEmitter(func(eventName string, payload any) {
		app.Event.Emit(eventName, payload)
	})

	if err := scannerDomain.StartWatching(); err != nil {
		logger.Warn().Err(err).Msg("backgrounds watcher disabled")
	}
	defer scannerDomain.StopWatching()

	app.Window.NewWithOptions(application.WebviewWindowOptions{
		Title: "Monochrome",
		Mac: application.MacWindow{
			InvisibleTitleBarHeight: 50,
			Backdrop:                application.MacBackdropTranslucent,
			TitleBar:                application.MacTitleBarHiddenInset,
		},
		BackgroundColour: application.NewRGB(0, 0, 0),
		URL:              "/",
	})

	logger.Info().Str("baseDir", paths.BaseDir).Str("dataDir", paths.DataDir).Msg("starting")

	if err := app.Run(); err != nil {
		logger.Fatal().Err(err).Msg("run app")
	}
}

// newAssetHandler routes local media requests to their services and
// everything else to the embedded frontend.
func newAssetHandler(covers http.Handler, files http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(coverRoute, covers)
	mux.Handle(fileRoute, files)
	mux.Handle("/", application.AssetFileServerFS(assets))
	return mux
}
