package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envBaseDir  = "MONOCHROME_BASE_DIR"
	envDataDir  = "MONOCHROME_DATA_DIR"
	envLogLevel = "MONOCHROME_LOG_LEVEL"

	defaultLogLevel = "info"
	dbFileName      = "monochrome.db"
)

// BackgroundsDirName is the folder under BaseDir holding theme backgrounds.
const BackgroundsDirName = "backgrounds"

// Paths holds every location the app touches. BaseDir is the directory of
// the running executable unless overridden; it is injected into the
// scanner rather than looked up on demand.
type Paths struct {
	BaseDir        string
	BackgroundsDir string
	DataDir        string
	DBPath         string
}

type Config struct {
	Paths    Paths
	LogLevel string
}

type environment struct {
	lookupEnv     func(key string) (string, bool)
	executable    func() (string, error)
	userConfigDir func() (string, error)
}

func defaultEnvironment() environment {
	return environment{
		lookupEnv:     os.LookupEnv,
		executable:    os.Executable,
		userConfigDir: os.UserConfigDir,
	}
}

// Load reads an optional .env file and then the process environment.
func Load(appSlug string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return load(appSlug, defaultEnvironment())
}

// WithBaseDir returns p relocated to the absolute form of dir, with the
// backgrounds folder following it.
func (p Paths) WithBaseDir(dir string) (Paths, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return Paths{}, errors.New("base dir is required")
	}

	absPath, err := filepath.Abs(trimmed)
	if err != nil {
		return Paths{}, fmt.Errorf("resolve base dir: %w", err)
	}

	p.BaseDir = absPath
	p.BackgroundsDir = filepath.Join(absPath, BackgroundsDirName)
	return p, nil
}

func ResolvePaths(appSlug string) (Paths, error) {
	return resolvePaths(appSlug, defaultEnvironment())
}

func load(appSlug string, env environment) (Config, error) {
	paths, err := resolvePaths(appSlug, env)
	if err != nil {
		return Config{}, err
	}

	logLevel := defaultLogLevel
	if value, ok := env.lookupEnv(envLogLevel); ok && strings.TrimSpace(value) != "" {
		logLevel = strings.ToLower(strings.TrimSpace(value))
	}

	return Config{Paths: paths, LogLevel: logLevel}, nil
}

func resolvePaths(appSlug string, env environment) (Paths, error) {
	baseDir, err := resolveBaseDir(env)
	if err != nil {
		return Paths{}, err
	}

	dataDir, err := resolveDataDir(appSlug, env)
	if err != nil {
		return Paths{}, err
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create app data dir: %w", err)
	}

	return Paths{
		BaseDir:        baseDir,
		BackgroundsDir: filepath.Join(baseDir, BackgroundsDirName),
		DataDir:        dataDir,
		DBPath:         filepath.Join(dataDir, dbFileName),
	}, nil
}

func resolveBaseDir(env environment) (string, error) {
	if value, ok := env.lookupEnv(envBaseDir); ok && strings.TrimSpace(value) != "" {
		absPath, err := filepath.Abs(strings.TrimSpace(value))
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", envBaseDir, err)
		}
		return absPath, nil
	}

	executablePath, err := env.executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}

	baseDir := filepath.Dir(executablePath)
	if baseDir == "" || baseDir == "." {
		return "", errors.New("cannot determine app directory")
	}

	return baseDir, nil
}

func resolveDataDir(appSlug string, env environment) (string, error) {
	if value, ok := env.lookupEnv(envDataDir); ok && strings.TrimSpace(value) != "" {
		absPath, err := filepath.Abs(strings.TrimSpace(value))
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", envDataDir, err)
		}
		return absPath, nil
	}

	configDir, err := env.userConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}

	return filepath.Join(configDir, appSlug), nil
}
