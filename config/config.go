package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

const (
	appDirName   = "TrayKeeper"
	configFile   = "config.yaml"
	reloadDelay  = 500 * time.Millisecond
	defaultTitle = "TrayKeeper"
)

type Config struct {
	Window         WindowConfig         `yaml:"window"`
	Tray           TrayConfig           `yaml:"tray"`
	Logging        LoggingConfig        `yaml:"logging"`
	SingleInstance SingleInstanceConfig `yaml:"single_instance"`
}

type WindowConfig struct {
	Title       string `yaml:"title"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	MinWidth    int    `yaml:"min_width"`
	MinHeight   int    `yaml:"min_height"`
	StartHidden bool   `yaml:"start_hidden"` // Start minimized to tray
}

type TrayConfig struct {
	Tooltip string `yaml:"tooltip"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`    // "text" or "json"
	FilePath string `yaml:"file_path"` // Empty disables file logging
}

type SingleInstanceConfig struct {
	Enabled bool   `yaml:"enabled"`
	ID      string `yaml:"id"` // Unique lock id shared by all launches
}

// Default returns the configuration used when no file exists yet
func Default() *Config {
	cfg := &Config{
		SingleInstance: SingleInstanceConfig{Enabled: true},
	}
	cfg.setDefaults()
	return cfg
}

// DefaultPath returns the config file location inside the app data dir
func DefaultPath() string {
	return filepath.Join(getConfigAppDataDir(), configFile)
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		SingleInstance: SingleInstanceConfig{Enabled: true},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.setDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrCreate loads the config at path, writing defaults first if it does not exist
func LoadOrCreate(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := SaveConfig(Default(), path); err != nil {
			return nil, err
		}
	}
	return LoadConfig(path)
}

// setDefaults sets default values for configuration
func (c *Config) setDefaults() {
	if c.Window.Title == "" {
		c.Window.Title = defaultTitle
	}
	if c.Window.Width == 0 {
		c.Window.Width = 1024
	}
	if c.Window.Height == 0 {
		c.Window.Height = 720
	}
	if c.Window.MinWidth == 0 {
		c.Window.MinWidth = 480
	}
	if c.Window.MinHeight == 0 {
		c.Window.MinHeight = 360
	}
	if c.Tray.Tooltip == "" {
		c.Tray.Tooltip = c.Window.Title
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.SingleInstance.ID == "" {
		c.SingleInstance.ID = "io.traykeeper.app"
	}
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window size must not be negative")
	}
	if c.Window.MinWidth > c.Window.Width || c.Window.MinHeight > c.Window.Height {
		return fmt.Errorf("window min size %dx%d exceeds size %dx%d",
			c.Window.MinWidth, c.Window.MinHeight, c.Window.Width, c.Window.Height)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging level must be one of debug, info, warn, error")
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging format must be 'text' or 'json'")
	}

	if c.SingleInstance.Enabled && strings.ContainsAny(c.SingleInstance.ID, " \t/\\") {
		return fmt.Errorf("single_instance id must not contain spaces or path separators")
	}

	return nil
}

// ConfigWatcher handles automatic configuration reloading
type ConfigWatcher struct {
	configPath    string
	config        *Config
	mutex         sync.RWMutex
	watcher       *fsnotify.Watcher
	logger        *slog.Logger
	callbacks     []func(*Config)
	lastModTime   time.Time
	debounceTimer *time.Timer
	done          chan struct{}
}

// NewConfigWatcher creates a new configuration watcher
func NewConfigWatcher(configPath string, logger *slog.Logger) (*ConfigWatcher, error) {
	// Load initial configuration
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	fileInfo, err := os.Stat(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	cw := &ConfigWatcher{
		configPath:  configPath,
		config:      config,
		watcher:     watcher,
		logger:      logger,
		callbacks:   make([]func(*Config), 0),
		lastModTime: fileInfo.ModTime(),
		done:        make(chan struct{}),
	}

	if err := watcher.Add(configPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}

	go cw.watchLoop()

	return cw, nil
}

// GetConfig returns the current configuration (thread-safe)
func (cw *ConfigWatcher) GetConfig() *Config {
	cw.mutex.RLock()
	defer cw.mutex.RUnlock()
	return cw.config
}

// UpdateLogger updates the logger used by the config watcher
func (cw *ConfigWatcher) UpdateLogger(logger *slog.Logger) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	cw.logger = logger
}

// AddReloadCallback adds a callback function that will be called when config is reloaded
func (cw *ConfigWatcher) AddReloadCallback(callback func(*Config)) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	cw.callbacks = append(cw.callbacks, callback)
}

func (cw *ConfigWatcher) log() *slog.Logger {
	cw.mutex.RLock()
	defer cw.mutex.RUnlock()
	return cw.logger
}

// watchLoop monitors the config file for changes
func (cw *ConfigWatcher) watchLoop() {
	for {
		select {
		case <-cw.done:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fileInfo, err := os.Stat(cw.configPath)
				if err != nil {
					cw.log().Warn("cannot stat config file", "error", err)
					continue
				}

				// Skip if modification time hasn't changed
				if !fileInfo.ModTime().After(cw.lastModTime) {
					continue
				}
				cw.lastModTime = fileInfo.ModTime()
				cw.scheduleReload(event.Name)
			}

			// Some editors save by renaming; re-add the path once it reappears
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				time.Sleep(100 * time.Millisecond)
				if fileInfo, err := os.Stat(cw.configPath); err == nil {
					if err := cw.watcher.Add(cw.configPath); err == nil {
						cw.log().Info("re-watching config file", "path", cw.configPath)
					}
					if fileInfo.ModTime().After(cw.lastModTime) {
						cw.lastModTime = fileInfo.ModTime()
						cw.scheduleReload(cw.configPath)
					}
				}
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.log().Error("config watcher error", "error", err)
		}
	}
}

func (cw *ConfigWatcher) scheduleReload(name string) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.debounceTimer = time.AfterFunc(reloadDelay, func() {
		cw.log().Info("config file changed, reloading", "file", name)
		if err := cw.reloadConfig(); err != nil {
			cw.log().Error("config reload failed", "error", err)
		} else {
			cw.log().Info("config reloaded")
		}
	})
}

// reloadConfig reloads the configuration from file
func (cw *ConfigWatcher) reloadConfig() error {
	newConfig, err := LoadConfig(cw.configPath)
	if err != nil {
		return err
	}

	cw.mutex.Lock()
	oldConfig := cw.config
	cw.config = newConfig
	callbacks := make([]func(*Config), len(cw.callbacks))
	copy(callbacks, cw.callbacks)
	cw.mutex.Unlock()

	for _, callback := range callbacks {
		callback(newConfig)
	}

	cw.logConfigChanges(oldConfig, newConfig)

	return nil
}

// logConfigChanges logs the differences that take effect without restart
func (cw *ConfigWatcher) logConfigChanges(oldConfig, newConfig *Config) {
	logger := cw.log()

	if oldConfig.Tray.Tooltip != newConfig.Tray.Tooltip {
		logger.Info("tray tooltip changed",
			"old_tooltip", oldConfig.Tray.Tooltip,
			"new_tooltip", newConfig.Tray.Tooltip)
	}

	if oldConfig.Logging.Level != newConfig.Logging.Level {
		logger.Info("log level changed",
			"old_level", oldConfig.Logging.Level,
			"new_level", newConfig.Logging.Level)
	}

	if oldConfig.Window != newConfig.Window || oldConfig.SingleInstance != newConfig.SingleInstance {
		logger.Warn("window and single_instance settings apply on next start")
	}
}

// Close stops the configuration watcher
func (cw *ConfigWatcher) Close() error {
	cw.mutex.Lock()
	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.mutex.Unlock()

	select {
	case <-cw.done:
		return nil
	default:
		close(cw.done)
	}
	return cw.watcher.Close()
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigAppDataDir 获取应用数据目录（跨平台）
// Windows: %APPDATA%\TrayKeeper
// macOS: ~/Library/Application Support/TrayKeeper
// Linux: ~/.local/share/traykeeper
func getConfigAppDataDir() string {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			baseDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(baseDir, appDirName)

	case "darwin":
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "Library", "Application Support", appDirName)

	case "linux":
		homeDir, _ := os.UserHomeDir()
		xdgDataHome := os.Getenv("XDG_DATA_HOME")
		if xdgDataHome != "" {
			return filepath.Join(xdgDataHome, strings.ToLower(appDirName))
		}
		return filepath.Join(homeDir, ".local", "share", strings.ToLower(appDirName))

	default:
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "."+strings.ToLower(appDirName))
	}
}
