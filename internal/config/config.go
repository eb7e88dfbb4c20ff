package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// ErrNotFound means no daemon configuration exists yet. The daemon writes one
// on first start.
var ErrNotFound = errors.New("couldn't find a configuration file. Did you start the daemon yet?")

// EnvConfigPath overrides the configuration file location.
const EnvConfigPath = "PUEUE_CONFIG_PATH"

const (
	defaultHost = "127.0.0.1"
	defaultPort = "6924"
)

// Shared holds the connection settings the daemon and its clients agree on.
type Shared struct {
	PueueDirectory   string `mapstructure:"pueue_directory"`
	RuntimeDirectory string `mapstructure:"runtime_directory"`
	UseUnixSocket    bool   `mapstructure:"use_unix_socket"`
	UnixSocketPath   string `mapstructure:"unix_socket_path"`
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	SharedSecretPath string `mapstructure:"shared_secret_path"`
}

// Config is the subset of the daemon configuration pueuetop needs.
type Config struct {
	Shared Shared `mapstructure:"shared"`

	// File is the configuration file that was read.
	File string `mapstructure:"-"`
	// Profile is the applied profile, if any.
	Profile string `mapstructure:"-"`
}

// Options select the configuration file and profile.
type Options struct {
	Path    string // explicit file, takes precedence over PUEUE_CONFIG_PATH
	Profile string
}

var sharedKeys = []string{
	"pueue_directory",
	"runtime_directory",
	"use_unix_socket",
	"unix_socket_path",
	"host",
	"port",
	"shared_secret_path",
}

// Load locates and parses the daemon configuration. Precedence is
// defaults < file < profile < PUEUE_SHARED_* environment variables.
func Load(opts Options) (Config, error) {
	path, err := resolvePath(opts.Path)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PUEUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	for _, key := range sharedKeys {
		if err := v.BindEnv("shared." + key); err != nil {
			return Config{}, fmt.Errorf("bind env for shared.%s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if name := strings.TrimSpace(opts.Profile); name != "" {
		if err := applyProfile(v, name); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.File = path
	cfg.Profile = strings.TrimSpace(opts.Profile)
	expandPaths(&cfg.Shared)
	return cfg, nil
}

// applyProfile merges profiles.<name> over the base settings.
func applyProfile(v *viper.Viper, name string) error {
	profiles := v.GetStringMap("profiles")
	raw, ok := profiles[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("couldn't find profile %q in %s", name, v.ConfigFileUsed())
	}
	settings, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("profile %q is not a mapping", name)
	}
	if err := v.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("apply profile %q: %w", name, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("shared.pueue_directory", defaultPueueDirectory())
	v.SetDefault("shared.runtime_directory", "")
	v.SetDefault("shared.use_unix_socket", runtime.GOOS != "windows")
	v.SetDefault("shared.unix_socket_path", "")
	v.SetDefault("shared.host", defaultHost)
	v.SetDefault("shared.port", defaultPort)
	v.SetDefault("shared.shared_secret_path", "")
}

// SecretPath is the shared secret file, defaulting to a file in the pueue
// directory.
func (s Shared) SecretPath() string {
	if strings.TrimSpace(s.SharedSecretPath) != "" {
		return s.SharedSecretPath
	}
	return filepath.Join(s.PueueDirectory, "shared_secret")
}

// SocketPath is the daemon's unix socket, defaulting to a per-user socket in
// the runtime directory.
func (s Shared) SocketPath() string {
	if strings.TrimSpace(s.UnixSocketPath) != "" {
		return s.UnixSocketPath
	}
	return filepath.Join(s.runtimeDir(), fmt.Sprintf("pueue_%s.socket", currentUser()))
}

func (s Shared) runtimeDir() string {
	if dir := strings.TrimSpace(s.RuntimeDirectory); dir != "" {
		return dir
	}
	if dir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); dir != "" {
		return dir
	}
	return s.PueueDirectory
}

// ReadSharedSecret reads and trims the secret the daemon generated.
func ReadSharedSecret(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read shared secret: %w", err)
	}
	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("shared secret %s is empty", path)
	}
	return secret, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return existing(path)
	}
	if env := strings.TrimSpace(os.Getenv(EnvConfigPath)); env != "" {
		return existing(env)
	}
	for _, candidate := range candidatePaths() {
		expanded, err := expandPath(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(expanded); err == nil && !info.IsDir() {
			return expanded, nil
		}
	}
	return "", ErrNotFound
}

func existing(path string) (string, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("config file %s: %w", expanded, ErrNotFound)
		}
		return "", fmt.Errorf("stat config: %w", err)
	}
	return expanded, nil
}

func candidatePaths() []string {
	var paths []string
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "pueue", "pueue.yml"))
	}
	paths = append(paths, "~/.config/pueue/pueue.yml")
	if runtime.GOOS != "windows" {
		paths = append(paths, "/etc/pueue/pueue.yml")
	}
	return paths
}

func defaultPueueDirectory() string {
	if xdg := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdg != "" {
		return filepath.Join(xdg, "pueue")
	}
	return mustExpand("~/.local/share/pueue")
}

func expandPaths(s *Shared) {
	s.PueueDirectory = mustExpand(s.PueueDirectory)
	s.RuntimeDirectory = mustExpand(s.RuntimeDirectory)
	s.UnixSocketPath = mustExpand(s.UnixSocketPath)
	s.SharedSecretPath = mustExpand(s.SharedSecretPath)
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}

func mustExpand(path string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
