package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poppy-build/poppup/internal/branding"
	"github.com/poppy-build/poppup/internal/logger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by the config file and environment.
const (
	KeyURL        = "url"
	KeyRepo       = "repo"
	KeyPath       = "path"
	KeyUser       = "user"
	KeyToken      = "token"
	KeyTokenLong  = "token_long"
	KeyLogLevel   = "log_level"
	KeyLogFormat  = "log_format"
	KeyLogFile    = "log_file"
	KeyTimeout    = "timeout"
	KeyInstallDir = "where"
)

// Settings is the resolved configuration for one invocation.
type Settings struct {
	URL        string `mapstructure:"url"`
	Repo       string `mapstructure:"repo"`
	Path       string `mapstructure:"path"`
	User       string `mapstructure:"user"`
	Token      string `mapstructure:"token"`
	TokenLong  string `mapstructure:"token_long"`
	Timeout    string `mapstructure:"timeout"`
	InstallDir string `mapstructure:"where"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
	LogFile    string `mapstructure:"log_file"`
}

// LogConfig returns the logger settings.
func (s *Settings) LogConfig() logger.Config {
	return logger.Config{Level: s.LogLevel, Format: s.LogFormat, File: s.LogFile}
}

// Dir returns the path to the config directory (~/.poppup/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.poppup/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// DefaultInstallDir returns ~/.local/bin.
func DefaultInstallDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "bin")
	}
	return filepath.Join(home, ".local", "bin")
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyURL, branding.ArtifactoryURL())
	viper.SetDefault(KeyRepo, branding.Repository())
	viper.SetDefault(KeyPath, branding.RepositoryPath())
	viper.SetDefault(KeyUser, "")
	viper.SetDefault(KeyToken, "")
	viper.SetDefault(KeyTokenLong, "")
	viper.SetDefault(KeyTimeout, "30s")
	viper.SetDefault(KeyInstallDir, DefaultInstallDir())
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyLogFormat, "text")
	viper.SetDefault(KeyLogFile, "")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// BindFlags binds every flag in fs whose name matches a config key
// ("token-long" binds to "token_long"). Flags only win when set.
func BindFlags(fs *pflag.FlagSet) error {
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if !isKey(key) || bindErr != nil {
			return
		}
		if err := viper.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("binding flag --%s: %w", f.Name, err)
		}
	})
	return bindErr
}

// Resolve returns the effective settings after Load and BindFlags.
func Resolve() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return &s, nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file. Only keys
// already in the file and the new one are written; values coming from the
// environment or defaults stay out of it.
func Set(key, value string) error {
	if !isKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()
	file := viper.New()
	file.SetConfigFile(configFile)
	file.SetConfigType(fileType)
	if _, err := os.Stat(configFile); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	file.Set(key, value)

	if err := file.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	// The file may now hold a token.
	if err := os.Chmod(configFile, 0600); err != nil {
		return fmt.Errorf("restricting config file permissions: %w", err)
	}

	viper.Set(key, value)
	return nil
}

// Keys lists all recognised configuration keys.
func Keys() []string {
	return []string{
		KeyURL, KeyRepo, KeyPath, KeyUser, KeyToken, KeyTokenLong,
		KeyTimeout, KeyInstallDir, KeyLogLevel, KeyLogFormat, KeyLogFile,
	}
}

func isKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}
