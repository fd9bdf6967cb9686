package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ytget/yt-audio/internal/logging"
)

// Settings keys
const (
	KeyFormat          = "format"
	KeyAudioFormat     = "audio_format"
	KeyAudioQuality    = "audio_quality"
	KeyWriteThumbnail  = "write_thumbnail"
	KeyQuiet           = "quiet"
	KeyNoWarnings      = "no_warnings"
	KeyExpandPlaylists = "expand_playlists"
	KeyInstallYTDLP    = "install_ytdlp"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyReport          = "report"
)

// Default values
const (
	DefaultFormat          = "bestaudio/best"
	DefaultAudioFormat     = "mp3"
	DefaultAudioQuality    = "192"
	DefaultWriteThumbnail  = true
	DefaultQuiet           = true
	DefaultNoWarnings      = true
	DefaultExpandPlaylists = false
	DefaultInstallYTDLP    = false
	DefaultLogLevel        = "warn"
	DefaultLogFormat       = "text"
)

// Config file lookup
const (
	AppName    = "yt-audio"
	ConfigType = "yaml"
	EnvPrefix  = "YT_AUDIO"
)

// SupportedAudioFormats lists the codecs the audio extractor can produce
var SupportedAudioFormats = []string{"best", "aac", "alac", "flac", "m4a", "mp3", "opus", "vorbis", "wav"}

// Settings holds the effective configuration of a run
type Settings struct {
	Format          string `mapstructure:"format"`
	AudioFormat     string `mapstructure:"audio_format"`
	AudioQuality    string `mapstructure:"audio_quality"`
	WriteThumbnail  bool   `mapstructure:"write_thumbnail"`
	Quiet           bool   `mapstructure:"quiet"`
	NoWarnings      bool   `mapstructure:"no_warnings"`
	ExpandPlaylists bool   `mapstructure:"expand_playlists"`
	InstallYTDLP    bool   `mapstructure:"install_ytdlp"`
	LogLevel        string `mapstructure:"log_level"`
	LogFormat       string `mapstructure:"log_format"`
	Report          string `mapstructure:"report"`
}

// Default returns settings with every default applied
func Default() *Settings {
	return &Settings{
		Format:          DefaultFormat,
		AudioFormat:     DefaultAudioFormat,
		AudioQuality:    DefaultAudioQuality,
		WriteThumbnail:  DefaultWriteThumbnail,
		Quiet:           DefaultQuiet,
		NoWarnings:      DefaultNoWarnings,
		ExpandPlaylists: DefaultExpandPlaylists,
		InstallYTDLP:    DefaultInstallYTDLP,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
	}
}

// Load resolves settings from defaults, an optional YAML config file,
// YT_AUDIO_* environment variables and command line flags, in increasing
// order of precedence. A missing config file is not an error unless cfgFile
// was given explicitly. Flags are matched to keys by replacing '-' with '_'.
func Load(cfgFile string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType(ConfigType)
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if !isKnownKey(key) {
				return
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
		}
	}

	settings := Default()
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks that values are usable
func (s *Settings) Validate() error {
	s.AudioFormat = strings.ToLower(strings.TrimSpace(s.AudioFormat))
	if !slices.Contains(SupportedAudioFormats, s.AudioFormat) {
		return fmt.Errorf("unsupported audio format %q (supported: %s)", s.AudioFormat, strings.Join(SupportedAudioFormats, ", "))
	}
	if strings.TrimSpace(s.AudioQuality) == "" {
		return fmt.Errorf("audio quality must not be empty")
	}
	if strings.TrimSpace(s.Format) == "" {
		return fmt.Errorf("format selector must not be empty")
	}
	if !logging.ValidLevel(s.LogLevel) {
		return fmt.Errorf("unsupported log level %q", s.LogLevel)
	}
	if !logging.ValidFormat(s.LogFormat) {
		return fmt.Errorf("unsupported log format %q", s.LogFormat)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyFormat, d.Format)
	v.SetDefault(KeyAudioFormat, d.AudioFormat)
	v.SetDefault(KeyAudioQuality, d.AudioQuality)
	v.SetDefault(KeyWriteThumbnail, d.WriteThumbnail)
	v.SetDefault(KeyQuiet, d.Quiet)
	v.SetDefault(KeyNoWarnings, d.NoWarnings)
	v.SetDefault(KeyExpandPlaylists, d.ExpandPlaylists)
	v.SetDefault(KeyInstallYTDLP, d.InstallYTDLP)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyReport, d.Report)
}

func isKnownKey(key string) bool {
	switch key {
	case KeyFormat, KeyAudioFormat, KeyAudioQuality, KeyWriteThumbnail, KeyQuiet,
		KeyNoWarnings, KeyExpandPlaylists, KeyInstallYTDLP, KeyLogLevel, KeyLogFormat, KeyReport:
		return true
	}
	return false
}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}
