package videoreader

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Input   InputConfig   `json:"input,omitempty"   yaml:"input,omitempty"`
	Decoder DecoderConfig `json:"decoder,omitempty" yaml:"decoder,omitempty"`
	Output  OutputConfig  `json:"output,omitempty"  yaml:"output,omitempty"`
}

type InputConfig struct {
	// CustomOptions are passed to the demuxer as-is (e.g. "probesize").
	CustomOptions DictionaryItems `json:"custom_options,omitempty" yaml:"custom_options,omitempty"`
}

type DecoderConfig struct {
	// CodecName forces a specific decoder (e.g. "libdav1d"); empty means
	// the default decoder for the stream's codec.
	CodecName     string          `json:"codec_name,omitempty"     yaml:"codec_name,omitempty"`
	CustomOptions DictionaryItems `json:"custom_options,omitempty" yaml:"custom_options,omitempty"`
}

type OutputConfig struct {
	PixelFormat    PixelFormat    `json:"pixel_format,omitempty"    yaml:"pixel_format,omitempty"`
	ScaleAlgorithm ScaleAlgorithm `json:"scale_algorithm,omitempty" yaml:"scale_algorithm,omitempty"`
}

type DictionaryItem struct {
	Key   string `json:"key"   yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

type DictionaryItems []DictionaryItem

func DefaultConfig() Config {
	return Config{
		Output: OutputConfig{
			PixelFormat:    PixelFormatRGB0,
			ScaleAlgorithm: ScaleAlgorithmBilinear,
		},
	}
}

// WithDefaults returns a copy of cfg with unset fields filled from DefaultConfig.
func (cfg Config) WithDefaults() Config {
	def := DefaultConfig()
	if cfg.Output.PixelFormat == PixelFormatUndefined {
		cfg.Output.PixelFormat = def.Output.PixelFormat
	}
	if cfg.Output.ScaleAlgorithm == ScaleAlgorithmUndefined {
		cfg.Output.ScaleAlgorithm = def.Output.ScaleAlgorithm
	}
	return cfg
}

func (cfg Config) Validate() error {
	if pf := cfg.Output.PixelFormat; pf != PixelFormatUndefined && !pf.IsPacked4() {
		return fmt.Errorf("output pixel format %s is not a packed 4-bytes-per-pixel format", pf)
	}
	if a := cfg.Output.ScaleAlgorithm; a >= EndOfScaleAlgorithm {
		return fmt.Errorf("unknown scale algorithm %d", uint(a))
	}
	for _, opt := range cfg.Input.CustomOptions {
		if opt.Key == "f" {
			return fmt.Errorf("overriding input format is not supported, yet")
		}
	}
	return nil
}

func ParseConfig(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to unmarshal the config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg.WithDefaults(), nil
}

func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read the config file '%s': %w", path, err)
	}
	return ParseConfig(b)
}

type ScaleAlgorithm uint

const (
	ScaleAlgorithmUndefined = ScaleAlgorithm(iota)
	ScaleAlgorithmFastBilinear
	ScaleAlgorithmBilinear
	ScaleAlgorithmBicubic
	ScaleAlgorithmPoint
	ScaleAlgorithmArea
	ScaleAlgorithmLanczos
	EndOfScaleAlgorithm
)

func (a ScaleAlgorithm) String() string {
	switch a {
	case ScaleAlgorithmUndefined:
		return "<undefined>"
	case ScaleAlgorithmFastBilinear:
		return "fast_bilinear"
	case ScaleAlgorithmBilinear:
		return "bilinear"
	case ScaleAlgorithmBicubic:
		return "bicubic"
	case ScaleAlgorithmPoint:
		return "point"
	case ScaleAlgorithmArea:
		return "area"
	case ScaleAlgorithmLanczos:
		return "lanczos"
	}
	return fmt.Sprintf("unexpected_scale_algorithm_%d", uint(a))
}

func (a ScaleAlgorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *ScaleAlgorithm) UnmarshalText(b []byte) error {
	if a == nil {
		return fmt.Errorf("ScaleAlgorithm is nil")
	}
	s := strings.ToLower(strings.Trim(string(b), `"`))
	if s == "" {
		*a = ScaleAlgorithmUndefined
		return nil
	}
	for cmp := ScaleAlgorithmUndefined; cmp < EndOfScaleAlgorithm; cmp++ {
		if cmp.String() == s {
			*a = cmp
			return nil
		}
	}
	return fmt.Errorf("unknown value of the ScaleAlgorithm: '%s'", s)
}
