package stagecore

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Config holds stage geometry and defaults for a Renderer.
type Config struct {
	// Stage bounds in stage units (+Y up, origin at center).
	XLeft   float64 `toml:"x_left"`
	XRight  float64 `toml:"x_right"`
	YBottom float64 `toml:"y_bottom"`
	YTop    float64 `toml:"y_top"`

	// ClientWidth and ClientHeight are the size of the on-screen canvas in
	// client pixels, used to convert pointer coordinates for picking. Zero
	// means "same as the stage".
	ClientWidth  float64 `toml:"client_width"`
	ClientHeight float64 `toml:"client_height"`

	// Background is the stage clear color, visible wherever no drawable
	// covers a pixel.
	Background Color `toml:"background"`

	// LayerGroups, when non-empty, is applied with SetLayerGroupOrdering.
	LayerGroups []string `toml:"layer_groups"`

	// Debug enables invariant assertions (see SetDebugMode).
	Debug bool `toml:"debug"`
}

// DefaultConfig returns the classic 480x360 stage with a white background.
func DefaultConfig() Config {
	return Config{
		XLeft:      -240,
		XRight:     240,
		YBottom:    -180,
		YTop:       180,
		Background: ColorWhite,
	}
}

// LoadConfig parses a TOML document on top of DefaultConfig. Keys absent from
// the document keep their default value.
//
//	x_left = -320
//	x_right = 320
//	layer_groups = ["background", "video", "pen", "sprite"]
//
//	[background]
//	R = 0.9
//	G = 0.9
//	B = 1.0
//	A = 1.0
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.XRight <= c.XLeft {
		return fmt.Errorf("x_right (%v) must be greater than x_left (%v)", c.XRight, c.XLeft)
	}
	if c.YTop <= c.YBottom {
		return fmt.Errorf("y_top (%v) must be greater than y_bottom (%v)", c.YTop, c.YBottom)
	}
	if c.ClientWidth < 0 || c.ClientHeight < 0 {
		return fmt.Errorf("client size (%v, %v) must not be negative", c.ClientWidth, c.ClientHeight)
	}
	return nil
}
