package pdf

import (
	"fmt"
	"strings"
	"sync"

	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/repository"
)

// DefaultFamily is the family name used for custom fonts when none is configured
const DefaultFamily = "cairo"

// FontConfig points at a UTF-8 TrueType family. BoldPath defaults to RegularPath.
type FontConfig struct {
	Family      string
	RegularPath string
	BoldPath    string
}

// FontSet is the result of font registration
type FontSet struct {
	Family string
	Custom []*entity.CustomFont
	// Unicode is false for the built-in core font, which cannot draw Arabic
	Unicode bool
}

// DefaultFontSet returns the built-in helvetica family
func DefaultFontSet() *FontSet {
	return &FontSet{Family: fontfamily.Helvetica}
}

var (
	fontMu    sync.Mutex
	fontCache = map[FontConfig]*FontSet{}
)

// RegisterFonts loads a UTF-8 font family once per configuration.
// Without a regular font path it returns DefaultFontSet; a path that
// cannot be read is an error, never a silent fallback.
func RegisterFonts(cfg FontConfig) (*FontSet, error) {
	cfg.RegularPath = strings.TrimSpace(cfg.RegularPath)
	cfg.BoldPath = strings.TrimSpace(cfg.BoldPath)
	cfg.Family = strings.ToLower(strings.TrimSpace(cfg.Family))

	if cfg.RegularPath == "" {
		if cfg.BoldPath != "" {
			return nil, fmt.Errorf("bold font %s configured without a regular font", cfg.BoldPath)
		}
		return DefaultFontSet(), nil
	}
	if cfg.BoldPath == "" {
		cfg.BoldPath = cfg.RegularPath
	}
	if cfg.Family == "" {
		cfg.Family = DefaultFamily
	}

	fontMu.Lock()
	defer fontMu.Unlock()

	if fs, ok := fontCache[cfg]; ok {
		return fs, nil
	}

	custom, err := repository.New().
		AddUTF8Font(cfg.Family, fontstyle.Normal, cfg.RegularPath).
		AddUTF8Font(cfg.Family, fontstyle.Bold, cfg.BoldPath).
		Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load font family %s: %w", cfg.Family, err)
	}

	fs := &FontSet{Family: cfg.Family, Custom: custom, Unicode: true}
	fontCache[cfg] = fs
	return fs, nil
}
