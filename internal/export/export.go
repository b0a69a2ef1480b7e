package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/kinorrt/internal/viz"
)

type Format string

const (
	FormatPNG     Format = "png"
	FormatSVG     Format = "svg"
	FormatGeoJSON Format = "geojson"
)

func Formats() []string {
	return []string{string(FormatPNG), string(FormatSVG), string(FormatGeoJSON)}
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPNG, FormatSVG, FormatGeoJSON:
		return f, nil
	case "json":
		return FormatGeoJSON, nil
	}
	return "", fmt.Errorf("unknown format %q (available: %v)", s, Formats())
}

// Ext is the file extension written for the format.
func (f Format) Ext() string {
	return "." + string(f)
}

// WriteFile renders the scene in the given format.
func WriteFile(sc viz.Scene, format Format, filename string) error {
	switch format {
	case FormatPNG:
		return ScenePNG(sc, 6, 6, filename)
	case FormatSVG:
		return writeBytes(filename, []byte(SceneToSVG(sc, 800, 800)))
	case FormatGeoJSON:
		data, err := SceneGeoJSON(sc)
		if err != nil {
			return err
		}
		return writeBytes(filename, data)
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeBytes(filename string, data []byte) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(filename, data, 0644)
}
