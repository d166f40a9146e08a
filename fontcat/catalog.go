package fontcat

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"

	"github.com/go-text/typesetting/font"
)

// ErrNoFonts indicates that discovery finished without a single usable face.
var ErrNoFonts = errors.New("no fonts found")

var fontExts = map[string]bool{
	".ttf": true,
	".otf": true,
	".ttc": true,
	".otc": true,
}

// Discover walks extraPaths and, when useSystem is set, the platform font
// directories, and returns one Variant per face found. Collections
// contribute every face they contain, so the catalog is exhaustive per
// family. Unreadable directories and unparseable files are logged and
// skipped; finding nothing at all is ErrNoFonts.
func Discover(extraPaths []string, useSystem bool, logger *slog.Logger) ([]Variant, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dirs := append([]string{}, extraPaths...)
	if useSystem {
		dirs = append(dirs, systemFontDirs()...)
	}

	var variants []Variant
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("skipping unreadable font path", "path", path, "err", err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !fontExts[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			vs, err := parseFontFile(path)
			if err != nil {
				logger.Warn("skipping font file", "path", path, "err", err)
				return nil
			}
			variants = append(variants, vs...)
			return nil
		})
		if err != nil {
			logger.Warn("skipping font directory", "dir", dir, "err", err)
		}
	}

	if len(variants) == 0 {
		return nil, ErrNoFonts
	}
	logger.Info("discovered fonts", "faces", len(variants))
	return variants, nil
}

// parseFontFile reads the metadata of every face in one font file.
func parseFontFile(path string) ([]Variant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	var faces []*font.Face
	if ext == ".ttc" || ext == ".otc" {
		faces, err = font.ParseTTC(f)
	} else {
		var face *font.Face
		face, err = font.ParseTTF(f)
		faces = []*font.Face{face}
	}
	if err != nil {
		return nil, err
	}

	variants := make([]Variant, 0, len(faces))
	for i, face := range faces {
		desc := face.Font.Describe()
		family := strings.TrimSpace(desc.Family)
		if family == "" {
			return nil, fmt.Errorf("face %d has no family name", i)
		}
		variants = append(variants, Variant{
			Family:  family,
			Style:   styleOf(desc.Aspect.Style, path),
			Weight:  Weight(desc.Aspect.Weight),
			Stretch: Stretch(desc.Aspect.Stretch),
			Source:  Source{Path: path, Index: i},
		})
	}
	return variants, nil
}

// styleOf maps the parsed slant to our three-valued style axis. The font
// format folds oblique into italic, so obliques are told apart by name.
func styleOf(s font.Style, path string) Style {
	if s != font.StyleItalic {
		return StyleNormal
	}
	if strings.Contains(strings.ToLower(filepath.Base(path)), "oblique") {
		return StyleOblique
	}
	return StyleItalic
}

// Coverage reports an error naming the first rune in text that the
// variant's face has no nominal glyph for. Whitespace is ignored.
func Coverage(v Variant, text string) error {
	f, err := os.Open(v.Source.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", v.Source.Path, err)
	}
	defer f.Close()

	face, err := faceAt(f, v.Source)
	if err != nil {
		return err
	}
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		if _, ok := face.NominalGlyph(r); !ok {
			return fmt.Errorf("no glyph for %q (U+%04X)", r, r)
		}
	}
	return nil
}

func faceAt(f *os.File, src Source) (*font.Face, error) {
	ext := strings.ToLower(filepath.Ext(src.Path))
	if ext == ".ttc" || ext == ".otc" {
		faces, err := font.ParseTTC(f)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", src.Path, err)
		}
		if src.Index < 0 || src.Index >= len(faces) {
			return nil, fmt.Errorf("%s: face index %d out of range", src.Path, src.Index)
		}
		return faces[src.Index], nil
	}
	face, err := font.ParseTTF(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", src.Path, err)
	}
	return face, nil
}

// systemFontDirs returns the per-platform font directories, most specific
// first. Missing directories are harmless; the walk skips them.
func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs := []string{filepath.Join(windir, "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	default:
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if data := os.Getenv("XDG_DATA_HOME"); data != "" {
			dirs = append(dirs, filepath.Join(data, "fonts"))
		}
		if home != "" {
			dirs = append(dirs,
				filepath.Join(home, ".local", "share", "fonts"),
				filepath.Join(home, ".fonts"),
			)
		}
		return dirs
	}
}
