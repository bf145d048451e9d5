// Command bmtext lays out text with a bitmap font and prints the
// measurements and page meshes.
//
// Usage:
//
//	bmtext [flags] text...
//
// The font is a BMFont descriptor (.fnt text or XML), a TrueType/OpenType
// file rasterized into an atlas, or "builtin" for the 7x13 fixed face.
// A literal \n in the text starts a new line.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/bitmaptext"
	"github.com/gogpu/bitmaptext/bmfont"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options are the command line settings.
type options struct {
	font          string
	buildSize     float64
	size          float64
	align         string
	maxWidth      float64
	letterSpacing float64
	anchor        string
	tint          string
	style         string
	format        string
	quads         bool
	verbose       bool
}

// styleFile is the YAML form of --style. Flags given explicitly win.
type styleFile struct {
	Font          string    `yaml:"font"`
	Size          float64   `yaml:"size"`
	Align         string    `yaml:"align"`
	MaxWidth      float64   `yaml:"maxWidth"`
	LetterSpacing float64   `yaml:"letterSpacing"`
	Tint          string    `yaml:"tint"`
	Anchor        []float64 `yaml:"anchor"`
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		opts        options
		showHelp    bool
		showVersion bool
	)
	fs := pflag.NewFlagSet("bmtext", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.font, "font", "f", "builtin", "BMFont descriptor, TTF/OTF file, or \"builtin\"")
	fs.Float64Var(&opts.buildSize, "build-size", 32, "Pixel size used to rasterize TTF/OTF fonts")
	fs.Float64VarP(&opts.size, "size", "s", 0, "Target font size in pixels (0 = authored size)")
	fs.StringVarP(&opts.align, "align", "a", "left", "Line alignment: left, center or right")
	fs.Float64VarP(&opts.maxWidth, "max-width", "w", 0, "Wrap width in pixels (0 = no wrapping)")
	fs.Float64Var(&opts.letterSpacing, "letter-spacing", 0, "Extra advance between glyphs in pixels")
	fs.StringVar(&opts.anchor, "anchor", "0,0", "Normalized anchor as x,y")
	fs.StringVarP(&opts.tint, "tint", "t", "#ffffff", "Tint color as hex")
	fs.StringVar(&opts.style, "style", "", "YAML style file")
	fs.StringVar(&opts.format, "format", "text", "Output format: text or yaml")
	fs.BoolVar(&opts.quads, "quads", false, "Include glyph quad positions in the output")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Log layout passes to stderr")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show help message")
	fs.BoolVar(&showVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if showHelp {
		fmt.Fprintln(stdout, "Usage: bmtext [flags] text...")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return 0
	}
	if showVersion {
		fmt.Fprintf(stdout, "bmtext version %s\n", version)
		return 0
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "Error: no text provided")
		return 1
	}

	if opts.style != "" {
		if err := applyStyleFile(&opts, fs, opts.style); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.verbose {
		bitmaptext.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		defer bitmaptext.SetLogger(nil)
	}

	text := strings.ReplaceAll(strings.Join(fs.Args(), " "), `\n`, "\n")
	rep, err := layoutText(text, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch opts.format {
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if err := enc.Close(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	case "text":
		rep.writeText(stdout)
	default:
		fmt.Fprintf(stderr, "Error: unknown format %q\n", opts.format)
		return 1
	}
	return 0
}

// applyStyleFile fills the options not given on the command line.
func applyStyleFile(opts *options, fs *pflag.FlagSet, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read style: %w", err)
	}
	var sf styleFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse style %s: %w", path, err)
	}

	if sf.Font != "" && !fs.Changed("font") {
		opts.font = sf.Font
	}
	if sf.Size != 0 && !fs.Changed("size") {
		opts.size = sf.Size
	}
	if sf.Align != "" && !fs.Changed("align") {
		opts.align = sf.Align
	}
	if sf.MaxWidth != 0 && !fs.Changed("max-width") {
		opts.maxWidth = sf.MaxWidth
	}
	if sf.LetterSpacing != 0 && !fs.Changed("letter-spacing") {
		opts.letterSpacing = sf.LetterSpacing
	}
	if sf.Tint != "" && !fs.Changed("tint") {
		opts.tint = sf.Tint
	}
	if len(sf.Anchor) > 0 && !fs.Changed("anchor") {
		if len(sf.Anchor) != 2 {
			return fmt.Errorf("style %s: anchor needs 2 values, got %d", path, len(sf.Anchor))
		}
		opts.anchor = fmt.Sprintf("%g,%g", sf.Anchor[0], sf.Anchor[1])
	}
	return nil
}

// report is the output of one layout.
type report struct {
	Font          string       `yaml:"font"`
	Size          float64      `yaml:"size"`
	Width         float64      `yaml:"width"`
	Height        float64      `yaml:"height"`
	MaxLineHeight float64      `yaml:"maxLineHeight"`
	Lines         int          `yaml:"lines"`
	Glyphs        int          `yaml:"glyphs"`
	Pages         []pageReport `yaml:"pages"`
}

// pageReport describes one page mesh. Page is the index in the font's
// page list.
type pageReport struct {
	Page   int         `yaml:"page"`
	File   string      `yaml:"file,omitempty"`
	Glyphs int         `yaml:"glyphs"`
	Tint   string      `yaml:"tint"`
	Quads  [][]float32 `yaml:"quads,omitempty,flow"`
}

func (r *report) writeText(w io.Writer) {
	fmt.Fprintf(w, "font:   %s (%gpx)\n", r.Font, r.Size)
	fmt.Fprintf(w, "size:   %g x %g\n", r.Width, r.Height)
	fmt.Fprintf(w, "lines:  %d (max line height %g)\n", r.Lines, r.MaxLineHeight)
	fmt.Fprintf(w, "glyphs: %d\n", r.Glyphs)
	for _, p := range r.Pages {
		fmt.Fprintf(w, "page %d %s: %d glyphs, tint %s\n", p.Page, p.File, p.Glyphs, p.Tint)
		for _, q := range p.Quads {
			fmt.Fprintf(w, "  %v\n", q)
		}
	}
}

func layoutText(text string, opts options) (*report, error) {
	f, err := loadFont(opts.font, opts.buildSize)
	if err != nil {
		return nil, err
	}
	reg := bmfont.NewRegistry()
	if err := reg.Register(f); err != nil {
		return nil, err
	}

	align, err := bitmaptext.ParseAlign(opts.align)
	if err != nil {
		return nil, err
	}
	tint, err := bitmaptext.ParseTint(opts.tint)
	if err != nil {
		return nil, err
	}
	ax, ay, err := parseAnchor(opts.anchor)
	if err != nil {
		return nil, err
	}

	txt, err := bitmaptext.New(text, bitmaptext.Style{
		Font:          bitmaptext.FontDescriptor{Name: f.Name, Size: opts.size},
		Align:         align,
		MaxWidth:      opts.maxWidth,
		LetterSpacing: opts.letterSpacing,
	}, bitmaptext.WithRegistry(reg))
	if err != nil {
		return nil, err
	}
	defer txt.Destroy()
	txt.SetTint(tint)
	txt.Anchor().Set(ax, ay)

	m, err := txt.Measurements()
	if err != nil {
		return nil, err
	}
	meshes, err := txt.Meshes()
	if err != nil {
		return nil, err
	}

	rep := &report{
		Font:          f.Name,
		Size:          txt.Font().Size,
		Width:         m.Width,
		Height:        m.Height,
		MaxLineHeight: m.MaxLineHeight,
		Lines:         m.Lines,
		Glyphs:        m.Glyphs,
	}
	for _, mesh := range meshes {
		pr := pageReport{
			Page:   slices.Index(f.Pages, mesh.Page),
			File:   mesh.Page.File,
			Glyphs: mesh.Glyphs(),
			Tint:   fmt.Sprintf("#%06x", mesh.Tint),
		}
		if opts.quads {
			v := mesh.Vertices()
			for i := 0; i+8 <= len(v); i += 8 {
				pr.Quads = append(pr.Quads, append([]float32(nil), v[i:i+8]...))
			}
		}
		rep.Pages = append(rep.Pages, pr)
	}
	return rep, nil
}

// loadFont resolves the --font value.
func loadFont(name string, buildSize float64) (*bmfont.Font, error) {
	if name == "builtin" {
		cfg := bmfont.DefaultBuildConfig()
		cfg.Name = "builtin"
		return bmfont.Build(basicfont.Face7x13, cfg)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		return buildOpenType(name, buildSize)
	default:
		return bmfont.LoadFile(name)
	}
}

// buildOpenType rasterizes a TrueType/OpenType file into an atlas and
// adds shaped kerning.
func buildOpenType(path string, size float64) (*bmfont.Font, error) {
	if size <= 0 {
		return nil, errors.New("build size must be positive")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	defer face.Close()

	cfg := bmfont.DefaultBuildConfig()
	cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	cfg.Size = size
	cfg.PageWidth, cfg.PageHeight = 512, 512
	// Shaped kerning replaces the face's own pair table.
	cfg.Kerning = false
	f, err := bmfont.Build(face, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := bmfont.ApplyShapedKerning(f, data); err != nil {
		return nil, err
	}
	return f, nil
}

func parseAnchor(s string) (x, y float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) == 1 {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid anchor %q", s)
		}
		return v, v, nil
	}
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid anchor %q", s)
	}
	x, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid anchor %q", s)
	}
	y, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid anchor %q", s)
	}
	return x, y, nil
}
