package scrub

import (
	"io"
	"log"
	"os"

	"github.com/nscherger/meta-scrubber/audit"
	"github.com/nscherger/meta-scrubber/config"
)

// Options configures a Pipeline.
type Options struct {
	Logger    *log.Logger      // Skipped entries, decode fallbacks, verification warnings
	Audit     audit.Logger     // One record per written file
	OutputDir string           // Empty writes next to the source
	Pixels    config.PixelMode // How image data reaches the output
	Quality   int              // Encoder quality for config.PixelsReencode
	Verify    bool             // Re-read each output and check the removed tags
	FileMode  os.FileMode      // Permission bits for output files
}

// OptionFunc is a functional option for configuring a Pipeline.
type OptionFunc func(opts *Options)

func defaultOptions() Options {
	return Options{
		Logger:   log.New(io.Discard, "", 0),
		Audit:    audit.Nop{},
		Pixels:   config.PixelsCopy,
		Quality:  100,
		Verify:   true,
		FileMode: 0o644,
	}
}

// WithLogger sets the logger for non-fatal diagnostics.
func WithLogger(l *log.Logger) OptionFunc {
	return func(opts *Options) {
		opts.Logger = l
	}
}

// WithAudit sets where scrub records are appended.
func WithAudit(l audit.Logger) OptionFunc {
	return func(opts *Options) {
		opts.Audit = l
	}
}

// WithOutputDir writes scrubbed files into dir instead of next to the
// source. The directory is created on first use.
func WithOutputDir(dir string) OptionFunc {
	return func(opts *Options) {
		opts.OutputDir = dir
	}
}

// WithPixels sets the pixel handling mode and the quality used when
// re-encoding.
func WithPixels(mode config.PixelMode, quality int) OptionFunc {
	return func(opts *Options) {
		opts.Pixels = mode
		opts.Quality = quality
	}
}

// WithVerify turns the post-write verification pass on or off.
func WithVerify(verify bool) OptionFunc {
	return func(opts *Options) {
		opts.Verify = verify
	}
}

// WithFileMode sets the permission bits of output files. Default is 0644.
func WithFileMode(mode os.FileMode) OptionFunc {
	return func(opts *Options) {
		opts.FileMode = mode
	}
}

// WithConfig applies the output, pixel and verification settings of cfg.
// The audit logger is opened by the caller and passed with WithAudit.
func WithConfig(cfg *config.Config) OptionFunc {
	return func(opts *Options) {
		opts.OutputDir = cfg.OutputDir
		opts.Pixels = cfg.Pixels
		opts.Quality = cfg.Quality
		opts.Verify = cfg.Verify
	}
}
