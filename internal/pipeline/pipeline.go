package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/sketch2html/internal/analyzer"
	"github.com/ivlev/sketch2html/internal/config"
	"github.com/ivlev/sketch2html/internal/markup"
	"github.com/ivlev/sketch2html/internal/ocr"
	"github.com/ivlev/sketch2html/internal/source"
	"github.com/ivlev/sketch2html/internal/storage"
	"github.com/ivlev/sketch2html/internal/system"
)

// Errors callers are expected to match with errors.Is.
var (
	ErrEmptyInput             = source.ErrEmptyInput
	ErrDecode                 = source.ErrDecode
	ErrRecognitionUnavailable = ocr.ErrRecognitionUnavailable
)

// TextExtractor recognizes the text of a decoded image.
type TextExtractor interface {
	Extract(ctx context.Context, img *source.Image) (string, error)
}

// Layout is the text and regions of one image before markup synthesis.
type Layout struct {
	Version string            `yaml:"version"`
	Width   int               `yaml:"width"`
	Height  int               `yaml:"height"`
	Text    string            `yaml:"text"`
	Regions []analyzer.Region `yaml:"regions"`
}

// Result describes a conversion persisted through a Storage.
type Result struct {
	Upload   storage.Handle
	Output   string // location of the written document
	Document string
}

// Pipeline converts mockup images into HTML. It holds no per-call state and
// is safe for concurrent use.
type Pipeline struct {
	decoder   *source.Decoder
	extractor TextExtractor
	segmenter analyzer.Segmenter
	log       logrus.FieldLogger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithExtractor replaces the configured text extractor.
func WithExtractor(e TextExtractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

// WithSegmenter replaces the configured region segmenter.
func WithSegmenter(s analyzer.Segmenter) Option {
	return func(p *Pipeline) { p.segmenter = s }
}

// New builds a pipeline from cfg.
func New(cfg config.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p := &Pipeline{
		decoder: source.NewDecoder(cfg.PDFDPI),
		log:     system.DiscardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.segmenter == nil {
		seg, err := analyzer.NewSegmenter(cfg.Segmenter, cfg.Threshold)
		if err != nil {
			return nil, err
		}
		p.segmenter = seg
	}

	if p.extractor == nil {
		engine, err := ocr.NewEngine(cfg.Recognition)
		if err != nil {
			return nil, err
		}
		p.extractor = ocr.NewExtractor(engine, ocr.OptionsFromConfig(cfg.Recognition), p.log)
	}

	return p, nil
}

// Run converts image bytes into an HTML document.
func (p *Pipeline) Run(ctx context.Context, data []byte) (string, error) {
	layout, err := p.Analyze(ctx, data)
	if err != nil {
		return "", err
	}
	return layout.Markup(), nil
}

// Markup synthesizes the HTML document of the layout.
func (l *Layout) Markup() string {
	return markup.Synthesize(l.Text, l.Regions)
}

// Analyze decodes data once, then extracts text and segments regions in
// parallel. If either step fails the whole call fails.
func (p *Pipeline) Analyze(ctx context.Context, data []byte) (*Layout, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	start := time.Now()
	img, err := p.decoder.Decode(data)
	if err != nil {
		return nil, err
	}

	log := p.log.WithFields(logrus.Fields{
		"format": img.Format,
		"width":  img.Width,
		"height": img.Height,
	})

	var (
		text    string
		regions []analyzer.Region
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := p.extractor.Extract(gctx, img)
		if err != nil {
			return fmt.Errorf("extract text: %w", err)
		}
		text = t
		return nil
	})

	g.Go(func() error {
		r, err := p.segmenter.Segment(img.Pixels)
		if err != nil {
			return fmt.Errorf("segment regions: %w", err)
		}
		regions = r
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("conversion failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"regions": len(regions),
		"chars":   len([]rune(text)),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("layout analyzed")

	return &Layout{Version: LayoutVersion, Width: img.Width, Height: img.Height, Text: text, Regions: regions}, nil
}

// Convert saves the upload through store, runs the pipeline and writes the
// document under name (derived from the upload handle when empty). A nil
// store skips persistence. Nothing is written when the conversion fails.
func (p *Pipeline) Convert(ctx context.Context, store storage.Storage, data []byte, name string) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	res := &Result{}
	if store != nil {
		handle, err := store.Save(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("save upload: %w", err)
		}
		res.Upload = handle
	}

	doc, err := p.Run(ctx, data)
	if err != nil {
		return nil, err
	}
	res.Document = doc

	if store != nil {
		loc, err := store.Write(ctx, outputName(name, res.Upload.ID), doc)
		if err != nil {
			return nil, fmt.Errorf("write document: %w", err)
		}
		res.Output = loc
	}

	return res, nil
}

// outputName turns an upload file name into a document name.
func outputName(name, id string) string {
	if name == "" {
		if id == "" {
			return "layout.html"
		}
		return id + ".html"
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name + ".html"
}

// IsClientError reports errors caused by the submitted bytes rather than the service.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrDecode)
}
