package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/sketch2html/internal/pipeline"
	"github.com/ivlev/sketch2html/internal/system"
)

const (
	inputDir  = "input"
	outputDir = "output"
)

var (
	convertOutput    string
	convertEngine    string
	convertThreshold int
	convertLayout    string
)

var convertCmd = &cobra.Command{
	Use:   "convert [image]",
	Short: "Convert one mockup image into an HTML file",
	Long:  "Convert a PNG, JPEG, GIF, BMP, TIFF, WebP or PDF mockup into HTML. Without an argument the newest image in input/ is used.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConvert,
}

func init() {
	RootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output HTML path (default: output/<name>_<timestamp>.html)")
	convertCmd.Flags().StringVar(&convertEngine, "engine", "", "Recognition engine: tesseract, gosseract, none")
	convertCmd.Flags().IntVar(&convertThreshold, "threshold", 0, "Binarization threshold 1-255 (default from config)")
	convertCmd.Flags().StringVar(&convertLayout, "layout", "", "Also write the recognized text and regions to this YAML file")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if convertEngine != "" {
		cfg.Recognition.Engine = convertEngine
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Threshold = convertThreshold
	}

	log, err := newLogger(cfg, false)
	if err != nil {
		return err
	}

	inputPath := ""
	if len(args) > 0 {
		inputPath = args[0]
	} else {
		latest, err := system.FindLatestImage(inputDir)
		if err != nil {
			return fmt.Errorf("%w. Put a mockup into %s/", err, inputDir)
		}
		inputPath = latest
		log.Infof("[*] Selected input: %s", inputPath)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	if err := system.CheckImageBudget(data, cfg.MaxPixels); err != nil {
		if errors.Is(err, system.ErrImageTooLarge) {
			return err
		}
		log.Warnf("[!] Could not check image size: %v", err)
	}

	p, err := pipeline.New(cfg, pipeline.WithLogger(log))
	if err != nil {
		return err
	}

	layout, err := p.Analyze(cmd.Context(), data)
	if err != nil {
		return fmt.Errorf("convert %s: %w", inputPath, err)
	}

	if convertLayout != "" {
		if err := pipeline.WriteLayout(layout, convertLayout); err != nil {
			return fmt.Errorf("write layout: %w", err)
		}
		log.Infof("[*] Layout saved: %s", convertLayout)
	}

	out := convertOutput
	if out == "" {
		out = defaultOutputPath(inputPath, time.Now())
	}
	if err := writeDocument(out, layout.Markup()); err != nil {
		return err
	}

	log.Infof("[+++] Done: %s", out)
	return nil
}

func writeDocument(path, doc string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(doc), 0644)
}

// defaultOutputPath names the document after the input and the current time.
func defaultOutputPath(input string, now time.Time) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ReplaceAll(name, " ", "_")
	return filepath.Join(outputDir, fmt.Sprintf("%s_%s.html", name, now.Format("2006-01-02_15-04-05")))
}
