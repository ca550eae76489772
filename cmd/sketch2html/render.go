package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/sketch2html/internal/pipeline"
)

var renderOutput string

var renderCmd = &cobra.Command{
	Use:   "render <layout.yaml>",
	Short: "Render HTML from a saved or hand-edited layout file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	RootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output HTML path (default: output/<name>_<timestamp>.html)")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, false)
	if err != nil {
		return err
	}

	layout, err := pipeline.ReadLayout(args[0])
	if err != nil {
		return err
	}

	out := renderOutput
	if out == "" {
		out = defaultOutputPath(args[0], time.Now())
	}
	if err := writeDocument(out, layout.Markup()); err != nil {
		return err
	}

	log.Infof("[+++] Done: %s (%d regions)", out, len(layout.Regions))
	return nil
}
