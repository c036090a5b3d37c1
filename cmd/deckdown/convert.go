package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deckdown/internal/classify"
	"github.com/pdiddy/deckdown/internal/emit"
	"github.com/pdiddy/deckdown/internal/pipeline"
	"github.com/pdiddy/deckdown/pkg/types"

	// Registered document backends.
	_ "github.com/pdiddy/deckdown/internal/deck/pdfdeck"
	_ "github.com/pdiddy/deckdown/internal/deck/pptxdeck"
)

var convertCmd = &cobra.Command{
	Use:   "convert <deck.pdf|deck.pptx>...",
	Short: "Convert slide decks into one structured document",
	Long: `Convert reads one or more slide decks and writes a single HTML or
Markdown document with a table of contents, classified text structure,
and all images embedded inline. Unreadable inputs are skipped with a
warning; the command fails only when no input could be read.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd)
		if err != nil {
			return err
		}

		rules := classify.DefaultRules()
		if cfg.Classify.RulesFile != "" {
			rules, err = classify.LoadRules(cfg.Classify.RulesFile)
			if err != nil {
				return err
			}
		}

		outPath := outputPath(cfg.Output, args)

		result, err := pipeline.Run(cmd.Context(), args, pipeline.Options{
			Config: cfg,
			Rules:  rules,
		}, os.Stderr)
		for _, w := range result.Warnings {
			if w.PageIndex >= 0 {
				fmt.Fprintf(os.Stderr, "warning: %s page %d: %s\n", w.Doc, w.PageIndex+1, w.Message)
			} else {
				fmt.Fprintf(os.Stderr, "warning: %s: %s\n", w.Doc, w.Message)
			}
		}
		if err != nil {
			return err
		}

		ser, err := emit.For(cfg.Output.Format)
		if err != nil {
			return err
		}
		if h, ok := ser.(*emit.HTML); ok {
			h.EquationRules = rules.IsEquationFamily
		}
		if m, ok := ser.(*emit.Markdown); ok {
			m.EquationRules = rules.IsEquationFamily
		}

		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		if err := ser.Write(f, result.Model); err != nil {
			f.Close()
			return fmt.Errorf("writing output: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}

		info, _ := os.Stat(outPath)
		var size int64
		if info != nil {
			size = info.Size()
		}
		fmt.Fprintf(os.Stderr, "\nDone: %s (%.1f MB, %d pages from %d documents)\n",
			outPath, float64(size)/1024/1024, len(result.Model.Pages), result.Converted)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output file (.html or .md, format auto-detected from extension)")
	convertCmd.Flags().String("format", "", "output format: html or md (default html)")
	convertCmd.Flags().String("render", "", "render policy: auto, always, or never (default auto)")
	convertCmd.Flags().String("title", "", "document title (default derived from input names)")
	convertCmd.Flags().String("rules", "", "YAML file overriding the heuristic rule sets")

	rootCmd.AddCommand(convertCmd)
}

// buildConfig layers configuration: defaults, then the config file, then
// flags. A .md output extension implies Markdown, matching what users mean
// when they name the file.
func buildConfig(cmd *cobra.Command) (types.Config, error) {
	cfg := types.DefaultConfig()

	if v := viper.GetInt("classify.min_code_run"); v > 0 {
		cfg.Classify.MinCodeRun = v
	}
	if v := viper.GetInt("classify.max_bullet_tiers"); v > 0 {
		cfg.Classify.MaxBulletTiers = v
	}
	if v := viper.GetFloat64("classify.title_size_slack"); v > 0 {
		cfg.Classify.TitleSizeSlack = v
	}
	if v := viper.GetString("classify.rules_file"); v != "" {
		cfg.Classify.RulesFile = v
	}
	if v := viper.GetString("render.policy"); v != "" {
		cfg.Render.Policy = types.RenderPolicy(v)
	}
	if v := viper.GetFloat64("render.equation_density"); v > 0 {
		cfg.Render.EquationDensity = v
	}
	if v := viper.GetInt("render.vector_object_threshold"); v > 0 {
		cfg.Render.VectorObjectThreshold = v
	}
	if v := viper.GetFloat64("render.dpi"); v > 0 {
		cfg.Render.DPI = v
	}
	if v := viper.GetInt("render.max_render_width"); v > 0 {
		cfg.Render.MaxRenderWidth = v
	}
	if v := viper.GetString("output.format"); v != "" {
		cfg.Output.Format = types.OutputFormat(v)
	}

	if v, _ := cmd.Flags().GetString("render"); v != "" {
		cfg.Render.Policy = types.RenderPolicy(v)
	}
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		cfg.Output.Format = types.OutputFormat(v)
	}
	if v, _ := cmd.Flags().GetString("title"); v != "" {
		cfg.Output.Title = v
	}
	if v, _ := cmd.Flags().GetString("rules"); v != "" {
		cfg.Classify.RulesFile = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.Output.Path = v
		if strings.EqualFold(filepath.Ext(v), ".md") {
			cfg.Output.Format = types.FormatMarkdown
		}
	}

	switch cfg.Render.Policy {
	case types.RenderPolicyAuto, types.RenderPolicyAlways, types.RenderPolicyNever:
	default:
		return cfg, fmt.Errorf("invalid render policy %q (want auto, always, or never)", cfg.Render.Policy)
	}
	switch cfg.Output.Format {
	case types.FormatHTML, types.FormatMarkdown:
	default:
		return cfg, fmt.Errorf("invalid output format %q (want html or md)", cfg.Output.Format)
	}
	return cfg, nil
}

// outputPath picks the output file: the explicit -o path, the single
// input's stem with the format extension, or combined.<ext> for merges.
func outputPath(out types.OutputConfig, inputs []string) string {
	if out.Path != "" {
		return out.Path
	}
	ext := ".html"
	if out.Format == types.FormatMarkdown {
		ext = ".md"
	}
	if len(inputs) == 1 {
		base := strings.TrimSuffix(inputs[0], filepath.Ext(inputs[0]))
		return base + ext
	}
	return "combined" + ext
}
