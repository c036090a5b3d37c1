package types

// RenderPolicy is the rule set governing whether a page is rasterized
// wholesale instead of reconstructed as structured text.
type RenderPolicy string

const (
	// RenderPolicyAuto renders only pages with vector graphics or dense
	// equations.
	RenderPolicyAuto RenderPolicy = "auto"

	// RenderPolicyAlways renders every page.
	RenderPolicyAlways RenderPolicy = "always"

	// RenderPolicyNever renders no page.
	RenderPolicyNever RenderPolicy = "never"
)

// OutputFormat selects the serialization target.
type OutputFormat string

const (
	FormatHTML     OutputFormat = "html"
	FormatMarkdown OutputFormat = "md"
)

// ClassifyConfig holds line-classifier tunables. The heuristic thresholds are
// product-tuned; they are configuration rather than constants so they can be
// validated against representative decks without code changes.
type ClassifyConfig struct {
	// MinCodeRun is the minimum number of consecutive same-tier lines
	// matching the code-token patterns required to classify the run as
	// code (default 2). A single matching line is never code.
	MinCodeRun int `json:"min_code_run" yaml:"min_code_run"`

	// MaxBulletTiers caps how many size tiers below the title map to
	// bullet levels (default 2: bullet, sub-bullet).
	MaxBulletTiers int `json:"max_bullet_tiers" yaml:"max_bullet_tiers"`

	// TitleSizeSlack treats sizes within this many points of the page's
	// largest as title-sized (default 2), absorbing producer rounding.
	TitleSizeSlack float64 `json:"title_size_slack" yaml:"title_size_slack"`

	// RulesFile optionally overrides the built-in equation/code rule sets
	// with a YAML rules file.
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty"`
}

// RenderConfig holds render-necessity tunables.
type RenderConfig struct {
	// Policy selects auto, always, or never.
	Policy RenderPolicy `json:"policy" yaml:"policy"`

	// EquationDensity is the fraction of equation-classified lines at or
	// above which the auto policy renders the page (default 0.4).
	EquationDensity float64 `json:"equation_density" yaml:"equation_density"`

	// VectorObjectThreshold is the number of vector drawing objects above
	// which the auto policy renders the page (default 4). Slide templates
	// routinely place a few decorative rules, so a small count is noise.
	VectorObjectThreshold int `json:"vector_object_threshold" yaml:"vector_object_threshold"`

	// DPI is the resolution for full-page renders (default 120).
	DPI float64 `json:"dpi" yaml:"dpi"`

	// MaxRenderWidth downscales full-page renders wider than this many
	// pixels; 0 disables downscaling (default 1600).
	MaxRenderWidth int `json:"max_render_width" yaml:"max_render_width"`
}

// OutputConfig holds serialization settings.
type OutputConfig struct {
	// Format is html or md.
	Format OutputFormat `json:"format" yaml:"format"`

	// Path is the output file path; empty derives it from the first input.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Title overrides the derived document title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Config groups all pipeline configuration.
type Config struct {
	Classify ClassifyConfig `json:"classify" yaml:"classify"`
	Render   RenderConfig   `json:"render" yaml:"render"`
	Output   OutputConfig   `json:"output" yaml:"output"`
}

// DefaultConfig returns the configuration used when no file or flag overrides
// it.
func DefaultConfig() Config {
	return Config{
		Classify: ClassifyConfig{
			MinCodeRun:     2,
			MaxBulletTiers: 2,
			TitleSizeSlack: 2,
		},
		Render: RenderConfig{
			Policy:                RenderPolicyAuto,
			EquationDensity:       0.4,
			VectorObjectThreshold: 4,
			DPI:                   120,
			MaxRenderWidth:        1600,
		},
		Output: OutputConfig{
			Format: FormatHTML,
		},
	}
}
