package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/c4x/pkg/pipeline"
	"github.com/matzehuels/c4x/pkg/theme"
)

// compileFlags are the styling flags shared by every compiling command.
// Set flags override the configuration file.
type compileFlags struct {
	theme        string
	themeFile    string
	detailed     bool
	noBackground bool
	refresh      bool
}

func (f *compileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.theme, "theme", "", "built-in theme: "+strings.Join(theme.Names(), ", "))
	cmd.Flags().StringVar(&f.themeFile, "theme-file", "", "TOML theme file (overrides --theme)")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "include technology, tags and metadata in DOT labels")
	cmd.Flags().BoolVar(&f.noBackground, "no-background", false, "omit the SVG background rectangle")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results (results are still stored)")
}

// compileOptions merges the configuration file with flags. Precedence, high
// to low: --theme-file, --theme, theme_file, theme.
func (c *CLI) compileOptions(f compileFlags, formats []string) (pipeline.Options, error) {
	opts, err := c.cfg.PipelineOptions()
	if err != nil {
		return pipeline.Options{}, err
	}
	if f.theme != "" {
		opts.Theme = f.theme
		opts.CustomTheme = nil
	}
	if f.themeFile != "" {
		t, err := theme.LoadFile(f.themeFile)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.CustomTheme = &t
	}
	if len(formats) > 0 {
		opts.Formats = formats
	}
	opts.Detailed = f.detailed
	opts.NoBackground = f.noBackground
	opts.Refresh = f.refresh
	opts.Logger = c.Logger

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// workspaceName derives a workspace name from a diagram path.
func workspaceName(path string) string {
	base := filepath.Base(path)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" && name != "." {
		return name
	}
	return pipeline.DefaultWorkspace
}
