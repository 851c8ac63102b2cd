package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/neuroviz/internal/analysis"
	"github.com/san-kum/neuroviz/internal/bake"
	"github.com/san-kum/neuroviz/internal/binding"
	"github.com/san-kum/neuroviz/internal/colormap"
	"github.com/san-kum/neuroviz/internal/config"
	"github.com/san-kum/neuroviz/internal/dataset"
	"github.com/san-kum/neuroviz/internal/export"
	"github.com/san-kum/neuroviz/internal/gui"
	"github.com/san-kum/neuroviz/internal/viz"
)

var (
	configFile string
	cmapName   string
	speed      float64
	fps        int
	theme      string
	focusName  string
	withAudio  bool
	// gui
	swcPath string
	// bind
	meshNames []string
	// analyze
	sectionName string
	threshold   float64
	// export
	exportFormat string
	exportOut    string
	// bench
	benchWorkers int
	benchRounds  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "neuroviz [dataset]",
		Short: "membrane voltage playback and visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return viz.Run(args[0], loadConfig(cmd))
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&cmapName, "colormap", "", "colormap override (plasma, viridis, coolwarm)")
	pf.Float64Var(&speed, "speed", config.DefaultSpeed, "playback speed multiplier")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "display frame rate")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "ui theme")
	pf.StringVar(&focusName, "focus", "", "section to chart and sonify")
	pf.BoolVar(&withAudio, "audio", false, "sonify the focus section")

	playCmd := &cobra.Command{
		Use:   "play [dataset]",
		Short: "play a recording in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.Run(args[0], loadConfig(cmd))
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui [dataset]",
		Short: "play a recording on the 3D cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return gui.Run(args[0], swcPath, loadConfig(cmd))
		},
	}
	guiCmd.Flags().StringVar(&swcPath, "swc", "", "SWC morphology file (schematic layout if omitted)")

	infoCmd := &cobra.Command{
		Use:   "info [dataset]",
		Short: "describe a recording",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}

	validateCmd := &cobra.Command{
		Use:   "validate [dataset]",
		Short: "check a recording without playing it",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}

	bindCmd := &cobra.Command{
		Use:   "bind [dataset]",
		Short: "preview mesh-to-section binding",
		Args:  cobra.ExactArgs(1),
		RunE:  runBind,
	}
	bindCmd.Flags().StringArrayVar(&meshNames, "mesh", nil, "mesh name (repeatable); defaults to section names")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [dataset]",
		Short: "spike and frequency analysis of one section",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringVar(&sectionName, "section", "", "section name (default: first)")
	analyzeCmd.Flags().Float64Var(&threshold, "threshold", config.DefaultSpikeLevel, "spike threshold (mV)")

	exportCmd := &cobra.Command{
		Use:   "export [dataset]",
		Short: "export a recording as svg timeline or csv",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "svg", "svg or csv")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")

	benchCmd := &cobra.Command{
		Use:   "bench [dataset]",
		Short: "measure color baking throughput",
		Args:  cobra.ExactArgs(1),
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 0, "worker count (0 = NumCPU)")
	benchCmd.Flags().IntVar(&benchRounds, "rounds", 5, "bake passes to average")

	rootCmd.AddCommand(playCmd, guiCmd, infoCmd, validateCmd, bindCmd, analyzeCmd, exportCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges the optional config file with CLI flags; explicit flags
// win over file values.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg := config.DefaultConfig()
	if configFile != "" {
		if loaded, err := config.Load(configFile); err == nil {
			cfg = loaded
		} else {
			fmt.Fprintf(os.Stderr, "config: %v (using defaults)\n", err)
		}
	}
	if cmd.Flags().Changed("colormap") {
		cfg.Colormap = cmapName
	}
	if cmd.Flags().Changed("speed") {
		cfg.Speed = speed
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = fps
	}
	if cmd.Flags().Changed("theme") {
		cfg.Theme = theme
	}
	if cmd.Flags().Changed("focus") {
		cfg.Focus = focusName
	}
	if cmd.Flags().Changed("audio") {
		cfg.Audio = withAudio
	}
	return *cfg
}

func runInfo(cmd *cobra.Command, args []string) error {
	ds, err := dataset.Load(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("frames:    %d\n", ds.Meta.FrameCount)
	fmt.Printf("duration:  %.1f ms (%.2f fps)\n", ds.Meta.DurationMs, ds.FramesPerSecond())
	fmt.Printf("voltage:   %.1f .. %.1f mV\n", ds.Material.VoltageRange.Min, ds.Material.VoltageRange.Max)
	fmt.Printf("colormap:  %s [%.2f, %.2f]\n", ds.Material.Colormap, ds.Material.CmapStart, ds.Material.CmapEnd)
	fmt.Printf("sections:  %d\n\n", len(ds.Sections))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tKIND\tMIN mV\tMAX mV")
	for _, sec := range ds.Sections {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%.1f\n",
			sec.ID, sec.Name, sec.Kind, sec.Local.Min, sec.Local.Max)
	}
	return w.Flush()
}

func runValidate(cmd *cobra.Command, args []string) error {
	ds, err := dataset.Load(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, dataset.ErrDataFormat) {
			return fmt.Errorf("invalid: %w", err)
		}
		return err
	}
	fmt.Printf("ok: %d sections, %d frames, %.1f ms\n",
		len(ds.Sections), ds.Meta.FrameCount, ds.Meta.DurationMs)
	return nil
}

func runBind(cmd *cobra.Command, args []string) error {
	ds, err := dataset.Load(context.Background(), args[0])
	if err != nil {
		return err
	}

	names := meshNames
	if len(names) == 0 {
		for _, sec := range ds.Sections {
			names = append(names, sec.Name)
		}
	}
	meshes := make([]binding.MeshHandle, len(names))
	for i, name := range names {
		meshes[i] = binding.MeshHandle{ID: fmt.Sprintf("m-%d", i), Name: name}
	}

	b := binding.Bind(meshes, ds)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MESH\tSECTION\tSTRATEGY")
	for _, e := range b.Entries() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Mesh.Name, ds.Sections[e.SectionIndex].Name, e.Strategy)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if b.Warnings() > 0 {
		fmt.Printf("\nunmatched: %d mesh(es), %d section(s)\n",
			b.UnmatchedMeshes(), b.UnmatchedSections())
	}
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ds, err := dataset.Load(context.Background(), args[0])
	if err != nil {
		return err
	}
	if len(ds.Sections) == 0 {
		return fmt.Errorf("dataset has no sections")
	}

	idx := 0
	if sectionName != "" {
		if idx = ds.SectionByName(sectionName); idx < 0 {
			return fmt.Errorf("no section named %q", sectionName)
		}
	}
	sec := ds.Sections[idx]

	spikes := analysis.CountSpikes(sec.Frames, threshold)
	peak := analysis.PeakVoltage(sec.Frames)
	dom := analysis.DominantFrequencyHz(sec.Frames, ds.Meta.TimeStepMs)

	fmt.Printf("section:   %s (%s)\n", sec.Name, sec.Kind)
	fmt.Printf("spikes:    %d (threshold %.1f mV)\n", spikes, threshold)
	fmt.Printf("peak:      %.2f mV\n", peak)
	fmt.Printf("dominant:  %.1f Hz\n\n", dom)

	if len(sec.Frames) > 1 {
		fmt.Println(asciigraph.Plot(sec.Frames,
			asciigraph.Height(10),
			asciigraph.Width(72),
			asciigraph.Caption(fmt.Sprintf("%s voltage (mV)", sec.Name)),
		))
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	ds, err := dataset.Load(context.Background(), args[0])
	if err != nil {
		return err
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch strings.ToLower(exportFormat) {
	case "csv":
		return export.WriteCSV(out, ds)
	case "svg":
		name := ds.Material.Colormap
		if cfg.Colormap != "" {
			name = cfg.Colormap
		}
		engine := colormap.NewEngine(colormap.Lookup(name))
		engine.SetRange(ds.Material.CmapStart, ds.Material.CmapEnd)
		svg, err := export.TimelineSVG(context.Background(), ds, engine, cfg.ExportWidth, cfg.ExportRowPx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, svg)
		return err
	default:
		return fmt.Errorf("unknown format %q (want svg or csv)", exportFormat)
	}
}

func runBench(cmd *cobra.Command, args []string) error {
	ds, err := dataset.Load(context.Background(), args[0])
	if err != nil {
		return err
	}
	engine := colormap.NewEngine(colormap.Lookup(ds.Material.Colormap))
	engine.SetRange(ds.Material.CmapStart, ds.Material.CmapEnd)

	if benchRounds < 1 {
		benchRounds = 1
	}
	var total time.Duration
	for i := 0; i < benchRounds; i++ {
		start := time.Now()
		if _, err := bake.Frames(context.Background(), ds, engine, benchWorkers); err != nil {
			return err
		}
		total += time.Since(start)
	}
	avg := total / time.Duration(benchRounds)
	samples := ds.Meta.FrameCount * len(ds.Sections)
	fmt.Printf("baked %d frames x %d sections in %v avg (%.0f samples/sec, workers=%d)\n",
		ds.Meta.FrameCount, len(ds.Sections), avg,
		float64(samples)/avg.Seconds(), benchWorkers)
	return nil
}
