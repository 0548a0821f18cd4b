package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/wdiview/internal/datasource"
	"github.com/vanderheijden86/wdiview/pkg/config"
	"github.com/vanderheijden86/wdiview/pkg/dashboard"
	"github.com/vanderheijden86/wdiview/pkg/debug"
	"github.com/vanderheijden86/wdiview/pkg/export"
	"github.com/vanderheijden86/wdiview/pkg/loader"
	"github.com/vanderheijden86/wdiview/pkg/metrics"
	"github.com/vanderheijden86/wdiview/pkg/ui"
	"github.com/vanderheijden86/wdiview/pkg/version"
	"github.com/vanderheijden86/wdiview/pkg/web"
)

// isTerminal reports whether stdout is a terminal. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wdi", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cpuProfile := fs.String("cpu-profile", "", "Write CPU profile to file")
	help := fs.Bool("help", false, "Show help")
	versionFlag := fs.Bool("version", false, "Show version")
	configPath := fs.String("config", "", "Config file (default ~/.config/wdi/config.yaml)")
	dataDir := fs.String("data-dir", "", "Directory holding part_wdi.csv, country_color.txt and sun_fig.csv")
	serveAddr := fs.String("serve", "", "Serve the web dashboard on ADDR (e.g. 127.0.0.1:8050)")
	webFlag := fs.Bool("web", false, "Serve the web dashboard on the configured address")
	exportDir := fs.String("export", "", "Write every figure for the default controls to DIR and exit")
	formatFlag := fs.String("format", "", "Export format: svg, png or json")
	exportSQLite := fs.String("export-sqlite", "", "Write the loaded table and colors to a SQLite FILE and exit")
	metricsFlag := fs.Bool("metrics", false, "Print timing metrics as JSON to stderr on exit")
	themeFlag := fs.String("theme", "", "Terminal theme: auto, dark or light")
	tabFlag := fs.String("tab", "", "Initial terminal tab: geo, scatter, taxonomy or trajectory")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(stderr, "Could not create CPU profile: %v\n", err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "Could not start CPU profile: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Fprintln(stdout, "Usage: wdi [options]")
		fmt.Fprintln(stdout, "\nAn interactive World Development Indicator dashboard.")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return 0
	}

	if *versionFlag {
		fmt.Fprintf(stdout, "wdi %s\n", version.Version)
		return 0
	}

	if *metricsFlag {
		defer printMetrics(stderr)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		if *configPath != "" {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return 1
		}
		// Non-fatal: continue with defaults
		fmt.Fprintf(stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}
	if *themeFlag != "" {
		cfg.UI.Theme = *themeFlag
	}
	if *tabFlag != "" {
		cfg.UI.Tab = *tabFlag
	}
	if *formatFlag != "" {
		cfg.Export.Format = *formatFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if *serveAddr != "" && *webFlag {
		fmt.Fprintln(stderr, "Error: --serve and --web are mutually exclusive")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths := cfg.Paths(*dataDir)
	data, err := loader.LoadAll(ctx, paths)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading data: %v\n", err)
		fmt.Fprintf(stderr, "Looked for %s, %s and %s (set --data-dir or %s).\n",
			paths.Table, paths.Colors, paths.Hierarchy, loader.DataDirEnvVar)
		return 1
	}

	dash, err := dashboard.New(data, cfg.DashboardOptions())
	if err != nil {
		fmt.Fprintf(stderr, "Error building dashboard: %v\n", err)
		return 1
	}

	switch {
	case *exportSQLite != "":
		err = exportDatabase(*exportSQLite, data, stdout)
	case *exportDir != "":
		err = exportFigures(*exportDir, cfg.Export.Format, dash, stdout)
	case *serveAddr != "" || *webFlag:
		addr := *serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}
		err = serve(ctx, dash, addr, stdout)
	case isTerminal():
		if debug.Enabled() {
			logPath := filepath.Join(os.TempDir(), "wdi-debug.log")
			if f, ferr := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); ferr == nil {
				defer f.Close()
				debug.SetOutput(f)
				fmt.Fprintf(stderr, "Debug log: %s\n", logPath)
			}
		}
		m := ui.NewModel(dash, ui.Options{Theme: cfg.UI.Theme, Tab: cfg.UI.Tab})
		err = runTUIProgram(m)
	default:
		err = printSummary(stdout, dash)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return config.DefaultConfig(), fmt.Errorf("config %s: %w", path, err)
		}
		return config.LoadFrom(path)
	}
	return config.Load()
}

func exportDatabase(path string, data *loader.Data, stdout io.Writer) error {
	err := datasource.ExportSQLite(path, datasource.SQLiteExport{
		Observations: data.Table.Rows(),
		Colors:       data.Colors.Assignments(),
	})
	if err != nil {
		return fmt.Errorf("export sqlite: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote %d observations and %d colors to %s\n", data.Table.Len(), data.Colors.Len(), path)
	return nil
}

// figureTitles names each output in exported files.
var figureTitles = map[dashboard.OutputID]string{
	dashboard.GraphMap:       "Heatmap of one WDI indicator around the World",
	dashboard.GraphBar:       "Top countries",
	dashboard.ScatterGraphic: "Indicator X versus indicator Y",
	dashboard.SunburstChart:  "WDI dimensions and topics",
	dashboard.TrajectoryPlot: "Life expectancy versus GDP per capita",
}

func exportFigures(dir, formatName string, dash *dashboard.Dashboard, stdout io.Writer) error {
	format := export.FormatSVG
	if formatName != "" {
		f, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}
		format = f
	}

	figs := dash.Render(dash.Defaults())
	var named []export.Named
	for _, id := range dashboard.OutputIDs() {
		named = append(named, export.Named{Name: string(id), Title: figureTitles[id], Figure: figs[id]})
	}
	written, err := export.ExportSet(dir, format, named)
	if err != nil {
		return err
	}
	for _, p := range written {
		fmt.Fprintln(stdout, p)
	}
	return nil
}

func serve(ctx context.Context, dash *dashboard.Dashboard, addr string, stdout io.Writer) error {
	srv, err := web.New(dash)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, addr, func(a net.Addr) {
		fmt.Fprintf(stdout, "Serving the dashboard on http://%s (Ctrl+C to stop)\n", a)
	})
}

// summary is what a non-interactive run prints.
type summary struct {
	Version  string                     `json:"version"`
	Headline dashboard.Headline         `json:"headline"`
	Defaults dashboard.ControlState     `json:"defaults"`
	Points   map[dashboard.OutputID]int `json:"points"`
}

func printSummary(w io.Writer, dash *dashboard.Dashboard) error {
	s := summary{
		Version:  version.Version,
		Headline: dash.Headline(),
		Defaults: dash.Defaults(),
		Points:   make(map[dashboard.OutputID]int),
	}
	for id, f := range dash.Render(dash.Defaults()) {
		s.Points[id] = f.Points()
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

func printMetrics(w io.Writer) {
	raw, err := json.MarshalIndent(metrics.TakeSnapshot(), "", "  ")
	if err != nil {
		debug.Log("metrics: %v", err)
		return
	}
	fmt.Fprintln(w, string(raw))
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set WDI_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("WDI_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
