package main

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/roadmud/domain"
	"github.com/CrestNiraj12/roadmud/feedsync"
	"github.com/CrestNiraj12/roadmud/infra/api"
	"github.com/CrestNiraj12/roadmud/infra/auth"
	"github.com/CrestNiraj12/roadmud/infra/config"
	"github.com/CrestNiraj12/roadmud/infra/editor"
	"github.com/CrestNiraj12/roadmud/infra/logging"
	"github.com/CrestNiraj12/roadmud/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliVersion
	cliHelp
	cliInvalid
)

func parseCLIArgs(args []string) (cliMode, string) {
	if len(args) == 0 {
		return cliRun, ""
	}

	switch args[0] {
	case "--version", "-version", "-v":
		return cliVersion, ""
	case "--help", "-h", "help":
		return cliHelp, ""
	default:
		return cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(args, " "))
	}
}

func usage() string {
	return "Usage: roadmud [--version|-version|-v] [--help|-h]"
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

// rateBurst lets a full second of requests through at once, so opening a
// post (three parallel fetches) is not throttled.
func rateBurst(perSecond float64) int {
	return max(int(math.Ceil(perSecond)), 3)
}

// initialFilter picks the remembered filter when it is still a known tab.
func initialFilter(saved string) domain.Filter {
	for _, f := range domain.Filters {
		if string(f) == saved {
			return f
		}
	}
	return domain.FilterAll
}

func main() {
	mode, msg := parseCLIArgs(os.Args[1:])
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("roadmud %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", msg, usage())
	}

	// 1. Load config from environment.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// 2. Logging goes to a file; the terminal belongs to the TUI.
	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := logging.New(logFile, cfg.LogLevel)
	logger.Info("starting", "version", version, "api", cfg.APIURL)

	// 3. Build infrastructure. Without a token file the viewer is anonymous.
	tokenProvider := auth.Resolve(cfg.TokenPath)
	if _, anon := tokenProvider.(auth.Anonymous); anon {
		logger.Info("no token found, browsing anonymously", "path", cfg.TokenPath)
	}
	client := api.NewClient(cfg.APIURL, tokenProvider, api.WithRateLimit(cfg.RatePerSec, rateBurst(cfg.RatePerSec)))

	// 4. Build services (concrete types satisfy app.* interfaces).
	communitySvc := api.NewCommunityService(client)
	mudSvc := api.NewMUDService(client)
	opts := []feedsync.Option{feedsync.WithLogger(logger), feedsync.WithPageSize(cfg.PageSize)}

	uiState, err := config.LoadUIState(cfg.StatePath)
	if err != nil {
		logger.Warn("ignoring ui state", "path", cfg.StatePath, "err", err)
	}

	// 5. Wire root TUI model.
	rootModel := tui.NewApp(tui.Deps{
		Community: communitySvc,
		MUD:       mudSvc,
		Toggles:   feedsync.NewInteractions(communitySvc, opts...),
		Editor:    editor.NewEnvEditor(),
		Logger:    logger,
		StatePath: cfg.StatePath,
		Filter:    initialFilter(uiState.Filter),
		Options:   opts,
	})

	// 6. Run.
	p := tea.NewProgram(rootModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		fmt.Fprintf(os.Stderr, "roadmud: %v\n", err)
		os.Exit(1)
	}
}
