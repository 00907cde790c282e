// ABOUTME: Entry point for the meetmind room client
// ABOUTME: Handles auth, room listing, and launching interactive room sessions

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"

	"github.com/bipulkrdas/meetmind/internal/api"
	"github.com/bipulkrdas/meetmind/internal/auth"
	"github.com/bipulkrdas/meetmind/internal/config"
)

// Version is set by goreleaser at build time.
var version = "dev"

func main() {
	f := parseArgs()
	if len(f.args) < 1 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := setupLogger(cfg.Logging)

	switch f.args[0] {
	case "login":
		err = runLogin(ctx, cfg, logger)
	case "rooms":
		err = runRooms(ctx, cfg, logger)
	case "open":
		if len(f.args) < 2 {
			err = fmt.Errorf("usage: meetmind open <room-id>")
			break
		}
		err = runOpen(ctx, cfg, logger, f.args[1])
	case "whoami":
		err = runWhoami(ctx, cfg, logger)
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", f.args[0])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: meetmind [flags] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login             Sign in and store a token")
	fmt.Println("  rooms             List your rooms")
	fmt.Println("  open <room-id>    Open an interactive room session")
	fmt.Println("  whoami            Show the signed-in account")
	fmt.Println("  version           Print the version")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -server URL       Backend base URL (overrides config)")
	fmt.Println("  -config PATH      Config file path")
}

// flags holds parsed command-line state.
type flags struct {
	server string
	config string
	args   []string
}

func parseArgs() flags {
	var f flags
	args := os.Args[1:]
	for len(args) > 0 && strings.HasPrefix(args[0], "-") {
		name := strings.TrimLeft(args[0], "-")
		if len(args) < 2 {
			break
		}
		switch name {
		case "server":
			f.server = args[1]
		case "config":
			f.config = args[1]
		default:
			fmt.Fprintf(os.Stderr, "Unknown flag: %s\n", args[0])
			os.Exit(1)
		}
		args = args[2:]
	}
	f.args = args
	return f
}

// loadConfig resolves configuration: the -config flag, then the default
// path if a file exists there, then built-in defaults. A -server flag
// overrides base_url from any source.
func loadConfig(f flags) (*config.Config, error) {
	var cfg *config.Config

	path := f.config
	if path == "" {
		path = config.DefaultPath()
	}
	if path != "" {
		loaded, err := config.Load(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist) && f.config == "":
			cfg = config.Default()
		default:
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	if f.server != "" {
		cfg.Server.BaseURL = f.server
	}
	return cfg, nil
}

// newClient builds an API client with the stored bearer token. Missing
// tokens are fine for login; everything else will get a 401 the backend
// explains better than we can guess here.
func newClient(cfg *config.Config, logger *slog.Logger) *api.Client {
	opts := []api.Option{
		api.WithLogger(logger),
		api.WithTimeouts(cfg.Server.RequestTimeout, cfg.Server.UploadTimeout),
	}

	token, err := auth.LoadToken()
	if err == nil {
		if info, ierr := auth.Inspect(token); ierr == nil && info.Expired() {
			color.Yellow("Stored token is expired; run `meetmind login` again.")
		}
		opts = append(opts, api.WithToken(token))
	}

	return api.New(cfg.Server.BaseURL, opts...)
}

func runLogin(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client := api.New(cfg.Server.BaseURL, api.WithLogger(logger),
		api.WithTimeouts(cfg.Server.RequestTimeout, cfg.Server.UploadTimeout))

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading email: %w", err)
	}
	fmt.Print("Password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	resp, err := client.SignIn(ctx, strings.TrimSpace(email), strings.TrimSpace(password))
	if err != nil {
		return fmt.Errorf("signing in: %w", err)
	}

	if err := auth.SaveToken(resp.Token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	path, _ := auth.TokenPath()
	green := color.New(color.FgGreen)
	green.Print("✓ ")
	fmt.Printf("Signed in as %s\n", resp.User.Username)
	color.New(color.FgHiBlack).Printf("  token stored at %s\n", path)
	return nil
}

func runWhoami(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client := newClient(cfg, logger)
	user, err := client.Me(ctx)
	if err != nil {
		return fmt.Errorf("fetching account: %w", err)
	}
	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	return nil
}

func runRooms(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client := newClient(cfg, logger)
	rooms, err := client.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("listing rooms: %w", err)
	}

	if len(rooms) == 0 {
		fmt.Println("No rooms")
		return nil
	}

	gray := color.New(color.FgHiBlack)
	for _, r := range rooms {
		fmt.Printf("%s  %s", r.Room.ID, r.Room.RoomName)
		gray.Printf("  (%d participants)", r.ParticipantCount)
		if r.IsOwner {
			color.New(color.FgCyan).Print("  [owner]")
		}
		fmt.Println()
	}
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
// Logs go to stderr so they interleave cleanly with session output.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Fprint(os.Stderr, buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}
