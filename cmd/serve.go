package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"ministrylog/config"
	"ministrylog/internal/timeutil"
	"ministrylog/web"

	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveDBPath string
	serveWeek   string
	serveNoOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a local web server for weekly report downloads",
	Long: `Start a local HTTP server with one page per week and download links for
every export format. Prometheus metrics are served on /metrics.

The server is meant for a single local user and has no authentication.`,
	Example: `
  # Start local server on default port
  ministrylog serve

  # Start on port 9090 and open the week containing 2024-06-05
  ministrylog serve --port 9090 --week 2024-06-05
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		log := newLogger(cfg)
		defer log.Sync()

		day, err := parseWeekFlag(serveWeek, time.Now())
		if err != nil {
			return err
		}

		store, err := openStore(firstNonEmpty(serveDBPath, cfg.Storage.DBPath))
		if err != nil {
			return err
		}
		defer store.Close()

		handler, err := web.NewServer(store, *cfg, log)
		if err != nil {
			return err
		}

		addr := fmt.Sprintf("localhost:%d", servePort)
		server := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := "http://" + addr
		log.Info("server listening", "addr", addr)
		fmt.Printf("Listening on %s\n", listenURL)
		if !serveNoOpen {
			target := listenURL + "/week/" + timeutil.FormatDate(timeutil.WeekOf(day).Start)
			if openErr := openURLInBrowser(target); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local web server")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Path to local SQLite database (default: storage.db_path)")
	serveCmd.Flags().StringVar(&serveWeek, "week", "", "Week to open in the browser, any date YYYY-MM-DD (default: this week)")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
