// Command chessd runs the chess game server.
//
// By default it serves the REST API, the WebSocket spectator endpoint and
// the MCP endpoint on one port. The mcp-stdio command instead speaks MCP
// over stdin/stdout for clients that spawn the server as a subprocess; it
// starts an internal HTTP server on a loopback port so the MCP tools go
// through the same API as everyone else.
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokconfig "golang.ngrok.com/ngrok/config"

	"github.com/chessd/chessd/api"
	"github.com/chessd/chessd/game/preset"
	"github.com/chessd/chessd/game/service"
	"github.com/chessd/chessd/game/session"
	"github.com/chessd/chessd/transport/mcp"
	ws "github.com/chessd/chessd/transport/websocket"
)

func main() {
	// Missing .env is fine, the defaults work out of the box.
	godotenv.Load()

	cmd := &cli.Command{
		Name:  "chessd",
		Usage: "stateful chess game server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP listen port",
				Value:   8080,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "presets",
				Usage:   "directory of starting-position presets",
				Value:   "presets",
				Sources: cli.EnvVars("PRESETS_DIR"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "expose the server through an ngrok tunnel (needs NGROK_AUTHTOKEN)",
				Sources: cli.EnvVars("NGROK"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "add file and line to log output",
				Sources: cli.EnvVars("DEBUG"),
			},
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:  "mcp-stdio",
				Usage: "speak MCP over stdin/stdout, backed by an internal loopback server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "presets",
						Usage:   "directory of starting-position presets",
						Value:   "presets",
						Sources: cli.EnvVars("PRESETS_DIR"),
					},
				},
				Action: runMCPStdio,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("chessd: %v", err)
	}
}

// buildServer wires the whole stack: registry, presets, service, hub, API.
func buildServer(presetsDir string, withHub bool) *api.Server {
	var library service.PresetLibrary
	if presets, err := preset.NewManager(presetsDir); err != nil {
		log.Printf("[INIT] presets disabled: %v", err)
	} else {
		library = presets
		log.Printf("[INIT] presets loaded from %s", presetsDir)
	}

	svc := service.NewGameService(session.NewManager(), library)

	var hub *ws.Hub
	if withHub {
		hub = ws.NewHub()
		go hub.Run()
	}

	return api.NewServer(svc, hub)
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
	port := int(cmd.Int("port"))
	apiServer := buildServer(cmd.String("presets"), true)

	// The MCP endpoint proxies through the public API over loopback so
	// every transport shares one source of truth.
	mcpClient := mcp.NewClient(fmt.Sprintf("http://127.0.0.1:%d", port))
	streamable := mcpserver.NewStreamableHTTPServer(mcp.NewServer(mcpClient))
	apiServer.Router().PathPrefix("/mcp").Handler(streamable)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: apiServer,
	}

	var tunnel net.Listener
	if cmd.Bool("ngrok") {
		tun, err := ngrok.Listen(ctx,
			ngrokconfig.HTTPEndpoint(),
			ngrok.WithAuthtokenFromEnv(),
		)
		if err != nil {
			return fmt.Errorf("failed to start ngrok tunnel: %w", err)
		}
		log.Printf("[INIT] ngrok tunnel at %s", tun.URL())
		tunnel = tun
	}

	log.Printf("[INIT] listening on :%d", port)
	errCh := serveListeners(srv, tunnel)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case sig := <-sigCh:
		log.Printf("[SHUTDOWN] received %s", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	log.Println("[SHUTDOWN] done")
	return nil
}

// serveListeners starts the server on its configured port and, when a
// tunnel listener is given, on the tunnel as well. The local port is always
// bound: the /mcp endpoint proxies tool calls through it, so it must have a
// listener even when traffic arrives over the tunnel.
func serveListeners(srv *http.Server, tunnel net.Listener) <-chan error {
	errCh := make(chan error, 2)
	go func() { errCh <- srv.ListenAndServe() }()
	if tunnel != nil {
		go func() { errCh <- srv.Serve(tunnel) }()
	}
	return errCh
}

// runMCPStdio serves MCP over stdin/stdout. Tool calls go through a real
// HTTP server bound to an ephemeral loopback port.
func runMCPStdio(ctx context.Context, cmd *cli.Command) error {
	apiServer := buildServer(cmd.String("presets"), false)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to bind loopback listener: %w", err)
	}

	srv := &http.Server{Handler: apiServer}
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("[MCP] internal server error: %v", err)
		}
	}()
	defer srv.Close()

	baseURL := "http://" + listener.Addr().String()
	log.Printf("[MCP] internal server at %s", baseURL)

	return mcp.ServeStdio(mcp.NewClient(baseURL))
}
