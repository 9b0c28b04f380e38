package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"

	board "github.com/anchor-btc/anchor-os-sub000/internal/canvas"
	"github.com/anchor-btc/anchor-os-sub000/internal/config"
	"github.com/anchor-btc/anchor-os-sub000/internal/export"
	"github.com/anchor-btc/anchor-os-sub000/internal/net"
	"github.com/anchor-btc/anchor-os-sub000/internal/state"
	"github.com/anchor-btc/anchor-os-sub000/internal/ui"
)

const discoverTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a yaml config file")
	join := flag.String("join", "", `host address to join ("ip:port", or "auto" to discover one); empty hosts a new board`)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[MAIN] %v", err)
	}

	store := state.NewPixelStore(cfg.BoardWidth, cfg.BoardHeight)
	view := board.NewViewport(cfg.MinZoom, cfg.MaxZoom)
	eng := board.NewEngine(store, view, board.AllCapabilities(), cfg.BackgroundRGB())
	eng.SetBrushRadius(cfg.BrushRadius)
	eng.SetFillLimit(cfg.FillLimit)

	hostAddr, title, cleanup, err := startNetworking(cfg, *join)
	if err != nil {
		log.Fatalf("[MAIN] %v", err)
	}
	defer cleanup()

	widget := ui.NewBoardWidget(eng)
	app := ui.NewApp(title, widget)
	app.ExportPDF = func(w fyne.URIWriteCloser) error {
		defer w.Close()
		return export.WritePDF(w, store.MergedPixels(), cfg.BoardWidth, cfg.BoardHeight)
	}

	client := net.NewClient(hostAddr, cfg.PollInterval())
	client.OnSnapshot = func(pixels map[string]state.Pixel) {
		store.ApplySnapshot(pixels)
		app.RefreshBoard()
		app.SetStatusAsync(ui.SelectionSummary(eng))
	}
	client.OnError = func(err error) {
		app.SetStatusAsync(fmt.Sprintf("Connection problem: %v", err))
	}
	client.OnStatus = app.SetStatusAsync

	eng.OnCommit = func(batch state.CommitBatch) {
		go client.Submit(batch)
	}
	eng.OnStatus = func(msg string) {
		app.SetStatusAsync(msg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Run(ctx)

	app.Run()
}

// startNetworking either hosts a board on this machine or resolves the address
// of an existing one. It returns the address the client should poll, the
// window title, and a shutdown func.
func startNetworking(cfg config.Config, join string) (addr, title string, cleanup func(), err error) {
	cleanup = func() {}

	switch join {
	case "":
		host := net.NewBoardHost(cfg.BoardWidth, cfg.BoardHeight)
		go func() {
			if err := host.ListenAndServe(cfg.Port); err != nil {
				log.Printf("[MAIN] Board server stopped: %v", err)
			}
		}()

		mdnsServer, err := net.Advertise(cfg.Port)
		if err != nil {
			log.Printf("[MAIN] Discovery unavailable: %v", err)
		} else {
			cleanup = func() { mdnsServer.Shutdown() }
		}

		ip, err := net.OutgoingIP()
		if err != nil {
			log.Printf("[MAIN] Could not determine local address: %v", err)
			ip = "127.0.0.1"
		}
		shareAddr := fmt.Sprintf("%s:%d", ip, cfg.Port)
		log.Printf("[MAIN] Hosting board at %s", shareAddr)
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port), fmt.Sprintf("Pixel Board (hosting %s)", shareAddr), cleanup, nil

	case "auto":
		found, err := net.FindHost(discoverTimeout)
		if err != nil {
			return "", "", cleanup, fmt.Errorf("discover host: %w", err)
		}
		log.Printf("[MAIN] Discovered board host at %s", found)
		return found, fmt.Sprintf("Pixel Board (%s)", found), cleanup, nil

	default:
		return join, fmt.Sprintf("Pixel Board (%s)", join), cleanup, nil
	}
}
