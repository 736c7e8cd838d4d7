package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"golang.zx2c4.com/wireguard/wgctrl"

	"wgpeer/internal/config"
	"wgpeer/internal/logging"
	"wgpeer/internal/rootshell"
	"wgpeer/internal/tunnelstate"
	"wgpeer/internal/ui"
	"wgpeer/internal/wireguard"
)

type options struct {
	configPath     string
	peerPath       string
	excludePrivate bool
	dnsServers     string
	numSiblings    int
	resolve        bool
	summary        bool
	write          bool
	gui            bool
	apply          string
	saveState      bool
	restoreState   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "/etc/wgpeer/config.yaml", "path to the wgpeer configuration file")
	flag.StringVar(&opts.peerPath, "peer", "", "peer block file; relative names are looked up in config_dir")
	flag.BoolVar(&opts.excludePrivate, "exclude-private", false, "toggle between the IPv4 default route and the route excluding private ranges")
	flag.StringVar(&opts.dnsServers, "dns", "", "comma-separated interface DNS servers")
	flag.IntVar(&opts.numSiblings, "siblings", 0, "number of other peers on the same interface")
	flag.BoolVar(&opts.resolve, "resolve", false, "print the resolved endpoint")
	flag.BoolVar(&opts.summary, "summary", false, "print the minimal prefix list covering the allowed IPs")
	flag.BoolVar(&opts.write, "write", false, "write the result back to the peer file")
	flag.BoolVar(&opts.gui, "gui", false, "open the peer editor window")
	flag.StringVar(&opts.apply, "apply", "", "add or update the peer on this WireGuard interface")
	flag.BoolVar(&opts.saveState, "save-state", false, "record the running tunnels and exit")
	flag.BoolVar(&opts.restoreState, "restore-state", false, "bring up the recorded tunnels and exit")
	flag.Parse()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logging.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Error().Err(err).Msg("wgpeer failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, logger zerolog.Logger) error {
	if opts.saveState || opts.restoreState {
		shell := rootshell.New(cfg.Elevate, logger)
		if err := shell.Start(); err != nil {
			return err
		}
		var hooks tunnelstate.Hooks = tunnelstate.NewManager(shell, cfg.StateFile, logger)
		if opts.saveState {
			return hooks.SaveState(ctx)
		}
		return hooks.RestoreState(ctx)
	}

	if opts.peerPath == "" {
		return fmt.Errorf("-peer is required")
	}
	path := opts.peerPath
	if !filepath.IsAbs(path) && filepath.Dir(path) == "." {
		path = filepath.Join(cfg.ConfigDir, path)
	}

	peer, err := wireguard.ParsePeerFile(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	if opts.gui {
		ui.NewApp(logger).Run(path, peer, opts.numSiblings, opts.dnsServers)
		return nil
	}

	editor := wireguard.NewPeerEditor(peer)
	editor.SetNumSiblings(opts.numSiblings)
	editor.SetInterfaceDNSRoutes(opts.dnsServers)
	if opts.excludePrivate {
		if !editor.ToggleExcludePrivateIPs() {
			logger.Warn().
				Int("siblings", opts.numSiblings).
				Str("allowed_ips", editor.AllowedIPs()).
				Msg("exclude private IPs does not apply")
		} else if err := editor.CommitTo(peer); err != nil {
			return err
		}
	}

	fmt.Print(peer.String())

	if opts.resolve {
		rctx, cancel := context.WithTimeout(ctx, cfg.ResolveTimeout)
		resolved, err := peer.ResolvedEndpointString(rctx, nil)
		cancel()
		if err != nil {
			return err
		}
		fmt.Printf("# resolved endpoint: %s\n", resolved)
	}

	if opts.summary {
		routes, err := wireguard.SummarizeRoutes(wireguard.SplitList(peer.AllowedIPsString()))
		if err != nil {
			return err
		}
		fmt.Printf("# summary: %s\n", wireguard.JoinList(routes))
	}

	if opts.write {
		if err := wireguard.WritePeerFile(path, peer); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Info().Str("path", path).Msg("peer written")
	}

	if opts.apply != "" {
		client, err := wgctrl.New()
		if err != nil {
			return fmt.Errorf("failed to open wgctrl: %w", err)
		}
		defer client.Close()

		backend := wireguard.NewBackend(client, logger, wireguard.WithResolveTimeout(cfg.ResolveTimeout))
		if err := backend.ApplyPeer(ctx, opts.apply, peer); err != nil {
			return err
		}
	}

	return nil
}
