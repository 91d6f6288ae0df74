/*
Headless demo of the render graph: it renders the testbed scene through the
configured pipeline until it is interrupted or reaches max_frames.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/framegraph/engine"
	"github.com/spaghettifunk/framegraph/engine/core"
	"github.com/spaghettifunk/framegraph/testbed"
)

func main() {
	configFile := flag.String("config", "", "application config file (TOML)")
	envFile := flag.String("env", ".env", "dotenv file with FRAMEGRAPH_* overrides")
	flag.Parse()

	config, err := engine.LoadApplicationConfig(*configFile, *envFile)
	if err != nil {
		core.LogFatal("loading config: %v", err)
	}

	tb := testbed.NewTestGame(config)
	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogFatal("creating engine: %v", err)
	}
	if err := e.Initialize(); err != nil {
		core.LogFatal("initializing engine: %v", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	go func() {
		<-sigCh
		e.Quit()
	}()

	if err := e.Run(); err != nil {
		core.LogError("engine stopped: %v", err)
	}
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown: %v", err)
		os.Exit(1)
	}
}
