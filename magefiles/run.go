//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the headless demo with config.toml. FRAMEGRAPH_* variables override it.
func (Run) Engine() error {
	mg.Deps(Build.Binary)
	fmt.Println("Run engine...")
	if _, err := executeCmd("bin/framegraph", withArgs("-config", "config.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the demo on the built-in deferred pipeline for a fixed number of
// frames, ignoring config.toml.
func (Run) Deferred() error {
	mg.Deps(Build.Binary)
	os.Setenv("FRAMEGRAPH_PIPELINE", "deferred")
	os.Setenv("FRAMEGRAPH_MAX_FRAMES", "300")
	if _, err := executeCmd("bin/framegraph", withStream()); err != nil {
		return err
	}
	return nil
}
