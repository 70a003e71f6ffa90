/*
Copyright © 2025 ChainLaunch <dviejo@chainlaunch.dev>
*/
package main

import (
	"os"

	"github.com/chainlaunch/rolluplaunch/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
