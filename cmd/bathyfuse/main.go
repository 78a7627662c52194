package main

import (
	"fmt"
	"os"

	"github.com/gruppe-adler/bathyfuse/internal/boundary"
	"github.com/gruppe-adler/bathyfuse/internal/fuse"
	"github.com/gruppe-adler/bathyfuse/internal/preview"
	"github.com/gruppe-adler/bathyfuse/internal/terrainrgb"
	"github.com/spf13/pflag"
)

type command struct {
	name        string
	description string
	run         func(*pflag.FlagSet)
}

var subCommands []command

func init() {
	subCommands = []command{
		{"fuse", "Fuse update grids into a base grid.", fuse.Run},
		{"close-boundary", "Clamp the edges of a grid so its contour is closed.", boundary.Run},
		{"preview", "Build colored preview images of a grid.", preview.Run},
		{"terrainrgb", "Build Terrain-RGB tiles from a grid.", terrainrgb.Run},
		{"help", "Print this message.", func(s *pflag.FlagSet) { printUsage() }},
	}
}

func printUsage() {
	fmt.Printf("USAGE:\n    %s [SUBCOMMAND] [SUBCOMMAND FLAGS]\n\n", os.Args[0])
	fmt.Print("SUBCOMMANDS: \n")

	for _, c := range subCommands {
		fmt.Printf("%16s    %s\n", c.name, c.description)
	}

	fmt.Printf("\nUse -h as SUBCOMMAND FLAG to print help for each subcommand.\n\n")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("\nERROR: No subcommand was provided.\n\n")
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	for _, c := range subCommands {
		if c.name == cmd {
			set := pflag.NewFlagSet(cmd, pflag.ExitOnError)
			c.run(set)
			return
		}
	}

	fmt.Printf("\nERROR: Subcommand '%s' was not found.\n\n", cmd)
	printUsage()
	os.Exit(1)
}
