package boundary

import (
	"errors"
	"fmt"
	"os"

	"github.com/gruppe-adler/bathyfuse/internal/config"
	"github.com/gruppe-adler/bathyfuse/internal/notify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// Run is the program's entrypoint
func Run(flagSet *pflag.FlagSet) {
	config.BoundaryFlags(flagSet)

	cfg, err := config.LoadBoundary(flagSet, os.Args[2:])
	if errors.Is(err, config.ErrMissingArgument) {
		fmt.Printf("\nERROR: %s\n\n", err)
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	log := logrus.New()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	n := notify.New(os.Stdout)
	if err := Process(cfg, log, n); err != nil {
		n.Errorf("%s", err)
		os.Exit(1)
	}
	n.Finished()
}
