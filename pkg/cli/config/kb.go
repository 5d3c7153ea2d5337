package config

import (
	"github.com/urfave/cli/v3"
)

// KB holds CLI flags for knowledge base source data
type KB struct {
	dataDir string
}

// Flags returns CLI flags for knowledge base configuration
func (k *KB) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "Directory holding the source data files",
			Value:       "./data",
			Sources:     cli.EnvVars("SIMKB_DATA_DIR"),
			Destination: &k.dataDir,
		},
	}
}

// DataDir returns the configured source data directory
func (k *KB) DataDir() string {
	return k.dataDir
}
