// Command duende-export copies the static files of duende applications to a
// directory or an S3 bucket, so they can be served by a separate web server.
//
// Usage:
//
//	duende-export blog site --dir /var/www/static
//	duende-export blog --bucket assets --yes
//
// Settings are read from the environment and an optional .env file.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/duende/pkg/logger"
	"github.com/dmitrymomot/duende/pkg/storage"
)

type config struct {
	Log          logger.Config
	S3           storage.Config
	ResourcesDir string `env:"DUENDE_RESOURCES_DIR" envDefault:"resources"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "duende-export APP...",
		Short: "Extract static resources from duende apps",
		Long: `Copies <resources>/<app>/static of every APP into <dir>/<app>,
or uploads it under the <app>/ prefix of an S3 bucket.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			// A missing .env file is fine.
			_ = godotenv.Load()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.ParseAs[config]()
			if err != nil {
				return fmt.Errorf("parse env: %w", err)
			}
			if opts.resources == "" {
				opts.resources = cfg.ResourcesDir
			}

			e := &exporter{
				opts: opts,
				in:   bufio.NewReader(cmd.InOrStdin()),
				out:  cmd.OutOrStdout(),
				log:  logger.New(cfg.Log),
			}
			if opts.bucket != "" {
				s3cfg := cfg.S3
				s3cfg.Bucket = opts.bucket
				bucket, err := storage.New(s3cfg)
				if err != nil {
					return err
				}
				e.bucket = bucket
			}
			return e.run(cmd.Context(), args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.dir, "dir", "d", "", "directory where to copy files")
	f.StringVar(&opts.bucket, "bucket", "", "S3 bucket to upload files to instead of a directory")
	f.StringVarP(&opts.resources, "resources", "r", "", "resources directory (default $DUENDE_RESOURCES_DIR or ./resources)")
	f.BoolVarP(&opts.yes, "yes", "y", false, "replace existing destination directories without asking")
	cmd.MarkFlagsOneRequired("dir", "bucket")
	cmd.MarkFlagsMutuallyExclusive("dir", "bucket")

	return cmd
}
