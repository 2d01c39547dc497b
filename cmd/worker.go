package cmd

import (
	"lendpool/worker"
	"lendpool/worker/rates"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run lendpool background workers",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		propertyStore := providePropertyStore(database)
		poolStore := providePoolStore(database)
		eventStore := provideEventStore(database)

		workers := []worker.Worker{
			rates.New(cfg.App.Location, database, poolStore, eventStore, propertyStore),
		}

		g, ctx := errgroup.WithContext(ctx)
		for _, w := range workers {
			w := w
			g.Go(func() error {
				return w.Run(ctx)
			})
		}

		if err := g.Wait(); err != nil {
			log.WithError(err).Infoln("workers stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
