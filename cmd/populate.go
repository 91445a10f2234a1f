/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/gnames/wfdb/internal/iodb"
	"github.com/gnames/wfdb/internal/iofusion"
	"github.com/gnames/wfdb/internal/iohdf"
	"github.com/gnames/wfdb/internal/iohttp"
	"github.com/gnames/wfdb/internal/iometeo"
	"github.com/gnames/wfdb/internal/iometrics"
	"github.com/gnames/wfdb/internal/iopopulate"
	"github.com/gnames/wfdb/internal/ioraster"
	"github.com/gnames/wfdb/pkg/errcode"
	"github.com/gnames/wfdb/pkg/wfdb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// getPopulateCmd returns the populate command.
func getPopulateCmd() *cobra.Command {
	populateCmd := &cobra.Command{
		Use:   "populate",
		Short: "Load a region and a period into a new dataset",
		Long: `Create a dataset for a bounding box and a date range.

This command:
  1. Checks that the box is on the globe and the dates are covered
     by GFED archives
  2. Splits the box into lat-steps x lng-steps checkpoints
  3. For every checkpoint downloads daily weather from NASA POWER,
     computes fire weather indices, reads burned area and emissions
     from GFED rasters and inserts the joined rows
  4. Completes the dataset with the number of inserted rows

Rasters are cached in ~/.cache/wfdb/rasters. A failed checkpoint is
retried and then reported, other checkpoints are not affected.

Examples:
  wfdb populate --lat-min -7.25 --lat-max -6.8 \
    --lng-min 12.75 --lng-max 13.2 -s 2015-07-10 -e 2015-07-20

  # 16 checkpoints on 8 workers, with a week of warm-up
  wfdb populate --lat-min 30 --lat-max 42 --lng-min -125 --lng-max -114 \
    -s 2016-06-01 -e 2016-08-31 --lat-steps 4 --lng-steps 4 \
    -p -j 8 --backtrack-days 7 -n california-2016`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPopulate(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addPopulateFlags(populateCmd)
	return populateCmd
}

func runPopulate(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	cfg.Update(populateOptions(cmd))

	op := iodb.New(cfg)
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()
	connected(cfg)

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return err
	}
	if !hasTables {
		return &gn.Error{
			Code: errcode.DBEmptyDatabaseError,
			Msg: `<err>Database appears to be empty.</err>
   Run <em>'wfdb create'</em> first to initialize the schema.`,
			Err: errors.New("cannot insert data into empty database"),
		}
	}

	m := iometrics.New(prometheus.NewRegistry())
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		go func() {
			if err := m.Serve(ctx, addr); err != nil {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	meteoClient := iohttp.New("meteo", cfg.Remote.Timeout, cfg.Remote, nil)
	archiveClient := iohttp.New("archive", cfg.Remote.ArchiveTimeout, cfg.Remote, nil)

	daily := ioraster.NewDaily(cfg, nil, m)
	defer daily.Close()

	fuser := iofusion.New(
		ioraster.NewArchive(cfg, archiveClient, m),
		daily,
		iohdf.New(),
	)
	quiet, _ := cmd.Flags().GetBool("quiet")
	p := iopopulate.New(
		cfg, op, iometeo.New(cfg, meteoClient, m), fuser,
		iopopulate.OptMetrics(m),
		iopopulate.OptProgress(!quiet),
	)

	report, err := p.Populate(ctx)
	if report != nil {
		printReport(report)
	}
	return err
}

func printReport(r *wfdb.Report) {
	fmt.Printf("\ndataset_id: %s\nrows: %d\ncheckpoints: %d\n",
		r.DatasetID, r.Rows, r.Checkpoints)
	if len(r.Failed) > 0 {
		fmt.Printf("failed: %v\n", r.Failed)
	}
}
