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
	"github.com/gnames/wfdb/pkg/config"
	"github.com/spf13/cobra"
)

// flagFunc converts an explicitly set flag into a config option.
type flagFunc func(cmd *cobra.Command) (config.Option, bool)

var populateFlags = []flagFunc{
	bboxFlag,
	datesFlag,
	stepsFlag,
	intFlag("interval-size", config.OptPopulateIntervalSize),
	intFlag("backtrack-days", config.OptPopulateBacktrackDays),
	intFlag("retries", config.OptPopulateCheckpointRetries),
	intFlag("jobs", config.OptJobsNumber),
	parallelFlag,
	nameFlag,
}

func addPopulateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("lat-min", 0, "southern edge of the bounding box")
	f.Float64("lat-max", 0, "northern edge of the bounding box")
	f.Float64("lng-min", 0, "western edge of the bounding box")
	f.Float64("lng-max", 0, "eastern edge of the bounding box")
	f.StringP("start", "s", "", "first day, YYYY-MM-DD")
	f.StringP("end", "e", "", "last day, YYYY-MM-DD")
	f.Int("lat-steps", 1, "checkpoints along latitude")
	f.Int("lng-steps", 1, "checkpoints along longitude")
	f.BoolP("parallel", "p", false, "load checkpoints in parallel")
	f.IntP("jobs", "j", 0, "number of parallel workers")
	f.Int("interval-size", 0, "days in an independent fire index interval, 0 is one interval")
	f.Int("backtrack-days", 0, "warm-up days of fire indices before start")
	f.Int("retries", 1, "extra attempts of a failed checkpoint")
	f.StringP("name", "n", "", "name of the dataset")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	f.BoolP("quiet", "q", false, "do not show the progress bar")

	for _, v := range []string{"lat-min", "lat-max", "lng-min", "lng-max", "start", "end"} {
		cmd.MarkFlagRequired(v)
	}
}

func populateOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	for _, fn := range populateFlags {
		if opt, ok := fn(cmd); ok {
			res = append(res, opt)
		}
	}
	return res
}

func bboxFlag(cmd *cobra.Command) (config.Option, bool) {
	f := cmd.Flags()
	latMin, _ := f.GetFloat64("lat-min")
	latMax, _ := f.GetFloat64("lat-max")
	lngMin, _ := f.GetFloat64("lng-min")
	lngMax, _ := f.GetFloat64("lng-max")
	return config.OptPopulateBoundingBox(latMin, latMax, lngMin, lngMax), true
}

func datesFlag(cmd *cobra.Command) (config.Option, bool) {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	return config.OptPopulateDates(start, end), true
}

func stepsFlag(cmd *cobra.Command) (config.Option, bool) {
	f := cmd.Flags()
	if !f.Changed("lat-steps") && !f.Changed("lng-steps") {
		return nil, false
	}
	lat, _ := f.GetInt("lat-steps")
	lng, _ := f.GetInt("lng-steps")
	return config.OptPopulateSteps(lat, lng), true
}

func parallelFlag(cmd *cobra.Command) (config.Option, bool) {
	b, _ := cmd.Flags().GetBool("parallel")
	return config.OptPopulateParallel(b), true
}

func nameFlag(cmd *cobra.Command) (config.Option, bool) {
	if !cmd.Flags().Changed("name") {
		return nil, false
	}
	s, _ := cmd.Flags().GetString("name")
	return config.OptPopulateDatasetName(s), true
}

func intFlag(name string, fn func(int) config.Option) flagFunc {
	return func(cmd *cobra.Command) (config.Option, bool) {
		if !cmd.Flags().Changed(name) {
			return nil, false
		}
		i, _ := cmd.Flags().GetInt(name)
		return fn(i), true
	}
}
