package cmd

import (
	"context"
	"testing"

	"github.com/gnames/wfdb/internal/iotesting"
	"github.com/gnames/wfdb/pkg/config"
	"github.com/gnames/wfdb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulateFlags(t *testing.T) {
	cmd := getPopulateCmd()
	for _, v := range []string{
		"lat-min", "lat-max", "lng-min", "lng-max", "start", "end",
		"lat-steps", "lng-steps", "parallel", "jobs", "interval-size",
		"backtrack-days", "retries", "name", "metrics-addr", "quiet",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(v), v)
	}

	ann := cmd.Flags().Lookup("start").Annotations
	assert.NotEmpty(t, ann, "start should be required")
}

func TestPopulateOptions(t *testing.T) {
	cmd := getPopulateCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--lat-min", "-7.25", "--lat-max", "-6.8",
		"--lng-min", "12.75", "--lng-max", "13.2",
		"-s", "2015-07-10", "-e", "2015-07-20",
		"--lat-steps", "2", "--lng-steps", "3",
		"-p", "-j", "5",
		"--backtrack-days", "7",
		"-n", "congo",
	}))

	c := config.New()
	c.Update(populateOptions(cmd))

	pc := c.Populate
	assert.Equal(t, -7.25, pc.LatMin)
	assert.Equal(t, -6.8, pc.LatMax)
	assert.Equal(t, 12.75, pc.LngMin)
	assert.Equal(t, 13.2, pc.LngMax)
	assert.Equal(t, "2015-07-10", pc.StartDate)
	assert.Equal(t, "2015-07-20", pc.EndDate)
	assert.Equal(t, 2, pc.LatSteps)
	assert.Equal(t, 3, pc.LngSteps)
	assert.True(t, pc.Parallel)
	assert.Equal(t, 5, c.JobsNumber)
	assert.Equal(t, 7, pc.BacktrackDays)
	assert.Equal(t, "congo", pc.DatasetName)
	// not given, defaults stay
	assert.Equal(t, 0, pc.IntervalSize)
	assert.Equal(t, 1, pc.CheckpointRetries)
	assert.Equal(t, 5, c.Workers())
}

func TestPopulateOptions_InvertedBox(t *testing.T) {
	cmd := getPopulateCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--lat-min", "10", "--lat-max", "5",
		"--lng-min", "20", "--lng-max", "21",
		"-s", "2015-07-10", "-e", "2015-07-20",
	}))

	c := config.New()
	c.Update(populateOptions(cmd))
	assert.Equal(t, 10.0, c.Populate.LatMin)
	assert.Equal(t, 5.0, c.Populate.LatMax)
}

func TestRunPopulate_EmptyDatabase(t *testing.T) {
	cfg = iotesting.SQLiteConfig(t)

	cmd := getPopulateCmd()
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.ParseFlags([]string{
		"--lat-min", "-7.25", "--lat-max", "-6.8",
		"--lng-min", "12.75", "--lng-max", "13.2",
		"-s", "2015-07-10", "-e", "2015-07-20", "-q",
	}))

	err := runPopulate(cmd)
	require.Error(t, err)
	assert.True(t, errcode.Is(err, errcode.DBEmptyDatabaseError))
}
