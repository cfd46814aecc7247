package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/aouyang1/go-pricefactor/booking"
	"github.com/aouyang1/go-pricefactor/simulate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputs(t *testing.T) {
	testData := map[string]struct {
		values   []string
		expected inputs
		err      error
	}{
		"single": {
			values:   []string{"Resort=H1.csv"},
			expected: inputs{{origin: "Resort", path: "H1.csv"}},
		},
		"repeated": {
			values:   []string{"Resort=H1.csv", " City = data/H2.xlsx"},
			expected: inputs{{origin: "Resort", path: "H1.csv"}, {origin: "City", path: "data/H2.xlsx"}},
		},
		"no label": {
			values: []string{"H1.csv"},
			err:    ErrInvalidInput,
		},
		"empty path": {
			values: []string{"Resort="},
			err:    ErrInvalidInput,
		},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			var in inputs
			var err error
			for _, v := range td.values {
				if err = in.Set(v); err != nil {
					break
				}
			}
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, in)
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := parseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, "WARN", lvl.String())

	_, err = parseLevel("loud")
	assert.Error(t, err)
}

func writeCSV(t *testing.T, path string, raw *booking.RawTable) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	w := csv.NewWriter(f)
	require.NoError(t, w.Write(raw.Header))
	require.NoError(t, w.WriteAll(raw.Rows))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	raw, err := simulate.Bookings(200, nil)
	require.NoError(t, err)
	path := filepath.Join(dir, "H1.csv")
	writeCSV(t, path, raw)

	cfg := filepath.Join(dir, "options.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("holdout_fraction: 0.2\n"), 0o644))

	out := filepath.Join(dir, "out")
	srcs := inputs{{origin: "Resort", path: path}}
	require.NoError(t, run(srcs, cfg, out, "error", false))

	for _, file := range []string{"model_combined.json", "weights_combined.json", "features.csv", "holdout.csv", "summary.json"} {
		_, err := os.Stat(filepath.Join(out, file))
		assert.NoError(t, err, file)
	}

	assert.Error(t, run(nil, "", out, "info", false))
	assert.Error(t, run(srcs, "", out, "loud", false))
	assert.Error(t, run(inputs{{origin: "Resort", path: filepath.Join(dir, "H1.parquet")}}, "", out, "error", false))
}
