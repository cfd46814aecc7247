// Command pricefactor filters, expands and encodes hotel booking tables and fits the price
// factor of ADR, writing the model weights and the engineered feature tables.
//
//	pricefactor -input Resort=H1.csv -input City=H2.xlsx -out artifacts
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aouyang1/go-pricefactor"
	"github.com/aouyang1/go-pricefactor/booking"
	"github.com/pkg/profile"
)

var ErrInvalidInput = errors.New("input must be formatted as label=path")

type input struct {
	origin string
	path   string
}

// inputs collects repeated -input flags
type inputs []input

func (in *inputs) String() string {
	parts := make([]string, 0, len(*in))
	for _, i := range *in {
		parts = append(parts, i.origin+"="+i.path)
	}
	return strings.Join(parts, ",")
}

func (in *inputs) Set(v string) error {
	origin, path, found := strings.Cut(v, "=")
	origin = strings.TrimSpace(origin)
	path = strings.TrimSpace(path)
	if !found || origin == "" || path == "" {
		return fmt.Errorf("%q, %w", v, ErrInvalidInput)
	}
	*in = append(*in, input{origin: origin, path: path})
	return nil
}

func parseLevel(v string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("unknown log level %q, %w", v, err)
	}
	return lvl, nil
}

func main() {
	var srcs inputs
	configPath := flag.String("config", "", "yaml options file, defaults are used when empty")
	flag.Var(&srcs, "input", "booking table as label=path, csv or xlsx, repeatable")
	out := flag.String("out", "artifacts", "artifact output directory")
	logLevel := flag.String("log-level", "info", "debug | info | warn | error")
	cpuProfile := flag.Bool("cpuprofile", false, "write a cpu profile into the output directory")
	flag.Parse()

	if err := run(srcs, *configPath, *out, *logLevel, *cpuProfile); err != nil {
		slog.Error("price factor run failed", "error", err)
		os.Exit(1)
	}
}

func run(srcs inputs, configPath, out, logLevel string, cpuProfile bool) error {
	lvl, err := parseLevel(logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))

	if len(srcs) == 0 {
		return fmt.Errorf("no -input provided, %w", pricefactor.ErrNoSources)
	}

	opt := pricefactor.NewDefaultOptions()
	if configPath != "" {
		opt, err = pricefactor.LoadOptions(configPath)
		if err != nil {
			return err
		}
	}

	if cpuProfile {
		if err := os.MkdirAll(out, 0o755); err != nil {
			return err
		}
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(out), profile.Quiet).Stop()
	}

	sources := make([]pricefactor.Source, 0, len(srcs))
	for _, in := range srcs {
		raw, err := booking.ReadFile(in.path, in.path)
		if err != nil {
			return fmt.Errorf("unable to load %s, %w", in.origin, err)
		}
		slog.Info("loaded booking table", "origin", in.origin, "path", in.path, "rows", raw.Len())
		sources = append(sources, pricefactor.Source{Origin: in.origin, Raw: raw})
	}

	p, err := pricefactor.New(opt)
	if err != nil {
		return err
	}
	res, err := p.Run(sources...)
	if err != nil {
		return err
	}
	for _, g := range res.Groups {
		if err := g.Model.TablePrint(os.Stdout, "", "  "); err != nil {
			return err
		}
	}
	if err := res.WriteArtifacts(out); err != nil {
		return err
	}
	slog.Info("wrote artifacts", "run_id", res.RunID, "dir", out, "stay_days", res.StayDays)
	return nil
}
