package pricefactor

import (
	"os"
	"testing"

	"github.com/aouyang1/go-pricefactor/models"
	"github.com/goccy/go-json"
	"github.com/pkg/profile"
	"gonum.org/v1/gonum/mat"
)

var benchFactorRes []float64

func BenchmarkRun(b *testing.B) {
	sources := []Source{
		{Origin: "Resort", Raw: simulated(b, "resort.csv", 5000, 1)},
		{Origin: "City", Raw: simulated(b, "city.csv", 5000, 2)},
	}
	p, err := New(nil)
	if err != nil {
		panic(err)
	}

	var res *Results
	b.ResetTimer()
	for b.Loop() {
		res, err = p.Run(sources...)
		if err != nil {
			panic(err)
		}
	}

	bytes, err := json.MarshalIndent(res.Groups[0].Model, "", "  ")
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile("benchmark_model.json", bytes, 0o644); err != nil {
		panic(err)
	}
}

func BenchmarkFactorFromModel(b *testing.B) {
	bytes, err := os.ReadFile("benchmark_model.json")
	if err != nil {
		b.Skip("no benchmark model, run BenchmarkRun first")
	}
	var m models.Model
	if err := json.Unmarshal(bytes, &m); err != nil {
		panic(err)
	}
	reg, err := models.NewPriceFactorFromModel(m)
	if err != nil {
		panic(err)
	}

	n := 100000
	obs := make([]float64, n*len(m.Weights.Coef))
	for i := range obs {
		obs[i] = float64(i % 3)
	}
	x := mat.NewDense(n, len(m.Weights.Coef), obs)

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	for b.Loop() {
		benchFactorRes, err = reg.Factor(x)
		if err != nil {
			panic(err)
		}
	}
}
