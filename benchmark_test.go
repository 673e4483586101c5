package fractal

import (
	"context"
	"testing"
)

func benchmarkStrategy(b *testing.B, kind StrategyKind, opts ...Option) {
	s := NewStrategy(kind, opts...)
	defer s.Close()

	f := NewMandelbrot()
	v := DefaultViewport(f, 320, 240, 256)
	b.ReportAllocs()
	for b.Loop() {
		if _, err := s.Compute(context.Background(), v, f); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSequential(b *testing.B) { benchmarkStrategy(b, StrategySequential) }
func BenchmarkBandPool(b *testing.B)   { benchmarkStrategy(b, StrategyBandPool) }
func BenchmarkForkJoin(b *testing.B)   { benchmarkStrategy(b, StrategyForkJoin) }

func BenchmarkForkJoin_FineSplit(b *testing.B) {
	benchmarkStrategy(b, StrategyForkJoin, WithSplitThreshold(8))
}

func BenchmarkIterate(b *testing.B) {
	for _, fam := range Families() {
		f := New(fam)
		b.Run(fam.String(), func(b *testing.B) {
			for b.Loop() {
				f.Iterate(C(-0.7436, 0.1318), 1000)
			}
		})
	}
}

func BenchmarkColorize(b *testing.B) {
	f := NewJulia(JuliaDragon)
	g, err := NewSequential().Compute(context.Background(), DefaultViewport(f, 320, 240, 1000), f)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		Colorize(g, Smooth)
	}
}
