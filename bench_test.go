package shapematch_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	shapematch "github.com/reoring/shapematch"
	g "github.com/reoring/shapematch/dsl"
	"github.com/reoring/shapematch/source"
)

func smallAnimalJSON() []byte {
	return []byte(`{"id":"l1","weight":190,"type":"lion","kind":"hunter"}`)
}

func largeAnimalArrayJSON(n int) []byte {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		if i%2 == 0 {
			fmt.Fprintf(&sb, `{"id":"l%d","weight":%d,"type":"lion","kind":"hunter"}`, i, 150+i%50)
		} else {
			fmt.Fprintf(&sb, `{"id":"d%d","weight":%d,"antlers":%d}`, i, 80+i%30, i%12)
		}
	}
	sb.WriteByte(']')
	return []byte(sb.String())
}

func Benchmark_Decode_Scalar_Discriminated(b *testing.B) {
	ctx := context.Background()
	_, _, u := lionOrDeer()
	v, err := source.JSON(smallAnimalJSON())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := shapematch.Decode(ctx, u, v); err != nil {
			b.Fatal(err)
		}
	}
}

// Half of the elements carry no discriminator, so every odd position takes
// the structural retry.
func Benchmark_Decode_Array_WithRetry(b *testing.B) {
	ctx := context.Background()
	lion, deer, _ := lionOrDeer()
	u := g.OneOfWith(g.Opts(g.Array()), lion, deer)
	data := largeAnimalArrayJSON(1000)
	v, err := source.JSON(data)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := shapematch.Decode(ctx, u, v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_SourceJSON_Array(b *testing.B) {
	data := largeAnimalArrayJSON(1000)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := source.JSON(data); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Match_Primitives_AnyOf(b *testing.B) {
	ctx := context.Background()
	u := g.AnyOfWith(g.Opts(g.Map()), g.Leaf(g.Int()), g.Leaf(g.Float()), g.Leaf(g.String()))
	m := make(map[string]any, 256)
	for i := 0; i < 256; i++ {
		switch i % 3 {
		case 0:
			m[fmt.Sprintf("k%d", i)] = i
		case 1:
			m[fmt.Sprintf("k%d", i)] = float64(i) + 0.5
		default:
			m[fmt.Sprintf("k%d", i)] = fmt.Sprint(i)
		}
	}
	v := shapematch.MustFromAny(m)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !u.Match(ctx, v).Valid {
			b.Fatal("expected match")
		}
	}
}
