package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/vogel"
	"github.com/fwojciec/vogel/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkWriteSpecies measures storing a full parse run of records.
func BenchmarkWriteSpecies(b *testing.B) {
	const speciesPerRun = 300

	b.Run("insert", func(b *testing.B) {
		benchmarkWriteSpecies(b, speciesPerRun, false)
	})

	b.Run("unchanged_rerun", func(b *testing.B) {
		benchmarkWriteSpecies(b, speciesPerRun, true)
	})
}

func benchmarkWriteSpecies(b *testing.B, n int, rerun bool) {
	b.Helper()

	records := make([]*vogel.Species, n)
	for i := range records {
		s := vogel.DegradedSpecies()
		s.GermanName = fmt.Sprintf("Vogel %d", i)
		s.LatinName = fmt.Sprintf("Avis %d", i)
		s.Description = fmt.Sprintf("Beschreibung von Vogel %d. Lorem ipsum dolor sit amet, consectetur adipiscing elit.", i)
		records[i] = s
	}

	for i := 0; i < b.N; i++ {
		b.StopTimer()

		db := sqlite.NewDB(filepath.Join(b.TempDir(), fmt.Sprintf("bench%d.db", i)))
		require.NoError(b, db.Open())
		svc := sqlite.NewSpeciesService(db)
		ctx := context.Background()

		if rerun {
			for _, s := range records {
				require.NoError(b, svc.WriteSpecies(ctx, s.GermanName, s))
			}
		}

		b.StartTimer()

		for _, s := range records {
			if err := svc.WriteSpecies(ctx, s.GermanName, s); err != nil {
				b.Fatal(err)
			}
		}

		b.StopTimer()
		db.Close()
	}
}
