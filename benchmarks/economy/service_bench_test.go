package economy_bench

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/osse101/CaseBot_Go/internal/catalog"
	"github.com/osse101/CaseBot_Go/internal/database/memory"
	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/economy"
	"github.com/osse101/CaseBot_Go/internal/lootbox"
)

// setup seeds an in-memory store with one case and one item per tier.
// The publisher is nil so only the transaction path is measured.
func setup(b *testing.B) (economy.Service, *memory.Store, int64) {
	b.Helper()
	ctx := context.Background()
	store := memory.New()

	tiers := []domain.Rarity{domain.RarityCommon, domain.RarityUncommon, domain.RarityRare}
	for _, tier := range tiers {
		item := domain.Item{Name: "bench " + string(tier), Rarity: tier, Price: 10, SellPrice: 5}
		if err := store.UpsertItem(ctx, &item); err != nil {
			b.Fatal(err)
		}
	}
	c := domain.Case{
		Name:    "Bench Case",
		Price:   1,
		Active:  true,
		Weights: domain.RarityWeights{domain.RarityCommon: 70, domain.RarityUncommon: 25, domain.RarityRare: 5},
	}
	if err := store.UpsertCase(ctx, &c); err != nil {
		b.Fatal(err)
	}

	cache := catalog.NewCache(store, catalog.DefaultCacheSize, time.Minute)
	svc := economy.NewService(store, cache, lootbox.NewPicker(cache), nil)
	return svc, store, c.ID
}

func BenchmarkOpenCase(b *testing.B) {
	svc, store, caseID := setup(b)
	ctx := context.Background()
	if _, _, err := store.UpsertAccount(ctx, 1, "bench", math.MaxInt32); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := svc.OpenCase(ctx, 1, caseID); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkOpenCase_Parallel spreads openings over distinct accounts so the
// measurement covers lock striping rather than a single hot account.
func BenchmarkOpenCase_Parallel(b *testing.B) {
	svc, store, caseID := setup(b)
	ctx := context.Background()
	const accounts = 64
	for id := int64(1); id <= accounts; id++ {
		if _, _, err := store.UpsertAccount(ctx, id, "bench", math.MaxInt32); err != nil {
			b.Fatal(err)
		}
	}

	var next atomic.Int64
	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		userID := next.Add(1)%accounts + 1
		for pb.Next() {
			if _, err := svc.OpenCase(ctx, userID, caseID); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

func BenchmarkOpenThenSell(b *testing.B) {
	svc, store, caseID := setup(b)
	ctx := context.Background()
	if _, _, err := store.UpsertAccount(ctx, 1, "bench", math.MaxInt32); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		opened, err := svc.OpenCase(ctx, 1, caseID)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := svc.SellItem(ctx, 1, opened.Item.ID); err != nil {
			b.Fatal(err)
		}
	}
}
