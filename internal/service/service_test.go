package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/bitterness"
	"github.com/starford/wort/internal/index"
	"github.com/starford/wort/internal/observability"
	"github.com/starford/wort/internal/refdata"
	"github.com/starford/wort/internal/sugar"
	"github.com/starford/wort/internal/testutil"
)

func newService(t *testing.T, withCatalog bool) *Service {
	t.Helper()
	_, store := testutil.TestDataDir(t)
	loader := refdata.NewLoader(store, nil)
	opts := []Option{WithMetrics(observability.NewMetricsForTesting())}
	if withCatalog {
		db := testutil.TestDB(t)
		require.NoError(t, index.Sync(db, store, slog.New(slog.DiscardHandler)))
		opts = append(opts, WithCatalog(db))
	}
	return New(loader, opts...)
}

func ptr(v float64) *float64 { return &v }

func TestAnalyze_PaleAle(t *testing.T) {
	svc := newService(t, false)

	a, err := svc.Analyze(context.Background(), []byte(testutil.PaleAle), AnalyzeOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Pale Ale", a.Name)
	assert.Equal(t, "imperial", a.Units)
	assert.Equal(t, 0.70, a.PercentBrewHouseYield)
	assert.InDelta(t, 1.0761, a.OriginalGravity, 1e-4)
	assert.InDelta(t, 1.0544, a.BoilGravity, 1e-4)
	assert.InDelta(t, 1.0190, a.FinalGravity, 1e-4)
	assert.InDelta(t, 18.46, a.DegreesPlato, 1e-2)
	assert.InDelta(t, 7.49, a.ABV, 1e-2)
	assert.InDelta(t, 5.946, a.ABW, 1e-3)

	require.Len(t, a.Hops, 2)
	assert.InDelta(t, 21.80, a.Hops[0].IBU, 1e-2)
	assert.InDelta(t, 2.90, a.Hops[1].IBU, 1e-2)
	assert.Equal(t, 7.0, a.Hops[1].PercentAlphaAcids)
	assert.Equal(t, bitterness.GlennTinseth, a.Hops[0].Utilization)
	assert.InDelta(t, 24.70, a.TotalIBU, 1e-2)
	assert.InDelta(t, 0.3244, a.BUToGU, 1e-3)

	assert.Equal(t, "morey", a.ColorModel)
	assert.InDelta(t, 8.1456, a.MCU, 1e-3)
	assert.InDelta(t, 6.29, a.SRM, 1e-2)
	assert.InDelta(t, 12.39, a.EBC, 1e-2)

	require.Len(t, a.Grains, 2)
	assert.Equal(t, "Caramel Crystal Malt 20L", a.Grains[1].Name)
	assert.Equal(t, 20.0, a.Grains[1].Color)
	assert.Equal(t, "Danstar", a.Yeast.Name)

	assert.Nil(t, a.TargetIBU)
	assert.Empty(t, a.HopSchedule)
}

func TestAnalyze_ColorModel(t *testing.T) {
	svc := newService(t, false)

	a, err := svc.Analyze(context.Background(), []byte(testutil.PaleAle), AnalyzeOptions{ColorModel: "morey_hybrid"})
	require.NoError(t, err)
	assert.Equal(t, "morey_hybrid", a.ColorModel)
	assert.InDelta(t, a.MCU, a.SRM, 1e-9, "hybrid returns MCU below 10")

	_, err = svc.Analyze(context.Background(), []byte(testutil.PaleAle), AnalyzeOptions{ColorModel: "lovibond"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Analyze(context.Background(), []byte(testutil.PaleAle), AnalyzeOptions{ColorModel: "mosher"})
	assert.NoError(t, err)

	_, err = svc.Analyze(context.Background(), []byte(testutil.PaleAle), AnalyzeOptions{ColorModel: "daniels"})
	assert.ErrorIs(t, err, apperr.ErrColor, "Daniels is undefined below MCU 11")
}

func TestAnalyze_TargetIBU(t *testing.T) {
	svc := newService(t, false)

	a, err := svc.Analyze(context.Background(), []byte(testutil.PaleAle), AnalyzeOptions{TargetIBU: ptr(40)})
	require.NoError(t, err)
	require.NotNil(t, a.TargetIBU)
	require.Len(t, a.HopSchedule, 2)
	assert.Equal(t, "Centennial", a.HopSchedule[0].Name)
	assert.InDelta(t, 1.0459, a.HopSchedule[0].Weight, 1e-3)
	assert.InDelta(t, 10.4932, a.HopSchedule[1].Weight, 1e-3)

	_, err = svc.Analyze(context.Background(), []byte(testutil.PaleAle), AnalyzeOptions{TargetIBU: ptr(0)})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestHopSchedule(t *testing.T) {
	svc := newService(t, false)

	weights, err := svc.HopSchedule(context.Background(), []byte(testutil.PaleAle), 40)
	require.NoError(t, err)
	require.Len(t, weights, 2)
	assert.InDelta(t, 1.0459, weights[0].Weight, 1e-3)
	assert.Equal(t, "imperial", weights[0].Units)

	_, err = svc.HopSchedule(context.Background(), []byte(testutil.PaleAle), -1)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestAnalyze_Errors(t *testing.T) {
	svc := newService(t, false)
	ctx := context.Background()

	_, err := svc.Analyze(ctx, nil, AnalyzeOptions{})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Analyze(ctx, []byte("name: [unclosed"), AnalyzeOptions{})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	unknown := `
name: Mystery
start_volume: 6
final_volume: 5
grains:
  - name: Unobtainium Malt
    weight: 1
hops:
  - name: Centennial
    weight: 1
    boil_time: 60
yeast:
  name: Danstar
`
	_, err = svc.Analyze(ctx, []byte(unknown), AnalyzeOptions{})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "grains[0]")
}

func TestAnalyze_NilLoaderInline(t *testing.T) {
	svc := New(nil)
	doc := `
name: Inline
start_volume: 6
final_volume: 5
grains:
  - name: Pale
    weight: 10
    data: {color: 2, ppg: 37}
hops:
  - name: Magnum
    weight: 1
    boil_time: 60
    data: {percent_alpha_acids: 12}
yeast:
  name: US-05
  data: {percent_attenuation: 0.8}
`
	a, err := svc.Analyze(context.Background(), []byte(doc), AnalyzeOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0518, a.OriginalGravity, 1e-4)
}

func TestGetIngredient(t *testing.T) {
	for _, withCatalog := range []bool{false, true} {
		svc := newService(t, withCatalog)
		ctx := context.Background()

		ing, err := svc.GetIngredient(ctx, "hops", "Cascade US")
		require.NoError(t, err)
		assert.Equal(t, "cascade_us", ing.Key)
		assert.Equal(t, "Cascade US", ing.Name)
		assert.Equal(t, "7.0%", ing.Fields["percent_alpha_acids"])

		_, err = svc.GetIngredient(ctx, "hops", "Galaxy")
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		_, err = svc.GetIngredient(ctx, "cereals", "Pale")
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = svc.GetIngredient(ctx, "hops", "  ")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}
}

func TestListIngredients(t *testing.T) {
	for _, withCatalog := range []bool{false, true} {
		svc := newService(t, withCatalog)
		ctx := context.Background()

		items, total, err := svc.ListIngredients(ctx, "grains", 1, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, items, 1)
		assert.Equal(t, "Caramel Crystal Malt 20L", items[0].Name)

		items, total, err = svc.ListIngredients(ctx, "grains", 10, 5)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Empty(t, items)
	}
}

func TestSearchIngredients(t *testing.T) {
	for _, withCatalog := range []bool{false, true} {
		svc := newService(t, withCatalog)
		ctx := context.Background()

		hits, err := svc.SearchIngredients(ctx, "ca", "", 10)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, "Caramel Crystal Malt 20L", hits[0].Name)
		assert.Equal(t, "Cascade US", hits[1].Name)

		hits, err = svc.SearchIngredients(ctx, "ca", "hops", 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "cascade_us", hits[0].Key)

		hits, err = svc.SearchIngredients(ctx, "ca", "", 1)
		require.NoError(t, err)
		assert.Len(t, hits, 1)

		_, err = svc.SearchIngredients(ctx, " ", "", 10)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}
}

func TestConvertGravity(t *testing.T) {
	cases := []struct {
		value    float64
		from, to string
		want     float64
	}{
		{1.050, "sg", "plato", 12.3876},
		{12, "plato", "sg", 1.04838},
		{50, "gu", "sg", 1.050},
		{1.050, "SG", "gu", 50},
		{1.050, "sg", "sg", 1.050},
	}
	for _, tc := range cases {
		got, err := ConvertGravity(tc.value, tc.from, tc.to)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, got, 1e-4, "%v %s -> %s", tc.value, tc.from, tc.to)
	}

	_, err := ConvertGravity(1.2, "sg", "brix")
	assert.ErrorIs(t, err, apperr.ErrSugar)

	_, err = ConvertGravity(50, "plato", "brix")
	assert.ErrorIs(t, err, apperr.ErrSugar)
	brix, err := ConvertGravity(14, "plato", "brix")
	require.NoError(t, err)
	assert.InDelta(t, sugar.PlatoToBrix(14), brix, 1e-9)

	_, err = ConvertGravity(1, "oechsle", "sg")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
