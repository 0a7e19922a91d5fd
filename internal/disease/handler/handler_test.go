package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epiwatch/internal/disease/handler"
	"epiwatch/internal/disease/models"
	"epiwatch/internal/disease/service"
	"epiwatch/internal/disease/store"
	popservice "epiwatch/internal/population/service"
	popstore "epiwatch/internal/population/store"
	regionmodels "epiwatch/internal/region/models"
	regionstore "epiwatch/internal/region/store"
	"epiwatch/pkg/date"
)

type regionGetter struct {
	store *regionstore.MemoryStore
}

func (g regionGetter) Get(ctx context.Context, id regionmodels.ID) (*regionmodels.Region, error) {
	return g.store.Get(ctx, id.String())
}

func newRouter(t *testing.T) (chi.Router, *store.MemoryStore) {
	t.Helper()
	diseases := store.NewMemory()
	regions := regionstore.NewMemory()
	svc := service.New(diseases, popservice.New(popstore.NewMemory()), regionGetter{store: regions}, nil)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	handler.New(svc, log).Register(r)
	return r, diseases
}

func TestDiseaseRoutes(t *testing.T) {
	r, diseases := newRouter(t)
	diseases.AddDisease(models.Detail{
		Disease: models.Disease{ID: "COVID-19", Name: "COVID-19", LongName: "Coronavirus disease 2019", Popularity: 1},
	})
	cases := int64(9)
	diseases.AddObservation("COVID-19", "AU", models.Observation{Date: date.MustParse("2020-03-01"), Cases: &cases})

	t.Run("catalogue", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/disease", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"COVID-19"`)
	})

	t.Run("summary path normalizes the id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/disease/covid-19", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"region":"AU"`)
	})

	t.Run("absent counts serialize as explicit nulls", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/disease/COVID-19", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"deaths":null`)
		assert.Contains(t, rec.Body.String(), `"recoveries":null`)
	})

	t.Run("unknown disease is a 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/disease/EBOLA", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"not_found"}`, rec.Body.String())
	})

	t.Run("series for a region", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/disease/COVID-19/in/au", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"date":"2020-03-01"`)
		assert.Contains(t, rec.Body.String(), `"region":"AU"`)
	})

	t.Run("news without a provider is 503", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/disease/COVID-19/in/AU/news", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"error":"unavailable"}`, rec.Body.String())
	})
}
