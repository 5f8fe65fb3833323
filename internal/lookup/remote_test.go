package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charityportal/pkg/types"
)

func serve(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestRemoteSourceEnvelopes(t *testing.T) {
	want := []types.Option{
		{ID: 1, Label: "Mosque"},
		{ID: 2, Label: "Mall", SecondaryLabel: "Shopping centers"},
	}

	tests := []struct {
		name string
		body string
	}{
		{
			name: "bare array",
			body: `[{"id":1,"label":"Mosque"},{"id":2,"label":"Mall","secondaryLabel":"Shopping centers"}]`,
		},
		{
			name: "data envelope",
			body: `{"data":[{"value":1,"name":"Mosque"},{"value":2,"name":"Mall","description":"Shopping centers"}]}`,
		},
		{
			name: "items envelope",
			body: `{"items":[{"key":"1","localizedLabel":"Mosque"},{"key":"2","localizedLabel":"Mall","description":"Shopping centers"}]}`,
		},
		{
			name: "nested result envelope",
			body: `{"result":{"data":[{"id":1,"nameEn":"Mosque"},{"id":2,"nameEn":"Mall","secondaryLabel":"Shopping centers"}]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, map[string]string{"/location-types": tt.body})

			source, err := NewRemoteSource(srv.URL, "en-US", srv.Client())
			require.NoError(t, err)

			got, err := source.LocationTypes(context.Background())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestRemoteSourceSkipsIncompleteEntries(t *testing.T) {
	srv := serve(t, map[string]string{
		"/regions": `[{"id":0,"label":"Zero"},{"id":4,"label":""},{"label":"No id"},{"id":5,"label":"Deira"}]`,
	})

	source, err := NewRemoteSource(srv.URL, "en-US", srv.Client())
	require.NoError(t, err)

	got, err := source.Regions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.Option{{ID: 5, Label: "Deira"}}, got)
}

func TestRemoteSourceLocalizedLabels(t *testing.T) {
	srv := serve(t, map[string]string{
		"/regions": `[{"id":5,"nameEn":"Deira","nameAr":"ديرة"}]`,
	})

	t.Run("arabic prefers the arabic column", func(t *testing.T) {
		source, err := NewRemoteSource(srv.URL, "ar-AE", srv.Client())
		require.NoError(t, err)

		got, err := source.Regions(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ديرة", got[0].Label)
	})

	t.Run("english prefers the english column", func(t *testing.T) {
		source, err := NewRemoteSource(srv.URL, "en-US", srv.Client())
		require.NoError(t, err)

		got, err := source.Regions(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Deira", got[0].Label)
	})
}

func TestRemoteSourceRequirements(t *testing.T) {
	srv := serve(t, map[string]string{
		"/attachment-requirements": `{"data":[
			{"id":1,"name":"Identity document","isMandatory":true,"scope":"partner"},
			{"id":10,"name":"Site plan","required":true},
			{"id":12,"name":"Other","mandatory":false,"scope":"REQUEST"}
		]}`,
	})

	source, err := NewRemoteSource(srv.URL, "en-US", srv.Client())
	require.NoError(t, err)

	got, err := source.Requirements(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, types.AttachmentRequirement{ID: 1, Name: "Identity document", Mandatory: true, Scope: types.RequirementScopePartner, IsActive: true}, got[0])
	assert.Equal(t, types.RequirementScopeRequest, got[1].Scope)
	assert.True(t, got[1].Mandatory)
	assert.False(t, got[2].Mandatory)
	assert.Equal(t, types.RequirementScopeRequest, got[2].Scope)
}

func TestRemoteSourceErrors(t *testing.T) {
	srv := serve(t, map[string]string{
		"/regions":                 `{"rows":[]}`,
		"/location-types":          `not json`,
		"/attachment-requirements": `[{"id":1,"name":"Identity","scope":"vendor"}]`,
	})

	source, err := NewRemoteSource(srv.URL, "en-US", srv.Client())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = source.Regions(ctx)
	assert.ErrorIs(t, err, errUnknownEnvelope)

	_, err = source.LocationTypes(ctx)
	assert.ErrorContains(t, err, "not valid json")

	_, err = source.Requirements(ctx)
	assert.ErrorContains(t, err, `unknown scope "vendor"`)

	t.Run("status codes are reported", func(t *testing.T) {
		broken := serve(t, map[string]string{})
		source, err := NewRemoteSource(broken.URL, "en-US", broken.Client())
		require.NoError(t, err)

		_, err = source.Regions(ctx)
		assert.ErrorContains(t, err, "status 404")
	})

	t.Run("invalid base url", func(t *testing.T) {
		_, err := NewRemoteSource("lookups.internal", "en-US", nil)
		assert.Error(t, err)
	})
}
