package models

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProduct() Product {
	return Product{
		ID:                42,
		Name:              "Ambient Dreams",
		Description:       "Calm pads",
		DescriptionHTML:   "<p>Calm pads</p>",
		Site:              "audiojungle.net",
		Classification:    "music/ambient",
		ClassificationURL: "https://audiojungle.net/category/music/ambient",
		PriceCents:        1900,
		NumberOfSales:     321,
		AuthorUsername:    "soundsmith",
		AuthorURL:         "https://audiojungle.net/user/soundsmith",
		AuthorImage:       "https://cdn.example/avatar.png",
		URL:               "https://audiojungle.net/item/ambient-dreams/42",
		Summary:           "Looped ambient track",
		Rating:            Rating{Rating: 4.5, Count: 12},
		UpdatedAt:         "2024-03-01T00:00:00+10:00",
		PublishedAt:       "2023-01-01T00:00:00+10:00",
		Trending:          true,
		Previews: Preview{
			IconURL:               "https://cdn.example/icon.png",
			MP3URL:                "https://cdn.example/a.mp3",
			MP3PreviewWaveformURL: "https://cdn.example/wave.png",
			MP3PreviewDownloadURL: "https://cdn.example/dl.mp3",
			MP3ID:                 99,
			Length:                Length{Hours: 0, Minutes: 2, Seconds: 31},
		},
		Attributes: []map[string]any{
			{"name": "bpm", "value": "90"},
			{"name": "looped", "value": "yes"},
		},
		PhotoAttributes: []map[string]any{},
		KeyFeatures:     []string{"loop"},
		ImageURLs:       []string{"https://cdn.example/1.png"},
		Tags:            []string{"ambient", "calm"},
		Discounts:       []map[string]any{},
	}
}

func TestProductFromMap_MissingFieldsUseDefaults(t *testing.T) {
	p := ProductFromMap(map[string]any{"id": 5, "name": "Only name"})

	got := p.ToMap()
	want := map[string]any{
		"id":                 int64(5),
		"name":               "Only name",
		"description":        "",
		"description_html":   "",
		"site":               "",
		"classification":     "",
		"classification_url": "",
		"price_cents":        int64(0),
		"number_of_sales":    int64(0),
		"author_username":    "",
		"author_url":         "",
		"author_image":       "",
		"url":                "",
		"summary":            "",
		"rating":             map[string]any{"rating": 0.0, "count": int64(0)},
		"updated_at":         "",
		"published_at":       "",
		"trending":           false,
		"previews": map[string]any{"icon_with_audio_preview": map[string]any{
			"icon_url":                 "",
			"mp3_url":                  "",
			"mp3_preview_waveform_url": "",
			"mp3_preview_download_url": "",
			"mp3_id":                   int64(0),
			"length":                   map[string]any{"hours": int64(0), "minutes": int64(0), "seconds": int64(0)},
		}},
		"attributes":       []map[string]any{},
		"photo_attributes": []map[string]any{},
		"key_features":     []string{},
		"image_urls":       []string{},
		"tags":             []string{},
		"discounts":        []map[string]any{},
	}
	assert.Equal(t, want, got)
}

func TestProductFromMap_EmptyAndMistyped(t *testing.T) {
	assert.NotPanics(t, func() {
		ProductFromMap(nil)
		ProductFromMap(map[string]any{
			"id":       "not-a-number",
			"previews": "nope",
			"rating":   []any{1, 2},
			"tags":     []any{"ok", 3, nil},
		})
	})

	p := ProductFromMap(map[string]any{"tags": []any{"ok", 3, nil}})
	assert.Equal(t, []string{"ok"}, p.Tags)
}

func TestProduct_RoundTrip(t *testing.T) {
	p := sampleProduct()
	assert.Equal(t, p, ProductFromMap(p.ToMap()))
}

func TestProduct_RoundTripThroughJSON(t *testing.T) {
	p := sampleProduct()

	raw, err := json.Marshal(p.ToMap())
	require.NoError(t, err)

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	require.NoError(t, dec.Decode(&m))

	assert.Equal(t, p, ProductFromMap(m))
}

func TestProductFromMap_KeepsOnlyAudioPreview(t *testing.T) {
	p := ProductFromMap(map[string]any{
		"previews": map[string]any{
			"landscape_preview": map[string]any{"landscape_url": "https://cdn.example/l.png"},
			"icon_with_audio_preview": map[string]any{
				"icon_url": "https://cdn.example/icon.png",
				"mp3_id":   float64(7),
				"length":   map[string]any{"minutes": float64(3), "seconds": float64(5)},
			},
		},
	})

	assert.Equal(t, "https://cdn.example/icon.png", p.Previews.IconURL)
	assert.Equal(t, int64(7), p.Previews.MP3ID)
	assert.Equal(t, Length{Minutes: 3, Seconds: 5}, p.Previews.Length)
	assert.NotContains(t, p.ToMap()["previews"], "landscape_preview")
}

func TestProductFromMap_DropsUnknownFields(t *testing.T) {
	p := ProductFromMap(map[string]any{"id": 1, "wishlist_count": 77})
	assert.NotContains(t, p.ToMap(), "wishlist_count")
}

func TestProduct_GetAttribute(t *testing.T) {
	tests := []struct {
		name       string
		attributes []map[string]any
		lookup     string
		want       any
		found      bool
	}{
		{
			name:       "single match",
			attributes: []map[string]any{{"name": "bpm", "value": "120"}},
			lookup:     "bpm",
			want:       "120",
			found:      true,
		},
		{
			name: "first of duplicates wins",
			attributes: []map[string]any{
				{"name": "bpm", "value": "120"},
				{"name": "bpm", "value": "90"},
			},
			lookup: "bpm",
			want:   "120",
			found:  true,
		},
		{
			name: "match after others",
			attributes: []map[string]any{
				{"name": "key", "value": "C"},
				{"name": "bpm", "value": 90},
			},
			lookup: "bpm",
			want:   90,
			found:  true,
		},
		{
			name:       "no match",
			attributes: []map[string]any{{"name": "key", "value": "C"}},
			lookup:     "bpm",
			found:      false,
		},
		{
			name:       "empty list",
			attributes: nil,
			lookup:     "bpm",
			found:      false,
		},
		{
			name:       "attribute without a name",
			attributes: []map[string]any{{"value": "x"}},
			lookup:     "",
			found:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Attributes: tt.attributes}
			got, ok := p.GetAttribute(tt.lookup)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategory_ToMapFromMap(t *testing.T) {
	c := CategoryFromMap(map[string]any{"name": "Ambient", "path": "music/ambient"})
	assert.Nil(t, c.TotalProducts)
	assert.Equal(t, map[string]any{"name": "Ambient", "path": "music/ambient"}, c.ToMap())

	withTotal := c.WithTotal(1200)
	require.NotNil(t, withTotal.TotalProducts)
	assert.Equal(t, int64(1200), *withTotal.TotalProducts)
	assert.Nil(t, c.TotalProducts, "WithTotal must not mutate the receiver")

	assert.Equal(t, withTotal, CategoryFromMap(withTotal.ToMap()))

	decoded := CategoryFromMap(map[string]any{"name": "A", "path": "a", "total_products": json.Number("17")})
	require.NotNil(t, decoded.TotalProducts)
	assert.Equal(t, int64(17), *decoded.TotalProducts)
}

func TestProduct_Money(t *testing.T) {
	p := Product{PriceCents: 1999, NumberOfSales: 3}
	assert.InDelta(t, 19.99, p.PriceDollars(), 1e-9)
	assert.Equal(t, int64(5997), p.RevenueCents())
}
