package models

// previewKey is the only preview variant kept from the API's "previews" object.
const previewKey = "icon_with_audio_preview"

type Rating struct {
	Rating float64 `json:"rating"`
	Count  int64   `json:"count"`
}

func RatingFromMap(m map[string]any) Rating {
	return Rating{
		Rating: getFloat(m, "rating"),
		Count:  getInt(m, "count"),
	}
}

func (r Rating) ToMap() map[string]any {
	return map[string]any{"rating": r.Rating, "count": r.Count}
}

type Length struct {
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

func LengthFromMap(m map[string]any) Length {
	return Length{
		Hours:   getInt(m, "hours"),
		Minutes: getInt(m, "minutes"),
		Seconds: getInt(m, "seconds"),
	}
}

func (l Length) ToMap() map[string]any {
	return map[string]any{"hours": l.Hours, "minutes": l.Minutes, "seconds": l.Seconds}
}

// Preview is the audio preview attached to an item.
type Preview struct {
	IconURL               string `json:"icon_url"`
	MP3URL                string `json:"mp3_url"`
	MP3PreviewWaveformURL string `json:"mp3_preview_waveform_url"`
	MP3PreviewDownloadURL string `json:"mp3_preview_download_url"`
	MP3ID                 int64  `json:"mp3_id"`
	Length                Length `json:"length"`
}

func PreviewFromMap(m map[string]any) Preview {
	return Preview{
		IconURL:               getString(m, "icon_url"),
		MP3URL:                getString(m, "mp3_url"),
		MP3PreviewWaveformURL: getString(m, "mp3_preview_waveform_url"),
		MP3PreviewDownloadURL: getString(m, "mp3_preview_download_url"),
		MP3ID:                 getInt(m, "mp3_id"),
		Length:                LengthFromMap(getMap(m, "length")),
	}
}

func (p Preview) ToMap() map[string]any {
	return map[string]any{
		"icon_url":                 p.IconURL,
		"mp3_url":                  p.MP3URL,
		"mp3_preview_waveform_url": p.MP3PreviewWaveformURL,
		"mp3_preview_download_url": p.MP3PreviewDownloadURL,
		"mp3_id":                   p.MP3ID,
		"length":                   p.Length.ToMap(),
	}
}

// Product is a marketplace item as returned by the search endpoint.
type Product struct {
	ID                int64            `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	DescriptionHTML   string           `json:"description_html"`
	Site              string           `json:"site"`
	Classification    string           `json:"classification"`
	ClassificationURL string           `json:"classification_url"`
	PriceCents        int64            `json:"price_cents"`
	NumberOfSales     int64            `json:"number_of_sales"`
	AuthorUsername    string           `json:"author_username"`
	AuthorURL         string           `json:"author_url"`
	AuthorImage       string           `json:"author_image"`
	URL               string           `json:"url"`
	Summary           string           `json:"summary"`
	Rating            Rating           `json:"rating"`
	UpdatedAt         string           `json:"updated_at"`
	PublishedAt       string           `json:"published_at"`
	Trending          bool             `json:"trending"`
	Previews          Preview          `json:"previews"`
	Attributes        []map[string]any `json:"attributes"`
	PhotoAttributes   []map[string]any `json:"photo_attributes"`
	KeyFeatures       []string         `json:"key_features"`
	ImageURLs         []string         `json:"image_urls"`
	Tags              []string         `json:"tags"`
	Discounts         []map[string]any `json:"discounts"`
}

// ProductFromMap builds a Product from a decoded JSON object. It never fails:
// missing or mistyped keys fall back to zero values and empty collections.
func ProductFromMap(m map[string]any) Product {
	return Product{
		ID:                getInt(m, "id"),
		Name:              getString(m, "name"),
		Description:       getString(m, "description"),
		DescriptionHTML:   getString(m, "description_html"),
		Site:              getString(m, "site"),
		Classification:    getString(m, "classification"),
		ClassificationURL: getString(m, "classification_url"),
		PriceCents:        getInt(m, "price_cents"),
		NumberOfSales:     getInt(m, "number_of_sales"),
		AuthorUsername:    getString(m, "author_username"),
		AuthorURL:         getString(m, "author_url"),
		AuthorImage:       getString(m, "author_image"),
		URL:               getString(m, "url"),
		Summary:           getString(m, "summary"),
		Rating:            RatingFromMap(getMap(m, "rating")),
		UpdatedAt:         getString(m, "updated_at"),
		PublishedAt:       getString(m, "published_at"),
		Trending:          getBool(m, "trending"),
		Previews:          PreviewFromMap(getMap(getMap(m, "previews"), previewKey)),
		Attributes:        getMapSlice(m, "attributes"),
		PhotoAttributes:   getMapSlice(m, "photo_attributes"),
		KeyFeatures:       getStringSlice(m, "key_features"),
		ImageURLs:         getStringSlice(m, "image_urls"),
		Tags:              getStringSlice(m, "tags"),
		Discounts:         getMapSlice(m, "discounts"),
	}
}

// ToMap is the inverse of ProductFromMap for every field it recognises.
// The preview is nested back under its API key so the round trip is exact.
func (p Product) ToMap() map[string]any {
	return map[string]any{
		"id":                 p.ID,
		"name":               p.Name,
		"description":        p.Description,
		"description_html":   p.DescriptionHTML,
		"site":               p.Site,
		"classification":     p.Classification,
		"classification_url": p.ClassificationURL,
		"price_cents":        p.PriceCents,
		"number_of_sales":    p.NumberOfSales,
		"author_username":    p.AuthorUsername,
		"author_url":         p.AuthorURL,
		"author_image":       p.AuthorImage,
		"url":                p.URL,
		"summary":            p.Summary,
		"rating":             p.Rating.ToMap(),
		"updated_at":         p.UpdatedAt,
		"published_at":       p.PublishedAt,
		"trending":           p.Trending,
		"previews":           map[string]any{previewKey: p.Previews.ToMap()},
		"attributes":         nonNilMaps(p.Attributes),
		"photo_attributes":   nonNilMaps(p.PhotoAttributes),
		"key_features":       nonNilStrings(p.KeyFeatures),
		"image_urls":         nonNilStrings(p.ImageURLs),
		"tags":               nonNilStrings(p.Tags),
		"discounts":          nonNilMaps(p.Discounts),
	}
}

// GetAttribute returns the value of the first attribute whose name matches.
func (p Product) GetAttribute(name string) (any, bool) {
	for _, attr := range p.Attributes {
		if n, ok := attr["name"].(string); ok && n == name {
			return attr["value"], true
		}
	}
	return nil, false
}

// PriceDollars returns the price in USD.
func (p Product) PriceDollars() float64 {
	return float64(p.PriceCents) / 100
}

// RevenueCents is sales multiplied by price, in cents.
func (p Product) RevenueCents() int64 {
	return p.NumberOfSales * p.PriceCents
}

// Category is a classification path within a site.
type Category struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	TotalProducts *int64 `json:"total_products,omitempty"`
}

func CategoryFromMap(m map[string]any) Category {
	c := Category{
		Name: getString(m, "name"),
		Path: getString(m, "path"),
	}
	if n, ok := toInt(m["total_products"]); ok {
		c.TotalProducts = &n
	}
	return c
}

// ToMap omits total_products when it is unknown.
func (c Category) ToMap() map[string]any {
	m := map[string]any{"name": c.Name, "path": c.Path}
	if c.TotalProducts != nil {
		m["total_products"] = *c.TotalProducts
	}
	return m
}

// WithTotal returns a copy of c with TotalProducts set.
func (c Category) WithTotal(n int64) Category {
	c.TotalProducts = &n
	return c
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilMaps(s []map[string]any) []map[string]any {
	if s == nil {
		return []map[string]any{}
	}
	return s
}
