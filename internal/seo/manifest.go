package seo

// Icon is a web manifest icon entry.
type Icon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

// Shortcut is a web manifest shortcut entry.
type Shortcut struct {
	Name        string `json:"name"`
	ShortName   string `json:"short_name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Icons       []Icon `json:"icons"`
}

// Manifest is the web app manifest document.
type Manifest struct {
	Name            string     `json:"name"`
	ShortName       string     `json:"short_name"`
	Description     string     `json:"description"`
	StartURL        string     `json:"start_url"`
	Display         string     `json:"display"`
	BackgroundColor string     `json:"background_color"`
	ThemeColor      string     `json:"theme_color"`
	Orientation     string     `json:"orientation"`
	Scope           string     `json:"scope"`
	Icons           []Icon     `json:"icons"`
	Categories      []string   `json:"categories"`
	Shortcuts       []Shortcut `json:"shortcuts"`
}

// WebManifest returns the manifest served at /manifest.webmanifest.
func WebManifest() Manifest {
	small := Icon{Src: "/icon-192.svg", Sizes: "192x192"}
	icon := func(src, sizes, purpose string) Icon {
		return Icon{Src: src, Sizes: sizes, Type: "image/svg+xml", Purpose: purpose}
	}
	shortcut := func(name, short, desc, url string) Shortcut {
		return Shortcut{Name: name, ShortName: short, Description: desc, URL: url, Icons: []Icon{small}}
	}

	return Manifest{
		Name:            SiteName,
		ShortName:       SiteShortName,
		Description:     SiteDescription,
		StartURL:        "/",
		Display:         "standalone",
		BackgroundColor: "#ffffff",
		ThemeColor:      "#000000",
		Orientation:     "portrait-primary",
		Scope:           "/",
		Icons: []Icon{
			icon("/icon-192.svg", "192x192", "maskable"),
			icon("/icon-512.svg", "512x512", "maskable"),
			icon("/icon-192.svg", "192x192", "any"),
			icon("/icon-512.svg", "512x512", "any"),
		},
		Categories: []string{"productivity", "business", "utilities"},
		Shortcuts: []Shortcut{
			shortcut("Browse Agents", "Agents", "Browse all AI agents", "/agents"),
			shortcut("Categories", "Categories", "Browse by category", "/categories"),
			shortcut("Favorites", "Favorites", "View your favorites", "/favorites"),
		},
	}
}
