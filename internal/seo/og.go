package seo

import (
	"bytes"
	"encoding/xml"
	"text/template"
	"unicode/utf8"
)

const (
	OGWidth  = 1200
	OGHeight = 630

	// OGCacheControl is sent with generated images.
	OGCacheControl = "public, max-age=86400, stale-while-revalidate=604800"

	defaultOGTitle       = SiteName
	defaultOGDescription = "Discover the perfect AI agent for your needs"
)

// OGImage is the text drawn on a generated OpenGraph card.
type OGImage struct {
	Title       string
	Description string
	Category    string
}

type ogView struct {
	OGImage
	Width, Height   int
	BadgeWidth      int
	BadgeTextCenter int
}

var ogTemplate = template.Must(template.New("og").Funcs(template.FuncMap{
	"x": escapeXML,
}).Parse(`<svg width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="bg" x1="0%" y1="0%" x2="100%" y2="100%">
      <stop offset="0%" style="stop-color:#f0f9ff;stop-opacity:1" />
      <stop offset="100%" style="stop-color:#dbeafe;stop-opacity:1" />
    </linearGradient>
  </defs>
  <rect width="{{.Width}}" height="{{.Height}}" fill="url(#bg)"/>
  <rect x="60" y="80" width="1080" height="470" rx="12" fill="white" stroke="#e5e7eb" stroke-width="1" opacity="0.95"/>
  <text x="600" y="220" font-family="Arial, sans-serif" font-size="48" font-weight="bold" text-anchor="middle" fill="#111827">{{x .Title}}</text>
{{- if .Category}}
  <rect x="500" y="250" width="{{.BadgeWidth}}" height="30" rx="15" fill="#eef2ff"/>
  <text x="{{.BadgeTextCenter}}" y="270" font-family="Arial, sans-serif" font-size="16" text-anchor="middle" fill="#6366f1">{{x .Category}}</text>
{{- end}}
  <text x="600" y="320" font-family="Arial, sans-serif" font-size="20" text-anchor="middle" fill="#6b7280">{{x .Description}}</text>
  <text x="600" y="480" font-family="Arial, sans-serif" font-size="16" text-anchor="middle" fill="#9ca3af">🤖 {{x "AI Agents Directory"}}</text>
</svg>
`))

// Render draws the card as SVG. Empty title and description use the site
// defaults. All text is XML-escaped.
func (img OGImage) Render() ([]byte, error) {
	if img.Title == "" {
		img.Title = defaultOGTitle
	}
	if img.Description == "" {
		img.Description = defaultOGDescription
	}
	n := utf8.RuneCountInString(img.Category)
	view := ogView{
		OGImage:         img,
		Width:           OGWidth,
		Height:          OGHeight,
		BadgeWidth:      n*12 + 20,
		BadgeTextCenter: 500 + n*6 + 10,
	}

	var buf bytes.Buffer
	if err := ogTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
