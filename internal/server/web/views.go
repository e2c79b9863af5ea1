package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"waypoint": func(k int) string { return string(hunt.WaypointView(k)) },
	"paragraphs": func(s string) []string {
		return strings.Split(strings.TrimSpace(s), "\n\n")
	},
	"mapURL": func(lat, lon float64) string {
		return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%f&mlon=%f#map=17/%f/%f", lat, lon, lat, lon)
	},
}).ParseFS(templatesFS, "templates/*.html"))

// Notices shown after a scan.
const (
	noticeWrongCode   = "Falscher QR-Code. Bitte scanne den richtigen Code."
	noticeNotSaved    = "Fortschritt konnte nicht aktualisiert werden."
	noticeInFlight    = "Dieser Scan wird bereits verarbeitet."
	noticeMissingArgs = "Parameter progress fehlt."
	noticeStoreError  = "Fehler beim Laden des Profils oder der Geschichte."
	noticeResetLocked = "Zurücksetzen ist erst nach dem letzten Hinweis möglich."
)
