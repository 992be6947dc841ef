package handlers

import (
	"embed"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*.html
var pageFS embed.FS

var pageTemplates = template.Must(template.ParseFS(pageFS, "templates/*.html"))

// Pages serves the embedded dashboard and simulator pages.
type Pages struct{}

func (Pages) Dashboard(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, "logistics.html")
}

func (Pages) Simulator(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, "logistics_sim.html")
}

func renderPage(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, nil); err != nil {
		log.Printf("render page failed: page=%s err=%v", name, err)
	}
}
