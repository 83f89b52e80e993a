package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"tendersdz/internal/export"
	"tendersdz/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"statusLabel": func(s models.TenderStatus) string { return s.Label() },
	"norm":        func(s models.TenderStatus) models.TenderStatus { return s.Normalize() },
	"deref":       models.Deref,
	"clientName":  export.ClientName,
	"qty":         func(q float64) string { return strconv.FormatFloat(q, 'f', -1, 64) },
	"date": func(ts *models.Timestamp) string {
		if ts == nil {
			return ""
		}
		return ts.Date()
	},
	"datetime": func(ts *models.Timestamp) string {
		if ts == nil {
			return ""
		}
		return ts.DateTime()
	},
}

var pages = parsePages("login", "dashboard", "clients", "suppliers", "tenders", "tender")

func parsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return out
}

// pageData - общие поля всех экранов
type pageData struct {
	Title      string
	Identifier string
	Notice     string
	Error      string
	Data       any
}

// render выводит экран name. Уведомления берутся из query (notice, error),
// errMsg имеет приоритет.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title, errMsg string, data any) {
	tmpl, ok := pages[name]
	if !ok {
		http.Error(w, "Unknown page", http.StatusInternalServerError)
		return
	}
	if errMsg == "" {
		errMsg = r.URL.Query().Get("error")
	}
	pd := pageData{
		Title:      title,
		Identifier: h.Auth.Identifier(),
		Notice:     r.URL.Query().Get("notice"),
		Error:      errMsg,
		Data:       data,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pd); err != nil {
		h.Logger.Error("failed to render page", "page", name, "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
