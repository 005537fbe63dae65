package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("HTML テンプレートの解析に失敗しました: %w", err)
	}
	return tmpl, nil
}

func (app *Application) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	buf := new(bytes.Buffer)
	if err := app.templates.ExecuteTemplate(buf, page, data); err != nil {
		app.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (app *Application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", r.Method), slog.String("uri", r.URL.RequestURI()), slog.Any("error", err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *Application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	app.logger.Debug(http.StatusText(status), "method", r.Method, "uri", r.URL.RequestURI())
	http.Error(w, http.StatusText(status), status)
}

func (app *Application) notFound(w http.ResponseWriter, r *http.Request) {
	app.clientError(w, r, http.StatusNotFound)
}

// renderMarkdown は AI の出力を HTML に変換します。生の HTML はエスケープされます。
func (app *Application) renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := app.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("Markdown の変換に失敗しました: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // goldmark は unsafe 指定が無い限り生の HTML を出力しない
}
