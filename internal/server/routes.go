package server

import (
	"net/http"

	"github.com/justinas/alice"
)

// Routes はすべてのルートとミドルウェアを組み立てたハンドラを返します。
func (app *Application) Routes() http.Handler {
	mux := http.NewServeMux()

	dynamic := alice.New(app.noSurf)

	mux.Handle("GET /{$}", dynamic.ThenFunc(app.home))
	mux.Handle("POST /generate", dynamic.ThenFunc(app.generate))
	mux.Handle("GET /runs/{id}", dynamic.ThenFunc(app.showRun))
	mux.HandleFunc("GET /stories/{key}/{file}", app.serveArtifact)
	mux.HandleFunc("GET /healthy", app.healthy)

	standard := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	return standard.Then(mux)
}
