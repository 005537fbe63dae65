package server

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/justinas/nosurf"
	"github.com/patrickmn/go-cache"

	"github.com/shouni/go-manga-creator/pkg/asset"
	"github.com/shouni/go-manga-creator/pkg/workflow"
)

const (
	emptyPremiseMessage = "Please enter a story idea first!"
	// rootFolderSegment は FolderKey が空（基準ディレクトリ直下）を表す URL 上の表記です。
	rootFolderSegment = "-"
	galleryExt        = ".png"
)

type homeData struct {
	CSRFToken string
	Premise   string
	Error     string
}

type galleryItem struct {
	Caption string
	URL     string
}

type runData struct {
	Premise         string
	FolderKey       string
	Story           template.HTML
	Script          string
	Outline         *scriptOutline
	VisualStyle     template.HTML
	CharacterDesign template.HTML
	Commentary      []string
	Warnings        []string
	Gallery         []galleryItem
}

type errorData struct {
	CSRFToken string
	Premise   string
	Stage     string
	Message   string
}

func (app *Application) home(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "home", homeData{CSRFToken: nosurf.Token(r)})
}

func (app *Application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (app *Application) generate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	premise := strings.TrimSpace(r.PostForm.Get("premise"))
	if premise == "" {
		app.render(w, r, http.StatusUnprocessableEntity, "home", homeData{
			CSRFToken: nosurf.Token(r),
			Error:     emptyPremiseMessage,
		})
		return
	}

	// クライアントが切断しても生成は最後まで続ける
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), app.runTimeout)
	defer cancel()

	v, err, shared := app.flight.Do(premise, func() (any, error) {
		return app.runner.Run(ctx, premise, app.opts)
	})
	if shared {
		app.logger.Info("同じ内容の実行結果を共有しました", "folder_key", asset.FolderKey(premise))
	}
	if err != nil {
		app.renderRunError(w, r, premise, err)
		return
	}

	res, ok := v.(*workflow.Result)
	if !ok || res == nil {
		app.serverError(w, r, errors.New("実行結果が取得できませんでした"))
		return
	}

	id := uuid.NewString()
	app.runs.Set(id, res, cache.DefaultExpiration)
	http.Redirect(w, r, "/runs/"+id, http.StatusSeeOther)
}

func (app *Application) renderRunError(w http.ResponseWriter, r *http.Request, premise string, err error) {
	stage := "unknown"
	var stageErr *workflow.StageError
	if errors.As(err, &stageErr) {
		stage = string(stageErr.Stage)
	}
	app.logger.Error("漫画の生成に失敗しました", "stage", stage, "error", err)

	app.render(w, r, http.StatusBadGateway, "error", errorData{
		CSRFToken: nosurf.Token(r),
		Premise:   premise,
		Stage:     stage,
		Message:   err.Error(),
	})
}

func (app *Application) showRun(w http.ResponseWriter, r *http.Request) {
	v, found := app.runs.Get(r.PathValue("id"))
	if !found {
		app.notFound(w, r)
		return
	}
	res, ok := v.(*workflow.Result)
	if !ok {
		app.notFound(w, r)
		return
	}

	data := runData{
		Premise:    res.Premise,
		FolderKey:  res.FolderKey,
		Script:     res.Script,
		Outline:    buildOutline(res.ParsedScript),
		Commentary: res.Commentary,
	}
	for _, warn := range res.Warnings {
		data.Warnings = append(data.Warnings, warn.Error())
	}

	var err error
	if data.Story, err = app.renderMarkdown(res.Story); err != nil {
		app.serverError(w, r, err)
		return
	}
	if data.VisualStyle, err = app.renderMarkdown(res.VisualStyle); err != nil {
		app.serverError(w, r, err)
		return
	}
	if data.CharacterDesign, err = app.renderMarkdown(res.CharacterDesign); err != nil {
		app.serverError(w, r, err)
		return
	}

	names, err := app.store.List(res.FolderKey, galleryExt)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	segment := res.FolderKey
	if segment == "" {
		segment = rootFolderSegment
	}
	for i, name := range names {
		data.Gallery = append(data.Gallery, galleryItem{
			Caption: sceneCaption(i),
			URL:     path.Join("/stories", segment, name),
		})
	}

	app.render(w, r, http.StatusOK, "result", data)
}

func (app *Application) serveArtifact(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	file := r.PathValue("file")
	if key == rootFolderSegment {
		key = ""
	} else if !asset.IsFolderKey(key) {
		app.notFound(w, r)
		return
	}
	if !asset.ArtifactFileRegex.MatchString(file) {
		app.notFound(w, r)
		return
	}

	f, err := app.store.Open(key, file)
	if err != nil {
		app.notFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		app.notFound(w, r)
		return
	}
	http.ServeContent(w, r, file, info.ModTime(), f)
}

// sceneCaption はギャラリーの i 番目（0 始まり）の見出しです。
func sceneCaption(i int) string {
	return "Scene " + strconv.Itoa(i+1)
}
