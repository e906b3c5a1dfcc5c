package handler

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/hitoshi/taskboard/internal/middleware"
	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

// UserProvisioner はページ表示時のユーザープロビジョニングインターフェース。
// 同一IDに対して何度呼ばれてもレコードは1件しか作成されない。
type UserProvisioner interface {
	Provision(ctx context.Context, identity model.Identity) error
}

// PageHandler はサーバーサイドレンダリングのページハンドラー。
// サインイン中の訪問者に対してはページ表示のたびにプロビジョニングを実行する。
type PageHandler struct {
	provisioner UserProvisioner
	taskService TaskServiceInterface
	templates   *template.Template
}

// NewPageHandler はPageHandlerを生成する。テンプレートの解析に失敗した場合はエラーを返す。
func NewPageHandler(provisioner UserProvisioner, taskService TaskServiceInterface) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		provisioner: provisioner,
		taskService: taskService,
		templates:   tmpl,
	}, nil
}

// homePageData はホームページのテンプレートデータ。
type homePageData struct {
	SignedIn bool
	Name     string
	Username string
}

// addTaskPageData はタスク追加ページのテンプレートデータ。
type addTaskPageData struct {
	Name              string
	Username          string
	TaskNameMinLen    int
	TaskNameMaxLen    int
	DueDateMaxLen     int
	DescriptionMaxLen int
	Tasks             []taskResponse
}

// Home はホームページを表示する。
// GET /
// サインイン中の場合はUserレコードのプロビジョニングを実行してから表示する。
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := homePageData{}

	if identity, err := middleware.IdentityFromContext(r.Context()); err == nil {
		h.provision(r.Context(), identity)
		data.SignedIn = true
		data.Name = identity.DisplayName()
		data.Username = identity.Username
	}

	h.render(w, "home.html", data)
}

// AddTask はタスク追加フォームのページを表示する。
// GET /add_task
// 未認証の訪問者はホームページにリダイレクトする。
func (h *PageHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	h.provision(r.Context(), identity)

	tasks, err := h.taskService.List(r.Context(), identity.ID, r.URL.Path)
	if err != nil {
		slog.Error("failed to list tasks for page",
			slog.String("user_id", identity.ID),
			slog.String("error", err.Error()),
		)
		// 一覧の取得に失敗してもフォーム自体は表示する
		tasks = nil
	}

	data := addTaskPageData{
		Name:              identity.DisplayName(),
		Username:          identity.Username,
		TaskNameMinLen:    validation.TaskNameMinLen,
		TaskNameMaxLen:    validation.TaskNameMaxLen,
		DueDateMaxLen:     validation.DueDateMaxLen,
		DescriptionMaxLen: validation.DescriptionMaxLen,
		Tasks:             make([]taskResponse, len(tasks)),
	}
	for i, t := range tasks {
		data.Tasks[i] = toTaskResponse(t)
	}

	h.render(w, "add_task.html", data)
}

// provision はUserレコードのプロビジョニングを実行する。
// 失敗してもページ表示自体は継続する。
func (h *PageHandler) provision(ctx context.Context, identity model.Identity) {
	if err := h.provisioner.Provision(ctx, identity); err != nil {
		slog.Error("failed to provision user",
			slog.String("user_id", identity.ID),
			slog.String("error", err.Error()),
		)
	}
}

// render はテンプレートを実行してHTMLレスポンスを書き込む。
func (h *PageHandler) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("failed to render template",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
	}
}
