package http

import (
	errs "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/skillboard/internal/domain/entities"
	"github.com/rafabene/skillboard/internal/domain/errors"
	"github.com/rafabene/skillboard/internal/domain/ports"
	"github.com/rafabene/skillboard/internal/domain/repositories"
	"github.com/rafabene/skillboard/internal/handlers/dto"
	"github.com/rafabene/skillboard/internal/handlers/middleware"
	"github.com/rafabene/skillboard/internal/infrastructure/flash"
	"github.com/rafabene/skillboard/internal/services"
	"github.com/rafabene/skillboard/internal/web"
)

// UserWebHandler atende as páginas HTML de usuários
type UserWebHandler struct {
	userService    *services.UserService
	catalogService *services.CatalogService
	flash          *flash.Store
	logger         ports.Logger
}

// NewUserWebHandler cria um novo UserWebHandler
func NewUserWebHandler(
	userService *services.UserService,
	catalogService *services.CatalogService,
	flashStore *flash.Store,
	logger ports.Logger,
) *UserWebHandler {
	return &UserWebHandler{
		userService:    userService,
		catalogService: catalogService,
		flash:          flashStore,
		logger:         logger,
	}
}

// Index mostra a listagem, ou a mensagem de lista vazia
func (h *UserWebHandler) Index(c *gin.Context) {
	list, err := h.userService.ListUsers(c.Request.Context(), repositories.UserFilters{})
	if err != nil {
		h.renderError(c, err)
		return
	}

	msg := h.flash.Pop(c)
	c.HTML(http.StatusOK, web.PageUsersIndex, web.IndexPage{
		Page:  h.page(c, "users.index.title", msg),
		Users: list.Users,
	})
}

// Show mostra o detalhe de um usuário
func (h *UserWebHandler) Show(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	msg := h.flash.Pop(c)
	c.HTML(http.StatusOK, web.PageUsersShow, web.ShowPage{
		Page: h.page(c, "users.show.title", msg, map[string]interface{}{"ID": user.ID}),
		User: user,
	})
}

// New mostra o formulário de criação
func (h *UserWebHandler) New(c *gin.Context) {
	msg := h.flash.Pop(c)
	values := web.FormValues{Role: entities.DefaultRole.String()}
	if msg.HasErrors() {
		values = valuesFromOld(msg)
	}

	h.renderForm(c, web.PageUsersCreate, web.FormPage{
		Page:   h.page(c, "users.create.title", msg),
		Action: "/users",
		Submit: dto.T(c, "form.submit_create"),
		Values: values,
	})
}

// Create valida e grava; em caso de erro volta ao formulário com a entrada preservada
func (h *UserWebHandler) Create(c *gin.Context) {
	input := formInput(c)

	if _, err := h.userService.CreateUser(c.Request.Context(), input); err != nil {
		if h.redirectWithErrors(c, err, input, "/users/new") {
			return
		}
		h.renderError(c, err)
		return
	}

	h.redirectWithNotice(c, "/users", "users.notice.created")
}

// Edit mostra o formulário de edição
func (h *UserWebHandler) Edit(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	msg := h.flash.Pop(c)
	values := valuesFromUser(user)
	if msg.HasErrors() {
		values = valuesFromOld(msg)
	}

	h.renderForm(c, web.PageUsersEdit, web.FormPage{
		Page:   h.page(c, "users.edit.title", msg),
		Action: "/users/" + strconv.FormatUint(uint64(user.ID), 10),
		Method: http.MethodPut,
		Submit: dto.T(c, "form.submit_update"),
		UserID: user.ID,
		Values: values,
	})
}

// Update valida e grava; sucesso leva ao detalhe, erro volta à edição
func (h *UserWebHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.renderNotFound(c)
		return
	}

	input := formInput(c)
	path := "/users/" + strconv.FormatUint(uint64(id), 10)

	if _, err := h.userService.UpdateUser(c.Request.Context(), id, input); err != nil {
		if h.redirectWithErrors(c, err, input, path+"/edit") {
			return
		}
		h.renderError(c, err)
		return
	}

	h.redirectWithNotice(c, path, "users.notice.updated")
}

// Destroy remove o usuário e volta à listagem
func (h *UserWebHandler) Destroy(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.renderNotFound(c)
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		h.renderError(c, err)
		return
	}

	h.redirectWithNotice(c, "/users", "users.notice.deleted")
}

// NotFound é a página para rotas HTML inexistentes
func (h *UserWebHandler) NotFound(c *gin.Context) {
	h.renderNotFound(c)
}

func (h *UserWebHandler) loadUser(c *gin.Context) (*entities.User, bool) {
	id, ok := parseID(c)
	if !ok {
		h.renderNotFound(c)
		return nil, false
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return nil, false
	}
	return user, true
}

func (h *UserWebHandler) renderForm(c *gin.Context, name string, page web.FormPage) {
	options, err := h.catalogService.FormOptions(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	page.Professions = options.Professions
	page.Skills = options.Skills
	page.Roles = options.Roles
	c.HTML(http.StatusOK, name, page)
}

// redirectWithErrors grava erros e entrada no flash e redireciona (303).
// Retorna false quando err não é de validação.
func (h *UserWebHandler) redirectWithErrors(c *gin.Context, err error, input services.UserInput, location string) bool {
	var verr *errors.ValidationError
	if !errs.As(err, &verr) {
		return false
	}

	messages := make(map[string]string, len(verr.Fields))
	for field, code := range verr.Fields {
		messages[field] = dto.T(c, code)
	}

	if err := h.flash.Put(c, flash.Data{Errors: messages, Old: dto.OldInput(input)}); err != nil {
		h.logger.Error("failed to write flash", "error", err)
	}
	c.Redirect(http.StatusSeeOther, location)
	return true
}

func (h *UserWebHandler) redirectWithNotice(c *gin.Context, location, noticeKey string) {
	if err := h.flash.Put(c, flash.Data{Notice: dto.T(c, noticeKey)}); err != nil {
		h.logger.Error("failed to write flash", "error", err)
	}
	c.Redirect(http.StatusSeeOther, location)
}

func (h *UserWebHandler) renderError(c *gin.Context, err error) {
	if errs.Is(err, errors.ErrUserNotFound) {
		h.renderNotFound(c)
		return
	}

	h.logger.Error("request failed", "path", c.Request.URL.Path, "request_id", middleware.GetRequestID(c), "error", err)
	_ = c.Error(err)
	middleware.CaptureError(c, err)

	c.HTML(http.StatusInternalServerError, web.PageInternal, web.ErrorPage{
		Page:    h.page(c, "error.internal.title", flash.Data{}),
		Message: dto.T(c, "error.internal.detail"),
	})
}

func (h *UserWebHandler) renderNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, web.PageNotFound, web.ErrorPage{
		Page: h.page(c, "error.not_found.title", flash.Data{}),
	})
}

func (h *UserWebHandler) page(c *gin.Context, titleKey string, msg flash.Data, params ...map[string]interface{}) web.Page {
	return web.Page{
		Lang:   dto.GetLanguage(c),
		Title:  dto.T(c, titleKey, params...),
		T:      dto.Translator(c),
		Notice: msg.Notice,
		Errors: msg.Errors,
	}
}

func formInput(c *gin.Context) services.UserInput {
	// Erro de parse deixa PostForm vazio; a validação aponta os campos obrigatórios
	_ = c.Request.ParseForm()
	return dto.UserInputFromForm(c.Request.PostForm)
}

func valuesFromUser(user *entities.User) web.FormValues {
	values := web.FormValues{
		Name:   user.Name,
		Email:  user.Email.String(),
		Role:   user.Role.String(),
		Skills: make(map[uint]bool, len(user.Skills)),
	}
	if p := user.Profile; p != nil {
		if p.Bio != nil {
			values.Bio = *p.Bio
		}
		if p.Twitter != nil {
			values.Twitter = *p.Twitter
		}
		if p.ProfessionID != nil {
			values.ProfessionID = *p.ProfessionID
		}
	}
	for _, s := range user.Skills {
		values.Skills[s.ID] = true
	}
	return values
}

func valuesFromOld(msg flash.Data) web.FormValues {
	values := web.FormValues{
		Name:    msg.OldString("name"),
		Email:   msg.OldString("email"),
		Role:    msg.OldString("role"),
		Bio:     msg.OldString("bio"),
		Twitter: msg.OldString("twitter"),
		Skills:  make(map[uint]bool),
	}
	if id, err := strconv.ParseUint(msg.OldString("profession_id"), 10, 0); err == nil {
		values.ProfessionID = uint(id)
	}
	for _, raw := range msg.OldList("skills") {
		if id, err := strconv.ParseUint(raw, 10, 0); err == nil {
			values.Skills[uint(id)] = true
		}
	}
	return values
}
