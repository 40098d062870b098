package http

import (
	errs "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/skillboard/internal/domain/entities"
	"github.com/rafabene/skillboard/internal/domain/errors"
	"github.com/rafabene/skillboard/internal/domain/repositories"
	"github.com/rafabene/skillboard/internal/handlers/dto"
	"github.com/rafabene/skillboard/internal/handlers/middleware"
	"github.com/rafabene/skillboard/internal/services"
)

// UserHandler lida com requisições HTTP (JSON) relacionadas a usuários
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler cria um novo UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers lista usuários
// @Summary      Lista usuários
// @Description  Lista usuários em ordem de cadastro, com filtro por papel e paginação opcionais
// @Tags         users
// @Produce      json
// @Param        role       query     string  false  "Filtra por papel"  Enums(user, admin)
// @Param        page       query     int     false  "Página (começa em 1)"
// @Param        page_size  query     int     false  "Itens por página (máx. 100)"
// @Success      200        {object}  dto.UserListResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      500        {object}  dto.ErrorResponse
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	filters, ok := parseUserFilters(c)
	if !ok {
		dto.Abort(c, dto.BadRequestErrorResponseI18n(c))
		return
	}

	list, err := h.userService.ListUsers(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		Data:  dto.ToUserResponses(list.Users),
		Total: list.Len(),
	})
}

// GetUser busca um usuário por ID
// @Summary      Detalha um usuário
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "ID do usuário"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, errors.ErrUserNotFound)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// CreateUser cria um novo usuário
// @Summary      Cria um usuário
// @Description  Cria usuário, perfil e associações com habilidades numa única transação
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user  body      dto.UserRequest  true  "Dados do usuário"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		dto.Abort(c, dto.BadRequestErrorResponseI18n(c))
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), dto.UserInputFromJSON(body))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", c.FullPath()+"/"+strconv.FormatUint(uint64(user.ID), 10))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// UpdateUser atualiza um usuário
// @Summary      Atualiza um usuário
// @Description  Senha vazia mantém a atual; skills substitui o conjunto inteiro
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "ID do usuário"
// @Param        user  body      dto.UserRequest  true  "Dados do usuário"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, errors.ErrUserNotFound)
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		dto.Abort(c, dto.BadRequestErrorResponseI18n(c))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, dto.UserInputFromJSON(body))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// DeleteUser remove um usuário
// @Summary      Remove um usuário
// @Tags         users
// @Param        id   path  int  true  "ID do usuário"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, errors.ErrUserNotFound)
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError traduz erros de domínio em problemas RFC 7807
func respondError(c *gin.Context, err error) {
	var verr *errors.ValidationError
	switch {
	case errs.As(err, &verr):
		dto.Abort(c, dto.ValidationErrorResponseI18n(c, verr))
	case errs.Is(err, errors.ErrUserNotFound):
		dto.Abort(c, dto.NotFoundErrorResponseI18n(c, "resource.user"))
	default:
		_ = c.Error(err)
		middleware.CaptureError(c, err)
		dto.Abort(c, dto.InternalErrorResponseI18n(c))
	}
}

// parseID lê o :id da rota; ids não numéricos são tratados como inexistentes
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parseUserFilters(c *gin.Context) (repositories.UserFilters, bool) {
	var filters repositories.UserFilters

	if role := c.Query("role"); role != "" {
		r := entities.Role(role)
		if !r.IsValid() {
			return filters, false
		}
		filters.Role = &r
	}

	for param, target := range map[string]*int{"page": &filters.Page, "page_size": &filters.PageSize} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return filters, false
		}
		*target = n
	}

	return filters, true
}
