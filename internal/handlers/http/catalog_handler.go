package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/skillboard/internal/handlers/dto"
	"github.com/rafabene/skillboard/internal/services"
)

// CatalogHandler expõe profissões e habilidades
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler cria um novo CatalogHandler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListProfessions lista as profissões selecionáveis
// @Summary  Lista profissões ativas
// @Tags     catalog
// @Produce  json
// @Success  200  {array}   dto.ProfessionResponse
// @Failure  500  {object}  dto.ErrorResponse
// @Router   /professions [get]
func (h *CatalogHandler) ListProfessions(c *gin.Context) {
	professions, err := h.catalogService.ListProfessions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProfessionResponses(professions))
}

// ListSkills lista as habilidades
// @Summary  Lista habilidades
// @Tags     catalog
// @Produce  json
// @Success  200  {array}   dto.SkillResponse
// @Failure  500  {object}  dto.ErrorResponse
// @Router   /skills [get]
func (h *CatalogHandler) ListSkills(c *gin.Context) {
	skills, err := h.catalogService.ListSkills(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSkillResponses(skills))
}
