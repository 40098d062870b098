package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/skillboard/internal/handlers/middleware"
	"github.com/rafabene/skillboard/internal/infrastructure/i18n"
)

// fallbackLanguage vale só quando o middleware de i18n não rodou
const fallbackLanguage = "en"

// T é um helper para traduzir mensagens no contexto do Gin
// Uso: dto.T(c, "users.show.title", map[string]interface{}{"ID": user.ID})
func T(c *gin.Context, key string, params ...map[string]interface{}) string {
	service := i18nService(c)
	if service == nil {
		// Sem serviço, a chave volta como está
		return key
	}
	return service.T(GetLanguage(c), key, params...)
}

// Translator fixa o idioma da requisição; é o "T" das páginas HTML
func Translator(c *gin.Context) func(key string, params ...map[string]interface{}) string {
	service := i18nService(c)
	if service == nil {
		return func(key string, _ ...map[string]interface{}) string { return key }
	}
	return service.Translator(GetLanguage(c))
}

// GetLanguage retorna o idioma configurado no contexto da requisição
func GetLanguage(c *gin.Context) string {
	if lang, ok := c.Get(middleware.LanguageContextKey); ok {
		if langStr, ok := lang.(string); ok && langStr != "" {
			return langStr
		}
	}
	if service := i18nService(c); service != nil {
		return service.GetDefaultLanguage()
	}
	return fallbackLanguage
}

func i18nService(c *gin.Context) *i18n.Service {
	value, exists := c.Get(middleware.I18nServiceContextKey)
	if !exists {
		return nil
	}
	service, _ := value.(*i18n.Service)
	return service
}
