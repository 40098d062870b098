package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/rafabene/skillboard/internal/infrastructure/i18n"
)

const (
	// LanguageContextKey é a chave usada para armazenar o idioma no contexto do Gin
	LanguageContextKey = "language"
	// I18nServiceContextKey é a chave usada para armazenar o serviço i18n no contexto
	I18nServiceContextKey = "i18n_service"
	// LanguageCookie guarda o idioma escolhido via ?lang= para as páginas seguintes
	LanguageCookie = "lang"

	languageCookieMaxAge = 365 * 24 * 60 * 60
)

// I18nMiddleware gerencia a detecção de idioma nas requisições
type I18nMiddleware struct {
	i18nService *i18n.Service
	supported   []string
	matcher     language.Matcher
}

// NewI18nMiddleware cria um novo middleware de i18n.
// O idioma padrão é a primeira opção do matcher.
func NewI18nMiddleware(i18nService *i18n.Service) *I18nMiddleware {
	supported := []string{i18nService.GetDefaultLanguage()}
	for _, lang := range i18nService.GetSupportedLanguages() {
		if lang != supported[0] {
			supported = append(supported, lang)
		}
	}

	tags := make([]language.Tag, 0, len(supported))
	for _, lang := range supported {
		tags = append(tags, language.Make(lang))
	}

	return &I18nMiddleware{
		i18nService: i18nService,
		supported:   supported,
		matcher:     language.NewMatcher(tags),
	}
}

// DetectLanguage detecta e configura o idioma da requisição
// Prioridade:
// 1. Query parameter ?lang=pt-BR (override explícito, lembrado em cookie)
// 2. Cookie lang (escolha anterior; sobrevive aos redirects dos formulários)
// 3. Accept-Language header (preferência do browser)
// 4. Idioma padrão (fallback)
func (m *I18nMiddleware) DetectLanguage() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := m.match(c.Query("lang"))
		if lang != "" {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(LanguageCookie, lang, languageCookieMaxAge, "/", "", false, true)
		}

		if lang == "" {
			if cookie, err := c.Cookie(LanguageCookie); err == nil {
				lang = m.match(cookie)
			}
		}

		if lang == "" {
			lang = m.parseAcceptLanguage(c.GetHeader("Accept-Language"))
		}

		if lang == "" {
			lang = m.i18nService.GetDefaultLanguage()
		}

		// Armazenar idioma e serviço no contexto
		c.Set(LanguageContextKey, lang)
		c.Set(I18nServiceContextKey, m.i18nService)
		c.Header("Content-Language", lang)

		c.Next()
	}
}

// parseAcceptLanguage analisa o header Accept-Language (com pesos q) e retorna o
// melhor idioma suportado, ou "" quando nenhum serve.
// Exemplo: "pt,en;q=0.8" -> "pt-BR"
func (m *I18nMiddleware) parseAcceptLanguage(acceptLang string) string {
	if acceptLang == "" {
		return ""
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return m.best(tags...)
}

// match resolve um único código de idioma (query ou cookie)
func (m *I18nMiddleware) match(code string) string {
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return m.best(tag)
}

func (m *I18nMiddleware) best(tags ...language.Tag) string {
	_, index, confidence := m.matcher.Match(tags...)
	if confidence == language.No {
		return ""
	}
	return m.supported[index]
}
