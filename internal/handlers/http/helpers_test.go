package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rafabene/skillboard/internal/domain/ports"
	httphandlers "github.com/rafabene/skillboard/internal/handlers/http"
	"github.com/rafabene/skillboard/internal/infrastructure/config"
	"github.com/rafabene/skillboard/internal/infrastructure/flash"
	"github.com/rafabene/skillboard/internal/infrastructure/i18n"
	"github.com/rafabene/skillboard/internal/infrastructure/logging"
	"github.com/rafabene/skillboard/internal/infrastructure/metrics"
	"github.com/rafabene/skillboard/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/skillboard/internal/infrastructure/security"
	"github.com/rafabene/skillboard/internal/services"
	"github.com/rafabene/skillboard/internal/testutil"
	"github.com/rafabene/skillboard/internal/web"
)

// app é a aplicação completa sobre um banco sqlite em memória
type app struct {
	t       *testing.T
	db      *gorm.DB
	handler http.Handler
	users   *services.UserService
	hasher  ports.PasswordHasher
	cookies []*http.Cookie
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	logger := logging.NewNopLogger()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	m := metrics.New()

	userRepo := postgres.NewUserRepository(db)
	professionRepo := postgres.NewProfessionRepository(db)
	skillRepo := postgres.NewSkillRepository(db)

	userService := services.NewUserService(userRepo, professionRepo, skillRepo, postgres.NewUnitOfWork(db), hasher, m, logger)
	catalogService := services.NewCatalogService(professionRepo, skillRepo, logger)

	i18nService, err := i18n.NewEmbeddedService("en")
	require.NoError(t, err)
	flashStore, err := flash.NewStore("test-secret-with-at-least-32-chars!", time.Minute, false)
	require.NoError(t, err)
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	cfg := &config.Config{
		Env:    "test",
		Server: config.ServerConfig{BaseURL: "http://skillboard.test"},
		CORS:   config.CORSConfig{AllowedOrigins: "http://localhost:3000"},
	}

	handler := httphandlers.NewRouter(httphandlers.RouterDeps{
		Config:         cfg,
		UserService:    userService,
		CatalogService: catalogService,
		I18n:           i18nService,
		Flash:          flashStore,
		Renderer:       renderer,
		Metrics:        m,
		Logger:         logger,
	})

	return &app{t: t, db: db, handler: handler, users: userService, hasher: hasher}
}

// do envia a requisição levando os cookies recebidos anteriormente (flash)
func (a *app) do(req *http.Request) *httptest.ResponseRecorder {
	a.t.Helper()
	for _, c := range a.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		a.cookies = removeCookie(a.cookies, c.Name)
		if c.MaxAge >= 0 && c.Value != "" {
			a.cookies = append(a.cookies, c)
		}
	}
	return w
}

func (a *app) get(path string, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return a.do(req)
}

// submit envia um formulário HTML; method diferente de POST vai em _method
func (a *app) submit(method, path string, form url.Values, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if method != http.MethodPost {
		form.Set("_method", method)
	}

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return a.do(req)
}

func (a *app) json(method, path, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}

func (a *app) count(model any) int64 {
	a.t.Helper()
	var n int64
	require.NoError(a.t, a.db.Model(model).Count(&n).Error)
	return n
}

func (a *app) createUser(input services.UserInput) uint {
	a.t.Helper()
	user, err := a.users.CreateUser(context.Background(), input)
	require.NoError(a.t, err)
	return user.ID
}

func removeCookie(cookies []*http.Cookie, name string) []*http.Cookie {
	kept := cookies[:0]
	for _, c := range cookies {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	return kept
}

func pepeForm() url.Values {
	return url.Values{
		"name":     {"Pepe"},
		"email":    {"pepe@mail.es"},
		"password": {"123456"},
		"bio":      {"Programador de Laravel y VueJS"},
		"twitter":  {"https://twitter.com/pepe"},
	}
}
