// Package web contém as views HTML embutidas no binário.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"

	"github.com/rafabene/skillboard/internal/domain/entities"
)

//go:embed templates/*.html templates/partials/*.html
var templates embed.FS

// Nomes das páginas aceitos por Renderer.Instance / c.HTML
const (
	PageUsersIndex  = "users/index"
	PageUsersShow   = "users/show"
	PageUsersCreate = "users/create"
	PageUsersEdit   = "users/edit"
	PageNotFound    = "errors/404"
	PageInternal    = "errors/500"
)

// Translator traduz um message ID no idioma da requisição
type Translator func(key string, params ...map[string]interface{}) string

// Page são os dados comuns a todas as páginas
type Page struct {
	Lang   string
	Title  string
	T      Translator
	Notice string
	Errors map[string]string // campo -> mensagem traduzida
}

// HasErrors indica erros de validação vindos do redirect anterior
func (p Page) HasErrors() bool {
	return len(p.Errors) > 0
}

// IndexPage é a listagem de usuários
type IndexPage struct {
	Page
	Users []*entities.User
}

// ShowPage é o detalhe de um usuário
type ShowPage struct {
	Page
	User *entities.User
}

// FormValues são os valores exibidos no formulário
type FormValues struct {
	Name         string
	Email        string
	Role         string
	Bio          string
	Twitter      string
	ProfessionID uint
	Skills       map[uint]bool
}

// FormPage é o formulário de criação ou edição
type FormPage struct {
	Page
	Action      string
	Method      string // PUT na edição, via _method
	Submit      string
	UserID      uint
	Values      FormValues
	Professions []entities.Profession
	Skills      []entities.Skill
	Roles       []entities.Role
}

// ErrorPage é a página de erro (404/500)
type ErrorPage struct {
	Page
	Message string
}

// Renderer implementa render.HTMLRender do Gin com um template por página
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer compila todas as páginas embutidas
func NewRenderer() (*Renderer, error) {
	return NewRendererFS(templates)
}

// NewRendererFS compila as páginas de fsys (templates/*.html + templates/partials/*.html)
func NewRendererFS(fsys fs.FS) (*Renderer, error) {
	partials, err := fs.Glob(fsys, "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		// templates/users_index.html -> users/index
		name := strings.Replace(strings.TrimSuffix(path.Base(file), ".html"), "_", "/", 1)

		patterns := append([]string{file}, partials...)
		tmpl, err := template.New(path.Base(file)).Funcs(funcs).ParseFS(fsys, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Instance implementa render.HTMLRender
func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		panic("web: unknown page " + name)
	}
	return render.HTML{Template: tmpl, Name: "page", Data: data}
}

// Has indica se a página existe
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

var funcs = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"roleKey": func(role entities.Role) string {
		return "role." + role.String()
	},
}
