package flash

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName é o cookie que transporta a mensagem flash entre o redirect e o próximo GET
const CookieName = "skillboard_flash"

var ErrInvalidFlash = errors.New("invalid flash token")

// Data é o conteúdo de uma mensagem flash
type Data struct {
	Errors map[string]string      `json:"errors,omitempty"` // campo -> mensagem já traduzida
	Old    map[string]interface{} `json:"old,omitempty"`    // valores submetidos (sem senha)
	Notice string                 `json:"notice,omitempty"`
}

// HasErrors indica se a requisição anterior falhou na validação
func (d Data) HasErrors() bool {
	return len(d.Errors) > 0
}

// Error retorna a mensagem do campo, ou ""
func (d Data) Error(field string) string {
	return d.Errors[field]
}

// OldString retorna o valor submetido anteriormente para um campo escalar
func (d Data) OldString(field string) string {
	if s, ok := d.Old[field].(string); ok {
		return s
	}
	return ""
}

// OldList retorna os valores submetidos anteriormente para um campo lista
func (d Data) OldList(field string) []string {
	raw, ok := d.Old[field].([]interface{})
	if !ok {
		if list, ok := d.Old[field].([]string); ok {
			return list
		}
		return nil
	}
	list := make([]string, 0, len(raw))
	for _, v := range raw {
		list = append(list, fmt.Sprint(v))
	}
	return list
}

type flashClaims struct {
	Flash Data `json:"flash"`
	jwt.RegisteredClaims
}

// Store grava e lê mensagens flash em um cookie assinado (HS256)
type Store struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewStore cria um Store. Sem secret, uma chave aleatória é gerada e as
// mensagens deixam de valer quando o processo reinicia.
func NewStore(secret string, ttl time.Duration, secure bool) (*Store, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate flash key: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{secret: key, ttl: ttl, secure: secure, now: time.Now}, nil
}

// Encode assina data como JWT
func (s *Store) Encode(data Data) (string, error) {
	now := s.now()
	claims := flashClaims{
		Flash: data,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Decode valida assinatura e expiração
func (s *Store) Decode(token string) (Data, error) {
	claims := &flashClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrInvalidFlash, err)
	}
	if !parsed.Valid {
		return Data{}, ErrInvalidFlash
	}
	return claims.Flash, nil
}

// Put grava a mensagem para a próxima requisição
func (s *Store) Put(c *gin.Context, data Data) error {
	token, err := s.Encode(data)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(s.ttl.Seconds()), "/", "", s.secure, true)
	return nil
}

// Pop lê e apaga a mensagem. Cookie ausente, adulterado ou expirado resulta em Data vazio.
func (s *Store) Pop(c *gin.Context) Data {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		return Data{}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", s.secure, true)

	data, err := s.Decode(token)
	if err != nil {
		return Data{}
	}
	return data
}
