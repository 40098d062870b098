package entities

// Role representa o papel de um usuário no sistema
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// DefaultRole é atribuído quando o papel não é informado
const DefaultRole = RoleUser

// Roles retorna os papéis aceitos, na ordem exibida nos formulários
func Roles() []Role {
	return []Role{RoleUser, RoleAdmin}
}

// IsValid verifica se o papel pertence ao conjunto conhecido
func (r Role) IsValid() bool {
	for _, known := range Roles() {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
