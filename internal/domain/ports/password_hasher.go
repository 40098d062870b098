package ports

// PasswordHasher aplica hash unidirecional às senhas
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}
