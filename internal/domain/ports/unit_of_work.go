package ports

import "context"

// UnitOfWork define a interface para gerenciamento de transações.
// fn recebe um contexto que carrega a transação; repositórios chamados com
// esse contexto participam dela. Erro retornado por fn desfaz tudo.
type UnitOfWork interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
