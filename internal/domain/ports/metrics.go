package ports

// Metrics registra eventos de negócio do gerenciamento de usuários
type Metrics interface {
	UserCreated()
	UserUpdated()
	UserDeleted()
	ValidationFailed(field string)
}

// NoopMetrics descarta todos os eventos
type NoopMetrics struct{}

func (NoopMetrics) UserCreated()            {}
func (NoopMetrics) UserUpdated()            {}
func (NoopMetrics) UserDeleted()            {}
func (NoopMetrics) ValidationFailed(string) {}
