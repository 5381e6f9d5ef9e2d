package domain

// Command representa uma intenção de alterar o estado do sistema.
type Command[T any] interface {
	CommandName() string
	Payload() T
}

// Query representa uma leitura sem efeitos colaterais.
type Query[T any] interface {
	QueryName() string
	Payload() T
}

// Event representa um fato já ocorrido no sistema.
type Event[T any] interface {
	EventName() string
	Payload() T
}

// IDGenerator gera identificadores únicos (ids de requisição, mensagens).
type IDGenerator[T comparable] func() T
