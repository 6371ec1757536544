package server

// Server объединяет HTTP-обработчики отдельных сущностей.
type Server struct {
	DealServer
}

func NewServer(
	dealServer DealServer,
) Server {
	return Server{
		DealServer: dealServer,
	}
}
