// Package progresso publica o andamento de uma exportação para clientes
// WebSocket. A publicação nunca bloqueia: se o buffer estiver cheio, o evento
// é descartado.
package progresso

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"FortressVox/shared/logger"
)

var log = logger.Com("progresso")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub mantém os clientes conectados e repassa os eventos publicados.
type Hub struct {
	clientes  map[*websocket.Conn]*sync.Mutex
	broadcast chan []byte
	registrar chan *websocket.Conn
	remover   chan *websocket.Conn
	fim       chan struct{}
	mu        sync.Mutex
	ultimo    []byte
	descartes int
}

func NovoHub() *Hub {
	return &Hub{
		clientes:  make(map[*websocket.Conn]*sync.Mutex),
		broadcast: make(chan []byte, 64),
		registrar: make(chan *websocket.Conn),
		remover:   make(chan *websocket.Conn),
		fim:       make(chan struct{}),
	}
}

// Publicar serializa v em JSON e o enfileira para todos os clientes. O último
// evento é guardado e enviado a quem conectar depois.
func (h *Hub) Publicar(v any) {
	if h == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Warn("evento de progresso não serializável")
		return
	}
	h.mu.Lock()
	h.ultimo = data
	h.mu.Unlock()

	select {
	case h.broadcast <- data:
	default:
		h.mu.Lock()
		h.descartes++
		h.mu.Unlock()
	}
}

// Descartes conta os eventos perdidos por buffer cheio.
func (h *Hub) Descartes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.descartes
}

// Executar distribui os eventos até o contexto terminar; então fecha todos os
// clientes. Só pode ser chamado uma vez.
func (h *Hub) Executar(ctx context.Context) {
	defer close(h.fim)
	defer h.fecharTodos()
	for {
		select {
		case <-ctx.Done():
			return
		case conn := <-h.registrar:
			h.mu.Lock()
			h.clientes[conn] = &sync.Mutex{}
			ultimo := h.ultimo
			h.mu.Unlock()
			log.WithField("cliente", conn.RemoteAddr().String()).Debug("cliente registrado")
			if ultimo != nil {
				h.escrever(conn, ultimo)
			}
		case conn := <-h.remover:
			h.mu.Lock()
			if lock, ok := h.clientes[conn]; ok {
				lock.Lock()
				delete(h.clientes, conn)
				conn.Close()
				lock.Unlock()
				log.WithField("cliente", conn.RemoteAddr().String()).Debug("cliente removido")
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			alvos := make([]*websocket.Conn, 0, len(h.clientes))
			for c := range h.clientes {
				alvos = append(alvos, c)
			}
			h.mu.Unlock()
			for _, c := range alvos {
				h.escrever(c, msg)
			}
		}
	}
}

// escrever garante um único escritor por conexão e derruba clientes com erro.
func (h *Hub) escrever(conn *websocket.Conn, msg []byte) {
	h.mu.Lock()
	lock, ok := h.clientes[conn]
	h.mu.Unlock()
	if !ok {
		return
	}
	lock.Lock()
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	err := conn.WriteMessage(websocket.TextMessage, msg)
	lock.Unlock()
	if err != nil {
		log.WithError(err).WithField("cliente", conn.RemoteAddr().String()).Debug("falha ao enviar, removendo cliente")
		h.mu.Lock()
		delete(h.clientes, conn)
		h.mu.Unlock()
		conn.Close()
	}
}

func (h *Hub) fecharTodos() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clientes {
		c.Close()
		delete(h.clientes, c)
	}
}

// ServeHTTP faz o upgrade e mantém a conexão até o cliente sair. Mensagens
// recebidas são ignoradas.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("upgrade do WebSocket falhou")
		return
	}
	select {
	case h.registrar <- conn:
	case <-h.fim:
		conn.Close()
		return
	}
	go func() {
		defer func() {
			select {
			case h.remover <- conn:
			case <-h.fim:
				conn.Close()
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Servir atende /ws em endereco até o contexto terminar.
func (h *Hub) Servir(ctx context.Context, endereco string) error {
	ln, err := net.Listen("tcp", endereco)
	if err != nil {
		return err
	}
	return h.ServirListener(ctx, ln)
}

func (h *Hub) ServirListener(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		encerrar, cancelar := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancelar()
		srv.Shutdown(encerrar)
	}()

	log.WithField("endereco", ln.Addr().String()).Info("progresso disponível em /ws")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
