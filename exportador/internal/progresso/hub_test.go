package progresso

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type evento struct {
	Etapa  string `json:"etapa"`
	Feitos int    `json:"feitos"`
}

func TestPublicarNaoBloqueia(t *testing.T) {
	h := NovoHub()
	feito := make(chan struct{})
	go func() {
		for i := range 100 {
			h.Publicar(evento{Etapa: "niveis", Feitos: i})
		}
		close(feito)
	}()
	select {
	case <-feito:
	case <-time.After(2 * time.Second):
		t.Fatal("Publicar bloqueou sem ninguém consumindo")
	}
	if got := h.Descartes(); got != 100-cap(h.broadcast) {
		t.Errorf("Descartes() = %d, want %d", got, 100-cap(h.broadcast))
	}
}

func TestPublicarNilNaoQuebra(t *testing.T) {
	var h *Hub
	h.Publicar(evento{Etapa: "x"})
}

func TestClienteRecebeEvento(t *testing.T) {
	h := NovoHub()
	ctx, cancelar := context.WithCancel(context.Background())
	defer cancelar()
	go h.Executar(ctx)

	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%s) erro: %v", url, err)
	}
	defer conn.Close()

	h.Publicar(evento{Etapa: "niveis", Feitos: 3})

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() erro: %v", err)
	}
	var ev evento
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("mensagem %q não é JSON: %v", msg, err)
	}
	if ev != (evento{Etapa: "niveis", Feitos: 3}) {
		t.Errorf("evento = %+v, want niveis/3", ev)
	}
}
