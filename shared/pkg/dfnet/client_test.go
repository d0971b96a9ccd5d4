package dfnet_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"FortressVox/shared/pkg/dfnet"
	"FortressVox/shared/pkg/dfnet/dfnettest"
)

func iniciar(t *testing.T) *dfnettest.Servidor {
	t.Helper()
	s, err := dfnettest.Novo()
	if err != nil {
		t.Fatalf("servidor falso: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestBindECall(t *testing.T) {
	s := iniciar(t)
	s.Texto = "olá do console"
	s.Registrar("Teste", "Eco", func(req []byte) ([]byte, error) {
		return append([]byte("eco:"), req...), nil
	})

	ctx := context.Background()
	c, err := dfnet.NewRawClient(ctx, s.Addr, dfnet.Opcoes{})
	if err != nil {
		t.Fatalf("NewRawClient: %v", err)
	}
	defer c.Close()

	id, err := c.BindMethod(ctx, "Eco", "a", "b", "Teste")
	if err != nil {
		t.Fatalf("BindMethod: %v", err)
	}
	again, err := c.BindMethod(ctx, "Eco", "a", "b", "Teste")
	if err != nil || again != id {
		t.Errorf("BindMethod repetido = (%d, %v), want (%d, nil)", again, err, id)
	}

	resp, err := c.CallRaw(ctx, id, []byte("x"))
	if err != nil {
		t.Fatalf("CallRaw: %v", err)
	}
	if string(resp) != "eco:x" {
		t.Errorf("CallRaw = %q, want %q", resp, "eco:x")
	}
	if n := s.Chamadas("Teste", "Eco"); n != 1 {
		t.Errorf("Chamadas = %d, want 1", n)
	}
}

func TestBindMetodoAusenteEhErroDeVersao(t *testing.T) {
	s := iniciar(t)
	ctx := context.Background()
	c, err := dfnet.NewRawClient(ctx, s.Addr, dfnet.Opcoes{})
	if err != nil {
		t.Fatalf("NewRawClient: %v", err)
	}
	defer c.Close()

	_, err = c.BindMethod(ctx, "GetBlockList", "a", "b", "RemoteFortressReader")
	if !errors.Is(err, dfnet.ErrVersao) {
		t.Errorf("BindMethod = %v, want ErrVersao", err)
	}
}

func TestHandshakeIncompativel(t *testing.T) {
	s := iniciar(t)
	s.Magic = "DFHack!\n\x02\x00\x00\x00"
	_, err := dfnet.NewRawClient(context.Background(), s.Addr, dfnet.Opcoes{})
	if !errors.Is(err, dfnet.ErrVersao) {
		t.Errorf("NewRawClient = %v, want ErrVersao", err)
	}
}

func TestConexaoRecusada(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, err = dfnet.NewRawClient(context.Background(), addr, dfnet.Opcoes{TimeoutConexao: time.Second})
	if !errors.Is(err, dfnet.ErrConexao) {
		t.Errorf("NewRawClient = %v, want ErrConexao", err)
	}
}

func TestCallCancelado(t *testing.T) {
	s := iniciar(t)
	bloquear := make(chan struct{})
	t.Cleanup(func() { close(bloquear) })
	s.Registrar("Teste", "Lento", func([]byte) ([]byte, error) {
		<-bloquear
		return nil, nil
	})

	c, err := dfnet.NewRawClient(context.Background(), s.Addr, dfnet.Opcoes{})
	if err != nil {
		t.Fatalf("NewRawClient: %v", err)
	}
	defer c.Close()
	id, err := c.BindMethod(context.Background(), "Lento", "a", "b", "Teste")
	if err != nil {
		t.Fatalf("BindMethod: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.CallRaw(ctx, id, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("CallRaw = %v, want context.DeadlineExceeded", err)
	}
}
