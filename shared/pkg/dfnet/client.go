package dfnet

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"FortressVox/shared/logger"
	"FortressVox/shared/pkg/dfproto"
)

const (
	// Magic strings do handshake do DFHack
	ClientMagic = "DFHack?\n\x01\x00\x00\x00"
	ServerMagic = "DFHack!\n\x01\x00\x00\x00"

	// IDs de RPC fixos do protocolo core
	RPC_REPLY_RESULT = -1
	RPC_REPLY_FAIL   = -2
	RPC_REPLY_TEXT   = -3
	RPC_REQUEST_QUIT = -4

	// ID 0 é fixo para o CoreBindRequest
	rpcBindMethod = 0

	tamanhoMaximoResposta = 64 << 20
)

var (
	// ErrConexao cobre falhas de transporte: conexão recusada, queda, timeout.
	ErrConexao = errors.New("falha de conexão com o DFHack")
	// ErrVersao indica servidor ou plugin incompatível.
	ErrVersao = errors.New("versão do DFHack incompatível")
)

// Opcoes controla os timeouts do cliente. Zero usa os padrões.
type Opcoes struct {
	TimeoutConexao time.Duration
	TimeoutLeitura time.Duration
}

// RawClient gerencia a conexão de baixo nível e o transporte RPC.
type RawClient struct {
	conn      net.Conn
	reader    *bufio.Reader
	methodIDs map[string]int16
	timeout   time.Duration
	log       *logrus.Entry
	mutex     sync.Mutex
}

// NewRawClient conecta ao DFHack e realiza o handshake inicial.
func NewRawClient(ctx context.Context, address string, op Opcoes) (*RawClient, error) {
	if op.TimeoutConexao <= 0 {
		op.TimeoutConexao = 15 * time.Second
	}
	d := net.Dialer{Timeout: op.TimeoutConexao}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConexao, address, err)
	}
	c, err := NewRawClientConn(ctx, conn, op)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// NewRawClientConn faz o handshake sobre uma conexão já aberta.
func NewRawClientConn(ctx context.Context, conn net.Conn, op Opcoes) (*RawClient, error) {
	if op.TimeoutLeitura <= 0 {
		op.TimeoutLeitura = 60 * time.Second
	}
	c := &RawClient{
		conn:      conn,
		reader:    bufio.NewReader(conn),
		methodIDs: make(map[string]int16),
		timeout:   op.TimeoutLeitura,
		log:       logger.Com("dfnet"),
	}
	if err := c.handshake(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *RawClient) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// vigiar interrompe E/S pendente quando ctx é cancelado.
func (c *RawClient) vigiar(ctx context.Context) func() bool {
	c.conn.SetDeadline(time.Now().Add(c.timeout))
	return context.AfterFunc(ctx, func() {
		c.conn.SetDeadline(time.Unix(1, 0))
	})
}

func (c *RawClient) erroTransporte(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %v", ErrConexao, err)
}

func (c *RawClient) handshake(ctx context.Context) error {
	parar := c.vigiar(ctx)
	defer parar()

	if _, err := c.conn.Write([]byte(ClientMagic)); err != nil {
		return c.erroTransporte(ctx, err)
	}

	buf := make([]byte, len(ServerMagic))
	if _, err := io.ReadFull(c.reader, buf); err != nil {
		return c.erroTransporte(ctx, err)
	}

	if string(buf) != ServerMagic {
		return fmt.Errorf("%w: handshake com magic string inválida %q", ErrVersao, buf)
	}
	return nil
}

// BindMethod registra um método de um plugin e retorna seu ID numérico.
// Um bind recusado significa que o plugin não oferece o método.
func (c *RawClient) BindMethod(ctx context.Context, method, inputMsg, outputMsg, plugin string) (int16, error) {
	key := method + ":" + plugin
	c.mutex.Lock()
	id, ok := c.methodIDs[key]
	c.mutex.Unlock()
	if ok {
		return id, nil
	}

	req := dfproto.CoreBindRequest{
		Method:    method,
		InputMsg:  inputMsg,
		OutputMsg: outputMsg,
		Plugin:    plugin,
	}
	reqData, _ := req.Marshal()

	replyData, err := c.CallRaw(ctx, rpcBindMethod, reqData)
	if err != nil {
		var rpcErr *ErroRPC
		if errors.As(err, &rpcErr) {
			return 0, fmt.Errorf("%w: %s.%s indisponível (código %d)", ErrVersao, plugin, method, rpcErr.Codigo)
		}
		return 0, err
	}

	var reply dfproto.CoreBindReply
	if err := reply.Unmarshal(replyData); err != nil {
		return 0, fmt.Errorf("%w: resposta de bind ilegível: %v", ErrVersao, err)
	}

	id = int16(reply.AssignedID)
	c.mutex.Lock()
	c.methodIDs[key] = id
	c.mutex.Unlock()
	return id, nil
}

// ErroRPC é uma falha reportada pelo próprio DFHack (RPC_REPLY_FAIL).
type ErroRPC struct {
	Codigo int32
}

func (e *ErroRPC) Error() string {
	return fmt.Sprintf("RPC erro: código %d", e.Codigo)
}

// CallRaw executa uma chamada RPC bruta enviando o ID e o payload binário.
func (c *RawClient) CallRaw(ctx context.Context, id int16, data []byte) ([]byte, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	parar := c.vigiar(ctx)
	defer parar()

	// Header: ID(2) + Padding(2) + Size(4)
	header := make([]byte, 8)
	binary.LittleEndian.PutUint16(header[0:], uint16(id))
	binary.LittleEndian.PutUint32(header[4:], uint32(len(data)))

	if _, err := c.conn.Write(append(header, data...)); err != nil {
		return nil, c.erroTransporte(ctx, err)
	}

	for {
		if _, err := io.ReadFull(c.reader, header); err != nil {
			return nil, c.erroTransporte(ctx, err)
		}

		replyID := int16(binary.LittleEndian.Uint16(header[0:]))
		size := int32(binary.LittleEndian.Uint32(header[4:]))

		if replyID == RPC_REPLY_FAIL {
			return nil, &ErroRPC{Codigo: size}
		}
		if size < 0 || size > tamanhoMaximoResposta {
			return nil, fmt.Errorf("%w: tamanho de resposta inválido %d", ErrConexao, size)
		}

		body := make([]byte, size)
		if _, err := io.ReadFull(c.reader, body); err != nil {
			return nil, c.erroTransporte(ctx, err)
		}

		switch replyID {
		case RPC_REPLY_RESULT:
			return body, nil
		case RPC_REPLY_TEXT:
			var nota dfproto.CoreTextNotification
			if err := nota.Unmarshal(body); err == nil && nota.Texto() != "" {
				c.log.Debug(nota.Texto())
			}
			continue
		case RPC_REQUEST_QUIT:
			return nil, fmt.Errorf("%w: servidor encerrou a sessão", ErrConexao)
		default:
			return nil, fmt.Errorf("%w: ID de resposta inesperado: %d", ErrVersao, replyID)
		}
	}
}
