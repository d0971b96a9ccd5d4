// Package dfnettest fornece um servidor DFHack falso para testes.
package dfnettest

import (
	"bufio"
	"encoding/binary"
	"io"
	"net"
	"sync"

	"FortressVox/shared/pkg/dfnet"
	"FortressVox/shared/pkg/dfproto"
)

// Handler responde a uma chamada com o payload serializado da resposta.
// Retornar erro envia RPC_REPLY_FAIL.
type Handler func(req []byte) ([]byte, error)

// Servidor aceita conexões locais e atende métodos registrados.
type Servidor struct {
	Addr string

	// Magic permite simular um servidor de versão incompatível.
	Magic string
	// Texto, se não vazio, é enviado como notificação antes de cada resultado.
	Texto string

	ln       net.Listener
	mu       sync.Mutex
	handlers map[string]Handler
	porID    map[int16]string
	chamadas map[string]int
	wg       sync.WaitGroup
}

// Novo inicia o servidor em 127.0.0.1 numa porta livre.
func Novo() (*Servidor, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &Servidor{
		Addr:     ln.Addr().String(),
		Magic:    dfnet.ServerMagic,
		ln:       ln,
		handlers: make(map[string]Handler),
		porID:    make(map[int16]string),
		chamadas: make(map[string]int),
	}
	s.wg.Add(1)
	go s.aceitar()
	return s, nil
}

// Registrar associa um handler a plugin.metodo. Plugin vazio é o core.
func (s *Servidor) Registrar(plugin, metodo string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[plugin+"."+metodo] = h
}

// Chamadas conta quantas vezes plugin.metodo foi invocado.
func (s *Servidor) Chamadas(plugin, metodo string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chamadas[plugin+"."+metodo]
}

// Close encerra o listener e espera as conexões terminarem.
func (s *Servidor) Close() {
	s.ln.Close()
	s.wg.Wait()
}

func (s *Servidor) aceitar() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer conn.Close()
			s.atender(conn)
		}()
	}
}

func escrever(w io.Writer, id int16, body []byte) error {
	header := make([]byte, 8)
	binary.LittleEndian.PutUint16(header[0:], uint16(id))
	binary.LittleEndian.PutUint32(header[4:], uint32(len(body)))
	_, err := w.Write(append(header, body...))
	return err
}

func (s *Servidor) atender(conn net.Conn) {
	r := bufio.NewReader(conn)
	magic := make([]byte, len(dfnet.ClientMagic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != dfnet.ClientMagic {
		return
	}
	if _, err := conn.Write([]byte(s.Magic)); err != nil {
		return
	}

	header := make([]byte, 8)
	for {
		if _, err := io.ReadFull(r, header); err != nil {
			return
		}
		id := int16(binary.LittleEndian.Uint16(header[0:]))
		body := make([]byte, binary.LittleEndian.Uint32(header[4:]))
		if _, err := io.ReadFull(r, body); err != nil {
			return
		}

		resp, falha := s.despachar(id, body)
		if falha {
			falhaHeader := make([]byte, 8)
			var falhaID int16 = dfnet.RPC_REPLY_FAIL
			binary.LittleEndian.PutUint16(falhaHeader[0:], uint16(falhaID))
			binary.LittleEndian.PutUint32(falhaHeader[4:], 1)
			if _, err := conn.Write(falhaHeader); err != nil {
				return
			}
			continue
		}
		if s.Texto != "" {
			nota := dfproto.CoreTextNotification{Fragments: []dfproto.CoreTextFragment{{Text: s.Texto}}}
			data, _ := nota.Marshal()
			if err := escrever(conn, dfnet.RPC_REPLY_TEXT, data); err != nil {
				return
			}
		}
		if err := escrever(conn, dfnet.RPC_REPLY_RESULT, resp); err != nil {
			return
		}
	}
}

func (s *Servidor) despachar(id int16, body []byte) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == 0 {
		var req dfproto.CoreBindRequest
		if err := req.Unmarshal(body); err != nil {
			return nil, true
		}
		nome := req.Plugin + "." + req.Method
		if _, ok := s.handlers[nome]; !ok {
			return nil, true
		}
		novo := int16(100 + len(s.porID))
		s.porID[novo] = nome
		reply := dfproto.CoreBindReply{AssignedID: int32(novo)}
		data, _ := reply.Marshal()
		return data, false
	}

	nome, ok := s.porID[id]
	if !ok {
		return nil, true
	}
	s.chamadas[nome]++
	resp, err := s.handlers[nome](body)
	if err != nil {
		return nil, true
	}
	return resp, false
}
