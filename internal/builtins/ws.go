package builtins

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sp-uulm/MiniLua-sub001/internal/allocator"
	"github.com/sp-uulm/MiniLua-sub001/internal/environment"
	"github.com/sp-uulm/MiniLua-sub001/internal/errorsx"
	"github.com/sp-uulm/MiniLua-sub001/internal/value"
)

// wsConns mirrors internal/vm/network_websocket.go's connID->connection
// map, generalized from VM-native ws_connect/ws_send/ws_receive/ws_close
// functions to evaluator built-ins keyed by an integer handle.
var (
	wsMu     sync.Mutex
	wsConns  = map[int64]*websocket.Conn{}
	wsNextID int64
)

func registerWS(env *environment.Environment, arena *allocator.Arena) {
	env.Add("ws.connect", fn("ws.connect", func(args value.Vallist) (value.Vallist, error) {
		url, err := argString(args, 0, "ws.connect")
		if err != nil {
			return nil, err
		}
		conn, _, derr := websocket.DefaultDialer.Dial(url, nil)
		if derr != nil {
			return nil, errorsx.New(errorsx.RuntimeAssertion, "ws.connect: "+derr.Error(), derr)
		}
		wsMu.Lock()
		id := atomic.AddInt64(&wsNextID, 1)
		wsConns[id] = conn
		wsMu.Unlock()
		return value.NewVallist(value.Int(id)), nil
	}))

	env.Add("ws.send", fn("ws.send", func(args value.Vallist) (value.Vallist, error) {
		h := args.Get(0)
		if !h.IsNumber() {
			return nil, badArg(1, "ws.send", "expected a handle from ws.connect")
		}
		msg, err := argString(args, 1, "ws.send")
		if err != nil {
			return nil, err
		}
		conn, ok := wsConn(h)
		if !ok {
			return nil, badArg(1, "ws.send", "handle is not open")
		}
		if werr := conn.WriteMessage(websocket.TextMessage, []byte(msg)); werr != nil {
			return nil, errorsx.New(errorsx.RuntimeAssertion, "ws.send: "+werr.Error(), werr)
		}
		return value.NewVallist(value.Bool(true)), nil
	}))

	env.Add("ws.recv", fn("ws.recv", func(args value.Vallist) (value.Vallist, error) {
		h := args.Get(0)
		if !h.IsNumber() {
			return nil, badArg(1, "ws.recv", "expected a handle from ws.connect")
		}
		conn, ok := wsConn(h)
		if !ok {
			return nil, badArg(1, "ws.recv", "handle is not open")
		}
		if len(args) > 1 && args.Get(1).IsNumber() {
			conn.SetReadDeadline(time.Now().Add(time.Duration(args.Get(1).AsNumber().Float() * float64(time.Second))))
		}
		_, data, rerr := conn.ReadMessage()
		if rerr != nil {
			return nil, errorsx.New(errorsx.RuntimeAssertion, "ws.recv: "+rerr.Error(), rerr)
		}
		return value.NewVallist(value.String(string(data)).WithOrigin(value.ExternalFunction{Name: "ws.recv"})), nil
	}))

	env.Add("ws.close", fn("ws.close", func(args value.Vallist) (value.Vallist, error) {
		h := args.Get(0)
		if !h.IsNumber() {
			return nil, badArg(1, "ws.close", "expected a handle from ws.connect")
		}
		wsMu.Lock()
		conn, ok := wsConns[h.AsNumber().I]
		delete(wsConns, h.AsNumber().I)
		wsMu.Unlock()
		if !ok {
			return value.NewVallist(value.Bool(false)), nil
		}
		_ = conn.Close()
		return value.NewVallist(value.Bool(true)), nil
	}))
}

func wsConn(h value.Value) (*websocket.Conn, bool) {
	wsMu.Lock()
	defer wsMu.Unlock()
	c, ok := wsConns[h.AsNumber().I]
	return c, ok
}
