// Package boundary bridges a controller shim to the routing core over
// websocket. It is the event-delivery side the core treats as opaque:
// JSON packet events in, forward/install effects out, plus a read-only
// snapshot of the federated state.
package boundary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/fedroute/fedroute/routing"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// switchConn is one registered shim connection. Writes are serialized per
// connection; gorilla conns do not support concurrent writers.
type switchConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (sc *switchConn) writeJSON(v interface{}) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.conn.WriteJSON(v)
}

// Server accepts shim connections, feeds their events to the routing
// core, and writes the core's effects back to the connection registered
// for the target datapath.
//
// Decisions are cached per (datapath, src, dst) with TTL eviction — the
// software stand-in for the hardware flow-table entry a real switch would
// install: a cache hit forwards without re-entering the decision path, so
// the core only sees the first packet of a flow per TTL window.
type Server struct {
	addr  string
	core  *routing.Core
	cache *bigcache.BigCache

	mu    sync.Mutex
	conns map[routing.DatapathID]*switchConn
}

// NewServer creates a Server listening on addr once Run is called.
// Attach must be called before Run. cacheTTL <= 0 disables the decision
// cache.
func NewServer(addr string, cacheTTL time.Duration) (*Server, error) {
	s := &Server{
		addr:  addr,
		conns: make(map[routing.DatapathID]*switchConn),
	}
	if cacheTTL > 0 {
		cache, err := bigcache.New(context.Background(), bigcache.DefaultConfig(cacheTTL))
		if err != nil {
			return nil, fmt.Errorf("decision cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Attach wires the core whose effects this server delivers. The server
// itself is the core's Boundary, so construction is two-phase:
// NewServer, then routing.NewCore with the server, then Attach.
func (s *Server) Attach(core *routing.Core) {
	s.core = core
}

// Handler returns the HTTP handler serving /events and /tables.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/tables", s.handleTables)
	return mux
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	logrus.Infof("Boundary bridge listening on %s", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

// InstallDefaultRule implements routing.Boundary.
func (s *Server) InstallDefaultRule(dpid routing.DatapathID, rule routing.FlowRule) error {
	sc, err := s.connFor(dpid)
	if err != nil {
		return err
	}
	return sc.writeJSON(EffectMessage{
		Type:             EffectInstallRule,
		Datapath:         string(dpid),
		Priority:         rule.Priority,
		MatchAll:         rule.MatchAll,
		SendToController: rule.SendToController,
	})
}

// Forward implements routing.Boundary.
func (s *Server) Forward(ev routing.PacketEvent, action routing.Action) error {
	sc, err := s.connFor(ev.Datapath)
	if err != nil {
		return err
	}
	msg := EffectMessage{
		Type:     EffectForward,
		Datapath: string(ev.Datapath),
		EventID:  ev.ID,
		Action:   string(action),
		Buffered: ev.Buffered,
	}
	if !ev.Buffered {
		// Payload was not buffered at the switch; resend it verbatim.
		msg.Payload = ev.Payload
	}
	return sc.writeJSON(msg)
}

func (s *Server) connFor(dpid routing.DatapathID) (*switchConn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.conns[dpid]
	if !ok {
		return nil, fmt.Errorf("no connection registered for datapath %s", dpid)
	}
	return sc, nil
}

func (s *Server) register(dpid routing.DatapathID, sc *switchConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[dpid] = sc
}

func (s *Server) unregister(dpid routing.DatapathID, sc *switchConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// A reconnect may have replaced the registration already.
	if s.conns[dpid] == sc {
		delete(s.conns, dpid)
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("Upgrade failed: %v", err)
		return
	}
	sc := &switchConn{conn: conn}
	defer conn.Close()

	var registered []routing.DatapathID
	defer func() {
		for _, dpid := range registered {
			s.unregister(dpid, sc)
		}
	}()

	logrus.Infof("Shim connected from %s", r.RemoteAddr)

	for {
		var msg EventMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logrus.Warnf("Read error from %s: %v", r.RemoteAddr, err)
			}
			return
		}
		if err := s.dispatch(sc, msg, &registered); err != nil {
			if werr := sc.writeJSON(EffectMessage{Type: EffectError, Error: err.Error()}); werr != nil {
				logrus.Warnf("Write error to %s: %v", r.RemoteAddr, werr)
				return
			}
		}
	}
}

func (s *Server) dispatch(sc *switchConn, msg EventMessage, registered *[]routing.DatapathID) error {
	switch msg.Type {
	case EventSwitchConnected:
		if msg.Datapath == "" {
			return fmt.Errorf("switch_connected without datapath")
		}
		dpid := routing.DatapathID(msg.Datapath)
		s.register(dpid, sc)
		*registered = append(*registered, dpid)
		return s.core.OnSwitchConnected(dpid)

	case EventPacketObserved:
		if msg.Datapath == "" || msg.Src == "" || msg.Dst == "" {
			return fmt.Errorf("packet_observed missing datapath/src/dst")
		}
		ev := routing.PacketEvent{
			Datapath: routing.DatapathID(msg.Datapath),
			Src:      routing.Address(msg.Src),
			Dst:      routing.Address(msg.Dst),
			InPort:   msg.InPort,
			Buffered: msg.Buffered,
			Payload:  msg.Payload,
		}
		return s.handlePacket(sc, ev)

	case EventSnapshot:
		return sc.writeJSON(EffectMessage{
			Type:   EffectSnapshot,
			Global: exportGlobal(s.core.GlobalSnapshot()),
			Trust:  exportTrust(s.core.TrustSnapshot()),
		})

	default:
		return fmt.Errorf("unknown event type %q", msg.Type)
	}
}

// handlePacket serves from the decision cache when possible, otherwise
// runs the full decision path and caches the chosen action.
func (s *Server) handlePacket(sc *switchConn, ev routing.PacketEvent) error {
	key := flowKey(ev.Datapath, ev.Src, ev.Dst)
	if s.cache != nil {
		if cached, err := s.cache.Get(key); err == nil {
			msg := EffectMessage{
				Type:     EffectForward,
				Datapath: string(ev.Datapath),
				EventID:  ev.ID,
				Action:   string(cached),
				Buffered: ev.Buffered,
				Cached:   true,
			}
			if !ev.Buffered {
				msg.Payload = ev.Payload
			}
			return sc.writeJSON(msg)
		}
	}

	decision, err := s.core.OnPacketObserved(ev)
	if err != nil {
		return err
	}
	if s.cache != nil {
		if cerr := s.cache.Set(key, []byte(decision.Action)); cerr != nil {
			logrus.Warnf("Decision cache set failed for %s: %v", key, cerr)
		}
	}
	return nil
}

// handleTables dumps the federated state as JSON over plain HTTP.
func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	out := EffectMessage{
		Type:   EffectSnapshot,
		Global: exportGlobal(s.core.GlobalSnapshot()),
		Trust:  exportTrust(s.core.TrustSnapshot()),
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		logrus.Warnf("Error writing JSON response: %v", err)
	}
}

func flowKey(dpid routing.DatapathID, src, dst routing.Address) string {
	return string(dpid) + "|" + string(src) + "|" + string(dst)
}

func exportGlobal(in map[routing.Address]map[routing.Address]map[routing.Action]float64) map[string]map[string]map[string]float64 {
	out := make(map[string]map[string]map[string]float64, len(in))
	for src, dsts := range in {
		od := make(map[string]map[string]float64, len(dsts))
		for dst, actions := range dsts {
			oa := make(map[string]float64, len(actions))
			for action, value := range actions {
				oa[string(action)] = value
			}
			od[string(dst)] = oa
		}
		out[string(src)] = od
	}
	return out
}

func exportTrust(in map[routing.Address]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for addr, score := range in {
		out[string(addr)] = score
	}
	return out
}
