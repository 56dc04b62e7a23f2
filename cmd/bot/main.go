package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"colonysim.ai/internal/observerproto"
	"colonysim.ai/internal/protocol"
)

func main() {
	var (
		server = flag.String("server", "http://localhost:8080", "server base url")
		every  = flag.Int("every", 90, "ticks between placement attempts")
		seed   = flag.Int64("seed", 0, "rng seed (default: time based)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)

	boot, err := fetchBootstrap(*server)
	if err != nil {
		logger.Fatalf("bootstrap: %v", err)
	}
	logger.Printf("run=%s grid=%d buildings=%d", boot.RunID, boot.WorldParams.GridSize, len(boot.Buildings))

	wsURL, err := observeURL(*server)
	if err != nil {
		logger.Fatalf("url: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	sub := observerproto.SubscribeMsg{
		Type:            observerproto.TypeSubscribe,
		ProtocolVersion: observerproto.Version,
		IncludeGrid:     true,
	}
	if err := conn.WriteJSON(sub); err != nil {
		logger.Fatalf("send SUBSCRIBE: %v", err)
	}

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	p := newPlanner(boot, rand.New(rand.NewSource(s)))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	var lastTry uint64
	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case observerproto.TypeGrid:
			var g observerproto.GridMsg
			if err := json.Unmarshal(msg, &g); err != nil {
				continue
			}
			if err := p.updateGrid(g); err != nil {
				logger.Printf("grid: %v", err)
			}

		case observerproto.TypeState:
			var st observerproto.StateMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				continue
			}
			if st.Tick-lastTry < uint64(*every) {
				continue
			}
			lastTry = st.Tick
			logger.Printf("tick=%d phase=%s buildings=%d ledger=%v", st.Tick, st.Phase, len(st.Buildings), st.Ledger)
			if cmd, ok := p.next(st.Tick); ok {
				_ = conn.WriteJSON(cmd)
			}

		case protocol.TypeCmdResult:
			var r protocol.CommandResult
			if err := json.Unmarshal(msg, &r); err != nil {
				continue
			}
			logger.Printf("CMD_RESULT cmd=%s ok=%v code=%s building=%s worker=%s", r.CmdID, r.OK, r.Code, r.BuildingID, r.WorkerID)

		case protocol.TypeError:
			var e protocol.ErrorMsg
			if err := json.Unmarshal(msg, &e); err != nil {
				continue
			}
			logger.Printf("ERROR %s: %s", e.Code, e.Message)
		}
	}
}

func fetchBootstrap(server string) (observerproto.BootstrapResponse, error) {
	var boot observerproto.BootstrapResponse
	c := http.Client{Timeout: 5 * time.Second}
	resp, err := c.Get(server + "/v1/bootstrap")
	if err != nil {
		return boot, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return boot, fmt.Errorf("status %s", resp.Status)
	}
	err = json.NewDecoder(resp.Body).Decode(&boot)
	return boot, err
}

func observeURL(server string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/v1/observe"
	return u.String(), nil
}
