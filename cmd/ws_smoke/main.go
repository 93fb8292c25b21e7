package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskmanager/internal/config"

	"github.com/gorilla/websocket"
)

// ws_smoke connects to the task event stream of a running server, creates a
// task and prints the events it sees.
func main() {
	token := flag.String("token", "", "bearer token, required when the server has JWT_SECRET set")
	flag.Parse()

	cfg := config.Load()
	base := "127.0.0.1:" + cfg.AppPort

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	wsURL := url.URL{Scheme: "ws", Host: base, Path: "/ws/tasks"}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	req, err := http.NewRequest(http.MethodPost, "http://"+base+"/tasks/", strings.NewReader(`{"title":"ws smoke"}`))
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if *token != "" {
		req.Header.Set("Authorization", "Bearer "+*token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("create task: %v", err)
	}
	res.Body.Close()
	log.Printf("create task: %s", res.Status)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		fmt.Println(string(msg))
	}

	log.Println("smoke test finished")
}
