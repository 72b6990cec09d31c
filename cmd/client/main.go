// Terminal client for manual testing: logs in over HTTP, opens the
// websocket, renders pushed events and lets the operator type raw
// commands as "<route> <json payload>" lines.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	ServerAddr string `envconfig:"SERVER_ADDR" default:"localhost:8080"`
	Email      string `envconfig:"CLIENT_EMAIL" required:"true"`
	Password   string `envconfig:"CLIENT_PASSWORD" required:"true"`
	// CLIENT_COLOURS enables colorized output for better readability
	Colours bool `envconfig:"CLIENT_COLOURS" default:"true"`
}

type ack struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type pushFrame struct {
	Timestamp int64           `json:"timestamp"`
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
}

func main() {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	token, err := login(cfg)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	fmt.Println(render(cfg, color.FgGreen, "Logged in as "+cfg.Email))

	if err := printWorkspaces(cfg, token); err != nil {
		log.Fatalf("Workspace listing failed: %v", err)
	}

	wsURL := url.URL{Scheme: "ws", Host: cfg.ServerAddr, Path: "/ws"}
	header := http.Header{"Authorization": []string{"Bearer " + token}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), header)
	if err != nil {
		log.Fatalf("WebSocket dial failed: %v", err)
	}
	defer conn.Close()
	fmt.Println(render(cfg, color.FgGreen, "Connected to "+wsURL.String()))

	go readLoop(cfg, conn)

	// stdin loop: "<route> <json payload>" per line, e.g.
	// message.create {"channel_id":"general","content":"hello"}
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		route, payload, _ := strings.Cut(line, " ")
		if payload == "" {
			payload = "{}"
		}
		frame := map[string]any{"route": route, "payload": json.RawMessage(payload)}
		if err := conn.WriteJSON(frame); err != nil {
			log.Fatalf("Write failed: %v", err)
		}
	}
}

func login(cfg Config) (string, error) {
	body, _ := json.Marshal(map[string]string{"email": cfg.Email, "password": cfg.Password})
	resp, err := http.Post("http://"+cfg.ServerAddr+"/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var a ack
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		return "", err
	}
	if !a.Success {
		return "", fmt.Errorf("%s", a.Error)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(a.Data, &data); err != nil {
		return "", err
	}
	return data.Token, nil
}

func printWorkspaces(cfg Config, token string) error {
	req, err := http.NewRequest(http.MethodGet, "http://"+cfg.ServerAddr+"/workspaces", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var a ack
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		return err
	}
	if !a.Success {
		return fmt.Errorf("%s", a.Error)
	}
	var data struct {
		WorkspaceIDs []string `json:"workspace_ids"`
	}
	if err := json.Unmarshal(a.Data, &data); err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Workspace ID"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	for i, id := range data.WorkspaceIDs {
		table.Append([]string{fmt.Sprintf("%d", i+1), id})
	}
	table.Render()
	return nil
}

func readLoop(cfg Config, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("Connection lost: %v", err)
		}

		var frame pushFrame
		if err := json.Unmarshal(data, &frame); err == nil && frame.Event != "" {
			fmt.Printf("%s %s\n", render(cfg, color.FgCyan, "["+frame.Event+"]"), string(frame.Payload))
			continue
		}

		var a ack
		if err := json.Unmarshal(data, &a); err != nil {
			fmt.Println(string(data))
			continue
		}
		if a.Success {
			fmt.Printf("%s %s\n", render(cfg, color.FgGreen, "OK"), string(a.Data))
		} else {
			fmt.Printf("%s %s\n", render(cfg, color.FgRed, "FAIL"), a.Error)
		}
	}
}

func render(cfg Config, fg color.Color, s string) string {
	if !cfg.Colours {
		return s
	}
	return fg.Render(s)
}
