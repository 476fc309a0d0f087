package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

type relayStats struct {
	Rooms       int `json:"rooms"`
	Players     int `json:"players"`
	Waiting     int `json:"waiting"`
	Connections int `json:"connections"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show live room, player and queue counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint, err := statsURL(serverURL)
		if err != nil {
			return err
		}
		stats, err := fetchStats(endpoint)
		if err != nil {
			return err
		}
		fmt.Println(statsTable([][]string{
			{"Rooms", strconv.Itoa(stats.Rooms)},
			{"Seated players", strconv.Itoa(stats.Players)},
			{"Waiting", strconv.Itoa(stats.Waiting)},
			{"Connections", strconv.Itoa(stats.Connections)},
		}))
		fmt.Println(mutedStyle.Render(endpoint))
		return nil
	},
}

// statsURL maps ws://host/ws to http://host/stats.
func statsURL(wsURL string) (string, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return "", fmt.Errorf("parse server URL: %w", err)
	}
	switch u.Scheme {
	case "wss":
		u.Scheme = "https"
	case "ws", "":
		u.Scheme = "http"
	}
	u.Path = "/stats"
	u.RawQuery = ""
	return u.String(), nil
}

func fetchStats(endpoint string) (*relayStats, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch stats: %s", resp.Status)
	}
	var stats relayStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return &stats, nil
}
