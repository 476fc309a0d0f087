package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var usePack bool

var e2eCmd = &cobra.Command{
	Use:   "e2e",
	Short: "Play a room-code match and a random match against the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := roomCodeFlow(serverURL, usePack); err != nil {
			return err
		}
		if err := randomFlow(serverURL, usePack); err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(passBoxStyle.Render("E2E TEST PASSED"))
		return nil
	},
}

func init() {
	e2eCmd.Flags().BoolVar(&usePack, "msgpack", false, "speak MessagePack instead of JSON")
}

func roomCodeFlow(base string, pack bool) error {
	printStep("Connecting host and guest...")
	host, err := dialPlayer("host", base, pack)
	if err != nil {
		return err
	}
	defer host.Close()
	guest, err := dialPlayer("guest", base, pack)
	if err != nil {
		return err
	}
	defer guest.Close()
	printOK("connected as %s and %s", host.id, guest.id)

	printStep("Host creating a room...")
	if err := host.emit("createRoom", nil); err != nil {
		return err
	}
	data, err := host.expect("roomCreated")
	if err != nil {
		return err
	}
	code, ok := data.(string)
	if !ok || code == "" {
		return fmt.Errorf("roomCreated carried %v, want a room code", data)
	}
	printOK("room %s", code)

	printStep("Guest joining %s...", code)
	if err := guest.emit("joinRoom", code); err != nil {
		return err
	}
	for _, ev := range []string{"roomJoined", "playerJoined", "playerJoined"} {
		if _, err := guest.expect(ev); err != nil {
			return err
		}
	}
	for _, ev := range []string{"playerJoined", "playerJoined"} {
		if _, err := host.expect(ev); err != nil {
			return err
		}
	}
	printOK("both players seated")

	printStep("Host playing column 3...")
	if err := host.emit("makeMove", map[string]any{"roomId": code, "col": 3}); err != nil {
		return err
	}
	move, err := guest.expect("opponentMove")
	if err != nil {
		return err
	}
	printOK("guest saw %v", move)
	if err := host.expectNothing(300 * time.Millisecond); err != nil {
		return err
	}
	printOK("host did not receive its own move")
	return nil
}

func randomFlow(base string, pack bool) error {
	printStep("Queueing two random players...")
	a, err := dialPlayer("first", base, pack)
	if err != nil {
		return err
	}
	defer a.Close()
	b, err := dialPlayer("second", base, pack)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := a.emit("findRandomPlayer", nil); err != nil {
		return err
	}
	// Give the server a moment so queue order is deterministic.
	time.Sleep(100 * time.Millisecond)
	if err := b.emit("findRandomPlayer", nil); err != nil {
		return err
	}

	da, err := a.expect("randomPlayerFound")
	if err != nil {
		return err
	}
	db, err := b.expect("randomPlayerFound")
	if err != nil {
		return err
	}
	ma, _ := da.(map[string]any)
	mb, _ := db.(map[string]any)
	if ma == nil || mb == nil {
		return errors.New("randomPlayerFound without a payload")
	}
	if ma["roomId"] != mb["roomId"] {
		return fmt.Errorf("players matched into different rooms: %v and %v", ma["roomId"], mb["roomId"])
	}
	if ma["role"] == mb["role"] {
		return fmt.Errorf("both players got role %v", ma["role"])
	}
	printOK("matched in %v as %v and %v", ma["roomId"], ma["role"], mb["role"])
	return nil
}
