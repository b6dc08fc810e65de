package net

import (
	"context"
	"fmt"
	"log"

	"github.com/gorilla/websocket"

	"flipbook/internal/state"
)

// Follow connects to a host's feed and calls apply with each snapshot, in
// order, until ctx is cancelled or the host goes away. Snapshots that fail
// to decode are skipped.
func Follow(ctx context.Context, feedURL string, apply func(*state.Document)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, feedURL, nil)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", feedURL, err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	log.Printf("[SHARE] following %s", feedURL)
	var last uint64
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("feed from %s: %w", feedURL, err)
		}
		if env.Type != snapshotType || env.Seq <= last {
			continue
		}
		doc, err := state.Decode(env.Document)
		if err != nil {
			log.Printf("[SHARE] skipping snapshot %d from %s: %v", env.Seq, env.Host, err)
			continue
		}
		last = env.Seq
		apply(doc)
	}
}
