package main

import (
	"flag"
	"log"
	"strings"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/board"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/config"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/input"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/session"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/ui"
)

func main() {
	join := flag.String("join", "", "share link or room code to join as guest")
	flag.Parse()

	cfg := config.Load()
	store := board.NewStore()
	machine := input.NewMachine(store)

	// The media transport is an external collaborator; without one
	// the session runs data-only and skips the call.
	controller := session.NewController(cfg, store, machine, nil)

	a := ui.NewApp(cfg, machine, controller)
	switch {
	case *join != "":
		a.JoinTarget = *join
	case len(flag.Args()) > 0 && strings.HasPrefix(flag.Args()[0], session.Scheme+"://"):
		// Launched through the custom URL scheme of a share link.
		a.JoinTarget = flag.Args()[0]
	}

	log.Printf("[main] starting, data port %d", cfg.DataPort)
	a.Run()
}
