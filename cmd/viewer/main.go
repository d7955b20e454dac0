package main

import (
	"flag"

	act "seischart/actor"
	"seischart/actor/consumer/wsfeed"
	"seischart/app"
	"seischart/config"
	"seischart/ingest"

	"github.com/anthdm/hollywood/actor"
	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "seischart.yaml", "path to the viewer config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	cfg.SetupLogging()

	engine, err := actor.NewEngine(actor.NewEngineConfig())
	if err != nil {
		log.Fatal(err)
	}

	engine.Spawn(wsfeed.New(ingest.FeedOptions(cfg)), act.FeedKind, actor.WithID(act.FeedID))

	w, h := ebiten.Monitor().Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("seischart")
	ebiten.SetWindowPosition(0, 0)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	viewer := app.New(engine, cfg)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
