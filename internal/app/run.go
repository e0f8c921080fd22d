package app

import (
	"context"

	fyneapp "fyne.io/fyne/v2/app"

	"github.com/zarkzo/ich-review/ichclient"
)

const fyneAppID = "com.zarkzo.ichreview"

// Run loads configuration, wires the client and session store and starts the
// desktop UI. The backend health probe fires in the background and never
// blocks startup.
func Run() error {
	cfg := ichclient.LoadConfig()
	client := ichclient.NewClient(cfg)
	store := ichclient.NewSessionStore(cfg.SessionDir)

	a := fyneapp.NewWithID(fyneAppID)
	applyStoredTheme(a)

	u := buildUI(a, cfg, client, store)
	go u.ctrl.CheckHealth(context.Background())

	u.w.ShowAndRun()
	return nil
}
