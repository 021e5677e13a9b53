package main

import (
	"fmt"
	"log"

	socketio "github.com/googollee/go-socket.io"

	"github.com/equipo13/navauto_client/internal/app"
	"github.com/equipo13/navauto_client/internal/config"
)

func main() {
	cfg := config.GetConfig()

	socketURI := fmt.Sprintf("http://%s", cfg.ServerCfg.Server)
	client, err := socketio.NewClient(socketURI, nil)
	if err != nil {
		err = fmt.Errorf("error creating client - %w", err)
		panic(err)
	}

	app, err := app.NewApp(cfg, client)
	if err != nil {
		err = fmt.Errorf("error creating app - %w", err)
		panic(err)
	}

	err = app.RegisterHandlers()
	if err != nil {
		err = fmt.Errorf("error registering handlers - %w", err)
		panic(err)
	}

	err = app.Start()
	if err != nil {
		log.Printf("client shutdown with error: %s", err.Error())
	} else {
		log.Println("client shutdown successfully")
	}
}
