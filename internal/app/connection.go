package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	socketio "github.com/googollee/go-socket.io"
	"github.com/pion/webrtc/v3"

	"github.com/equipo13/navauto_client/internal/models"
)

type CommandHandler func(models.ControlState)

type Connection struct {
	Socket         socketio.Conn
	PeerConnection *webrtc.PeerConnection
	Ctx            context.Context
	CtxCancel      context.CancelFunc
	CommandChannel chan models.ControlState
	HudChannel     chan models.Hud

	HudOutput  *webrtc.DataChannel
	PingOutput *webrtc.DataChannel
	PingInput  chan int64
}

func NewConnection(socketConn socketio.Conn, commandChan chan models.ControlState, hudChan chan models.Hud, peerConn *webrtc.PeerConnection) (*Connection, error) {
	log.Printf("creating user connection %s\n", socketConn.ID())
	ctx, cancel := context.WithCancel(context.Background())
	conn := &Connection{
		Socket:         socketConn,
		PeerConnection: peerConn,
		Ctx:            ctx,
		CtxCancel:      cancel,
		CommandChannel: commandChan,
		HudChannel:     hudChan,
		PingInput:      make(chan int64, 10),
	}
	return conn, nil
}

func (c *Connection) Disconnect() {
	log.Println("user disconnecting")
	c.CtxCancel()
	c.PeerConnection.Close()
}

func (c *Connection) RegisterHandlers() error {
	log.Println("start event listeners")
	// Set the handler for ICE connection state
	// This will notify you when the peer has connected/disconnected
	c.PeerConnection.OnICEConnectionStateChange(c.onICEConnectionStateChange)

	// Handle ICE candidate messages from the client
	c.PeerConnection.OnICECandidate(c.onICECandidate)

	c.PeerConnection.OnDataChannel(c.onDataChannel)

	go c.startUpdater()
	return nil
}

func (c *Connection) startUpdater() {
	pingTicker := time.NewTicker(1 * time.Second)
	hudTicker := time.NewTicker(33 * time.Millisecond) //30hz
	sent := true
	hudToSend := models.Hud{}
	lastPing := int64(0)
	for {
		select {
		case <-c.Ctx.Done():
			log.Printf("stopping user updater: %s\n", c.Ctx.Err().Error())
			return
		case hud, ok := <-c.HudChannel:
			if !ok {
				log.Println("hud channel closed")
				return
			}
			if c.HudOutput != nil {
				hudToSend = hud
				sent = false
			}
		case <-pingTicker.C:
			if c.PingOutput != nil {
				data, err := json.Marshal(models.Ping{
					TimeStamp: time.Now().UnixMilli(),
					Source:    PingSourceName,
				})
				if err != nil {
					continue
				}
				err = c.PingOutput.Send(data)
				if err != nil {
					log.Printf("error: failed sending ping: error - %s\n", err.Error())
					continue
				}
			}
		case receivedPing, ok := <-c.PingInput:
			if !ok {
				log.Println("ping channel closed")
				return
			}
			lastPing = receivedPing
		case <-hudTicker.C:
			if !sent && c.HudOutput != nil {
				if len(hudToSend.Lines) > 0 {
					hudToSend.Lines[0] = fmt.Sprintf("%s | Ping:%dms", hudToSend.Lines[0], lastPing)
				}
				encodedMsg, err := encode(hudToSend)
				if err != nil {
					continue
				}
				sent = true
				err = c.HudOutput.SendText(encodedMsg)
				if err != nil {
					log.Printf("error: failed sending hud: error - %s\n", err.Error())
					continue
				}
			}
		}
	}
}
