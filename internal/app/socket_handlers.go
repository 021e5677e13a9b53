package app

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
	"github.com/pion/webrtc/v3"

	"github.com/equipo13/navauto_client/internal/models"
)

func (a *App) onOffer(socketConn socketio.Conn, msgs []string) {
	if len(msgs) != 1 {
		log.Printf("offer from %s had too many msgs: %d\n", socketConn.ID(), len(msgs))
	}
	msg := msgs[0]

	offer := models.Offer{}
	err := decode(msg, &offer)
	if err != nil {
		log.Printf("offer from %s failed unmarshaling: %s\n - msg - %s", socketConn.ID(), err.Error(), msg)
		return
	}

	if offer.SeatNumber < 0 || offer.SeatNumber >= a.Cfg.ServerCfg.SeatCount {
		log.Printf("offer was for unsupported seat number: %d\n", offer.SeatNumber)
		return
	}

	peerConn, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		log.Printf("failed creating peer connection on offer for seat %d: %s\n", offer.SeatNumber, err.Error())
		return
	}

	newConnection, err := NewConnection(socketConn, a.seats[offer.SeatNumber].CommandChannel, a.seats[offer.SeatNumber].HudChannel, peerConn)
	if err != nil {
		log.Printf("failed creating connection on offer for seat %d: %s\n", offer.SeatNumber, err.Error())
		return
	}
	a.userConns[offer.SeatNumber] = newConnection

	err = a.userConns[offer.SeatNumber].RegisterHandlers()
	if err != nil {
		log.Printf("failed registering handlers for connection for seat %d: %s\n", offer.SeatNumber, err.Error())
		return
	}

	// Set the received offer as the remote description
	err = a.userConns[offer.SeatNumber].PeerConnection.SetRemoteDescription(offer.Offer)
	if err != nil {
		log.Printf("failed to set remote description: %s\n", err)
		return
	}

	// Create answer
	answer, err := a.userConns[offer.SeatNumber].PeerConnection.CreateAnswer(nil)
	if err != nil {
		log.Printf("failed to create answer: %s\n", err)
		return
	}

	// Create channel that is blocked until ICE Gathering is complete
	gatherComplete := webrtc.GatheringCompletePromise(a.userConns[offer.SeatNumber].PeerConnection)

	// Sets the LocalDescription, and starts our UDP listeners
	err = a.userConns[offer.SeatNumber].PeerConnection.SetLocalDescription(answer)
	if err != nil {
		log.Println("failed to set local description:", err)
		return
	}

	// Block until ICE Gathering is complete, disabling trickle ICE
	// we do this because we only can exchange one signaling message
	<-gatherComplete

	answerReq := models.Answer{
		Answer:     a.userConns[offer.SeatNumber].PeerConnection.LocalDescription(),
		SeatNumber: offer.SeatNumber,
	}

	encodedAnswer, err := encode(answerReq)
	if err != nil {
		log.Printf("failed encoding answer: %s", err.Error())
		return
	}
	log.Println("sending answer")
	a.client.Emit("answer", encodedAnswer)
}

func (a *App) onICECandidate(socketConn socketio.Conn, msg string) {
	decodedMsg := models.IceCandidate{}
	err := decode(msg, &decodedMsg)
	if err != nil {
		log.Printf("ice candidate from %s failed unmarshaling: %s\n", socketConn.ID(), msg)
		return
	}
}

func (a *App) onRegisterSuccess(socketConn socketio.Conn, msgs []string) {
	if len(msgs) != 1 {
		log.Printf("register from %s had too many msgs: %d\n", socketConn.ID(), len(msgs))
	}
	msg := msgs[0]

	decodedMsg := models.ConnectResp{}
	err := decode(msg, &decodedMsg)
	if err != nil {
		log.Printf("register success from %s failed unmarshaling: %s\n", socketConn.ID(), msg)
		return
	}

	a.carInfo = decodedMsg.Car
	a.worldInfo = decodedMsg.World
	log.Printf("car connected as %s(%s) @ %s(%s) with %d seats available\n", a.carInfo.Name, a.carInfo.ShortName, a.worldInfo.Name, a.worldInfo.ShortName, a.Cfg.ServerCfg.SeatCount)
}

func (a *App) onSimStep(socketConn socketio.Conn, msg string) {
	ev := models.StepEvent{}
	err := decode(msg, &ev)
	if err != nil {
		log.Printf("sim step from %s failed unmarshaling: %s\n", socketConn.ID(), err.Error())
		return
	}
	a.robot.HandleStep(ev)
}

func (a *App) onCameraFrame(socketConn socketio.Conn, msg string) {
	frame := models.CameraFrame{}
	err := decode(msg, &frame)
	if err != nil {
		log.Printf("camera frame from %s failed unmarshaling: %s\n", socketConn.ID(), err.Error())
		return
	}
	a.robot.HandleCameraFrame(frame)
}

func (a *App) onLidarScan(socketConn socketio.Conn, msg string) {
	scan := models.LidarScan{}
	err := decode(msg, &scan)
	if err != nil {
		log.Printf("lidar scan from %s failed unmarshaling: %s\n", socketConn.ID(), err.Error())
		return
	}
	a.robot.HandleLidarScan(scan)
}

func (a *App) onGPSFix(socketConn socketio.Conn, msg string) {
	fix := models.GPSFix{}
	err := decode(msg, &fix)
	if err != nil {
		log.Printf("gps fix from %s failed unmarshaling: %s\n", socketConn.ID(), err.Error())
		return
	}
	a.robot.HandleGPSFix(fix)
}

func (a *App) onDisplayInfo(socketConn socketio.Conn, msg string) {
	info := models.DisplayOp{}
	err := decode(msg, &info)
	if err != nil {
		log.Printf("display info from %s failed unmarshaling: %s\n", socketConn.ID(), err.Error())
		return
	}
	a.robot.HandleDisplayInfo(info)
}
