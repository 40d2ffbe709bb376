package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hoangnm/sports-booking/internal/availability"
	"github.com/hoangnm/sports-booking/internal/realtime"
	"github.com/hoangnm/sports-booking/internal/repository"
)

// upgrader accepts any origin; the public availability view carries no
// caller-specific data and the mobile clients connect from app
// webviews with no stable origin.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SocketHandler upgrades viewers onto the realtime hub. A client joins
// one court-day channel per joinCourtChannel message and from then on
// receives a courtData frame whenever a hold or booking changes that
// key.
type SocketHandler struct {
	Availability *availability.Service
	Hub          *realtime.Hub
	Logger       *zap.Logger
}

// NewSocketHandler constructs a SocketHandler.
func NewSocketHandler(svc *availability.Service, hub *realtime.Hub, logger *zap.Logger) *SocketHandler {
	if svc == nil || hub == nil {
		panic("nil dependency passed to NewSocketHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SocketHandler{Availability: svc, Hub: hub, Logger: logger}
}

// joinCourtChannelData is the payload of the joinCourtChannel event.
type joinCourtChannelData struct {
	CourtID uint64 `json:"courtId"`
	Date    string `json:"date"`
}

// Serve handles GET /ws. The read loop processes client events until
// the connection drops; the write side runs in its own pump goroutine
// because the hub must never block on a slow socket.
func (h *SocketHandler) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	client := realtime.NewClient(conn, h.Logger)
	go client.WritePump()
	defer func() {
		h.Hub.LeaveAll(client)
		client.Close()
	}()

	for {
		msg, err := client.ReadMessage()
		if err != nil {
			return nil // peer went away; nothing to report
		}
		var env realtime.Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			h.sendError(client, "malformed message")
			continue
		}
		switch env.Event {
		case "joinCourtChannel":
			h.handleJoin(c, client, env.Data)
		default:
			h.sendError(client, "unknown event")
		}
	}
}

// handleJoin subscribes the client and immediately broadcasts the
// current court-day document to the whole channel, so the joiner and
// every existing viewer render the same frame.
func (h *SocketHandler) handleJoin(c echo.Context, client *realtime.Client, data json.RawMessage) {
	var join joinCourtChannelData
	if err := json.Unmarshal(data, &join); err != nil || join.CourtID == 0 || join.Date == "" {
		h.sendError(client, "courtId and date are required")
		return
	}
	h.Hub.Join(join.CourtID, join.Date, client)

	payload, err := h.Availability.CourtDay(c.Request().Context(), join.CourtID, join.Date)
	if err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) || errors.Is(err, availability.ErrInvalidDate) {
			h.Hub.Leave(join.CourtID, join.Date, client)
			h.sendError(client, err.Error())
			return
		}
		h.Logger.Error("compose court day for join failed",
			zap.Uint64("court_id", join.CourtID), zap.String("date", join.Date), zap.Error(err))
		h.sendError(client, "availability unavailable")
		return
	}
	if err := h.Hub.Publish(join.CourtID, join.Date, availability.CourtDataEvent, payload); err != nil {
		h.Logger.Warn("publish on join failed", zap.Error(err))
	}
}

// sendError delivers an error frame to one client only.
func (h *SocketHandler) sendError(client *realtime.Client, msg string) {
	body, _ := json.Marshal(echo.Map{"message": msg})
	frame, err := json.Marshal(realtime.Envelope{Event: "error", Data: body})
	if err != nil {
		return
	}
	client.Deliver(frame)
}
