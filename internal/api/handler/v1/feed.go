package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/campushub/campus-events-api/internal/api/handler/v1/response"
	"github.com/campushub/campus-events-api/internal/service"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// CheckInFeedHandler streams successful check-ins to the owning organizer's
// attendance view over websocket. It doubles as the CheckInPublisher the
// check-in service talks to.
type CheckInFeedHandler struct {
	eventSvc EventService
	uSvc     UserService

	mu          sync.RWMutex
	subscribers map[uint]map[*feedClient]struct{}
}

func NewCheckInFeedHandler(eventSvc EventService, uSvc UserService) *CheckInFeedHandler {
	return &CheckInFeedHandler{
		eventSvc:    eventSvc,
		uSvc:        uSvc,
		subscribers: make(map[uint]map[*feedClient]struct{}),
	}
}

// Publish fans a check-in out to every subscriber of the event. Slow
// subscribers are skipped rather than blocking the scanning operator.
func (h *CheckInFeedHandler) Publish(eventID uint, result service.CheckInResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		zap.L().Error("failed to encode check-in feed message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.subscribers[eventID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}

// HandleFeed godoc
// @Summary      Live check-in feed for one of the organizer's events
// @Tags         checkin
// @Param        eventID  path  int  true  "Event ID"
// @Success      101
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /manage/events/{eventID}/feed [get]
// @Security     BearerAuth
func (h *CheckInFeedHandler) HandleFeed(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := parseUintParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.eventSvc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleFeed -> h.eventSvc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if event.OrganizerID != user.ID {
		response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotEventOrganizer))
		return
	}

	conn, err := feedUpgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &feedClient{
		conn: conn,
		send: make(chan []byte, 16),
	}
	h.subscribe(eventID, client)

	go h.writeLoop(client)
	h.readLoop(eventID, client)
}

func (h *CheckInFeedHandler) subscribe(eventID uint, client *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[eventID] == nil {
		h.subscribers[eventID] = make(map[*feedClient]struct{})
	}
	h.subscribers[eventID][client] = struct{}{}
}

func (h *CheckInFeedHandler) unsubscribe(eventID uint, client *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.subscribers[eventID]; ok {
		if _, ok = clients[client]; ok {
			delete(clients, client)
			close(client.send)
		}
		if len(clients) == 0 {
			delete(h.subscribers, eventID)
		}
	}
}

func (h *CheckInFeedHandler) writeLoop(client *feedClient) {
	for payload := range client.send {
		if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// readLoop only watches for the client closing the connection; the feed is
// one-way.
func (h *CheckInFeedHandler) readLoop(eventID uint, client *feedClient) {
	defer func() {
		h.unsubscribe(eventID, client)
		_ = client.conn.Close()
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}
