package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Neakz-star/La-Desesperanza/internal/apierror"
	"github.com/Neakz-star/La-Desesperanza/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// UbicacionesHandler streams presence events over SSE and accepts coordinate
// reports. A client opens the stream, receives its ephemeral id in the
// "connected" event, and posts coordinates tagged with that id; everyone
// else on the stream hears "userNewCoordinates".
type UbicacionesHandler struct{ hub *realtime.Hub }

func NewUbicacionesHandler(hub *realtime.Hub) *UbicacionesHandler {
	return &UbicacionesHandler{hub: hub}
}

// Stream is the SSE endpoint. The connection stays open until the client
// goes away; teardown broadcasts "userDisconnected" with the ephemeral id.
func (h *UbicacionesHandler) Stream(c *gin.Context) {
	id, events := h.hub.Register()
	defer h.hub.Unregister(id)

	log.Debug().Str("conn_id", id).Msg("presence stream opened")

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.SSEvent(realtime.EventConnected, gin.H{"id": id})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(ev.Event, ev.Payload)
			return true
		}
	})
}

// coordenadasRequest mirrors the "userCoordinates" message: the sender's
// ephemeral id plus an opaque coordinates payload.
type coordenadasRequest struct {
	ID     string          `json:"id"`
	Coords json.RawMessage `json:"coords"`
}

// Coordenadas relays a coordinate report to every other connected client.
func (h *UbicacionesHandler) Coordenadas(c *gin.Context) {
	var req coordenadasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return
	}
	if req.ID == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el id de conexión"))
		return
	}

	var coords interface{}
	if len(req.Coords) > 0 {
		_ = json.Unmarshal(req.Coords, &coords)
	}
	h.hub.BroadcastExcept(req.ID, realtime.EventNewCoordinates, gin.H{
		"id":     req.ID,
		"coords": coords,
	})
	c.JSON(http.StatusOK, gin.H{"mensaje": "Coordenadas enviadas"})
}
