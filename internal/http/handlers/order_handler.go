// README: Order progress handlers for current/jump/advance.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yksu0/GoTawee/internal/modules/order"
)

type OrderHandler struct {
	orders *order.Tracker
}

func NewOrderHandler(orders *order.Tracker) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Current(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.orders.Snapshot())
}

// jumpReq takes either a step index or a step key.
type jumpReq struct {
	Index *int   `json:"index"`
	Step  string `json:"step"`
}

func (h *OrderHandler) Jump(c *gin.Context) {
	var req jumpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	var step order.Step
	switch {
	case req.Index != nil:
		step = order.Step(*req.Index)
	case req.Step != "":
		s, err := order.ParseStep(req.Step)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		step = s
	default:
		writeError(c, http.StatusBadRequest, "index or step required")
		return
	}

	snap, err := h.orders.Jump(step)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

func (h *OrderHandler) Advance(c *gin.Context) {
	snap, err := h.orders.Advance()
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}
