package delegate

import (
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
)

// Handler exposes the delegation rendezvous over HTTP for out-of-process
// signers: register, discover, fulfill, and long-poll wait.
type Handler struct {
	d   *Delegate
	log *zap.Logger
}

func NewHandler(d *Delegate, log *zap.Logger) *Handler {
	return &Handler{d: d, log: log}
}

// Register mounts the gateway routes on rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/signature/request", h.handleCreate)
	rg.GET("/signature/pending", h.handlePending)
	rg.POST("/signature/fulfill/:id", h.handleFulfill)
	rg.GET("/signature/wait/:id", h.handleWait)
}

type createBody struct {
	OperationID string `json:"operation_id"`
	Address     string `json:"address" binding:"required"`
	Operation   struct {
		Kind    string `json:"kind" binding:"required"`
		Payload string `json:"payload"`
	} `json:"operation" binding:"required"`
}

func (h *Handler) handleCreate(c *gin.Context) {
	var body createBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	kind := Kind(body.Operation.Kind)
	if kind != KindSignMessage && kind != KindSignTransaction {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown operation kind"})
		return
	}
	payload, err := hex.DecodeString(strings.TrimPrefix(body.Operation.Payload, "0x"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload hex"})
		return
	}

	req, err := h.d.CreateRequest(body.OperationID, common.HexToAddress(body.Address), Operation{Kind: kind, Payload: payload})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "operation id already registered"})
		return
	}
	h.log.Info("signature request registered",
		zap.String("operation", req.OperationID),
		zap.String("requester", req.Requester.Hex()),
		zap.String("kind", string(kind)),
	)
	c.JSON(http.StatusAccepted, gin.H{"operation_id": req.OperationID})
}

func (h *Handler) handlePending(c *gin.Context) {
	addr := common.HexToAddress(c.Query("address"))
	reqs := h.d.Pending(addr)
	out := make([]gin.H, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, gin.H{
			"operation_id": r.OperationID,
			"requester":    r.Requester.Hex(),
			"kind":         string(r.Op.Kind),
			"payload":      "0x" + hex.EncodeToString(r.Op.Payload),
			"created_at":   r.CreatedAt.Unix(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"requests": out})
}

type fulfillBody struct {
	Signature string `json:"signature"`
	Rejected  bool   `json:"rejected"`
}

func (h *Handler) handleFulfill(c *gin.Context) {
	id := c.Param("id")
	var body fulfillBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var err error
	if body.Rejected {
		err = h.d.Reject(id)
	} else {
		var sig []byte
		sig, err = hex.DecodeString(strings.TrimPrefix(body.Signature, "0x"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature hex"})
			return
		}
		err = h.d.Fulfill(id, sig)
	}

	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown operation"})
	case errors.Is(err, errs.ErrAlreadyFulfilled):
		c.JSON(http.StatusConflict, gin.H{"error": "operation already fulfilled"})
	default:
		h.log.Error("fulfill failed", zap.String("operation", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// handleWait long-polls for the signature. The poll window is the delegate's
// configured timeout, so a gateway client sees exactly the orchestrator's view.
func (h *Handler) handleWait(c *gin.Context) {
	id := c.Param("id")
	sig, err := h.d.WaitForSignature(c.Request.Context(), id, 0)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "signature": "0x" + hex.EncodeToString(sig)})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown operation"})
	case errors.Is(err, errs.ErrSignatureTimeout):
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "timeout"})
	case errors.Is(err, errs.ErrUserRejectedSignature):
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "rejected"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
