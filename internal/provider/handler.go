package provider

import (
	"encoding/hex"
	"errors"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-compute-settlement/internal/commitment"
	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
	"github.com/0gfoundation/0g-compute-settlement/internal/ledger"
)

// Handler is the request intake endpoint. Fees arrive as wei strings; the
// billed amounts are already fixed by the time a request reaches settlement.
type Handler struct {
	e   *Engine
	log *zap.Logger
}

func NewHandler(e *Engine, log *zap.Logger) *Handler {
	return &Handler{e: e, log: log}
}

// Register mounts the intake route on rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/request", h.handleAccept)
}

type requestBody struct {
	Service   string `json:"service" binding:"required"`
	Nonce     uint64 `json:"nonce" binding:"required"`
	ReqFee    string `json:"req_fee" binding:"required"`
	ResFee    string `json:"res_fee" binding:"required"`
	User      string `json:"user" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

func (h *Handler) handleAccept(c *gin.Context) {
	var body requestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	reqFee, okReq := new(big.Int).SetString(body.ReqFee, 10)
	resFee, okRes := new(big.Int).SetString(body.ResFee, 10)
	if !okReq || !okRes || reqFee.Sign() < 0 || resFee.Sign() < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fee"})
		return
	}
	sig, err := hex.DecodeString(strings.TrimPrefix(body.Signature, "0x"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature hex"})
		return
	}

	sr := SignedRequest{
		Kind: ledger.ServiceKind(body.Service),
		Request: commitment.RequestRecord{
			Nonce:    body.Nonce,
			ReqFee:   reqFee,
			ResFee:   resFee,
			User:     common.HexToAddress(body.User),
			Provider: h.e.provider,
		},
		Signature: sig,
	}

	switch err := h.e.Accept(c.Request.Context(), sr); {
	case err == nil:
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
	case errors.Is(err, errs.ErrDoubleSpend):
		c.JSON(http.StatusConflict, gin.H{"error": "nonce already used"})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no ledger for user"})
	default:
		h.log.Warn("request rejected", zap.String("user", body.User), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "request rejected"})
	}
}
