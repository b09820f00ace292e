package broker

import (
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-compute-settlement/internal/commitment"
	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
	"github.com/0gfoundation/0g-compute-settlement/internal/ledger"
)

// Handler exposes the broker's ledger operations over HTTP. Amounts cross the
// wire as decimal token strings; conversion to wei happens here.
type Handler struct {
	b   *Broker
	log *zap.Logger
}

func NewHandler(b *Broker, log *zap.Logger) *Handler {
	return &Handler{b: b, log: log}
}

// Register mounts the ledger routes on rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/ledger", h.handleAdd)
	rg.GET("/ledger", h.handleGet)
	rg.DELETE("/ledger", h.handleDelete)
	rg.GET("/ledger/detail", h.handleDetail)
	rg.GET("/ledgers", h.handleList)
	rg.POST("/ledger/deposit", h.handleDeposit)
	rg.POST("/ledger/transfer", h.handleTransfer)
	rg.POST("/ledger/retrieve", h.handleRetrieve)
	rg.POST("/ledger/refunds/process", h.handleProcessRefunds)
	rg.POST("/request/sign", h.handleSignRequest)
}

type amountBody struct {
	Amount string `json:"amount" binding:"required"`
}

func (h *Handler) handleAdd(c *gin.Context) {
	var body amountBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	amount, err := ParseAmount(body.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}
	if err := h.b.AddLedger(c.Request.Context(), amount); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"owner": h.b.Owner().Hex()})
}

func (h *Handler) handleDeposit(c *gin.Context) {
	var body amountBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	amount, err := ParseAmount(body.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}
	if err := h.b.DepositFund(c.Request.Context(), amount); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type transferBody struct {
	Provider string `json:"provider" binding:"required"`
	Service  string `json:"service" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
}

func (h *Handler) handleTransfer(c *gin.Context) {
	var body transferBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	amount, err := ParseAmount(body.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}
	kind := ledger.ServiceKind(body.Service)
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown service"})
		return
	}
	if err := h.b.TransferFund(c.Request.Context(), common.HexToAddress(body.Provider), kind, amount); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type retrieveBody struct {
	Providers []string `json:"providers" binding:"required"`
	Service   string   `json:"service" binding:"required"`
}

func (h *Handler) handleRetrieve(c *gin.Context) {
	var body retrieveBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	kind := ledger.ServiceKind(body.Service)
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown service"})
		return
	}
	providers := make([]common.Address, len(body.Providers))
	for i, p := range body.Providers {
		providers[i] = common.HexToAddress(p)
	}
	if err := h.b.RetrieveFund(c.Request.Context(), providers, kind); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) handleProcessRefunds(c *gin.Context) {
	if err := h.b.ProcessRefunds(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) handleDelete(c *gin.Context) {
	if err := h.b.DeleteLedger(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) handleGet(c *gin.Context) {
	l, err := h.b.GetLedger(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ledgerView(l))
}

func (h *Handler) handleList(c *gin.Context) {
	ls, err := h.b.ListLedgers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]gin.H, 0, len(ls))
	for _, l := range ls {
		out = append(out, ledgerView(l))
	}
	c.JSON(http.StatusOK, gin.H{"ledgers": out})
}

func (h *Handler) handleDetail(c *gin.Context) {
	kind := ledger.ServiceKind(c.DefaultQuery("service", string(ledger.ServiceInference)))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown service"})
		return
	}
	l, subs, err := h.b.GetLedgerWithDetail(c.Request.Context(), kind)
	if err != nil {
		h.fail(c, err)
		return
	}
	accounts := make([]gin.H, 0, len(subs))
	for _, sub := range subs {
		accounts = append(accounts, gin.H{
			"provider":       sub.Provider.Hex(),
			"balance":        FormatAmount(sub.Balance),
			"pending_refund": FormatAmount(sub.PendingRefund),
		})
	}
	view := ledgerView(l)
	view["service"] = string(kind)
	view["accounts"] = accounts
	c.JSON(http.StatusOK, view)
}

type signBody struct {
	Nonce    uint64 `json:"nonce" binding:"required"`
	ReqFee   string `json:"req_fee" binding:"required"`
	ResFee   string `json:"res_fee" binding:"required"`
	Provider string `json:"provider" binding:"required"`
}

func (h *Handler) handleSignRequest(c *gin.Context) {
	var body signBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	reqFee, err := ParseAmount(body.ReqFee)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid req_fee"})
		return
	}
	resFee, err := ParseAmount(body.ResFee)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid res_fee"})
		return
	}
	rec := commitment.RequestRecord{
		Nonce:    body.Nonce,
		ReqFee:   reqFee,
		ResFee:   resFee,
		User:     h.b.Owner(),
		Provider: common.HexToAddress(body.Provider),
	}
	sig, err := h.b.SignRequest(c.Request.Context(), rec)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signature": "0x" + hex.EncodeToString(sig)})
}

func ledgerView(l *ledger.Ledger) gin.H {
	return gin.H{
		"owner":             l.Owner.Hex(),
		"total_balance":     FormatAmount(l.TotalBalance),
		"available_balance": FormatAmount(l.AvailableBalance),
	}
}

// fail maps taxonomy errors to HTTP statuses. Unrecognized errors are logged
// and returned as 500 without leaking detail.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "ledger not found"})
	case errors.Is(err, errs.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "ledger already exists"})
	case errors.Is(err, errs.ErrInsufficientBalance):
		c.JSON(http.StatusConflict, gin.H{"error": "insufficient balance"})
	case errors.Is(err, errs.ErrHasActiveSubAccounts):
		c.JSON(http.StatusConflict, gin.H{"error": "ledger has active sub-accounts"})
	case errors.Is(err, errs.ErrSignatureTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "wallet signature timed out"})
	case errors.Is(err, errs.ErrUserRejectedSignature):
		c.JSON(http.StatusConflict, gin.H{"error": "wallet signature rejected"})
	case errors.Is(err, errs.ErrUnrecoverableKey):
		c.JSON(http.StatusConflict, gin.H{"error": "settlement key unrecoverable"})
	case errors.Is(err, errs.ErrNetworkUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "chain unavailable"})
	default:
		h.log.Error("ledger operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
