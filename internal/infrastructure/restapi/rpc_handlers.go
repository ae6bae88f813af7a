package restapi

import (
	"net/http"
	"strings"

	"defi_assistant/internal/app/port"
	"defi_assistant/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// WalletInfoRequest is the body of POST /rpc/info.
type WalletInfoRequest struct {
	Addresses []string `json:"addresses" binding:"required,min=1"`
	Chain     uint64   `json:"chain" binding:"required"`
}

// RPCHandler handles the wallet-valuation and swap-quote endpoints.
type RPCHandler struct {
	walletService port.WalletService
	swapService   port.SwapService
	logger        port.Logger
}

// NewRPCHandler creates a new instance of RPCHandler.
func NewRPCHandler(ws port.WalletService, ss port.SwapService, l port.Logger) *RPCHandler {
	return &RPCHandler{
		walletService: ws,
		swapService:   ss,
		logger:        l,
	}
}

// InfoHandler handles POST /rpc/info: it prices every requested wallet on
// the requested chain and returns one result per address in request order.
func (h *RPCHandler) InfoHandler(c *gin.Context) {
	var req WalletInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	for _, address := range req.Addresses {
		if !isHexAddress(address) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet address: " + address})
			return
		}
	}

	results := h.walletService.PriceWallets(c.Request.Context(), req.Chain, req.Addresses)
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": results})
}

// PriceHandler handles POST /rpc/price: it forwards the swap parameters to
// the exchange router and relays the quote or the upstream rejection.
func (h *RPCHandler) PriceHandler(c *gin.Context) {
	var req entity.SwapQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	quote := h.swapService.Quote(c.Request.Context(), req)
	c.JSON(quote.Status, quote)
}

// isHexAddress accepts the usual 0x-prefixed 20-byte address encoding.
func isHexAddress(address string) bool {
	if len(address) != 42 || !strings.HasPrefix(address, "0x") {
		return false
	}
	for _, r := range address[2:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
