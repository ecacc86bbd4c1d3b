package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meeting-parser-service/internal/model"
	"meeting-parser-service/internal/service/parse"
)

type ParseHandler struct {
	parseService *parse.Service
}

func NewParseHandler(parseService *parse.Service) *ParseHandler {
	return &ParseHandler{
		parseService: parseService,
	}
}

// ParseEmail handles POST /parse. Empty email_text is a normal request
// answered with the all-unclear response; only undecodable input is a 400.
func (h *ParseHandler) ParseEmail(c *gin.Context) {
	var req struct {
		EmailText string `json:"email_text"`
		Subject   string `json:"subject"`
		SentAt    string `json:"sent_at"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	email := model.RawEmail{Text: req.EmailText, Subject: req.Subject}
	if req.SentAt != "" {
		t, err := time.Parse(time.RFC3339, req.SentAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sent_at must be RFC 3339"})
			return
		}
		email.SentAt = &t
	}

	resp, err := h.parseService.Parse(c.Request.Context(), email)
	if err != nil {
		var decodeErr *parse.InputDecodingError
		if errors.As(err, &decodeErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": decodeErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to parse email"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
