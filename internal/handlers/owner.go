package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ownerHeader carries the authenticated account id, bound upstream by the
// auth layer. The engine itself is owner-parameterized and auth-agnostic.
const ownerHeader = "X-Owner-ID"

func ownerID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetHeader(ownerHeader)
	owner, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid " + ownerHeader + " header"})
		return uuid.Nil, false
	}
	return owner, true
}
