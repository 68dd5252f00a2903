package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/search/opensearch"
)

// BillSearcher runs full-text queries over the bill index.
type BillSearcher interface {
	Search(ctx context.Context, session int, query string, from, size int) (*opensearch.SearchResult, error)
}

// SearchHandler serves bill full-text search.
type SearchHandler struct {
	searcher BillSearcher
}

// NewSearchHandler builds the handler.
func NewSearchHandler(searcher BillSearcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search matches bills by title, synopsis, or sponsor name.  session=0
// searches every session.
func (h *SearchHandler) Search(c *gin.Context) {
	session := intQuery(c, "session", 0)
	from := intQuery(c, "from", 0)
	size := intQuery(c, "size", 0)

	result, err := h.searcher.Search(c.Request.Context(), session, c.Query("q"), from, size)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.Bills == nil {
		result.Bills = []opensearch.BillDoc{}
	}
	c.JSON(http.StatusOK, gin.H{
		"total": result.Total,
		"bills": result.Bills,
	})
}

//Personal.AI order the ending
