package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/po-composer/internal/presentation/http/dto/request"
	"github.com/sangkips/po-composer/internal/presentation/http/dto/response"
)

// DraftHandler handles draft editing requests for the current session
type DraftHandler struct{}

// NewDraftHandler creates a new draft handler
func NewDraftHandler() *DraftHandler {
	return &DraftHandler{}
}

// Get returns the draft with its totals
func (h *DraftHandler) Get(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	response.OK(c, "Draft retrieved", response.NewDraftResponse(session.View()))
}

// UpdateHeader merges header field updates
func (h *DraftHandler) UpdateHeader(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var req request.UpdateHeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	session.SetHeader(req.ToPatch())
	response.OK(c, "Draft updated", response.NewDraftResponse(session.View()))
}

// AddItem appends a blank line item
func (h *DraftHandler) AddItem(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	position := session.AddLineItem()
	response.Created(c, "Line item added", response.ItemAddedResponse{
		Index:         position - 1,
		Position:      position,
		DraftResponse: response.NewDraftResponse(session.View()),
	})
}

// UpdateItem merges updates into a line item
func (h *DraftHandler) UpdateItem(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	index, ok := itemIndex(c)
	if !ok {
		return
	}

	var req request.UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := session.UpdateLineItem(index, req.ToPatch()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line item updated", response.NewDraftResponse(session.View()))
}

// RemoveItem removes a line item. An unknown index leaves the draft as is.
func (h *DraftHandler) RemoveItem(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	index, ok := itemIndex(c)
	if !ok {
		return
	}

	message := "Line item removed"
	if !session.RemoveLineItem(index) {
		message = "No line item at that index"
	}
	response.OK(c, message, response.NewDraftResponse(session.View()))
}

// ApplyProduct fills a line item from a catalog product
func (h *DraftHandler) ApplyProduct(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	index, ok := itemIndex(c)
	if !ok {
		return
	}

	var req request.ApplyProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := session.ApplyProduct(c.Request.Context(), index, req.ID()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product applied", response.NewDraftResponse(session.View()))
}

// AcceptRestore replaces the draft with the saved one
func (h *DraftHandler) AcceptRestore(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	if err := session.AcceptRestore(); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Saved draft restored", response.NewDraftResponse(session.View()))
}

// DiscardRestore deletes the saved draft
func (h *DraftHandler) DiscardRestore(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	if err := session.DiscardRestore(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Saved draft discarded", response.NewDraftResponse(session.View()))
}

// Clear resets the draft and deletes the saved copy
func (h *DraftHandler) Clear(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	session.Clear(c.Request.Context())
	response.OK(c, "Draft cleared", response.NewDraftResponse(session.View()))
}

// Submit sends the draft to the backend as an order
func (h *DraftHandler) Submit(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	order, err := session.Submit(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order created", response.SubmitResponse{
		Order:         order,
		DraftResponse: response.NewDraftResponse(session.View()),
	})
}
