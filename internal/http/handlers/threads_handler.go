// Conversation HTTP handlers.
//
// Endpoints (all require a bearer token):
//   - POST /ads/{id}/threads           (start or reuse a thread with the ad owner)
//   - GET  /ads/{id}/threads           (owner overview of an ad's threads)
//   - GET  /threads                    (caller's threads, paginated)
//   - GET  /threads/unread             (unread totals)
//   - GET  /threads/{id}/messages      (mark read, then list; ETag support)
//   - POST /threads/{id}/messages      (send; Idempotency-Key support)
//   - POST /threads/{id}/read          (mark read)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/friend-app/internal/domain"
	"github.com/tbourn/friend-app/internal/http/middleware"
	"github.com/tbourn/friend-app/internal/services"
	"github.com/tbourn/friend-app/internal/utils"
)

// HeaderIdempotentReplay marks a response served from a stored result.
const HeaderIdempotentReplay = "Idempotent-Replay"

//
// DTOs
//

// SendMessageRequest is the JSON payload for posting into a thread.
type SendMessageRequest struct {
	Content string `json:"content" example:"Hi! Is Thursday evening good for you?"`
}

// ListThreadsResponse is one page of the caller's inbox.
type ListThreadsResponse struct {
	Threads    []domain.ThreadSummary `json:"threads"`
	Pagination utils.Page             `json:"pagination"`
}

// ThreadMessagesResponse lists a thread's messages oldest first.
type ThreadMessagesResponse struct {
	ThreadID string               `json:"thread_id"`
	Messages []domain.MessageView `json:"messages"`
}

// AdThreadsResponse lists the threads of one ad for its owner.
type AdThreadsResponse struct {
	AdID    string                  `json:"ad_id"`
	Threads []domain.ThreadOverview `json:"threads"`
}

// MarkReadResponse reports how many messages changed to read.
type MarkReadResponse struct {
	Marked int64 `json:"marked"`
}

//
// Handlers
//

// StartThread godoc
// @ID          startThread
// @Summary     Start a conversation about an ad
// @Description Returns the caller's thread with the ad owner, creating it on first contact. Owners cannot message themselves.
// @Tags        Threads
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      string  true  "Ad ID (UUID)"  format(uuid)
// @Success     200  {object}  domain.Thread
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     403  {object}  handlers.ErrorResponse  "Caller owns the ad"
// @Failure     404  {object}  handlers.ErrorResponse  "Ad not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ads/{id}/threads [post]
func (h *Handlers) StartThread(c *gin.Context) {
	th, err := h.threads.Start(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, th)
}

// AdThreads godoc
// @ID          adThreads
// @Summary     Threads of an ad
// @Description Lists every conversation about the ad with both participants. Only the owner may call it.
// @Tags        Threads
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      string  true  "Ad ID (UUID)"  format(uuid)
// @Success     200  {object}  handlers.AdThreadsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     403  {object}  handlers.ErrorResponse  "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse  "Ad not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ads/{id}/threads [get]
func (h *Handlers) AdThreads(c *gin.Context) {
	ctx := c.Request.Context()
	adID := c.Param("id")

	ad, err := h.ads.Get(ctx, adID)
	if err != nil {
		failErr(c, err)
		return
	}
	if ad.UserID != callerID(c) {
		failErr(c, services.ErrForbidden)
		return
	}
	list, err := h.threads.ThreadsForAd(ctx, adID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, AdThreadsResponse{AdID: adID, Threads: list})
}

// ListThreads godoc
// @ID          listThreads
// @Summary     My threads
// @Description Lists the caller's threads newest first, with partner name, ad title and unread count.
// @Tags        Threads
// @Produce     json
// @Security    BearerAuth
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListThreadsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /threads [get]
func (h *Handlers) ListThreads(c *gin.Context) {
	page, size := pageParams(c)
	all, err := h.threads.ListForUser(c.Request.Context(), callerID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	items, meta := utils.Paginate(all, page, size)
	ok(c, http.StatusOK, ListThreadsResponse{Threads: items, Pagination: meta})
}

// UnreadSummary godoc
// @ID          unreadSummary
// @Summary     Unread message totals
// @Description Returns the number of unread messages addressed to the caller, overall and per thread.
// @Tags        Threads
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  services.UnreadSummary
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /threads/unread [get]
func (h *Handlers) UnreadSummary(c *gin.Context) {
	sum, err := h.threads.UnreadSummary(c.Request.Context(), callerID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, sum)
}

// ListMessages godoc
// @ID          listThreadMessages
// @Summary     Read a thread
// @Description Marks the partner's messages as read, then returns all messages oldest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Threads
// @Produce     json
// @Security    BearerAuth
// @Param       id             path    string  true   "Thread ID (UUID)"  format(uuid)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200  {object}  handlers.ThreadMessagesResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse  "Thread not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /threads/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	threadID := c.Param("id")
	uid := callerID(c)

	// MarkRead doubles as the participant check.
	if _, err := h.threads.MarkRead(ctx, threadID, uid); err != nil {
		failErr(c, err)
		return
	}

	if count, read, last, err := h.threads.MessagesStats(ctx, threadID); err == nil {
		if notModified(c, weakETag("thread", threadID, count, read, unixOrZero(last))) {
			return
		}
	}

	msgs, err := h.threads.ListMessages(ctx, threadID, uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ThreadMessagesResponse{ThreadID: threadID, Messages: msgs})
}

// SendMessage godoc
// @ID          sendThreadMessage
// @Summary     Send a message
// @Description Appends a message to a thread the caller participates in. With an Idempotency-Key, a retry returns the stored message with 200 and Idempotent-Replay: true.
// @Tags        Threads
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id               path    string                       true   "Thread ID (UUID)"  format(uuid)
// @Param       Idempotency-Key  header  string                       false  "Deduplicates retries"  example(7b0c1f4e-send-1)
// @Param       body             body    handlers.SendMessageRequest  true   "Message"
// @Success     201  {object}  domain.ThreadMessage
// @Success     200  {object}  domain.ThreadMessage  "Replayed"
// @Failure     400  {object}  handlers.ErrorResponse  "Empty or too long"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse  "Thread not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /threads/{id}/messages [post]
func (h *Handlers) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	key, _ := middleware.GetIdempotencyKey(c)

	msg, replayed, err := h.threads.SendOnce(c.Request.Context(), c.Param("id"), callerID(c), req.Content, key)
	if err != nil {
		failErr(c, err)
		return
	}
	if replayed {
		c.Header(HeaderIdempotentReplay, "true")
		ok(c, http.StatusOK, msg)
		return
	}
	ok(c, http.StatusCreated, msg)
}

// MarkRead godoc
// @ID          markThreadRead
// @Summary     Mark a thread read
// @Description Marks every message from the other participant as read. Idempotent.
// @Tags        Threads
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      string  true  "Thread ID (UUID)"  format(uuid)
// @Success     200  {object}  handlers.MarkReadResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse  "Thread not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /threads/{id}/read [post]
func (h *Handlers) MarkRead(c *gin.Context) {
	n, err := h.threads.MarkRead(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, MarkReadResponse{Marked: n})
}
